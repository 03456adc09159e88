package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
)

// ExportService muhasebe için ödeme dökümlerini üretir.
type ExportService struct {
	pledgeRepo  *repository.PledgeRepository
	paymentRepo *repository.PaymentRepository
	catalogRepo *repository.CatalogRepository
}

func NewExportService(
	pledgeRepo *repository.PledgeRepository,
	paymentRepo *repository.PaymentRepository,
	catalogRepo *repository.CatalogRepository,
) *ExportService {
	return &ExportService{
		pledgeRepo:  pledgeRepo,
		paymentRepo: paymentRepo,
		catalogRepo: catalogRepo,
	}
}

// PaymentsCSV ödemeleri pledge/kullanıcı/opsiyon kolonlarıyla noktalı
// virgül ayraçlı CSV olarak döker. paymentIDs boşsa bütün ödemeler dahildir.
func (s *ExportService) PaymentsCSV(paymentIDs []uint) (string, error) {
	rows, err := s.paymentRepo.GetExportRows(paymentIDs)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}

	pledgeIDs := make([]uint, 0, len(rows))
	for _, r := range rows {
		pledgeIDs = append(pledgeIDs, r.PledgeID)
	}
	options, err := s.pledgeRepo.GetOptionsByPledgeIDs(pledgeIDs)
	if err != nil {
		return "", err
	}

	templates, err := s.catalogRepo.GetAllPackageOptions()
	if err != nil {
		return "", err
	}
	rewards, err := s.catalogRepo.GetAllRewards()
	if err != nil {
		return "", err
	}

	return buildPaymentsCSV(rows, options, templates, rewards)
}

// optionAggregate bir ödül kolonunun adet ve tutar toplamı.
type optionAggregate struct {
	count int
	total int
}

// buildPaymentsCSV satırları ödül bazında toplayarak CSV metnine çevirir.
// Ödülsüz opsiyonlar DONATION kolonunda toplanır. İndirimli üyelik ancak
// pledge.donation < 0 ise ayırt edilebilir; o pledge'deki tek üründür.
func buildPaymentsCSV(
	rows []models.PaymentExportRow,
	options []models.PledgeOption,
	templates []models.PackageOption,
	rewards []models.Reward,
) (string, error) {
	rewardNameByTemplate := make(map[uint]string, len(templates))
	rewardByID := make(map[uint]string, len(rewards))
	for _, r := range rewards {
		rewardByID[r.ID] = r.Name
	}
	for _, tpl := range templates {
		if tpl.RewardID != nil {
			rewardNameByTemplate[tpl.ID] = rewardByID[*tpl.RewardID]
		} else {
			rewardNameByTemplate[tpl.ID] = "DONATION"
		}
	}

	rewardNames := make([]string, 0, len(rewards))
	for _, r := range rewards {
		rewardNames = append(rewardNames, r.Name)
	}
	rewardNames = append(rewardNames, "DONATION")
	sort.Strings(rewardNames)

	optionsByPledge := make(map[uint][]models.PledgeOption)
	for _, o := range options {
		optionsByPledge[o.PledgeID] = append(optionsByPledge[o.PledgeID], o)
	}

	header := []string{
		"paymentId", "pledgeId", "userId", "email", "firstName", "lastName",
		"pledgeStatus", "pledgeCreatedAt", "pledgeTotal",
		"paymentMethod", "paymentStatus", "paymentTotal", "paymentUpdatedAt",
	}
	for _, name := range rewardNames {
		header = append(header, name+" #", name+" total")
	}
	header = append(header, "donation")

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, row := range rows {
		aggregates := make(map[string]*optionAggregate, len(rewardNames))
		for _, name := range rewardNames {
			aggregates[name] = &optionAggregate{}
		}
		for _, o := range optionsByPledge[row.PledgeID] {
			name, ok := rewardNameByTemplate[o.TemplateID]
			if !ok {
				continue
			}
			aggregates[name].count += o.Amount
			aggregates[name].total += o.Amount * o.Price
		}

		record := []string{
			strconv.FormatUint(uint64(row.PaymentID), 10),
			strconv.FormatUint(uint64(row.PledgeID), 10),
			strconv.FormatUint(uint64(row.UserID), 10),
			row.Email,
			row.FirstName,
			row.LastName,
			row.PledgeStatus,
			row.PledgeCreatedAt.Format("02.01.2006 15:04"),
			formatPrice(row.PledgeTotal),
			row.PaymentMethod,
			row.PaymentStatus,
			formatPrice(row.PaymentTotal),
			row.PaymentUpdatedAt.Format("02.01.2006 15:04"),
		}
		for _, name := range rewardNames {
			agg := aggregates[name]
			record = append(record, strconv.Itoa(agg.count), formatPrice(agg.total))
		}
		record = append(record, formatPrice(row.Donation))

		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Minor unit tutarı ondalıklı CHF metnine çevir
func formatPrice(total int) string {
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%s%d.%02d", sign, total/100, total%100)
}
