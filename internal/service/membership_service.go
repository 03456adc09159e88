package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
	"github.com/sefazor/crowdfund-backend/pkg/logger"
	"github.com/sefazor/crowdfund-backend/pkg/mailinglist"
	"github.com/sefazor/crowdfund-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAlreadyHasMembership = errors.New("you already have a membership")
	ErrInvalidVoucher       = errors.New("invalid voucher code")
)

type MembershipService struct {
	db             *gorm.DB
	userRepo       *repository.UserRepository
	pledgeRepo     *repository.PledgeRepository
	catalogRepo    *repository.CatalogRepository
	membershipRepo *repository.MembershipRepository
	mailingList    *mailinglist.MailingListService
}

func NewMembershipService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	pledgeRepo *repository.PledgeRepository,
	catalogRepo *repository.CatalogRepository,
	membershipRepo *repository.MembershipRepository,
	mailingList *mailinglist.MailingListService,
) *MembershipService {
	return &MembershipService{
		db:             db,
		userRepo:       userRepo,
		pledgeRepo:     pledgeRepo,
		catalogRepo:    catalogRepo,
		membershipRepo: membershipRepo,
		mailingList:    mailingList,
	}
}

// nextSequenceNumbers mevcut en yüksek numaradan devam eden ardışık bir blok
// tahsis eder. Numaralar kıt ve dışarıya görünürdür: atlanmaz, tekrar
// kullanılmaz.
func nextSequenceNumbers(maxExisting, count int) []int {
	numbers := make([]int, count)
	for i := 0; i < count; i++ {
		numbers[i] = maxExisting + 1 + i
	}
	return numbers
}

// GenerateMemberships başarılı pledge için üyelik kayıtlarını caller'ın
// transaction'ı içinde üretir. Pledge'in zaten üyeliği varsa hiçbir şey
// yazmaz; sequence_number üzerindeki unique index eşzamanlı koşulara karşı
// ikinci emniyettir. Hediye kopyalara voucher kodu verilir, döner.
func (s *MembershipService) GenerateMemberships(tx *gorm.DB, pledge *models.Pledge) ([]string, error) {
	pledgeRepo := s.pledgeRepo.WithTx(tx)
	catalogRepo := s.catalogRepo.WithTx(tx)
	membershipRepo := s.membershipRepo.WithTx(tx)

	// Idempotency: aynı pledge için ikinci kez üretim yok
	existing, err := membershipRepo.CountByPledge(pledge.ID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, nil
	}

	options, err := pledgeRepo.GetOptionsByPledgeIDs([]uint{pledge.ID})
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, nil
	}

	templateIDs := make([]uint, 0, len(options))
	for _, o := range options {
		templateIDs = append(templateIDs, o.TemplateID)
	}
	templates, err := catalogRepo.GetPackageOptionsByIDs(templateIDs)
	if err != nil {
		return nil, err
	}
	templateByID := make(map[uint]*models.PackageOption, len(templates))
	for i := range templates {
		templateByID[templates[i].ID] = &templates[i]
	}

	// Üyelik veren opsiyonları say
	type grant struct {
		membershipTypeID uint
		amount           int
	}
	var grants []grant
	total := 0
	for _, o := range options {
		tpl, ok := templateByID[o.TemplateID]
		if !ok {
			return nil, fmt.Errorf("could not find package option %d for pledge %d", o.TemplateID, pledge.ID)
		}
		if tpl.RewardID == nil {
			continue
		}
		mt, err := catalogRepo.GetMembershipTypeByRewardID(*tpl.RewardID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue // goodie, üyelik vermez
		}
		if err != nil {
			return nil, err
		}
		grants = append(grants, grant{membershipTypeID: mt.ID, amount: o.Amount})
		total += o.Amount
	}
	if total == 0 {
		return nil, nil
	}

	maxSeq, err := membershipRepo.MaxSequenceNumber()
	if err != nil {
		return nil, err
	}
	sequenceNumbers := nextSequenceNumbers(maxSeq, total)

	// İlk üyelik pledge sahibine, kalanlar voucher kodu ile hediye edilir
	var voucherCodes []string
	now := time.Now()
	i := 0
	for _, g := range grants {
		for n := 0; n < g.amount; n++ {
			membership := &models.Membership{
				UserID:           pledge.UserID,
				PledgeID:         pledge.ID,
				MembershipTypeID: g.membershipTypeID,
				SequenceNumber:   sequenceNumbers[i],
				BeginDate:        now,
			}
			if i > 0 {
				code := utils.GenerateRandomString(12)
				membership.VoucherCode = &code
				voucherCodes = append(voucherCodes, code)
			}
			if err := membershipRepo.Create(membership); err != nil {
				return nil, err
			}
			i++
		}
	}

	logger.Log.Info("memberships generated",
		zap.Uint("pledgeId", pledge.ID),
		zap.Int("count", total),
		zap.Int("firstSequenceNumber", sequenceNumbers[0]))

	return voucherCodes, nil
}

// ClaimMembership voucher kodu ile hediye üyeliği devralır.
func (s *MembershipService) ClaimMembership(userID uint, voucherCode string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		membershipRepo := s.membershipRepo.WithTx(tx)

		// Üyeliği olan kullanıcı ikinci bir üyelik devralamaz. Kontrol
		// transaction içinde: eşzamanlı iki claim'den ancak biri geçer.
		count, err := membershipRepo.CountByUser(userID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyHasMembership
		}

		membership, err := membershipRepo.GetByVoucherCode(voucherCode)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidVoucher
		}
		if err != nil {
			return err
		}

		return membershipRepo.Transfer(membership.ID, userID)
	})
	if err != nil {
		return err
	}

	go s.syncUserMailingList(userID)

	return nil
}

func (s *MembershipService) GetUserMemberships(userID uint) ([]models.Membership, error) {
	return s.membershipRepo.GetByUser(userID)
}

func (s *MembershipService) syncUserMailingList(userID uint) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		logger.Log.Error("mailing list sync: user not found",
			zap.Uint("userId", userID), zap.Error(err))
		return
	}
	if err := s.mailingList.SyncMember(user.Email, user.FirstName, user.LastName, []string{"member"}); err != nil {
		logger.Log.Error("mailing list sync failed",
			zap.Uint("userId", userID), zap.Error(err))
	}
}
