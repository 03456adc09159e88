package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
	"github.com/sefazor/crowdfund-backend/pkg/email"
	"github.com/sefazor/crowdfund-backend/pkg/logger"
	"github.com/sefazor/crowdfund-backend/pkg/payment"
	"github.com/sefazor/crowdfund-backend/pkg/utils"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/price"
	"github.com/stripe/stripe-go/v74/product"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPledgeNotPayable = errors.New("this pledge can not be paid")
)

// Ödeme referans kodu uzunluğu (banka ekstresindeki mitteilung)
const hridLength = 6

type PaymentService struct {
	db            *gorm.DB
	stripeService *payment.StripeService
	userRepo      *repository.UserRepository
	pledgeRepo    *repository.PledgeRepository
	paymentRepo   *repository.PaymentRepository
	membershipSvc *MembershipService
	emailService  *email.EmailService
}

func NewPaymentService(
	db *gorm.DB,
	stripeService *payment.StripeService,
	userRepo *repository.UserRepository,
	pledgeRepo *repository.PledgeRepository,
	paymentRepo *repository.PaymentRepository,
	membershipSvc *MembershipService,
	emailService *email.EmailService,
) *PaymentService {
	return &PaymentService{
		db:            db,
		stripeService: stripeService,
		userRepo:      userRepo,
		pledgeRepo:    pledgeRepo,
		paymentRepo:   paymentRepo,
		membershipSvc: membershipSvc,
		emailService:  emailService,
	}
}

// settlementStatus ödeme güncellemesi üzerine pledge'in yeni durumunu türetir.
// SUCCESSFUL bu makine için terminaldir; eksik ödeme insan incelemesine düşer.
func settlementStatus(paidTotal, pledgeTotal int, current string) string {
	if current == models.PledgeStatusSuccessful || current == models.PledgeStatusCancelled {
		return current
	}
	if paidTotal >= pledgeTotal {
		return models.PledgeStatusSuccessful
	}
	return models.PledgeStatusPaidInvestigate
}

// settledPledge commit sonrası bildirim için biriktirilen geçiş kaydı.
type settledPledge struct {
	pledgeID     uint
	voucherCodes []string
}

// settlePledge durum geçişini caller'ın transaction'ı içinde uygular.
// Hesaplanan durum mevcut durumla aynıysa no-op'tur ve yan etki tetiklemez.
// SUCCESSFUL'a ilk geçişte üyelikler üretilir.
func (s *PaymentService) settlePledge(tx *gorm.DB, pledge *models.Pledge, paidTotal int) (*settledPledge, bool, error) {
	newStatus := settlementStatus(paidTotal, pledge.Total, pledge.Status)
	if newStatus == pledge.Status {
		return nil, false, nil
	}

	var settled *settledPledge
	if newStatus == models.PledgeStatusSuccessful {
		voucherCodes, err := s.membershipSvc.GenerateMemberships(tx, pledge)
		if err != nil {
			return nil, false, err
		}
		settled = &settledPledge{pledgeID: pledge.ID, voucherCodes: voucherCodes}
	}

	if err := s.pledgeRepo.WithTx(tx).UpdateStatus(pledge.ID, newStatus); err != nil {
		return nil, false, err
	}
	pledge.Status = newStatus

	return settled, true, nil
}

// PayPledge taslak pledge için ödeme başlatır. Banka havalesi yönteminde
// referans kodlu bekleyen bir payment açılır; kart yöntemlerinde Stripe
// checkout session'ı oluşturulur.
func (s *PaymentService) PayPledge(req models.PayPledgeRequest) (*models.PayPledgeResponse, error) {
	pledge, err := s.pledgeRepo.GetByID(req.PledgeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPledgeNotFound
	}
	if err != nil {
		return nil, err
	}
	if pledge.Status != models.PledgeStatusDraft {
		return nil, ErrPledgeNotPayable
	}

	// Aynı pledge için ikinci bir açık ödeme açılmaz; iki referans kodu
	// ekstrede iki kez eşleşip çift sayıma yol açardı
	existing, err := s.paymentRepo.GetPaymentsForPledge(pledge.ID)
	if err != nil {
		return nil, err
	}
	if hasOpenPayment(existing) {
		return nil, ErrPledgeNotPayable
	}

	user, err := s.userRepo.GetByID(pledge.UserID)
	if err != nil {
		return nil, err
	}

	resp := &models.PayPledgeResponse{}

	if req.Method == models.PaymentMethodPaymentSlip {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			paymentRepo := s.paymentRepo.WithTx(tx)

			pay := &models.Payment{
				Method: models.PaymentMethodPaymentSlip,
				Status: models.PaymentStatusWaiting,
				Total:  pledge.Total,
				HRID:   utils.GenerateHRID(hridLength),
			}
			if err := paymentRepo.Create(pay); err != nil {
				return err
			}
			if err := paymentRepo.CreatePledgePayment(&models.PledgePayment{
				PledgeID:  pledge.ID,
				PaymentID: pay.ID,
			}); err != nil {
				return err
			}

			resp.PaymentID = pay.ID
			resp.HRID = pay.HRID
			return nil
		})
		if err != nil {
			return nil, err
		}
		return resp, nil
	}

	// Kart yöntemleri: Stripe'da geçici product/price oluştur
	productParams := &stripe.ProductParams{
		Name: stripe.String(fmt.Sprintf("Pledge #%d", pledge.ID)),
	}
	prod, err := product.New(productParams)
	if err != nil {
		return nil, err
	}

	priceParams := &stripe.PriceParams{
		Product:    stripe.String(prod.ID),
		UnitAmount: stripe.Int64(int64(pledge.Total)),
		Currency:   stripe.String(string(stripe.CurrencyCHF)),
	}
	p, err := price.New(priceParams)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)

		pay := &models.Payment{
			Method: req.Method,
			Status: models.PaymentStatusWaiting,
			Total:  pledge.Total,
			HRID:   utils.GenerateHRID(hridLength),
		}
		if err := paymentRepo.Create(pay); err != nil {
			return err
		}
		if err := paymentRepo.CreatePledgePayment(&models.PledgePayment{
			PledgeID:  pledge.ID,
			PaymentID: pay.ID,
		}); err != nil {
			return err
		}

		session, err := s.stripeService.CreateCheckoutSession(
			user.Email,
			p.ID,
			map[string]string{
				"pledge_id":  fmt.Sprintf("%d", pledge.ID),
				"payment_id": fmt.Sprintf("%d", pay.ID),
			},
		)
		if err != nil {
			return err
		}

		pay.PSPID = session.ID
		if err := paymentRepo.Update(pay); err != nil {
			return err
		}

		resp.PaymentID = pay.ID
		resp.CheckoutURL = session.URL
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// hasOpenPayment iptal edilmemiş (bekleyen ya da alınmış) bir ödeme var mı.
func hasOpenPayment(payments []models.Payment) bool {
	for _, p := range payments {
		if p.Status != models.PaymentStatusCancelled {
			return true
		}
	}
	return false
}

// statementMatch eşleşen payment/ekstre satırı çifti.
type statementMatch struct {
	payment *models.Payment
	entry   *models.BankStatementEntry
}

// matchStatements bekleyen ödemeleri eşleşmemiş ekstre satırlarıyla
// referans kodu üzerinden birebir eşler. Karşılaştırma exact ve
// case-sensitive'dir; bir satır en fazla bir ödemeye düşer.
func matchStatements(payments []models.Payment, entries []models.BankStatementEntry) []statementMatch {
	consumed := make(map[uint]bool, len(entries))

	var matches []statementMatch
	for i := range payments {
		for j := range entries {
			if consumed[entries[j].ID] {
				continue
			}
			if entries[j].Reference == payments[i].HRID {
				matches = append(matches, statementMatch{
					payment: &payments[i],
					entry:   &entries[j],
				})
				consumed[entries[j].ID] = true
				break
			}
		}
	}
	return matches
}

// MatchBankStatements banka ekstresini bekleyen havale ödemeleriyle
// mutabakata sokar. Tekrar çalıştırılması güvenlidir: eşleşmiş satırlar
// bir daha ele alınmaz.
func (s *PaymentService) MatchBankStatements() (*models.MatchResult, error) {
	result := &models.MatchResult{}
	var toNotify []settledPledge

	err := s.db.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		pledgeRepo := s.pledgeRepo.WithTx(tx)

		entries, err := paymentRepo.GetUnmatchedStatementEntries()
		if err != nil {
			return err
		}
		payments, err := paymentRepo.GetOutstandingSlipPayments()
		if err != nil {
			return err
		}

		matches := matchStatements(payments, entries)
		if len(matches) == 0 {
			return nil
		}

		matchedEntryIDs := make([]uint, 0, len(matches))
		paymentIDs := make([]uint, 0, len(matches))
		for _, m := range matches {
			// Yatan tutar pledge toplamından farklı olabilir; eksik/fazla
			// ödeme settlement'ta ele alınır
			m.payment.Total = m.entry.CreditedAmount
			m.payment.PSPPayload = m.entry.RawText
			m.payment.Status = models.PaymentStatusPaid
			if err := paymentRepo.Update(m.payment); err != nil {
				return err
			}
			matchedEntryIDs = append(matchedEntryIDs, m.entry.ID)
			paymentIDs = append(paymentIDs, m.payment.ID)
		}
		if err := paymentRepo.MarkStatementEntriesMatched(matchedEntryIDs); err != nil {
			return err
		}
		result.NumMatchedPayments = len(matches)

		pledgePayments, err := paymentRepo.GetPledgePaymentsByPaymentIDs(paymentIDs)
		if err != nil {
			return err
		}

		for _, m := range matches {
			var pledgeID uint
			for _, pp := range pledgePayments {
				if pp.PaymentID == m.payment.ID {
					pledgeID = pp.PledgeID
					break
				}
			}
			if pledgeID == 0 {
				return fmt.Errorf("could not find pledge for payment %d", m.payment.ID)
			}
			pledge, err := pledgeRepo.GetByID(pledgeID)
			if err != nil {
				return fmt.Errorf("could not find pledge for payment %d: %w", m.payment.ID, err)
			}

			settled, transitioned, err := s.settlePledge(tx, pledge, m.payment.Total)
			if err != nil {
				return err
			}
			if transitioned {
				result.NumUpdatedPledges++
			}
			if settled != nil {
				result.NumPaymentsSuccessful++
				toNotify = append(toNotify, *settled)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Bildirimler commit'ten sonra; hata finansal kaydı geri aldırmaz
	for _, settled := range toNotify {
		s.notifyPaymentSuccessful(settled)
	}

	logger.Log.Info("bank statement matching run finished",
		zap.Int("numMatchedPayments", result.NumMatchedPayments),
		zap.Int("numUpdatedPledges", result.NumUpdatedPledges),
		zap.Int("numPaymentsSuccessful", result.NumPaymentsSuccessful))

	return result, nil
}

// ImportBankStatement feed'den gelen satırları kaydeder. Matched flag'i
// burada her zaman false'tur; sadece eşleştirme koşusu true yapar.
func (s *PaymentService) ImportBankStatement(entries []models.BankStatementEntry) (int, error) {
	imported := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		for i := range entries {
			entries[i].ID = 0
			entries[i].Matched = false
			if err := paymentRepo.CreateStatementEntry(&entries[i]); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

// Webhook handler for Stripe events
func (s *PaymentService) HandleStripeWebhook(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		session, err := parseCheckoutSession(event)
		if err != nil {
			return err
		}

		var toNotify *settledPledge
		err = s.db.Transaction(func(tx *gorm.DB) error {
			paymentRepo := s.paymentRepo.WithTx(tx)
			pledgeRepo := s.pledgeRepo.WithTx(tx)

			pay, err := paymentRepo.GetByPSPID(session.ID)
			if err != nil {
				return err
			}
			// Stripe webhook'ları tekrar gelebilir
			if pay.Status != models.PaymentStatusWaiting {
				return nil
			}

			pay.Status = models.PaymentStatusPaid
			if err := paymentRepo.Update(pay); err != nil {
				return err
			}

			pledgePayments, err := paymentRepo.GetPledgePaymentsByPaymentIDs([]uint{pay.ID})
			if err != nil {
				return err
			}
			if len(pledgePayments) == 0 {
				return fmt.Errorf("could not find pledge for payment %d", pay.ID)
			}
			pledge, err := pledgeRepo.GetByID(pledgePayments[0].PledgeID)
			if err != nil {
				return err
			}

			// Kart alias'ını sonraki pledge'lerde tekrar kullanmak için sakla
			if session.Customer != nil {
				if err := paymentRepo.CreatePaymentSource(&models.PaymentSource{
					UserID: pledge.UserID,
					Method: models.PaymentMethodPostfinanceCard,
					PSPID:  session.Customer.ID,
				}); err != nil {
					return err
				}
			}

			settled, _, err := s.settlePledge(tx, pledge, pay.Total)
			if err != nil {
				return err
			}
			toNotify = settled
			return nil
		})
		if err != nil {
			return err
		}

		if toNotify != nil {
			s.notifyPaymentSuccessful(*toNotify)
		}
		return nil

	case "checkout.session.expired", "checkout.session.async_payment_failed":
		session, err := parseCheckoutSession(event)
		if err != nil {
			return err
		}

		pay, err := s.paymentRepo.GetByPSPID(session.ID)
		if err != nil {
			return err
		}
		if pay.Status != models.PaymentStatusWaiting {
			return nil
		}
		pay.Status = models.PaymentStatusCancelled
		return s.paymentRepo.Update(pay)
	}

	return nil
}

// notifyPaymentSuccessful commit edilmiş bir SUCCESSFUL geçişinin
// bildirimini gönderir. Para gerçekten alındığı için hata sadece
// operasyon kanalına loglanır.
func (s *PaymentService) notifyPaymentSuccessful(settled settledPledge) {
	pledge, err := s.pledgeRepo.GetByID(settled.pledgeID)
	if err != nil {
		logger.Log.Error("payment successful notification: pledge not found",
			zap.Uint("pledgeId", settled.pledgeID), zap.Error(err))
		return
	}
	user, err := s.userRepo.GetByID(pledge.UserID)
	if err != nil {
		logger.Log.Error("payment successful notification: user not found",
			zap.Uint("pledgeId", settled.pledgeID), zap.Error(err))
		return
	}
	if err := s.emailService.SendPaymentSuccessfulEmail(user.Email, user.FirstName, pledge.Total, settled.voucherCodes); err != nil {
		logger.Log.Error("failed to send payment successful email",
			zap.Uint("pledgeId", settled.pledgeID), zap.Error(err))
	}
}

func parseCheckoutSession(event *stripe.Event) (*stripe.CheckoutSession, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
