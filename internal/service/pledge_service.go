package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sefazor/crowdfund-backend/internal/config"
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
	"github.com/sefazor/crowdfund-backend/pkg/email"
	"github.com/sefazor/crowdfund-backend/pkg/logger"
	"github.com/sefazor/crowdfund-backend/pkg/mailinglist"
	"github.com/sefazor/crowdfund-backend/pkg/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Doğrulama hataları kullanıcıya mesaj olarak döner, hiçbir kayıt yazılmaz.
var (
	ErrInvalidTemplates = errors.New("one or more of the chosen options are invalid")
	ErrCrossPackage     = errors.New("options must all be part of the same package")
	ErrAmountOutOfRange = errors.New("option amount out of range")
	ErrTotalTooLow      = errors.New("total must be >= the minimum total of the chosen options")
	ErrReasonRequired   = errors.New("you must provide a reason for reduced pledges")
	ErrAlreadyReduced   = errors.New("you already have a membership benefit and cannot pledge reduced again")
	ErrCampaignClosed   = errors.New("the campaign is already closed")
	ErrEmailMismatch    = errors.New("signed-in email and pledge email don't match, sign out first")
	ErrPledgeNotFound   = errors.New("pledge not found")
	ErrPledgeParked     = errors.New("the parking pledge cannot be cancelled")
)

type PledgeService struct {
	db             *gorm.DB
	cfg            *config.Config
	userRepo       *repository.UserRepository
	pledgeRepo     *repository.PledgeRepository
	catalogRepo    *repository.CatalogRepository
	paymentRepo    *repository.PaymentRepository
	membershipRepo *repository.MembershipRepository
	emailService   *email.EmailService
	mailingList    *mailinglist.MailingListService
}

func NewPledgeService(
	db *gorm.DB,
	cfg *config.Config,
	userRepo *repository.UserRepository,
	pledgeRepo *repository.PledgeRepository,
	catalogRepo *repository.CatalogRepository,
	paymentRepo *repository.PaymentRepository,
	membershipRepo *repository.MembershipRepository,
	emailService *email.EmailService,
	mailingList *mailinglist.MailingListService,
) *PledgeService {
	return &PledgeService{
		db:             db,
		cfg:            cfg,
		userRepo:       userRepo,
		pledgeRepo:     pledgeRepo,
		catalogRepo:    catalogRepo,
		paymentRepo:    paymentRepo,
		membershipRepo: membershipRepo,
		emailService:   emailService,
		mailingList:    mailingList,
	}
}

// pricedPledge doğrulanmış ve fiyatlandırılmış bir pledge taslağı.
type pricedPledge struct {
	packageID    uint
	minTotal     int
	regularTotal int
	donation     int
	options      []models.PledgeOption
}

// pricePledgeOptions seçilen opsiyonları katalog şablonlarına göre doğrular
// ve fiyatlandırır. Fiyatlar şablondan kopyalanır (kayıt tutma için),
// frontend'in gönderdiği fiyata güvenilmez.
func pricePledgeOptions(inputs []models.PledgeOptionInput, templates []models.PackageOption, total int) (*pricedPledge, error) {
	byID := make(map[uint]*models.PackageOption, len(templates))
	for i := range templates {
		byID[templates[i].ID] = &templates[i]
	}

	// Bütün templateId'ler geçerli mi
	for _, in := range inputs {
		if _, ok := byID[in.TemplateID]; !ok {
			return nil, ErrInvalidTemplates
		}
	}

	priced := &pricedPledge{}
	for _, in := range inputs {
		tpl := byID[in.TemplateID]

		// Hepsi aynı paketten olmalı
		if priced.packageID == 0 {
			priced.packageID = tpl.PackageID
		} else if priced.packageID != tpl.PackageID {
			return nil, ErrCrossPackage
		}

		if in.Amount < tpl.MinAmount || in.Amount > tpl.MaxAmount {
			return nil, ErrAmountOutOfRange
		}

		if tpl.UserPrice {
			priced.minTotal += tpl.MinUserPrice * in.Amount
		} else {
			priced.minTotal += tpl.Price * in.Amount
		}
		priced.regularTotal += tpl.Price * in.Amount

		priced.options = append(priced.options, models.PledgeOption{
			TemplateID: tpl.ID,
			Amount:     in.Amount,
			Price:      tpl.Price,
		})
	}

	// Mutlak taban
	if priced.minTotal < models.PledgeMinTotal {
		priced.minTotal = models.PledgeMinTotal
	}
	if priced.regularTotal < models.PledgeMinTotal {
		priced.regularTotal = models.PledgeMinTotal
	}

	if total < priced.minTotal {
		return nil, ErrTotalTooLow
	}

	priced.donation = total - priced.regularTotal

	return priced, nil
}

// SubmitPledge doğrulanmış taslak pledge'i tek transaction içinde yazar.
// authUser nil ise kullanıcı email üzerinden çözümlenir; mevcut bir
// kullanıcının pledge'i varsa EmailVerify=true döner ve hiçbir şey yazılmaz.
func (s *PledgeService) SubmitPledge(authUser *models.User, req models.SubmitPledgeRequest) (*models.SubmitPledgeResponse, error) {
	resp := &models.SubmitPledgeResponse{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		pledgeRepo := s.pledgeRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)

		templateIDs := make([]uint, 0, len(req.Options))
		for _, o := range req.Options {
			templateIDs = append(templateIDs, o.TemplateID)
		}
		templates, err := catalogRepo.GetPackageOptionsByIDs(templateIDs)
		if err != nil {
			return err
		}

		priced, err := pricePledgeOptions(req.Options, templates, req.Total)
		if err != nil {
			return err
		}

		// Kampanya hâlâ açık mı (kapanışa kısa bir tolerans tanınır)
		pkg, err := catalogRepo.GetPackageByID(priced.packageID)
		if err != nil {
			return err
		}
		campaign, err := catalogRepo.GetCampaignByID(pkg.CampaignID)
		if err != nil {
			return err
		}
		grace := time.Duration(s.cfg.CampaignGraceMinutes) * time.Minute
		if time.Now().After(campaign.EndDate.Add(grace)) {
			return ErrCampaignClosed
		}

		if priced.donation < 0 && req.Reason == "" {
			return ErrReasonRequired
		}

		// Kullanıcıyı çözümle
		var user *models.User
		pfAliasID := ""
		if authUser != nil {
			if authUser.Email != req.User.Email {
				return ErrEmailMismatch
			}
			user = authUser

			// Mevcut PF alias sadece giriş yapmış kullanıcıda olabilir
			if source, err := paymentRepo.GetLatestPaymentSource(user.ID, models.PaymentMethodPostfinanceCard); err == nil {
				pfAliasID = source.PSPID
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		} else {
			existing, err := userRepo.GetByEmail(req.User.Email)
			switch {
			case err == nil:
				hasPledges, err := pledgeRepo.HasPledges(existing.ID)
				if err != nil {
					return err
				}
				if hasPledges {
					// Kullanıcı önce giriş yapmalı
					resp.EmailVerify = true
					return nil
				}
				user = existing
			case errors.Is(err, gorm.ErrRecordNotFound):
				user = &models.User{
					Email:       req.User.Email,
					FirstName:   req.User.FirstName,
					LastName:    req.User.LastName,
					Birthday:    parseBirthday(req.User.Birthday),
					PhoneNumber: req.User.PhoneNumber,
				}
				if err := userRepo.Create(user); err != nil {
					return err
				}
			default:
				return err
			}
		}

		// Profil alanları değiştiyse güncelle
		if err := syncProfileFields(userRepo, user, req.User); err != nil {
			return err
		}

		// İndirimli pledge sadece ödül taşıyan başarılı pledge'i olmayan
		// kullanıcıya açık
		if priced.donation < 0 {
			hasBenefit, err := s.userHasRewardBearingPledge(tx, user.ID)
			if err != nil {
				return err
			}
			if hasBenefit {
				return ErrAlreadyReduced
			}
		}

		pledge := &models.Pledge{
			UserID:    user.ID,
			PackageID: priced.packageID,
			Total:     req.Total,
			Donation:  priced.donation,
			Reason:    req.Reason,
			Status:    models.PledgeStatusDraft,
		}
		if err := pledgeRepo.Create(pledge); err != nil {
			return err
		}

		for i := range priced.options {
			priced.options[i].PledgeID = pledge.ID
			if err := pledgeRepo.CreateOption(&priced.options[i]); err != nil {
				return err
			}
		}

		if pfAliasID == "" {
			pfAliasID = uuid.NewString()
		}

		resp.PledgeID = pledge.ID
		resp.UserID = user.ID
		resp.PFAliasID = pfAliasID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.EmailVerify {
		return resp, nil
	}

	// PSP handshake imzası transaction dışında üretilir, store'a yazılmaz
	resp.PFSignature = payment.PostfinanceSHA(resp.PledgeID, req.Total, resp.PFAliasID, resp.UserID)

	go func() {
		if err := s.emailService.SendPledgeConfirmationEmail(req.User.Email, req.User.FirstName, req.Total); err != nil {
			logger.Log.Error("failed to send pledge confirmation",
				zap.Uint("pledgeId", resp.PledgeID), zap.Error(err))
		}
	}()

	return resp, nil
}

// userHasRewardBearingPledge kullanıcının ödül (üyelik/goodie) içeren
// başarılı bir pledge'i var mı. Sadece bağıştan oluşan pledge'ler sayılmaz.
func (s *PledgeService) userHasRewardBearingPledge(tx *gorm.DB, userID uint) (bool, error) {
	pledgeRepo := s.pledgeRepo.WithTx(tx)
	catalogRepo := s.catalogRepo.WithTx(tx)

	pledges, err := pledgeRepo.FindSuccessfulByUser(userID)
	if err != nil {
		return false, err
	}
	if len(pledges) == 0 {
		return false, nil
	}

	pledgeIDs := make([]uint, 0, len(pledges))
	for _, p := range pledges {
		pledgeIDs = append(pledgeIDs, p.ID)
	}
	options, err := pledgeRepo.GetOptionsByPledgeIDs(pledgeIDs)
	if err != nil {
		return false, err
	}
	if len(options) == 0 {
		return false, nil
	}

	templateIDs := make([]uint, 0, len(options))
	for _, o := range options {
		templateIDs = append(templateIDs, o.TemplateID)
	}
	templates, err := catalogRepo.GetPackageOptionsByIDs(templateIDs)
	if err != nil {
		return false, err
	}

	for _, tpl := range templates {
		if tpl.RewardID != nil {
			return true, nil
		}
	}
	return false, nil
}

// CancelPledge pledge'i iptal eder. Para silinmez: alınmış ödemeler iade
// kuyruğuna düşer, üyelikler parking sentinellerine taşınır.
func (s *PledgeService) CancelPledge(pledgeID uint) (*models.Pledge, error) {
	var cancelledUserID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		pledgeRepo := s.pledgeRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)
		membershipRepo := s.membershipRepo.WithTx(tx)

		pledge, err := pledgeRepo.GetByID(pledgeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPledgeNotFound
		}
		if err != nil {
			return err
		}
		if pledge.ID == s.cfg.Parking.PledgeID || pledge.UserID == s.cfg.Parking.UserID {
			return ErrPledgeParked
		}
		cancelledUserID = pledge.UserID

		if err := pledgeRepo.UpdateStatus(pledgeID, models.PledgeStatusCancelled); err != nil {
			return err
		}

		payments, err := paymentRepo.GetPaymentsForPledge(pledgeID)
		if err != nil {
			return err
		}
		for i := range payments {
			p := &payments[i]
			newStatus := p.Status
			switch p.Status {
			case models.PaymentStatusWaiting:
				newStatus = models.PaymentStatusCancelled
			case models.PaymentStatusPaid:
				// Para alınmış, manuel iade için takip edilmeli
				newStatus = models.PaymentStatusWaitingForRefund
			}
			if newStatus != p.Status {
				p.Status = newStatus
				if err := paymentRepo.Update(p); err != nil {
					return err
				}
			}
		}

		return membershipRepo.ReassignToParking(pledgeID, s.cfg.Parking.UserID, s.cfg.Parking.PledgeID)
	})
	if err != nil {
		return nil, err
	}

	// Mailing list best-effort, commit'i geri aldırmaz
	go s.syncUserMailingList(cancelledUserID)

	return s.pledgeRepo.GetByID(pledgeID)
}

func (s *PledgeService) GetUserPledges(userID uint) ([]models.Pledge, error) {
	return s.pledgeRepo.GetUserPledges(userID)
}

func (s *PledgeService) syncUserMailingList(userID uint) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		logger.Log.Error("mailing list sync: user not found",
			zap.Uint("userId", userID), zap.Error(err))
		return
	}
	if err := s.mailingList.SyncMember(user.Email, user.FirstName, user.LastName, nil); err != nil {
		logger.Log.Error("mailing list sync failed",
			zap.Uint("userId", userID), zap.Error(err))
	}
}

func syncProfileFields(userRepo *repository.UserRepository, user *models.User, in models.PledgeUserInput) error {
	birthday := parseBirthday(in.Birthday)
	changed := user.FirstName != in.FirstName ||
		user.LastName != in.LastName ||
		user.PhoneNumber != in.PhoneNumber ||
		(birthday != nil && !equalBirthday(user.Birthday, birthday))
	if !changed {
		return nil
	}
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.PhoneNumber = in.PhoneNumber
	if birthday != nil {
		user.Birthday = birthday
	}
	return userRepo.Update(user)
}

func parseBirthday(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func equalBirthday(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
