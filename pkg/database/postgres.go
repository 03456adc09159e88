package database

import (
	"log"
	"os"
	"time"

	"github.com/sefazor/crowdfund-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Global DB değişkeni
var DB *gorm.DB

func NewDatabase() *gorm.DB {
	// Doğrudan DATABASE_URL'i kullan
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	var err error
	// Global DB değişkenini başlat
	DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return DB
}

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Campaign{},
		&models.Package{},
		&models.PackageOption{},
		&models.Reward{},
		&models.MembershipType{},
		&models.Goodie{},
		&models.Pledge{},
		&models.PledgeOption{},
		&models.Payment{},
		&models.PledgePayment{},
		&models.PaymentSource{},
		&models.BankStatementEntry{},
		&models.Membership{},
		&models.Testimonial{},
	)
	if err != nil {
		return err
	}

	return seedCatalog(db)
}

// EnsureParkingRecords iptal akışının taşıdığı payment/membership
// kayıtlarının düştüğü sentinel kullanıcı ve pledge kayıtlarını oluşturur
// (eğer yoksa). Id'ler config'den gelir, gerçek bir kullanıcıya ait değildir.
func EnsureParkingRecords(db *gorm.DB, userID, pledgeID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			user := models.User{
				ID:        userID,
				Email:     "parking@system.invalid",
				FirstName: "Parking",
				Role:      models.RoleMember,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Pledge{}).Where("id = ?", pledgeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			var pkg models.Package
			if err := tx.First(&pkg).Error; err != nil {
				return err
			}
			pledge := models.Pledge{
				ID:        pledgeID,
				UserID:    userID,
				PackageID: pkg.ID,
				Status:    models.PledgeStatusCancelled,
			}
			if err := tx.Create(&pledge).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Katalog referans verisini ekle (eğer yoksa). Kampanya süresince
// değişmez; fiyatlar minor unit cinsindendir.
func seedCatalog(db *gorm.DB) error {
	var count int64
	db.Model(&models.Campaign{}).Count(&count)
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		campaign := models.Campaign{
			Name:      "LAUNCH",
			BeginDate: mustParseDate("2026-01-01"),
			EndDate:   mustParseDate("2026-12-31"),
		}
		if err := tx.Create(&campaign).Error; err != nil {
			return err
		}

		rewardAbo := models.Reward{Name: "ABO", Type: models.RewardTypeMembershipType}
		rewardBenefactor := models.Reward{Name: "BENEFACTOR_ABO", Type: models.RewardTypeMembershipType}
		rewardNotebook := models.Reward{Name: "NOTEBOOK", Type: models.RewardTypeGoodie}
		for _, r := range []*models.Reward{&rewardAbo, &rewardBenefactor, &rewardNotebook} {
			if err := tx.Create(r).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&models.MembershipType{RewardID: rewardAbo.ID, Name: "ABO"}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.MembershipType{RewardID: rewardBenefactor.ID, Name: "BENEFACTOR_ABO"}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Goodie{RewardID: rewardNotebook.ID, Name: "NOTEBOOK"}).Error; err != nil {
			return err
		}

		packages := []struct {
			name    string
			options []models.PackageOption
		}{
			{
				name: "ABO",
				options: []models.PackageOption{
					// Üyelik opsiyonu indirimli fiyata izin verir (userPrice)
					{RewardID: &rewardAbo.ID, MinAmount: 1, MaxAmount: 1, Price: 24000, UserPrice: true, MinUserPrice: 1000},
					{RewardID: &rewardNotebook.ID, MinAmount: 0, MaxAmount: 5, Price: 2000},
				},
			},
			{
				name: "ABO_GIVE",
				options: []models.PackageOption{
					{RewardID: &rewardAbo.ID, MinAmount: 1, MaxAmount: 10, Price: 24000},
					{RewardID: &rewardNotebook.ID, MinAmount: 0, MaxAmount: 10, Price: 2000},
				},
			},
			{
				name: "BENEFACTOR",
				options: []models.PackageOption{
					{RewardID: &rewardBenefactor.ID, MinAmount: 1, MaxAmount: 1, Price: 100000},
				},
			},
			{
				name: "DONATE",
				options: []models.PackageOption{
					{MinAmount: 1, MaxAmount: 10000, Price: 100},
				},
			},
		}

		for _, p := range packages {
			pkg := models.Package{CampaignID: campaign.ID, Name: p.name}
			if err := tx.Create(&pkg).Error; err != nil {
				return err
			}
			for _, opt := range p.options {
				opt.PackageID = pkg.ID
				if err := tx.Create(&opt).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

func mustParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("Invalid seed date %q: %v", s, err)
	}
	return t
}
