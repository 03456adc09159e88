package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sefazor/crowdfund-backend/internal/config"
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
	"github.com/sefazor/crowdfund-backend/pkg/logger"
	"github.com/sefazor/crowdfund-backend/pkg/mailinglist"
)

func init() {
	logger.Log = zap.NewNop()
}

// In-memory sqlite ile servis testleri: transaction ve idempotency
// davranışları gerçek bir gorm bağlantısı üzerinde doğrulanır.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func newMembershipService(db *gorm.DB) *MembershipService {
	return NewMembershipService(
		db,
		repository.NewUserRepository(db),
		repository.NewPledgeRepository(db),
		repository.NewCatalogRepository(db),
		repository.NewMembershipRepository(db),
		mailinglist.NewMailingListService(&config.Config{}),
	)
}

func TestNextSequenceNumbers(t *testing.T) {
	tests := []struct {
		name        string
		maxExisting int
		count       int
		want        []int
	}{
		{
			name:        "first memberships start at one",
			maxExisting: 0,
			count:       3,
			want:        []int{1, 2, 3},
		},
		{
			name:        "continues after existing numbers",
			maxExisting: 41,
			count:       2,
			want:        []int{42, 43},
		},
		{
			name:        "zero count yields empty slice",
			maxExisting: 10,
			count:       0,
			want:        []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextSequenceNumbers(tt.maxExisting, tt.count))
		})
	}
}

func TestGenerateMembershipsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	user := models.User{Email: "backer@example.com", FirstName: "Mina"}
	require.NoError(t, db.Create(&user).Error)

	reward := models.Reward{Name: "ABO", Type: models.RewardTypeMembershipType}
	require.NoError(t, db.Create(&reward).Error)
	require.NoError(t, db.Create(&models.MembershipType{RewardID: reward.ID, Name: "ABO"}).Error)

	campaign := models.Campaign{Name: "LAUNCH", BeginDate: time.Now(), EndDate: time.Now().Add(24 * time.Hour)}
	require.NoError(t, db.Create(&campaign).Error)
	pkg := models.Package{CampaignID: campaign.ID, Name: "ABO_GIVE"}
	require.NoError(t, db.Create(&pkg).Error)
	tpl := models.PackageOption{PackageID: pkg.ID, RewardID: &reward.ID, MinAmount: 1, MaxAmount: 10, Price: 24000}
	require.NoError(t, db.Create(&tpl).Error)

	pledge := models.Pledge{UserID: user.ID, PackageID: pkg.ID, Total: 48000, Status: models.PledgeStatusDraft}
	require.NoError(t, db.Create(&pledge).Error)
	require.NoError(t, db.Create(&models.PledgeOption{
		PledgeID: pledge.ID, TemplateID: tpl.ID, Amount: 2, Price: 24000,
	}).Error)

	codes, err := svc.GenerateMemberships(db, &pledge)
	require.NoError(t, err)
	require.Len(t, codes, 1) // ilk üyelik pledge sahibine, kopya hediye kodu alır

	var memberships []models.Membership
	require.NoError(t, db.Order("sequence_number").Find(&memberships).Error)
	require.Len(t, memberships, 2)
	assert.Equal(t, 1, memberships[0].SequenceNumber)
	assert.Equal(t, user.ID, memberships[0].UserID)
	assert.Nil(t, memberships[0].VoucherCode)
	assert.Equal(t, 2, memberships[1].SequenceNumber)
	require.NotNil(t, memberships[1].VoucherCode)
	assert.Equal(t, codes[0], *memberships[1].VoucherCode)

	// İkinci koşu hiçbir şey üretmez
	codes, err = svc.GenerateMemberships(db, &pledge)
	require.NoError(t, err)
	assert.Nil(t, codes)

	var count int64
	require.NoError(t, db.Model(&models.Membership{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestGenerateMembershipsDonationOnlyPledge(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	user := models.User{Email: "donor@example.com"}
	require.NoError(t, db.Create(&user).Error)

	campaign := models.Campaign{Name: "LAUNCH", BeginDate: time.Now(), EndDate: time.Now().Add(24 * time.Hour)}
	require.NoError(t, db.Create(&campaign).Error)
	pkg := models.Package{CampaignID: campaign.ID, Name: "DONATE"}
	require.NoError(t, db.Create(&pkg).Error)
	tpl := models.PackageOption{PackageID: pkg.ID, MinAmount: 1, MaxAmount: 10000, Price: 100}
	require.NoError(t, db.Create(&tpl).Error)

	pledge := models.Pledge{UserID: user.ID, PackageID: pkg.ID, Total: 5000, Status: models.PledgeStatusDraft}
	require.NoError(t, db.Create(&pledge).Error)
	require.NoError(t, db.Create(&models.PledgeOption{
		PledgeID: pledge.ID, TemplateID: tpl.ID, Amount: 50, Price: 100,
	}).Error)

	codes, err := svc.GenerateMemberships(db, &pledge)
	require.NoError(t, err)
	assert.Nil(t, codes)

	var count int64
	require.NoError(t, db.Model(&models.Membership{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestClaimMembership(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	owner := models.User{Email: "owner@example.com"}
	claimer := models.User{Email: "claimer@example.com"}
	other := models.User{Email: "other@example.com"}
	for _, u := range []*models.User{&owner, &claimer, &other} {
		require.NoError(t, db.Create(u).Error)
	}

	giftCode := "GIFTCODE1234"
	secondCode := "GIFTCODE5678"
	gift := models.Membership{
		UserID: owner.ID, PledgeID: 1, MembershipTypeID: 1,
		SequenceNumber: 1, VoucherCode: &giftCode, BeginDate: time.Now(),
	}
	second := models.Membership{
		UserID: owner.ID, PledgeID: 1, MembershipTypeID: 1,
		SequenceNumber: 2, VoucherCode: &secondCode, BeginDate: time.Now(),
	}
	require.NoError(t, db.Create(&gift).Error)
	require.NoError(t, db.Create(&second).Error)

	require.NoError(t, svc.ClaimMembership(claimer.ID, giftCode))

	var claimed models.Membership
	require.NoError(t, db.First(&claimed, gift.ID).Error)
	assert.Equal(t, claimer.ID, claimed.UserID)
	assert.Nil(t, claimed.VoucherCode)

	// Üyeliği olan kullanıcı ikinci bir kod kullanamaz
	err := svc.ClaimMembership(claimer.ID, secondCode)
	require.ErrorIs(t, err, ErrAlreadyHasMembership)

	// Geçersiz kod
	err = svc.ClaimMembership(other.ID, "NOSUCHCODE")
	require.ErrorIs(t, err, ErrInvalidVoucher)
}
