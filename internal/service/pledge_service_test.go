package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sefazor/crowdfund-backend/internal/config"
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
	"github.com/sefazor/crowdfund-backend/pkg/mailinglist"
)

func uintPtr(v uint) *uint {
	return &v
}

// LAUNCH kataloğunun küçük bir kesiti
func testTemplates() []models.PackageOption {
	rewardAbo := uintPtr(1)
	rewardNotebook := uintPtr(2)
	return []models.PackageOption{
		{ID: 1, PackageID: 1, MinAmount: 1, MaxAmount: 10, Price: 4000, RewardID: rewardAbo},
		{ID: 2, PackageID: 1, MinAmount: 0, MaxAmount: 5, Price: 1500, RewardID: rewardNotebook},
		{ID: 3, PackageID: 2, MinAmount: 1, MaxAmount: 1, Price: 24000, UserPrice: true, MinUserPrice: 1000, RewardID: rewardAbo},
		{ID: 4, PackageID: 3, MinAmount: 1, MaxAmount: 1, Price: 100},
	}
}

func TestPricePledgeOptions(t *testing.T) {
	templates := testTemplates()

	tests := []struct {
		name         string
		inputs       []models.PledgeOptionInput
		total        int
		wantErr      error
		wantDonation int
		wantPackage  uint
	}{
		{
			name:         "exact regular total has zero donation",
			inputs:       []models.PledgeOptionInput{{TemplateID: 1, Amount: 2}},
			total:        8000,
			wantDonation: 0,
			wantPackage:  1,
		},
		{
			name:         "surplus over regular total becomes donation",
			inputs:       []models.PledgeOptionInput{{TemplateID: 1, Amount: 2}},
			total:        9000,
			wantDonation: 1000,
			wantPackage:  1,
		},
		{
			name:    "total below regular total is rejected",
			inputs:  []models.PledgeOptionInput{{TemplateID: 1, Amount: 2}},
			total:   6000,
			wantErr: ErrTotalTooLow,
		},
		{
			name:         "user price option allows reduced total",
			inputs:       []models.PledgeOptionInput{{TemplateID: 3, Amount: 1}},
			total:        1000,
			wantDonation: -23000,
			wantPackage:  2,
		},
		{
			name:    "user price option still has a floor",
			inputs:  []models.PledgeOptionInput{{TemplateID: 3, Amount: 1}},
			total:   900,
			wantErr: ErrTotalTooLow,
		},
		{
			name:    "unknown template",
			inputs:  []models.PledgeOptionInput{{TemplateID: 99, Amount: 1}},
			total:   8000,
			wantErr: ErrInvalidTemplates,
		},
		{
			name: "options from different packages",
			inputs: []models.PledgeOptionInput{
				{TemplateID: 1, Amount: 1},
				{TemplateID: 3, Amount: 1},
			},
			total:   30000,
			wantErr: ErrCrossPackage,
		},
		{
			name:    "amount above template max",
			inputs:  []models.PledgeOptionInput{{TemplateID: 1, Amount: 11}},
			total:   44000,
			wantErr: ErrAmountOutOfRange,
		},
		{
			name:    "amount below template min",
			inputs:  []models.PledgeOptionInput{{TemplateID: 3, Amount: 0}},
			total:   1000,
			wantErr: ErrAmountOutOfRange,
		},
		{
			name: "mixed options in same package sum up",
			inputs: []models.PledgeOptionInput{
				{TemplateID: 1, Amount: 1},
				{TemplateID: 2, Amount: 2},
			},
			total:        7000,
			wantDonation: 0,
			wantPackage:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priced, err := pricePledgeOptions(tt.inputs, templates, tt.total)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDonation, priced.donation)
			assert.Equal(t, tt.wantPackage, priced.packageID)
			assert.Len(t, priced.options, len(tt.inputs))
		})
	}
}

// Bağış paketinin fiyatı zaten mutlak tabana eşit, 100 altı her toplam reddedilir.
func TestPricePledgeOptionsAbsoluteFloor(t *testing.T) {
	templates := testTemplates()

	_, err := pricePledgeOptions([]models.PledgeOptionInput{{TemplateID: 4, Amount: 1}}, templates, 99)
	require.ErrorIs(t, err, ErrTotalTooLow)

	priced, err := pricePledgeOptions([]models.PledgeOptionInput{{TemplateID: 4, Amount: 1}}, templates, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, priced.donation)
}

func TestPricePledgeOptionsCopiesTemplatePrice(t *testing.T) {
	templates := testTemplates()

	priced, err := pricePledgeOptions([]models.PledgeOptionInput{{TemplateID: 1, Amount: 3}}, templates, 12000)
	require.NoError(t, err)
	require.Len(t, priced.options, 1)
	assert.Equal(t, uint(1), priced.options[0].TemplateID)
	assert.Equal(t, 3, priced.options[0].Amount)
	assert.Equal(t, 4000, priced.options[0].Price)
}

func newPledgeService(db *gorm.DB, cfg *config.Config) *PledgeService {
	return NewPledgeService(
		db,
		cfg,
		repository.NewUserRepository(db),
		repository.NewPledgeRepository(db),
		repository.NewCatalogRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewMembershipRepository(db),
		nil,
		mailinglist.NewMailingListService(&config.Config{}),
	)
}

func TestCancelPledge(t *testing.T) {
	db := newTestDB(t)

	parkingUser := models.User{Email: "parking@system.invalid"}
	backer := models.User{Email: "backer@example.com"}
	for _, u := range []*models.User{&parkingUser, &backer} {
		require.NoError(t, db.Create(u).Error)
	}

	campaign := models.Campaign{Name: "LAUNCH", BeginDate: time.Now(), EndDate: time.Now().Add(24 * time.Hour)}
	require.NoError(t, db.Create(&campaign).Error)
	pkg := models.Package{CampaignID: campaign.ID, Name: "ABO"}
	require.NoError(t, db.Create(&pkg).Error)

	parkingPledge := models.Pledge{UserID: parkingUser.ID, PackageID: pkg.ID, Status: models.PledgeStatusCancelled}
	require.NoError(t, db.Create(&parkingPledge).Error)

	pledge := models.Pledge{UserID: backer.ID, PackageID: pkg.ID, Total: 24000, Status: models.PledgeStatusDraft}
	require.NoError(t, db.Create(&pledge).Error)

	waiting := models.Payment{Method: models.PaymentMethodPaymentSlip, Status: models.PaymentStatusWaiting, Total: 24000, HRID: "AAA111"}
	paid := models.Payment{Method: models.PaymentMethodPaymentSlip, Status: models.PaymentStatusPaid, Total: 24000, HRID: "BBB222"}
	for _, p := range []*models.Payment{&waiting, &paid} {
		require.NoError(t, db.Create(p).Error)
		require.NoError(t, db.Create(&models.PledgePayment{PledgeID: pledge.ID, PaymentID: p.ID}).Error)
	}

	for _, seq := range []int{1, 2} {
		require.NoError(t, db.Create(&models.Membership{
			UserID: backer.ID, PledgeID: pledge.ID, MembershipTypeID: 1,
			SequenceNumber: seq, BeginDate: time.Now(),
		}).Error)
	}

	cfg := &config.Config{
		Parking:              config.ParkingConfig{UserID: parkingUser.ID, PledgeID: parkingPledge.ID},
		CampaignGraceMinutes: 20,
	}
	svc := newPledgeService(db, cfg)

	cancelled, err := svc.CancelPledge(pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PledgeStatusCancelled, cancelled.Status)

	// Bekleyen ödeme iptal, alınmış ödeme iade kuyruğunda
	var reloaded models.Payment
	require.NoError(t, db.First(&reloaded, waiting.ID).Error)
	assert.Equal(t, models.PaymentStatusCancelled, reloaded.Status)
	reloaded = models.Payment{}
	require.NoError(t, db.First(&reloaded, paid.ID).Error)
	assert.Equal(t, models.PaymentStatusWaitingForRefund, reloaded.Status)

	// Üyelikler silinmez, parking sentinellerine taşınır
	var memberships []models.Membership
	require.NoError(t, db.Find(&memberships).Error)
	require.Len(t, memberships, 2)
	for _, m := range memberships {
		assert.Equal(t, parkingUser.ID, m.UserID)
		assert.Equal(t, parkingPledge.ID, m.PledgeID)
	}

	// Parking pledge'in kendisi iptal edilemez
	_, err = svc.CancelPledge(parkingPledge.ID)
	require.ErrorIs(t, err, ErrPledgeParked)

	// Var olmayan pledge
	_, err = svc.CancelPledge(99999)
	require.ErrorIs(t, err, ErrPledgeNotFound)
}

func TestParseBirthday(t *testing.T) {
	assert.Nil(t, parseBirthday(""))
	assert.Nil(t, parseBirthday("not-a-date"))

	parsed := parseBirthday("1990-05-17")
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), parsed.UTC())
}

func TestEqualBirthday(t *testing.T) {
	a := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	b := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	c := time.Date(1991, 5, 17, 0, 0, 0, 0, time.UTC)

	assert.True(t, equalBirthday(nil, nil))
	assert.True(t, equalBirthday(&a, &b))
	assert.False(t, equalBirthday(&a, &c))
	assert.False(t, equalBirthday(&a, nil))
	assert.False(t, equalBirthday(nil, &a))
}
