package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
)

func TestSettlementStatus(t *testing.T) {
	tests := []struct {
		name       string
		paidTotal  int
		total      int
		current    string
		wantStatus string
	}{
		{
			name:       "full payment settles successfully",
			paidTotal:  4000,
			total:      4000,
			current:    models.PledgeStatusDraft,
			wantStatus: models.PledgeStatusSuccessful,
		},
		{
			name:       "overpayment settles successfully",
			paidTotal:  5000,
			total:      4000,
			current:    models.PledgeStatusDraft,
			wantStatus: models.PledgeStatusSuccessful,
		},
		{
			name:       "partial payment needs investigation",
			paidTotal:  2000,
			total:      4000,
			current:    models.PledgeStatusDraft,
			wantStatus: models.PledgeStatusPaidInvestigate,
		},
		{
			name:       "investigate escalates to successful on full payment",
			paidTotal:  4000,
			total:      4000,
			current:    models.PledgeStatusPaidInvestigate,
			wantStatus: models.PledgeStatusSuccessful,
		},
		{
			name:       "successful is terminal",
			paidTotal:  0,
			total:      4000,
			current:    models.PledgeStatusSuccessful,
			wantStatus: models.PledgeStatusSuccessful,
		},
		{
			name:       "cancelled is terminal",
			paidTotal:  4000,
			total:      4000,
			current:    models.PledgeStatusCancelled,
			wantStatus: models.PledgeStatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, settlementStatus(tt.paidTotal, tt.total, tt.current))
		})
	}
}

// Aynı durumu tekrar hesaplamak no-op olmalı, settlePledge bunun üzerine kurulu.
func TestSettlementStatusIdempotent(t *testing.T) {
	first := settlementStatus(4000, 4000, models.PledgeStatusDraft)
	second := settlementStatus(4000, 4000, first)
	assert.Equal(t, first, second)
}

func TestMatchStatements(t *testing.T) {
	payments := []models.Payment{
		{ID: 1, HRID: "AB1234", Status: models.PaymentStatusWaiting},
		{ID: 2, HRID: "CD5678", Status: models.PaymentStatusWaiting},
		{ID: 3, HRID: "EF9999", Status: models.PaymentStatusWaiting},
	}
	entries := []models.BankStatementEntry{
		{ID: 10, Reference: "AB1234", CreditedAmount: 4000},
		{ID: 11, Reference: "ab1234", CreditedAmount: 4000}, // case farkı eşleşmez
		{ID: 12, Reference: "CD5678", CreditedAmount: 2500},
		{ID: 13, Reference: "ZZ0000", CreditedAmount: 9999},
	}

	matches := matchStatements(payments, entries)

	require.Len(t, matches, 2)
	assert.Equal(t, uint(1), matches[0].payment.ID)
	assert.Equal(t, uint(10), matches[0].entry.ID)
	assert.Equal(t, uint(2), matches[1].payment.ID)
	assert.Equal(t, uint(12), matches[1].entry.ID)
}

func TestMatchStatementsEntryConsumedOnce(t *testing.T) {
	payments := []models.Payment{
		{ID: 1, HRID: "AB1234"},
		{ID: 2, HRID: "AB1234"},
	}
	entries := []models.BankStatementEntry{
		{ID: 10, Reference: "AB1234", CreditedAmount: 4000},
	}

	matches := matchStatements(payments, entries)

	// Tek satır en fazla bir ödemeye düşer
	require.Len(t, matches, 1)
	assert.Equal(t, uint(1), matches[0].payment.ID)
}

func TestHasOpenPayment(t *testing.T) {
	tests := []struct {
		name     string
		payments []models.Payment
		want     bool
	}{
		{
			name: "no payments",
			want: false,
		},
		{
			name:     "only cancelled payments",
			payments: []models.Payment{{Status: models.PaymentStatusCancelled}},
			want:     false,
		},
		{
			name:     "waiting payment is open",
			payments: []models.Payment{{Status: models.PaymentStatusWaiting}},
			want:     true,
		},
		{
			name: "paid payment is open",
			payments: []models.Payment{
				{Status: models.PaymentStatusCancelled},
				{Status: models.PaymentStatusPaid},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasOpenPayment(tt.payments))
		})
	}
}

func TestPayPledgeSlipRejectsSecondPayment(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(
		db,
		nil,
		repository.NewUserRepository(db),
		repository.NewPledgeRepository(db),
		repository.NewPaymentRepository(db),
		nil,
		nil,
	)

	user := models.User{Email: "backer@example.com"}
	require.NoError(t, db.Create(&user).Error)
	campaign := models.Campaign{Name: "LAUNCH", BeginDate: time.Now(), EndDate: time.Now().Add(24 * time.Hour)}
	require.NoError(t, db.Create(&campaign).Error)
	pkg := models.Package{CampaignID: campaign.ID, Name: "ABO"}
	require.NoError(t, db.Create(&pkg).Error)
	pledge := models.Pledge{UserID: user.ID, PackageID: pkg.ID, Total: 24000, Status: models.PledgeStatusDraft}
	require.NoError(t, db.Create(&pledge).Error)

	resp, err := svc.PayPledge(models.PayPledgeRequest{PledgeID: pledge.ID, Method: models.PaymentMethodPaymentSlip})
	require.NoError(t, err)
	assert.Len(t, resp.HRID, hridLength)

	// Pledge hâlâ DRAFT ama açık bir ödemesi var; ikinci referans kodu
	// üretilmez
	_, err = svc.PayPledge(models.PayPledgeRequest{PledgeID: pledge.ID, Method: models.PaymentMethodPaymentSlip})
	require.ErrorIs(t, err, ErrPledgeNotPayable)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// DRAFT olmayan pledge de ödenemez
	require.NoError(t, db.Model(&models.Pledge{}).Where("id = ?", pledge.ID).
		Update("status", models.PledgeStatusSuccessful).Error)
	_, err = svc.PayPledge(models.PayPledgeRequest{PledgeID: pledge.ID, Method: models.PaymentMethodPaymentSlip})
	require.ErrorIs(t, err, ErrPledgeNotPayable)
}

func TestSettlePledgeIssuesMembershipsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(
		db,
		nil,
		repository.NewUserRepository(db),
		repository.NewPledgeRepository(db),
		repository.NewPaymentRepository(db),
		newMembershipService(db),
		nil,
	)

	user := models.User{Email: "backer@example.com"}
	require.NoError(t, db.Create(&user).Error)
	reward := models.Reward{Name: "ABO", Type: models.RewardTypeMembershipType}
	require.NoError(t, db.Create(&reward).Error)
	require.NoError(t, db.Create(&models.MembershipType{RewardID: reward.ID, Name: "ABO"}).Error)
	campaign := models.Campaign{Name: "LAUNCH", BeginDate: time.Now(), EndDate: time.Now().Add(24 * time.Hour)}
	require.NoError(t, db.Create(&campaign).Error)
	pkg := models.Package{CampaignID: campaign.ID, Name: "ABO"}
	require.NoError(t, db.Create(&pkg).Error)
	tpl := models.PackageOption{PackageID: pkg.ID, RewardID: &reward.ID, MinAmount: 1, MaxAmount: 1, Price: 24000}
	require.NoError(t, db.Create(&tpl).Error)

	pledge := models.Pledge{UserID: user.ID, PackageID: pkg.ID, Total: 24000, Status: models.PledgeStatusDraft}
	require.NoError(t, db.Create(&pledge).Error)
	require.NoError(t, db.Create(&models.PledgeOption{
		PledgeID: pledge.ID, TemplateID: tpl.ID, Amount: 1, Price: 24000,
	}).Error)

	settled, transitioned, err := svc.settlePledge(db, &pledge, 24000)
	require.NoError(t, err)
	assert.True(t, transitioned)
	require.NotNil(t, settled)
	assert.Equal(t, models.PledgeStatusSuccessful, pledge.Status)

	var count int64
	require.NoError(t, db.Model(&models.Membership{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Aynı pledge'e ikinci bir ödeme güncellemesi (ör. tekrar gelen
	// webhook) yeni üyelik üretmez
	var fresh models.Pledge
	require.NoError(t, db.First(&fresh, pledge.ID).Error)
	settled, transitioned, err = svc.settlePledge(db, &fresh, 24000)
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Nil(t, settled)

	require.NoError(t, db.Model(&models.Membership{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMatchStatementsNoCandidates(t *testing.T) {
	matches := matchStatements(nil, []models.BankStatementEntry{{ID: 1, Reference: "AB1234"}})
	assert.Empty(t, matches)

	matches = matchStatements([]models.Payment{{ID: 1, HRID: "AB1234"}}, nil)
	assert.Empty(t, matches)
}
