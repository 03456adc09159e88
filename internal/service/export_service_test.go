package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sefazor/crowdfund-backend/internal/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{0, "0.00"},
		{100, "1.00"},
		{12345, "123.45"},
		{5, "0.05"},
		{-50, "-0.50"},
		{-23000, "-230.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPrice(tt.total))
	}
}

func TestBuildPaymentsCSV(t *testing.T) {
	rewardAbo := uintPtr(1)
	rewardNotebook := uintPtr(2)

	rewards := []models.Reward{
		{ID: 1, Name: "ABO"},
		{ID: 2, Name: "NOTEBOOK"},
	}
	templates := []models.PackageOption{
		{ID: 1, PackageID: 1, Price: 4000, RewardID: rewardAbo},
		{ID: 2, PackageID: 1, Price: 1500, RewardID: rewardNotebook},
		{ID: 4, PackageID: 3, Price: 100}, // ödülsüz, DONATION kolonu
	}
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	updatedAt := time.Date(2026, 3, 20, 16, 45, 0, 0, time.UTC)

	rows := []models.PaymentExportRow{
		{
			PaymentID:        7,
			PledgeID:         3,
			UserID:           5,
			Email:            "donor@example.com",
			FirstName:        "Mina",
			LastName:         "Keller",
			PledgeStatus:     models.PledgeStatusSuccessful,
			PledgeCreatedAt:  createdAt,
			Donation:         500,
			PledgeTotal:      10000,
			PaymentMethod:    models.PaymentMethodPaymentSlip,
			PaymentStatus:    models.PaymentStatusPaid,
			PaymentTotal:     10000,
			PaymentUpdatedAt: updatedAt,
		},
	}
	options := []models.PledgeOption{
		{PledgeID: 3, TemplateID: 1, Amount: 2, Price: 4000},
		{PledgeID: 3, TemplateID: 2, Amount: 1, Price: 1500},
	}

	out, err := buildPaymentsCSV(rows, options, templates, rewards)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	// Ödül kolonları alfabetik: ABO, DONATION, NOTEBOOK
	header := strings.Split(lines[0], ";")
	assert.Equal(t, "paymentId", header[0])
	assert.Contains(t, lines[0], "ABO #;ABO total;DONATION #;DONATION total;NOTEBOOK #;NOTEBOOK total;donation")

	record := strings.Split(lines[1], ";")
	require.Equal(t, len(header), len(record))
	assert.Equal(t, "7", record[0])
	assert.Equal(t, "3", record[1])
	assert.Equal(t, "donor@example.com", record[3])
	assert.Equal(t, "14.03.2026 09:30", record[7])
	assert.Equal(t, "100.00", record[8])
	assert.Equal(t, "PAYMENTSLIP", record[9])
	assert.Equal(t, "PAID", record[10])
	assert.Equal(t, "20.03.2026 16:45", record[12])

	// ABO: 2 adet, 80.00; NOTEBOOK: 1 adet, 15.00; DONATION kolonu boş kaldı
	assert.Equal(t, "2", record[13])
	assert.Equal(t, "80.00", record[14])
	assert.Equal(t, "0", record[15])
	assert.Equal(t, "0.00", record[16])
	assert.Equal(t, "1", record[17])
	assert.Equal(t, "15.00", record[18])
	assert.Equal(t, "5.00", record[19])
}

func TestBuildPaymentsCSVNoRows(t *testing.T) {
	out, err := buildPaymentsCSV(nil, nil, nil, nil)
	require.NoError(t, err)

	// Satır yoksa bile header yazılır
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "paymentId;pledgeId;userId"))
}
