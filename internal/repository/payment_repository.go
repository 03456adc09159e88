package repository

import (
	"time"

	"github.com/sefazor/crowdfund-backend/internal/models"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{
		db: db,
	}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	return &payment, err
}

func (r *PaymentRepository) GetByPSPID(pspID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("psp_id = ?", pspID).First(&payment).Error
	return &payment, err
}

// GetOutstandingSlipPayments eşleştirme koşusunun adayları:
// bekleyen, banka havalesi ile ödenecek kayıtlar.
func (r *PaymentRepository) GetOutstandingSlipPayments() ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("method = ? AND status = ?",
		models.PaymentMethodPaymentSlip, models.PaymentStatusWaiting).
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) CreatePledgePayment(pp *models.PledgePayment) error {
	return r.db.Create(pp).Error
}

func (r *PaymentRepository) GetPledgePaymentsByPaymentIDs(paymentIDs []uint) ([]models.PledgePayment, error) {
	var pledgePayments []models.PledgePayment
	err := r.db.Where("payment_id IN ?", paymentIDs).Find(&pledgePayments).Error
	return pledgePayments, err
}

func (r *PaymentRepository) GetPaymentsForPledge(pledgeID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.
		Joins("JOIN pledge_payments pp ON pp.payment_id = payments.id").
		Where("pp.pledge_id = ?", pledgeID).
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) GetUnmatchedStatementEntries() ([]models.BankStatementEntry, error) {
	var entries []models.BankStatementEntry
	err := r.db.Where("matched = ?", false).Find(&entries).Error
	return entries, err
}

// MarkStatementEntriesMatched matched flag'i tek yönlüdür, geri alınmaz.
func (r *PaymentRepository) MarkStatementEntriesMatched(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.BankStatementEntry{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"matched": true, "updated_at": time.Now()}).Error
}

func (r *PaymentRepository) CreateStatementEntry(entry *models.BankStatementEntry) error {
	return r.db.Create(entry).Error
}

// GetLatestPaymentSource kullanıcının ilgili yöntem için en güncel alias'ı.
func (r *PaymentRepository) GetLatestPaymentSource(userID uint, method string) (*models.PaymentSource, error) {
	var source models.PaymentSource
	err := r.db.Where("user_id = ? AND method = ?", userID, method).
		Order("created_at DESC").
		First(&source).Error
	return &source, err
}

func (r *PaymentRepository) CreatePaymentSource(source *models.PaymentSource) error {
	return r.db.Create(source).Error
}

func (r *PaymentRepository) GetExportRows(paymentIDs []uint) ([]models.PaymentExportRow, error) {
	var rows []models.PaymentExportRow
	q := r.db.Table("payments AS pay").
		Select(`pay.id AS payment_id,
			p.id AS pledge_id,
			u.id AS user_id,
			u.email AS email,
			u.first_name AS first_name,
			u.last_name AS last_name,
			p.status AS pledge_status,
			p.created_at AS pledge_created_at,
			p.donation AS donation,
			p.total AS pledge_total,
			pay.method AS payment_method,
			pay.status AS payment_status,
			pay.total AS payment_total,
			pay.updated_at AS payment_updated_at`).
		Joins("JOIN pledge_payments pp ON pay.id = pp.payment_id").
		Joins("JOIN pledges p ON pp.pledge_id = p.id").
		Joins("JOIN users u ON p.user_id = u.id").
		Order("u.email")
	if len(paymentIDs) > 0 {
		q = q.Where("pay.id IN ?", paymentIDs)
	}
	err := q.Scan(&rows).Error
	return rows, err
}
