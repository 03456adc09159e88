package models

import "time"

// Ödeme yöntemleri
const (
	PaymentMethodPostfinanceCard = "POSTFINANCECARD"
	PaymentMethodPaymentSlip     = "PAYMENTSLIP"
	PaymentMethodVisa            = "VISA"
	PaymentMethodMastercard      = "MASTERCARD"
)

// Ödeme durumları
const (
	PaymentStatusWaiting          = "WAITING"
	PaymentStatusPaid             = "PAID"
	PaymentStatusWaitingForRefund = "WAITING_FOR_REFUND"
	PaymentStatusCancelled        = "CANCELLED"
)

type Payment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Method     string    `json:"method" gorm:"not null"`
	Status     string    `json:"status" gorm:"not null;default:'WAITING'"`
	Total      int       `json:"total" gorm:"not null"`
	HRID       string    `json:"hrid" gorm:"column:hrid;unique"` // banka dekontundaki referans kodu
	PSPID      string    `json:"psp_id"`
	PSPPayload string    `json:"psp_payload" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PledgePayment pledge ile payment arasındaki join kaydı.
type PledgePayment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PledgeID  uint      `json:"pledge_id" gorm:"not null;index"`
	PaymentID uint      `json:"payment_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaymentSource kullanıcının ödeme sağlayıcısındaki alias kaydı.
type PaymentSource struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Method    string    `json:"method" gorm:"not null"`
	PSPID     string    `json:"psp_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BankStatementEntry banka ekstresinden gelen bir satır.
// Matched false->true tek yönlüdür, asla geri alınmaz.
type BankStatementEntry struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Reference      string    `json:"reference" gorm:"not null"`
	CreditedAmount int       `json:"credited_amount" gorm:"not null"`
	RawText        string    `json:"raw_text" gorm:"type:text"`
	Matched        bool      `json:"matched" gorm:"not null;default:false;index"`
	ValueDate      time.Time `json:"value_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PayPledgeRequest struct {
	PledgeID uint   `json:"pledge_id" validate:"required"`
	Method   string `json:"method" validate:"required,oneof=POSTFINANCECARD PAYMENTSLIP VISA MASTERCARD"`
}

type PayPledgeResponse struct {
	PaymentID   uint   `json:"payment_id"`
	HRID        string `json:"hrid,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type ImportBankStatementRequest struct {
	Entries []BankStatementEntry `json:"entries" validate:"required,min=1"`
}

// MatchResult bir eşleştirme koşusunun sayaçları.
type MatchResult struct {
	NumMatchedPayments    int `json:"num_matched_payments"`
	NumUpdatedPledges     int `json:"num_updated_pledges"`
	NumPaymentsSuccessful int `json:"num_payments_successful"`
}
