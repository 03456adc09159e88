package models

import "time"

// Pledge durumları. WAITING ayrı bir pledge durumu değildir,
// bekleyen ödeme payment.status üzerinden takip edilir.
const (
	PledgeStatusDraft           = "DRAFT"
	PledgeStatusSuccessful      = "SUCCESSFUL"
	PledgeStatusPaidInvestigate = "PAID_INVESTIGATE"
	PledgeStatusCancelled       = "CANCELLED"
)

// Pledge toplamının mutlak alt sınırı (minor unit).
const PledgeMinTotal = 100

type Pledge struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	PackageID uint           `json:"package_id" gorm:"not null"`
	Total     int            `json:"total" gorm:"not null"`
	Donation  int            `json:"donation" gorm:"not null;default:0"`
	Reason    string         `json:"reason"`
	Status    string         `json:"status" gorm:"not null;default:'DRAFT'"`
	Options   []PledgeOption `json:"options" gorm:"foreignKey:PledgeID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// PledgeOption satın alma anındaki fiyatın donmuş kopyasıdır,
// katalog şablonuna canlı referans değil.
type PledgeOption struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PledgeID   uint      `json:"pledge_id" gorm:"not null;index"`
	TemplateID uint      `json:"template_id" gorm:"not null"`
	Amount     int       `json:"amount" gorm:"not null"`
	Price      int       `json:"price" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PledgeOptionInput struct {
	TemplateID uint `json:"template_id" validate:"required"`
	Amount     int  `json:"amount" validate:"required,min=1"`
}

type PledgeUserInput struct {
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Birthday    string `json:"birthday" validate:"omitempty,date"`
	PhoneNumber string `json:"phone_number"`
}

type SubmitPledgeRequest struct {
	Total   int                 `json:"total" validate:"required,min=100"`
	Reason  string              `json:"reason"`
	Options []PledgeOptionInput `json:"options" validate:"required,min=1,dive"`
	User    PledgeUserInput     `json:"user" validate:"required"`
}

// SubmitPledgeResponse EmailVerify true ise diğer alanlar boştur:
// kullanıcı önce giriş yapmalıdır.
type SubmitPledgeResponse struct {
	PledgeID    uint   `json:"pledge_id,omitempty"`
	UserID      uint   `json:"user_id,omitempty"`
	PFAliasID   string `json:"pf_alias_id,omitempty"`
	PFSignature string `json:"pf_signature,omitempty"`
	EmailVerify bool   `json:"email_verify,omitempty"`
}
