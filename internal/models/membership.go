package models

import "time"

// Membership başarılı bir pledge karşılığında verilen üyelik kaydı.
// SequenceNumber dışarıya görünen, asla tekrar kullanılmayan kıt bir
// kaynaktır; unique index eşzamanlı çifte tahsisi engeller.
type Membership struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"not null;index"`
	PledgeID         uint      `json:"pledge_id" gorm:"not null;index"`
	MembershipTypeID uint      `json:"membership_type_id" gorm:"not null"`
	VoucherCode      *string   `json:"voucher_code,omitempty" gorm:"unique"`
	SequenceNumber   int       `json:"sequence_number" gorm:"not null;uniqueIndex"`
	BeginDate        time.Time `json:"begin_date" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ClaimMembershipRequest struct {
	VoucherCode string `json:"voucher_code" validate:"required"`
}
