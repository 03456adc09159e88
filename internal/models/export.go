package models

import "time"

// PaymentExportRow muhasebe CSV'sinin bir satırını besleyen join sonucu.
type PaymentExportRow struct {
	PaymentID        uint      `json:"payment_id"`
	PledgeID         uint      `json:"pledge_id"`
	UserID           uint      `json:"user_id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	PledgeStatus     string    `json:"pledge_status"`
	PledgeCreatedAt  time.Time `json:"pledge_created_at"`
	Donation         int       `json:"donation"`
	PledgeTotal      int       `json:"pledge_total"`
	PaymentMethod    string    `json:"payment_method"`
	PaymentStatus    string    `json:"payment_status"`
	PaymentTotal     int       `json:"payment_total"`
	PaymentUpdatedAt time.Time `json:"payment_updated_at"`
}
