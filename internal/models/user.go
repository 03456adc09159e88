package models

import (
	"time"
)

// Kullanıcı rolleri
const (
	RoleMember     = "member"
	RoleSupporter  = "supporter"
	RoleAccountant = "accountant"
)

type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Email       string     `json:"email" gorm:"unique;not null"`
	Password    string     `json:"-"` // pledge üzerinden oluşturulan kullanıcıların şifresi yok
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Birthday    *time.Time `json:"birthday"`
	PhoneNumber string     `json:"phone_number"`
	Role        string     `json:"role" gorm:"not null;default:'member'"`
	IsVerified  bool       `json:"is_verified" gorm:"default:false"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u *User) Name() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}
