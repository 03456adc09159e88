package models

import "time"

// Reward tipleri
const (
	RewardTypeMembershipType = "MembershipType"
	RewardTypeGoodie         = "Goodie"
)

type Campaign struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"unique;not null"`
	BeginDate time.Time `json:"begin_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Package struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	CampaignID uint            `json:"campaign_id" gorm:"not null"`
	Name       string          `json:"name" gorm:"unique;not null"`
	Options    []PackageOption `json:"options" gorm:"foreignKey:PackageID"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PackageOption bir paketin satın alınabilir satır şablonu.
// Price ve MinUserPrice minor unit (rappen) cinsinden tutulur.
type PackageOption struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	PackageID    uint      `json:"package_id" gorm:"not null"`
	RewardID     *uint     `json:"reward_id"`
	MinAmount    int       `json:"min_amount" gorm:"not null"`
	MaxAmount    int       `json:"max_amount" gorm:"not null"`
	Price        int       `json:"price" gorm:"not null"`
	UserPrice    bool      `json:"user_price" gorm:"not null;default:false"`
	MinUserPrice int       `json:"min_user_price" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Reward struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"unique;not null"`
	Type      string    `json:"type" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MembershipType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RewardID  uint      `json:"reward_id" gorm:"not null"`
	Name      string    `json:"name" gorm:"unique;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Goodie struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RewardID  uint      `json:"reward_id" gorm:"not null"`
	Name      string    `json:"name" gorm:"unique;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
