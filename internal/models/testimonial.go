package models

import "time"

type Testimonial struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	Quote     string    `json:"quote" gorm:"type:text;not null"`
	Role      string    `json:"role"`
	ImageURL  string    `json:"image_url"`
	Published bool      `json:"published" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SubmitTestimonialRequest struct {
	Quote string `json:"quote" validate:"required,max=140"`
	Role  string `json:"role" validate:"max=60"`
}
