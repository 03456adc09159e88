package repository

import (
	"github.com/sefazor/crowdfund-backend/internal/models"
	"gorm.io/gorm"
)

type TestimonialRepository struct {
	db *gorm.DB
}

func NewTestimonialRepository(db *gorm.DB) *TestimonialRepository {
	return &TestimonialRepository{
		db: db,
	}
}

func (r *TestimonialRepository) Upsert(testimonial *models.Testimonial) error {
	var existing models.Testimonial
	err := r.db.Where("user_id = ?", testimonial.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(testimonial).Error
	}
	if err != nil {
		return err
	}
	testimonial.ID = existing.ID
	testimonial.CreatedAt = existing.CreatedAt
	return r.db.Save(testimonial).Error
}

func (r *TestimonialRepository) GetByUser(userID uint) (*models.Testimonial, error) {
	var testimonial models.Testimonial
	err := r.db.Where("user_id = ?", userID).First(&testimonial).Error
	return &testimonial, err
}

func (r *TestimonialRepository) GetPublished(offset, limit int, search string) ([]models.Testimonial, error) {
	var testimonials []models.Testimonial
	q := r.db.Where("published = ?", true)
	if search != "" {
		q = q.Joins("JOIN users u ON u.id = testimonials.user_id").
			Where("u.first_name ILIKE ? OR u.last_name ILIKE ? OR testimonials.quote ILIKE ?",
				"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	err := q.Order("testimonials.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&testimonials).Error
	return testimonials, err
}
