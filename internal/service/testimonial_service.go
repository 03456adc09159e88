package service

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
	"github.com/sefazor/crowdfund-backend/pkg/storage"
)

const testimonialPageSize = 50

type TestimonialService struct {
	testimonialRepo *repository.TestimonialRepository
	storage         storage.StorageService
}

func NewTestimonialService(testimonialRepo *repository.TestimonialRepository, storage storage.StorageService) *TestimonialService {
	return &TestimonialService{
		testimonialRepo: testimonialRepo,
		storage:         storage,
	}
}

// Submit kullanıcının testimonial'ını kaydeder; varsa eskisinin üstüne yazar.
func (s *TestimonialService) Submit(userID uint, req models.SubmitTestimonialRequest, image *multipart.FileHeader) (*models.Testimonial, error) {
	testimonial := &models.Testimonial{
		UserID:    userID,
		Quote:     req.Quote,
		Role:      req.Role,
		Published: true,
	}

	if image != nil {
		src, err := image.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()

		ext := strings.ToLower(filepath.Ext(image.Filename))
		key := fmt.Sprintf("testimonials/%d%s", userID, ext)
		if err := s.storage.Upload(key, src); err != nil {
			return nil, err
		}
		testimonial.ImageURL = s.storage.GetPublicURL(key)
	} else if existing, err := s.testimonialRepo.GetByUser(userID); err == nil {
		// Yeni resim gelmediyse mevcut resmi koru
		testimonial.ImageURL = existing.ImageURL
	}

	if err := s.testimonialRepo.Upsert(testimonial); err != nil {
		return nil, err
	}
	return testimonial, nil
}

func (s *TestimonialService) List(offset, limit int, search string) ([]models.Testimonial, error) {
	if limit <= 0 || limit > testimonialPageSize {
		limit = testimonialPageSize
	}
	return s.testimonialRepo.GetPublished(offset, limit, search)
}
