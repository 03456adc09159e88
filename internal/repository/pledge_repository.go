package repository

import (
	"github.com/sefazor/crowdfund-backend/internal/models"
	"gorm.io/gorm"
)

type PledgeRepository struct {
	db *gorm.DB
}

func NewPledgeRepository(db *gorm.DB) *PledgeRepository {
	return &PledgeRepository{
		db: db,
	}
}

func (r *PledgeRepository) WithTx(tx *gorm.DB) *PledgeRepository {
	return &PledgeRepository{db: tx}
}

func (r *PledgeRepository) Create(pledge *models.Pledge) error {
	return r.db.Create(pledge).Error
}

func (r *PledgeRepository) CreateOption(option *models.PledgeOption) error {
	return r.db.Create(option).Error
}

func (r *PledgeRepository) GetByID(id uint) (*models.Pledge, error) {
	var pledge models.Pledge
	err := r.db.First(&pledge, id).Error
	return &pledge, err
}

func (r *PledgeRepository) GetByIDWithOptions(id uint) (*models.Pledge, error) {
	var pledge models.Pledge
	err := r.db.Preload("Options").First(&pledge, id).Error
	return &pledge, err
}

func (r *PledgeRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Pledge{}).Where("id = ?", id).
		Update("status", status).Error
}

// HasPledges kullanıcının herhangi bir pledge'i var mı
func (r *PledgeRepository) HasPledges(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Pledge{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *PledgeRepository) FindSuccessfulByUser(userID uint) ([]models.Pledge, error) {
	var pledges []models.Pledge
	err := r.db.Where("user_id = ? AND status = ?", userID, models.PledgeStatusSuccessful).
		Find(&pledges).Error
	return pledges, err
}

func (r *PledgeRepository) GetOptionsByPledgeIDs(pledgeIDs []uint) ([]models.PledgeOption, error) {
	var options []models.PledgeOption
	err := r.db.Where("pledge_id IN ?", pledgeIDs).Find(&options).Error
	return options, err
}

func (r *PledgeRepository) GetUserPledges(userID uint) ([]models.Pledge, error) {
	var pledges []models.Pledge
	err := r.db.Preload("Options").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pledges).Error
	return pledges, err
}
