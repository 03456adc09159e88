package repository

import (
	"time"

	"github.com/sefazor/crowdfund-backend/internal/models"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{
		db: db,
	}
}

func (r *MembershipRepository) WithTx(tx *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: tx}
}

func (r *MembershipRepository) Create(membership *models.Membership) error {
	return r.db.Create(membership).Error
}

func (r *MembershipRepository) CountByPledge(pledgeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Membership{}).Where("pledge_id = ?", pledgeID).Count(&count).Error
	return count, err
}

func (r *MembershipRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Membership{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// MaxSequenceNumber tahsis edilmiş en yüksek sıra numarası.
// Tablo boşken 0 döner.
func (r *MembershipRepository) MaxSequenceNumber() (int, error) {
	var max *int
	err := r.db.Model(&models.Membership{}).
		Select("MAX(sequence_number)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *MembershipRepository) GetByPledge(pledgeID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.Where("pledge_id = ?", pledgeID).Find(&memberships).Error
	return memberships, err
}

func (r *MembershipRepository) GetByUser(userID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.Where("user_id = ?", userID).Find(&memberships).Error
	return memberships, err
}

func (r *MembershipRepository) GetByVoucherCode(code string) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.Where("voucher_code = ?", code).First(&membership).Error
	return &membership, err
}

// Transfer üyeliği yeni kullanıcıya taşır ve voucher kodunu temizler.
func (r *MembershipRepository) Transfer(membershipID, userID uint) error {
	return r.db.Model(&models.Membership{}).Where("id = ?", membershipID).
		Updates(map[string]interface{}{
			"user_id":      userID,
			"voucher_code": nil,
			"updated_at":   time.Now(),
		}).Error
}

// ReassignToParking iptal edilen pledge'in üyeliklerini sentinel
// kullanıcı/pledge çiftine taşır. Kayıtlar asla silinmez.
func (r *MembershipRepository) ReassignToParking(pledgeID, parkingUserID, parkingPledgeID uint) error {
	return r.db.Model(&models.Membership{}).Where("pledge_id = ?", pledgeID).
		Updates(map[string]interface{}{
			"user_id":    parkingUserID,
			"pledge_id":  parkingPledgeID,
			"updated_at": time.Now(),
		}).Error
}
