package repository

import (
	"github.com/sefazor/crowdfund-backend/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository kampanya boyunca değişmeyen referans verisini okur.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		db: db,
	}
}

func (r *CatalogRepository) WithTx(tx *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: tx}
}

func (r *CatalogRepository) GetAllPackages() ([]models.Package, error) {
	var packages []models.Package
	err := r.db.Preload("Options").Find(&packages).Error
	return packages, err
}

func (r *CatalogRepository) GetPackageByID(id uint) (*models.Package, error) {
	var pkg models.Package
	err := r.db.First(&pkg, id).Error
	return &pkg, err
}

func (r *CatalogRepository) GetCampaignByID(id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.First(&campaign, id).Error
	return &campaign, err
}

func (r *CatalogRepository) GetPackageOptionsByIDs(ids []uint) ([]models.PackageOption, error) {
	var options []models.PackageOption
	err := r.db.Where("id IN ?", ids).Find(&options).Error
	return options, err
}

func (r *CatalogRepository) GetAllPackageOptions() ([]models.PackageOption, error) {
	var options []models.PackageOption
	err := r.db.Find(&options).Error
	return options, err
}

func (r *CatalogRepository) GetRewardsByIDs(ids []uint) ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.Where("id IN ?", ids).Find(&rewards).Error
	return rewards, err
}

func (r *CatalogRepository) GetAllRewards() ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.Find(&rewards).Error
	return rewards, err
}

func (r *CatalogRepository) GetMembershipTypeByRewardID(rewardID uint) (*models.MembershipType, error) {
	var mt models.MembershipType
	err := r.db.Where("reward_id = ?", rewardID).First(&mt).Error
	return &mt, err
}

func (r *CatalogRepository) GetAllMembershipTypes() ([]models.MembershipType, error) {
	var types []models.MembershipType
	err := r.db.Find(&types).Error
	return types, err
}

func (r *CatalogRepository) GetAllGoodies() ([]models.Goodie, error) {
	var goodies []models.Goodie
	err := r.db.Find(&goodies).Error
	return goodies, err
}
