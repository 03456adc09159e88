package service

import (
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
)

type PackageService struct {
	catalogRepo *repository.CatalogRepository
}

func NewPackageService(catalogRepo *repository.CatalogRepository) *PackageService {
	return &PackageService{
		catalogRepo: catalogRepo,
	}
}

func (s *PackageService) GetAllPackages() ([]models.Package, error) {
	return s.catalogRepo.GetAllPackages()
}

func (s *PackageService) GetPackageByID(id uint) (*models.Package, error) {
	return s.catalogRepo.GetPackageByID(id)
}
