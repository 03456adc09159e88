package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/service"
)

type PackageHandler struct {
	packageService *service.PackageService
}

func NewPackageHandler(packageService *service.PackageService) *PackageHandler {
	return &PackageHandler{
		packageService: packageService,
	}
}

func (h *PackageHandler) GetAllPackages(c *fiber.Ctx) error {
	packages, err := h.packageService.GetAllPackages()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(packages, ""))
}

func (h *PackageHandler) GetPackageByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid package ID"))
	}

	pkg, err := h.packageService.GetPackageByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Package not found"))
	}

	return c.JSON(models.SuccessResponse(pkg, ""))
}
