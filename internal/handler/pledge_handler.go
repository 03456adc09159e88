package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/crowdfund-backend/internal/controller"
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/service"
	"github.com/sefazor/crowdfund-backend/pkg/utils"
)

type PledgeHandler struct {
	pledgeController *controller.PledgeController
	userService      *service.UserService
	validator        *utils.Validator
}

func NewPledgeHandler(pledgeController *controller.PledgeController, userService *service.UserService, validator *utils.Validator) *PledgeHandler {
	return &PledgeHandler{
		pledgeController: pledgeController,
		userService:      userService,
		validator:        validator,
	}
}

// SubmitPledge hem anonim hem giriş yapmış kullanıcılardan çağrılır,
// OptionalAuthMiddleware arkasında çalışır.
func (h *PledgeHandler) SubmitPledge(c *fiber.Ctx) error {
	var req models.SubmitPledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	// Token varsa kullanıcıyı yükle, yoksa anonim devam et
	var authUser *models.User
	if userID, ok := c.Locals("userID").(uint); ok {
		user, err := h.userService.GetUserByID(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not found"))
		}
		authUser = user
	}

	resp, err := h.pledgeController.SubmitPledge(authUser, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailMismatch):
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrCampaignClosed):
			return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse(err.Error()))
		default:
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		}
	}

	if resp.EmailVerify {
		return c.JSON(models.SuccessResponse(resp, "Please sign in to pledge with this email"))
	}

	return c.JSON(models.SuccessResponse(resp, "Pledge created"))
}

func (h *PledgeHandler) GetMyPledges(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	pledges, err := h.pledgeController.GetUserPledges(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(pledges, ""))
}

func (h *PledgeHandler) CancelPledge(c *fiber.Ctx) error {
	pledgeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid pledge ID"))
	}

	pledge, err := h.pledgeController.CancelPledge(uint(pledgeID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPledgeNotFound):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrPledgeParked):
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse(err.Error()))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
		}
	}

	return c.JSON(models.SuccessResponse(pledge, "Pledge cancelled"))
}
