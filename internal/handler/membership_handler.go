package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/crowdfund-backend/internal/controller"
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/service"
	"github.com/sefazor/crowdfund-backend/pkg/utils"
)

type MembershipHandler struct {
	membershipController *controller.MembershipController
	validator            *utils.Validator
}

func NewMembershipHandler(membershipController *controller.MembershipController, validator *utils.Validator) *MembershipHandler {
	return &MembershipHandler{
		membershipController: membershipController,
		validator:            validator,
	}
}

func (h *MembershipHandler) ClaimMembership(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req models.ClaimMembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	if err := h.membershipController.ClaimMembership(userID, req.VoucherCode); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVoucher):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrAlreadyHasMembership):
			return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse(err.Error()))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
		}
	}

	return c.JSON(models.SuccessResponse(nil, "Membership claimed"))
}

func (h *MembershipHandler) GetMyMemberships(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	memberships, err := h.membershipController.GetUserMemberships(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(memberships, ""))
}
