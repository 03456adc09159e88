package handler

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/crowdfund-backend/internal/controller"
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/service"
	"github.com/sefazor/crowdfund-backend/pkg/utils"
	"github.com/stripe/stripe-go/v74/webhook"
)

type PaymentHandler struct {
	paymentController *controller.PaymentController
	validator         *utils.Validator
}

func NewPaymentHandler(paymentController *controller.PaymentController, validator *utils.Validator) *PaymentHandler {
	return &PaymentHandler{
		paymentController: paymentController,
		validator:         validator,
	}
}

func (h *PaymentHandler) PayPledge(c *fiber.Ctx) error {
	var req models.PayPledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.paymentController.PayPledge(req)
	if err != nil {
		if errors.Is(err, service.ErrPledgeNotPayable) {
			return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(resp, "Payment created"))
}

func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	// API version mismatch'i ignore et
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(fmt.Sprintf("Webhook error: %v", err)))
	}

	if err := h.paymentController.HandleStripeWebhook(&event); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PaymentHandler) MatchBankStatements(c *fiber.Ctx) error {
	result, err := h.paymentController.MatchBankStatements()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(result, "Matching run completed"))
}

func (h *PaymentHandler) ImportBankStatement(c *fiber.Ctx) error {
	var req models.ImportBankStatementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	imported, err := h.paymentController.ImportBankStatement(req.Entries)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(fiber.Map{"imported": imported}, "Statement imported"))
}

// PaymentsCSV dışa aktarım. paymentIds query parametresi virgülle ayrılmış
// ID listesi, boşsa tüm ödemeler dışa aktarılır.
func (h *PaymentHandler) PaymentsCSV(c *fiber.Ctx) error {
	var paymentIDs []uint
	if raw := c.Query("paymentIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid payment ID: " + part))
			}
			paymentIDs = append(paymentIDs, uint(id))
		}
	}

	csv, err := h.paymentController.PaymentsCSV(paymentIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="payments.csv"`)
	return c.SendString(csv)
}
