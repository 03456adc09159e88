package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/service"
	"github.com/sefazor/crowdfund-backend/pkg/utils"
)

type TestimonialHandler struct {
	testimonialService *service.TestimonialService
	validator          *utils.Validator
}

func NewTestimonialHandler(testimonialService *service.TestimonialService, validator *utils.Validator) *TestimonialHandler {
	return &TestimonialHandler{
		testimonialService: testimonialService,
		validator:          validator,
	}
}

// SubmitTestimonial multipart form alır, image alanı opsiyonel.
func (h *TestimonialHandler) SubmitTestimonial(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	req := models.SubmitTestimonialRequest{
		Quote: c.FormValue("quote"),
		Role:  c.FormValue("role"),
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	testimonial, err := h.testimonialService.Submit(userID, req, image)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(testimonial, "Testimonial saved"))
}

func (h *TestimonialHandler) ListTestimonials(c *fiber.Ctx) error {
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search")

	testimonials, err := h.testimonialService.List(offset, limit, search)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(testimonials, ""))
}
