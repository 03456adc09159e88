package controller

import (
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/service"
	"github.com/stripe/stripe-go/v74"
)

type PaymentController struct {
	paymentService *service.PaymentService
	exportService  *service.ExportService
}

func NewPaymentController(paymentService *service.PaymentService, exportService *service.ExportService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		exportService:  exportService,
	}
}

func (c *PaymentController) PayPledge(req models.PayPledgeRequest) (*models.PayPledgeResponse, error) {
	return c.paymentService.PayPledge(req)
}

func (c *PaymentController) HandleStripeWebhook(event *stripe.Event) error {
	return c.paymentService.HandleStripeWebhook(event)
}

func (c *PaymentController) MatchBankStatements() (*models.MatchResult, error) {
	return c.paymentService.MatchBankStatements()
}

func (c *PaymentController) ImportBankStatement(entries []models.BankStatementEntry) (int, error) {
	return c.paymentService.ImportBankStatement(entries)
}

func (c *PaymentController) PaymentsCSV(paymentIDs []uint) (string, error) {
	return c.exportService.PaymentsCSV(paymentIDs)
}
