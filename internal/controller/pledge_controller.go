package controller

import (
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/service"
)

type PledgeController struct {
	pledgeService *service.PledgeService
}

func NewPledgeController(pledgeService *service.PledgeService) *PledgeController {
	return &PledgeController{
		pledgeService: pledgeService,
	}
}

func (c *PledgeController) SubmitPledge(authUser *models.User, req models.SubmitPledgeRequest) (*models.SubmitPledgeResponse, error) {
	return c.pledgeService.SubmitPledge(authUser, req)
}

func (c *PledgeController) CancelPledge(pledgeID uint) (*models.Pledge, error) {
	return c.pledgeService.CancelPledge(pledgeID)
}

func (c *PledgeController) GetUserPledges(userID uint) ([]models.Pledge, error) {
	return c.pledgeService.GetUserPledges(userID)
}
