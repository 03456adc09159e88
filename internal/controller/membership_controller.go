package controller

import (
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/service"
)

type MembershipController struct {
	membershipService *service.MembershipService
}

func NewMembershipController(membershipService *service.MembershipService) *MembershipController {
	return &MembershipController{
		membershipService: membershipService,
	}
}

func (c *MembershipController) ClaimMembership(userID uint, voucherCode string) error {
	return c.membershipService.ClaimMembership(userID, voucherCode)
}

func (c *MembershipController) GetUserMemberships(userID uint) ([]models.Membership, error) {
	return c.membershipService.GetUserMemberships(userID)
}
