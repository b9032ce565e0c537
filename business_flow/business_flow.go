// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for session tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToUserInfo converts a user model to its sanitized API shape
func ToUserInfo(user models.User) dto.UserInfo {
	return dto.UserInfo{
		ID:                  user.ID,
		UUID:                user.UUID.String(),
		Email:               user.Email,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		Username:            user.Username,
		PhoneNumber:         user.PhoneNumber,
		Image:               user.Image,
		Role:                string(user.Role),
		OnboardingCompleted: utils.IsTrue(user.OnboardingCompleted),
		CompanyID:           user.CompanyID,
		CreatedAt:           user.CreatedAt.Format(time.RFC3339),
	}
}

// ToCompanyInfo converts a company model to its API shape
func ToCompanyInfo(company models.Company) dto.CompanyInfo {
	info := dto.CompanyInfo{
		ID:              company.ID,
		Name:            company.Name,
		Slug:            company.Slug,
		DisplayCode:     company.DisplayCode,
		WebsiteURL:      company.WebsiteURL,
		Industry:        company.Industry,
		CompanySize:     company.CompanySize,
		Address:         company.Address,
		City:            company.City,
		State:           company.State,
		Country:         company.Country,
		CompanyPhone:    company.CompanyPhone,
		RCNumber:        company.RCNumber,
		LogoURL:         company.LogoURL,
		SelectedPlans:   append([]string{}, company.SelectedPlans...),
		Amount:          company.Amount,
		BundleDiscount:  company.BundleDiscount,
		Status:          string(company.Status),
		PaymentVerified: utils.IsTrue(company.PaymentVerified),
	}
	if company.NextBilling != nil {
		nb := company.NextBilling.Format(time.RFC3339)
		info.NextBilling = &nb
	}
	return info
}

// ToTransactionInfo converts a ledger row to its API shape
func ToTransactionInfo(txn models.Transaction) dto.TransactionInfo {
	return dto.TransactionInfo{
		ID:          txn.ID,
		CompanyID:   txn.CompanyID,
		CompanyName: txn.Company.Name,
		Amount:      txn.Amount,
		Description: txn.Description,
		Status:      string(txn.Status),
		Type:        string(txn.Type),
		GatewayRef:  txn.GatewayRef,
		Date:        txn.Date.Format(time.RFC3339),
	}
}

// ToPlanInfo converts a plan model to its API shape
func ToPlanInfo(plan models.Plan) dto.PlanInfo {
	return dto.PlanInfo{
		ID:           plan.ID,
		TrackID:      plan.TrackID,
		Name:         plan.Name,
		Price:        plan.Price,
		SetupFee:     plan.SetupFee,
		ForLabel:     plan.ForLabel,
		Features:     append([]string{}, plan.Features...),
		Highlight:    utils.IsTrue(plan.Highlight),
		ResponseTime: plan.ResponseTime,
		Order:        plan.Order,
		IsActive:     utils.IsTrue(plan.IsActive),
	}
}

// ToTrackInfo converts a track and its loaded plans to the catalog shape
func ToTrackInfo(track models.Track) dto.TrackInfo {
	info := dto.TrackInfo{
		ID:       track.ID,
		Label:    track.Label,
		Color:    track.Color,
		Title:    track.Title,
		Subtitle: track.Subtitle,
		Order:    track.Order,
		Plans:    []dto.PlanInfo{},
	}
	for _, plan := range track.Plans {
		info.Plans = append(info.Plans, ToPlanInfo(plan))
	}
	return info
}

// ToTicketInfo converts a ticket model to its API shape
func ToTicketInfo(ticket models.Ticket) dto.TicketInfo {
	return dto.TicketInfo{
		ID:        ticket.ID,
		CompanyID: ticket.CompanyID,
		Subject:   ticket.Subject,
		Body:      ticket.Body,
		Status:    string(ticket.Status),
		CreatedAt: ticket.CreatedAt.Format(time.RFC3339),
	}
}
