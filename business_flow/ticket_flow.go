// Package businessflow contains the core business logic and use cases for support tickets
package businessflow

import (
	"context"
	"strings"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
)

// TicketFlow handles support ticket creation and lifecycle
type TicketFlow interface {
	CreateTicket(ctx context.Context, userID uint, req *dto.CreateTicketRequest) (*dto.TicketInfo, error)
	ListMyTickets(ctx context.Context, userID uint) ([]dto.TicketInfo, error)
	UpdateTicketStatus(ctx context.Context, ticketID uint, req *dto.UpdateTicketStatusRequest) (*dto.TicketInfo, error)
}

// TicketFlowImpl implements the support ticket flow
type TicketFlowImpl struct {
	userRepo   repository.UserRepository
	ticketRepo repository.TicketRepository
}

// NewTicketFlow creates a new support ticket flow instance
func NewTicketFlow(
	userRepo repository.UserRepository,
	ticketRepo repository.TicketRepository,
) TicketFlow {
	return &TicketFlowImpl{
		userRepo:   userRepo,
		ticketRepo: ticketRepo,
	}
}

// CreateTicket opens a ticket on behalf of the user's company
func (f *TicketFlowImpl) CreateTicket(ctx context.Context, userID uint, req *dto.CreateTicketRequest) (*dto.TicketInfo, error) {
	user, err := f.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to create ticket", err)
	}
	if user == nil {
		return nil, NewBusinessError(CodeNotFound, "User not found", ErrUserNotFound)
	}
	if user.CompanyID == nil {
		return nil, NewBusinessError(CodeValidationError, "Complete company setup before opening a ticket", ErrCompanyRequired)
	}

	ticket := &models.Ticket{
		CompanyID: *user.CompanyID,
		Subject:   strings.TrimSpace(req.Subject),
		Body:      strings.TrimSpace(req.Body),
		Status:    models.TicketStatusOpen,
	}
	if err := f.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to create ticket", err)
	}

	info := ToTicketInfo(*ticket)
	return &info, nil
}

// ListMyTickets returns every ticket belonging to the user's company,
// newest first
func (f *TicketFlowImpl) ListMyTickets(ctx context.Context, userID uint) ([]dto.TicketInfo, error) {
	user, err := f.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to list tickets", err)
	}
	if user == nil {
		return nil, NewBusinessError(CodeNotFound, "User not found", ErrUserNotFound)
	}
	if user.CompanyID == nil {
		return []dto.TicketInfo{}, nil
	}

	tickets, err := f.ticketRepo.ListByCompany(ctx, *user.CompanyID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to list tickets", err)
	}

	infos := make([]dto.TicketInfo, 0, len(tickets))
	for _, ticket := range tickets {
		infos = append(infos, ToTicketInfo(*ticket))
	}
	return infos, nil
}

// UpdateTicketStatus moves a ticket through its lifecycle (back office)
func (f *TicketFlowImpl) UpdateTicketStatus(ctx context.Context, ticketID uint, req *dto.UpdateTicketStatusRequest) (*dto.TicketInfo, error) {
	status := models.TicketStatus(req.Status)
	switch status {
	case models.TicketStatusOpen, models.TicketStatusInProgress, models.TicketStatusClosed:
	default:
		return nil, NewBusinessError(CodeValidationError, "Invalid ticket status", ErrInvalidStatus)
	}

	ticket, err := f.ticketRepo.ByID(ctx, ticketID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to update ticket", err)
	}
	if ticket == nil {
		return nil, NewBusinessError(CodeNotFound, "Ticket not found", ErrTicketNotFound)
	}

	if err := f.ticketRepo.UpdateStatus(ctx, ticketID, status); err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to update ticket", err)
	}
	ticket.Status = status

	info := ToTicketInfo(*ticket)
	return &info, nil
}
