// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"github.com/nuvylux/subscription-backend/app/dto"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// TicketHandlerInterface defines the contract for support ticket handlers
type TicketHandlerInterface interface {
	CreateTicket(c fiber.Ctx) error
	ListMyTickets(c fiber.Ctx) error
}

// TicketHandler handles support ticket HTTP requests
type TicketHandler struct {
	ticketFlow    businessflow.TicketFlow
	validator     *validator.Validate
	secureCookies bool
}

// NewTicketHandler creates a new support ticket handler
func NewTicketHandler(ticketFlow businessflow.TicketFlow, secureCookies bool) *TicketHandler {
	return &TicketHandler{
		ticketFlow:    ticketFlow,
		validator:     newValidator(),
		secureCookies: secureCookies,
	}
}

// CreateTicket opens a support ticket for the user's company
// @Summary Create Ticket
// @Tags Tickets
// @Accept json
// @Produce json
// @Param request body dto.CreateTicketRequest true "Ticket data"
// @Success 201 {object} dto.APIResponse{data=dto.TicketInfo} "Ticket created"
// @Router /api/v1/user/tickets [post]
func (h *TicketHandler) CreateTicket(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", businessflow.CodeUnauthorized, nil)
	}

	var req dto.CreateTicketRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	result, err := h.ticketFlow.CreateTicket(createRequestContext(c, "/api/v1/user/tickets"), userID, &req)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to create ticket", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusCreated, "Ticket created", result)
}

// ListMyTickets lists the company's tickets, newest first
// @Summary List Tickets
// @Tags Tickets
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.TicketInfo} "Tickets"
// @Router /api/v1/user/tickets [get]
func (h *TicketHandler) ListMyTickets(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", businessflow.CodeUnauthorized, nil)
	}

	result, err := h.ticketFlow.ListMyTickets(createRequestContext(c, "/api/v1/user/tickets"), userID)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to list tickets", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Tickets", result)
}
