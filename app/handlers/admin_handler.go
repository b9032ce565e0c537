// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"
	"time"

	"github.com/nuvylux/subscription-backend/app/dto"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdminHandlerInterface defines the contract for back-office handlers
type AdminHandlerInterface interface {
	ListSubscribers(c fiber.Ctx) error
	Stats(c fiber.Ctx) error
	UpdateSubscriptionStatus(c fiber.Ctx) error
	ExportSubscribers(c fiber.Ctx) error
	UpdateTicketStatus(c fiber.Ctx) error
}

// AdminHandler handles back-office HTTP requests
type AdminHandler struct {
	adminFlow     businessflow.AdminFlow
	ticketFlow    businessflow.TicketFlow
	validator     *validator.Validate
	secureCookies bool
}

// NewAdminHandler creates a new back-office handler
func NewAdminHandler(adminFlow businessflow.AdminFlow, ticketFlow businessflow.TicketFlow, secureCookies bool) *AdminHandler {
	return &AdminHandler{
		adminFlow:     adminFlow,
		ticketFlow:    ticketFlow,
		validator:     newValidator(),
		secureCookies: secureCookies,
	}
}

// ListSubscribers lists companies, filterable by name or plan reference
// @Summary List Subscribers
// @Tags Admin
// @Produce json
// @Param search query string false "Name or plan reference"
// @Success 200 {object} dto.APIResponse{data=[]dto.SubscriberInfo} "Subscribers"
// @Router /api/v1/admin/subscribers [get]
func (h *AdminHandler) ListSubscribers(c fiber.Ctx) error {
	search := c.Query("search")
	result, err := h.adminFlow.ListSubscribers(createRequestContext(c, "/api/v1/admin/subscribers"), search)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to list subscribers", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Subscribers", result)
}

// Stats returns the back-office dashboard summary
// @Summary Admin Stats
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminStats} "Stats"
// @Router /api/v1/admin/stats [get]
func (h *AdminHandler) Stats(c fiber.Ctx) error {
	result, err := h.adminFlow.Stats(createRequestContext(c, "/api/v1/admin/stats"))
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to load stats", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Stats", result)
}

// UpdateSubscriptionStatus moves a company between billing states
// @Summary Update Subscription Status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param request body dto.UpdateSubscriptionStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Router /api/v1/admin/subscribers/{id}/status [patch]
func (h *AdminHandler) UpdateSubscriptionStatus(c fiber.Ctx) error {
	companyID, err := pathID(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid company id", businessflow.CodeValidationError, nil)
	}

	var req dto.UpdateSubscriptionStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	if err := h.adminFlow.UpdateSubscriptionStatus(createRequestContext(c, "/api/v1/admin/subscribers/:id/status"), companyID, &req); err != nil {
		return BusinessErrorResponse(c, err, "Failed to update subscription status", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Subscription status updated", nil)
}

// ExportSubscribers downloads the subscriber listing as XLSX
// @Summary Export Subscribers
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Name or plan reference"
// @Success 200 {file} binary "Workbook"
// @Router /api/v1/admin/subscribers/export [get]
func (h *AdminHandler) ExportSubscribers(c fiber.Ctx) error {
	search := c.Query("search")
	workbook, err := h.adminFlow.ExportSubscribers(createRequestContext(c, "/api/v1/admin/subscribers/export"), search)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to export subscribers", h.secureCookies)
	}

	filename := fmt.Sprintf("subscribers-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(workbook)
}

// UpdateTicketStatus moves a ticket through its lifecycle
// @Summary Update Ticket Status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body dto.UpdateTicketStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.TicketInfo} "Ticket updated"
// @Router /api/v1/admin/tickets/{id}/status [patch]
func (h *AdminHandler) UpdateTicketStatus(c fiber.Ctx) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid ticket id", businessflow.CodeValidationError, nil)
	}

	var req dto.UpdateTicketStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	result, err := h.ticketFlow.UpdateTicketStatus(createRequestContext(c, "/api/v1/admin/tickets/:id/status"), ticketID, &req)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to update ticket", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Ticket updated", result)
}
