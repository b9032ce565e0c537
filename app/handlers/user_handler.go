// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"github.com/nuvylux/subscription-backend/app/dto"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// UserHandlerInterface defines the contract for user account handlers
type UserHandlerInterface interface {
	Me(c fiber.Ctx) error
	ChangePassword(c fiber.Ctx) error
	Dashboard(c fiber.Ctx) error
}

// UserHandler handles the authenticated user's own account endpoints
type UserHandler struct {
	userFlow      businessflow.UserFlow
	validator     *validator.Validate
	secureCookies bool
}

// NewUserHandler creates a new user account handler
func NewUserHandler(userFlow businessflow.UserFlow, secureCookies bool) *UserHandler {
	return &UserHandler{
		userFlow:      userFlow,
		validator:     newValidator(),
		secureCookies: secureCookies,
	}
}

// Me returns the authenticated user's profile and company
// @Summary Current User
// @Tags User
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse} "Profile"
// @Router /api/v1/user/me [get]
func (h *UserHandler) Me(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", businessflow.CodeUnauthorized, nil)
	}

	result, err := h.userFlow.Me(createRequestContext(c, "/api/v1/user/me"), userID)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to load profile", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Profile", result)
}

// ChangePassword updates the password from the settings page
// @Summary Change Password
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Password change data"
// @Success 200 {object} dto.APIResponse "Password changed"
// @Failure 401 {object} dto.APIResponse "Current password incorrect"
// @Router /api/v1/user/change-password [post]
func (h *UserHandler) ChangePassword(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", businessflow.CodeUnauthorized, nil)
	}

	var req dto.ChangePasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	if err := h.userFlow.ChangePassword(createRequestContext(c, "/api/v1/user/change-password"), userID, &req); err != nil {
		return BusinessErrorResponse(c, err, "Password change failed", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Password changed successfully", nil)
}

// Dashboard returns the billing card, history, and ticket count
// @Summary Client Dashboard
// @Tags User
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard"
// @Router /api/v1/user/dashboard [get]
func (h *UserHandler) Dashboard(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", businessflow.CodeUnauthorized, nil)
	}

	result, err := h.userFlow.Dashboard(createRequestContext(c, "/api/v1/user/dashboard"), userID)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to load dashboard", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Dashboard", result)
}
