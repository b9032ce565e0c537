// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"github.com/nuvylux/subscription-backend/app/dto"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// OnboardingHandlerInterface defines the contract for onboarding handlers
type OnboardingHandlerInterface interface {
	UpdateProfile(c fiber.Ctx) error
	UpsertCompany(c fiber.Ctx) error
	SelectPlans(c fiber.Ctx) error
}

// OnboardingHandler handles the post-registration onboarding steps
type OnboardingHandler struct {
	onboardingFlow businessflow.OnboardingFlow
	validator      *validator.Validate
	secureCookies  bool
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboardingFlow businessflow.OnboardingFlow, secureCookies bool) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingFlow: onboardingFlow,
		validator:      newValidator(),
		secureCookies:  secureCookies,
	}
}

// UpdateProfile saves the personal details step
// @Summary Onboarding Profile
// @Description Update name and personal details
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile data"
// @Success 200 {object} dto.APIResponse{data=dto.UserInfo} "Profile updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/onboarding/profile [put]
func (h *OnboardingHandler) UpdateProfile(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", businessflow.CodeUnauthorized, nil)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	result, err := h.onboardingFlow.UpdateProfile(createRequestContext(c, "/api/v1/onboarding/profile"), userID, &req)
	if err != nil {
		return BusinessErrorResponse(c, err, "Profile update failed", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Profile updated successfully", result)
}

// UpsertCompany saves the company step, creating or updating as needed
// @Summary Onboarding Company
// @Description Create or update the user's company
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param request body dto.UpsertCompanyRequest true "Company data"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyInfo} "Company saved"
// @Failure 409 {object} dto.APIResponse "Company name already in use"
// @Router /api/v1/onboarding/company [put]
func (h *OnboardingHandler) UpsertCompany(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", businessflow.CodeUnauthorized, nil)
	}

	var req dto.UpsertCompanyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	result, err := h.onboardingFlow.UpsertCompany(createRequestContext(c, "/api/v1/onboarding/company"), userID, &req)
	if err != nil {
		return BusinessErrorResponse(c, err, "Company setup failed", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Company saved successfully", result)
}

// SelectPlans prices and commits the plan selection step
// @Summary Onboarding Plan Selection
// @Description Price the selected plans and store the quote
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param request body dto.SelectPlansRequest true "Selected plan references"
// @Success 200 {object} dto.APIResponse{data=dto.SelectPlansResult} "Plans selected"
// @Failure 400 {object} dto.APIResponse "Unknown plan references"
// @Router /api/v1/onboarding/plans [post]
func (h *OnboardingHandler) SelectPlans(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", businessflow.CodeUnauthorized, nil)
	}

	var req dto.SelectPlansRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	result, err := h.onboardingFlow.SelectPlans(createRequestContext(c, "/api/v1/onboarding/plans"), userID, &req)
	if err != nil {
		return BusinessErrorResponse(c, err, "Plan selection failed", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Plans selected successfully", result)
}
