// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"strconv"

	"github.com/nuvylux/subscription-backend/app/dto"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PlansHandlerInterface defines the contract for catalog handlers
type PlansHandlerInterface interface {
	ListCatalog(c fiber.Ctx) error
	CreateTrack(c fiber.Ctx) error
	UpdateTrack(c fiber.Ctx) error
	DeleteTrack(c fiber.Ctx) error
	CreatePlan(c fiber.Ctx) error
	UpdatePlan(c fiber.Ctx) error
	DeletePlan(c fiber.Ctx) error
}

// PlansHandler handles the public catalog and its admin management
type PlansHandler struct {
	plansFlow     businessflow.PlansFlow
	validator     *validator.Validate
	secureCookies bool
}

// NewPlansHandler creates a new catalog handler
func NewPlansHandler(plansFlow businessflow.PlansFlow, secureCookies bool) *PlansHandler {
	return &PlansHandler{
		plansFlow:     plansFlow,
		validator:     newValidator(),
		secureCookies: secureCookies,
	}
}

// ListCatalog returns all tracks with their active plans
// @Summary Plan Catalog
// @Description Public pricing page: tracks with active plans
// @Tags Plans
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.TrackInfo} "Catalog"
// @Router /api/v1/plans [get]
func (h *PlansHandler) ListCatalog(c fiber.Ctx) error {
	catalog, err := h.plansFlow.ListCatalog(createRequestContext(c, "/api/v1/plans"))
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to load plan catalog", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Plan catalog", catalog)
}

// CreateTrack adds a track (admin)
// @Summary Create Track
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateTrackRequest true "Track data"
// @Success 201 {object} dto.APIResponse{data=dto.TrackInfo} "Track created"
// @Router /api/v1/admin/tracks [post]
func (h *PlansHandler) CreateTrack(c fiber.Ctx) error {
	var req dto.CreateTrackRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	result, err := h.plansFlow.CreateTrack(createRequestContext(c, "/api/v1/admin/tracks"), &req)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to create track", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusCreated, "Track created", result)
}

// UpdateTrack applies partial changes to a track (admin)
// @Summary Update Track
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Track ID"
// @Param request body dto.UpdateTrackRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.TrackInfo} "Track updated"
// @Router /api/v1/admin/tracks/{id} [patch]
func (h *PlansHandler) UpdateTrack(c fiber.Ctx) error {
	trackID, err := pathID(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid track id", businessflow.CodeValidationError, nil)
	}

	var req dto.UpdateTrackRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	result, err := h.plansFlow.UpdateTrack(createRequestContext(c, "/api/v1/admin/tracks/:id"), trackID, &req)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to update track", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Track updated", result)
}

// DeleteTrack removes an empty track (admin)
// @Summary Delete Track
// @Tags Admin
// @Produce json
// @Param id path int true "Track ID"
// @Success 200 {object} dto.APIResponse "Track deleted"
// @Failure 409 {object} dto.APIResponse "Track still has plans"
// @Router /api/v1/admin/tracks/{id} [delete]
func (h *PlansHandler) DeleteTrack(c fiber.Ctx) error {
	trackID, err := pathID(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid track id", businessflow.CodeValidationError, nil)
	}

	if err := h.plansFlow.DeleteTrack(createRequestContext(c, "/api/v1/admin/tracks/:id"), trackID); err != nil {
		return BusinessErrorResponse(c, err, "Failed to delete track", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Track deleted", nil)
}

// CreatePlan adds a plan to a track (admin)
// @Summary Create Plan
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Track ID"
// @Param request body dto.CreatePlanRequest true "Plan data"
// @Success 201 {object} dto.APIResponse{data=dto.PlanInfo} "Plan created"
// @Router /api/v1/admin/tracks/{id}/plans [post]
func (h *PlansHandler) CreatePlan(c fiber.Ctx) error {
	trackID, err := pathID(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid track id", businessflow.CodeValidationError, nil)
	}

	var req dto.CreatePlanRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	result, err := h.plansFlow.CreatePlan(createRequestContext(c, "/api/v1/admin/tracks/:id/plans"), trackID, &req)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to create plan", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusCreated, "Plan created", result)
}

// UpdatePlan applies partial changes to a plan (admin)
// @Summary Update Plan
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param request body dto.UpdatePlanRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.PlanInfo} "Plan updated"
// @Router /api/v1/admin/plans/{id} [patch]
func (h *PlansHandler) UpdatePlan(c fiber.Ctx) error {
	planID, err := pathID(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", businessflow.CodeValidationError, nil)
	}

	var req dto.UpdatePlanRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	result, err := h.plansFlow.UpdatePlan(createRequestContext(c, "/api/v1/admin/plans/:id"), planID, &req)
	if err != nil {
		return BusinessErrorResponse(c, err, "Failed to update plan", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Plan updated", result)
}

// DeletePlan soft-deletes a plan (admin)
// @Summary Delete Plan
// @Tags Admin
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} dto.APIResponse "Plan deleted"
// @Router /api/v1/admin/plans/{id} [delete]
func (h *PlansHandler) DeletePlan(c fiber.Ctx) error {
	planID, err := pathID(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid plan id", businessflow.CodeValidationError, nil)
	}

	if err := h.plansFlow.DeletePlan(createRequestContext(c, "/api/v1/admin/plans/:id"), planID); err != nil {
		return BusinessErrorResponse(c, err, "Failed to delete plan", h.secureCookies)
	}
	return SuccessResponse(c, fiber.StatusOK, "Plan deleted", nil)
}

// pathID parses a positive integer path parameter
func pathID(c fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
