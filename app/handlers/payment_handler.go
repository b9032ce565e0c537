// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/app/middleware"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PaymentHandlerInterface defines the contract for payment handlers
type PaymentHandlerInterface interface {
	VerifyPayment(c fiber.Ctx) error
}

// PaymentHandler handles payment reconciliation HTTP requests
type PaymentHandler struct {
	paymentFlow   businessflow.PaymentFlow
	validator     *validator.Validate
	secureCookies bool
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentFlow businessflow.PaymentFlow, secureCookies bool) *PaymentHandler {
	return &PaymentHandler{
		paymentFlow:   paymentFlow,
		validator:     newValidator(),
		secureCookies: secureCookies,
	}
}

// VerifyPayment reconciles a gateway charge and activates the subscription
// @Summary Verify Payment
// @Description Confirm a gateway transaction and activate the subscription
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.VerifyPaymentRequest true "Payment reference and selection"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyPaymentResult} "Payment verified"
// @Failure 402 {object} dto.APIResponse "Payment was not successful"
// @Router /api/v1/payment/verify [post]
func (h *PaymentHandler) VerifyPayment(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", businessflow.CodeUnauthorized, nil)
	}

	var req dto.VerifyPaymentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.paymentFlow.VerifyPayment(createRequestContext(c, "/api/v1/payment/verify"), userID, &req, metadata)
	if err != nil {
		middleware.RecordPaymentVerification("failed")
		return BusinessErrorResponse(c, err, "Payment verification failed", h.secureCookies)
	}

	if result.AlreadyProcessed {
		middleware.RecordPaymentVerification("replay")
	} else {
		middleware.RecordPaymentVerification("verified")
	}
	return SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
