// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"github.com/nuvylux/subscription-backend/app/dto"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Register(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	ForgotPassword(c fiber.Ctx) error
	VerifyResetCode(c fiber.Ctx) error
	SetNewPassword(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authFlow      businessflow.AuthFlow
	validator     *validator.Validate
	secureCookies bool
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authFlow businessflow.AuthFlow, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authFlow:      authFlow,
		validator:     newValidator(),
		secureCookies: secureCookies,
	}
}

// Register handles account creation
// @Summary User Registration
// @Description Register a new account and sign in immediately
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResult} "Account created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.authFlow.Register(createRequestContext(c, "/api/v1/auth/register"), &req, metadata)
	if err != nil {
		return BusinessErrorResponse(c, err, "Registration failed", h.secureCookies)
	}

	SetAuthCookies(c, result.AccessToken, result.RefreshToken, h.secureCookies)
	return SuccessResponse(c, fiber.StatusCreated, "Account created successfully", result)
}

// Login handles email/password authentication
// @Summary User Login
// @Description Authenticate with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResult} "Login successful"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.authFlow.Login(createRequestContext(c, "/api/v1/auth/login"), &req, metadata)
	if err != nil {
		return BusinessErrorResponse(c, err, "Login failed", h.secureCookies)
	}

	SetAuthCookies(c, result.AccessToken, result.RefreshToken, h.secureCookies)
	return SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// Refresh rotates the refresh token and issues a new access token
// @Summary Refresh Session
// @Description Exchange the refresh token cookie for a new token pair
// @Tags Authentication
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AuthResult} "Session refreshed"
// @Failure 401 {object} dto.APIResponse "Session expired or invalid"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	refreshToken := c.Cookies(RefreshTokenCookie)
	if refreshToken == "" {
		refreshToken = bearerToken(c)
	}
	if refreshToken == "" {
		ClearAuthCookies(c, h.secureCookies)
		return ErrorResponse(c, fiber.StatusUnauthorized, "Session expired or invalid", businessflow.CodeSessionInvalid, nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.authFlow.Refresh(createRequestContext(c, "/api/v1/auth/refresh"), refreshToken, metadata)
	if err != nil {
		return BusinessErrorResponse(c, err, "Session refresh failed", h.secureCookies)
	}

	SetAuthCookies(c, result.AccessToken, result.RefreshToken, h.secureCookies)
	return SuccessResponse(c, fiber.StatusOK, "Session refreshed", result)
}

// Logout clears the session. Always succeeds, even with a dead token.
// @Summary Logout
// @Description Revoke the current session and clear cookies
// @Tags Authentication
// @Produce json
// @Success 200 {object} dto.APIResponse "Logged out"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	refreshToken := c.Cookies(RefreshTokenCookie)

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	_ = h.authFlow.Logout(createRequestContext(c, "/api/v1/auth/logout"), refreshToken, metadata)

	ClearAuthCookies(c, h.secureCookies)
	return SuccessResponse(c, fiber.StatusOK, "Logged out successfully", nil)
}

// ForgotPassword sends a password reset code by email
// @Summary Forgot Password
// @Description Email a short-lived reset code to the account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse "Reset code sent"
// @Failure 404 {object} dto.APIResponse "No account for this email"
// @Router /api/v1/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if err := h.authFlow.ForgotPassword(createRequestContext(c, "/api/v1/auth/forgot-password"), &req, metadata); err != nil {
		return BusinessErrorResponse(c, err, "Password reset failed", h.secureCookies)
	}

	return SuccessResponse(c, fiber.StatusOK, "Password reset code sent to your email", nil)
}

// VerifyResetCode checks a reset code before the new password is chosen
// @Summary Verify Reset Code
// @Description Validate a password reset code without consuming it
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.VerifyResetCodeRequest true "Email and code"
// @Success 200 {object} dto.APIResponse "Code is valid"
// @Failure 400 {object} dto.APIResponse "Invalid or expired code"
// @Router /api/v1/auth/verify-reset-code [post]
func (h *AuthHandler) VerifyResetCode(c fiber.Ctx) error {
	var req dto.VerifyResetCodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if err := h.authFlow.VerifyResetCode(createRequestContext(c, "/api/v1/auth/verify-reset-code"), &req, metadata); err != nil {
		return BusinessErrorResponse(c, err, "Reset code verification failed", h.secureCookies)
	}

	return SuccessResponse(c, fiber.StatusOK, "Reset code is valid", nil)
}

// SetNewPassword completes the reset and revokes existing sessions
// @Summary Set New Password
// @Description Consume the reset code and set a new password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.SetNewPasswordRequest true "Reset data"
// @Success 200 {object} dto.APIResponse "Password updated"
// @Failure 400 {object} dto.APIResponse "Invalid or expired code"
// @Router /api/v1/auth/set-new-password [post]
func (h *AuthHandler) SetNewPassword(c fiber.Ctx) error {
	var req dto.SetNewPasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if validationErrors := validateRequest(h.validator, &req); validationErrors != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.CodeValidationError, validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if err := h.authFlow.SetNewPassword(createRequestContext(c, "/api/v1/auth/set-new-password"), &req, metadata); err != nil {
		return BusinessErrorResponse(c, err, "Password reset failed", h.secureCookies)
	}

	return SuccessResponse(c, fiber.StatusOK, "Password updated successfully", nil)
}
