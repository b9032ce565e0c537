// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"fmt"

	"github.com/nuvylux/subscription-backend/app/dto"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/nuvylux/subscription-backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// Cookie names for browser sessions
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// ErrorResponse writes a failed API envelope
func ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// SuccessResponse writes a successful API envelope
func SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// BusinessErrorResponse maps a business error to its HTTP status. A
// SESSION_INVALID error also clears the session cookies so the browser
// stops replaying a dead session.
func BusinessErrorResponse(c fiber.Ctx, err error, fallbackMessage string, secureCookies bool) error {
	code := businessflow.ErrorCode(err)
	message := fallbackMessage
	if be, ok := err.(*businessflow.BusinessError); ok && be.Message != "" {
		message = be.Message
	}

	status := fiber.StatusInternalServerError
	switch code {
	case businessflow.CodeValidationError:
		status = fiber.StatusBadRequest
	case businessflow.CodeNotFound:
		status = fiber.StatusNotFound
	case businessflow.CodeUnauthorized:
		status = fiber.StatusUnauthorized
	case businessflow.CodeSessionInvalid:
		status = fiber.StatusUnauthorized
		ClearAuthCookies(c, secureCookies)
	case businessflow.CodeConflict:
		status = fiber.StatusConflict
	case businessflow.CodePaymentNotSuccessful:
		status = fiber.StatusPaymentRequired
	}

	if status == fiber.StatusInternalServerError {
		message = fallbackMessage
	}
	return ErrorResponse(c, status, message, code, nil)
}

// SetAuthCookies stores the token pair as HTTP-only cookies. Both carry
// the refresh lifetime so the browser keeps them across access token
// renewals.
func SetAuthCookies(c fiber.Ctx, accessToken, refreshToken string, secure bool) {
	sameSite := fiber.CookieSameSiteLaxMode
	if secure {
		sameSite = fiber.CookieSameSiteNoneMode
	}

	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   utils.SessionCookieMaxAge,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   utils.SessionCookieMaxAge,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

// ClearAuthCookies expires both session cookies
func ClearAuthCookies(c fiber.Ctx, secure bool) {
	sameSite := fiber.CookieSameSiteLaxMode
	if secure {
		sameSite = fiber.CookieSameSiteNoneMode
	}

	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   secure,
			SameSite: sameSite,
		})
	}
}

// newValidator builds the request validator with the custom rules the
// DTOs reference
func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("alpha_space", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, char := range value {
			if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || char == ' ' || char == '-' || char == '\'') {
				return false
			}
		}
		return true
	})

	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()

		hasUpper := false
		hasNumber := false
		for _, char := range value {
			if char >= 'A' && char <= 'Z' {
				hasUpper = true
			}
			if char >= '0' && char <= '9' {
				hasNumber = true
			}
		}
		return hasUpper && hasNumber
	})

	return v
}

// validateRequest runs struct validation and renders field errors
func validateRequest(v *validator.Validate, req any) []string {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrors []string
	for _, fieldErr := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, getValidationErrorMessage(fieldErr))
	}
	return validationErrors
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "len":
		return err.Field() + " must be exactly " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "eqfield":
		return err.Field() + " must match " + err.Param()
	case "alpha_space":
		return err.Field() + " must contain only letters and spaces"
	case "password_strength":
		return "Password must contain at least 1 uppercase letter and 1 number"
	case "numeric":
		return err.Field() + " must contain only numbers"
	case "url":
		return err.Field() + " must be a valid URL"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// createRequestContext creates a context carrying request-scoped values
// for observability. Deadlines come from the server's read and write
// timeouts, so no timeout is layered on here.
func createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx := context.WithValue(context.Background(), utils.CtxRequestID, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.CtxUserAgent, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.CtxIPAddress, c.IP())
	ctx = context.WithValue(ctx, utils.CtxEndpoint, endpoint)
	return ctx
}

// authenticatedUserID reads the user id the auth middleware stored
func authenticatedUserID(c fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok
}

// bearerToken extracts the token from an Authorization header
func bearerToken(c fiber.Ctx) string {
	const prefix = "Bearer "
	header := c.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
