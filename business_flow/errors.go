// Package businessflow contains the core business logic and use cases for the subscription platform
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Account errors
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrSocialLoginAccount  = errors.New("this account uses social sign-in")
	ErrSessionInvalid      = errors.New("session expired or invalid")
	ErrNoResetCode         = errors.New("invalid or expired reset code")
	ErrResetCodeExpired    = errors.New("reset code has expired")
	ErrResetCodeIncorrect  = errors.New("incorrect reset code")
	ErrAdminAccessRequired = errors.New("admin access required")

	// Onboarding errors
	ErrCompanyNotFound  = errors.New("company not found")
	ErrCompanyRequired  = errors.New("complete company setup before selecting a plan")
	ErrSlugAlreadyTaken = errors.New("company name already in use")

	// Catalog errors
	ErrTrackNotFound  = errors.New("track not found")
	ErrPlanNotFound   = errors.New("plan not found")
	ErrTrackHasPlans  = errors.New("delete or deactivate all plans in this track first")
	ErrInvalidStatus  = errors.New("invalid subscription status")
	ErrTicketNotFound = errors.New("ticket not found")

	// Payment errors
	ErrPaymentNotSuccessful = errors.New("payment was not successful")
	ErrReferenceRequired    = errors.New("transaction reference is required")
)

// Business error codes surfaced in API responses
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeSessionInvalid       = "SESSION_INVALID"
	CodeConflict             = "CONFLICT"
	CodePaymentNotSuccessful = "PAYMENT_NOT_SUCCESSFUL"
	CodeInternalError        = "INTERNAL_ERROR"
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// ErrorCode extracts the API code from a flow error, defaulting to internal
func ErrorCode(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeInternalError
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsPasswordMismatch(err error) bool {
	return errors.Is(err, ErrPasswordMismatch)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsSocialLoginAccount(err error) bool {
	return errors.Is(err, ErrSocialLoginAccount)
}

func IsSessionInvalid(err error) bool {
	return errors.Is(err, ErrSessionInvalid)
}

func IsNoResetCode(err error) bool {
	return errors.Is(err, ErrNoResetCode)
}

func IsResetCodeExpired(err error) bool {
	return errors.Is(err, ErrResetCodeExpired)
}

func IsResetCodeIncorrect(err error) bool {
	return errors.Is(err, ErrResetCodeIncorrect)
}

func IsAdminAccessRequired(err error) bool {
	return errors.Is(err, ErrAdminAccessRequired)
}

func IsCompanyNotFound(err error) bool {
	return errors.Is(err, ErrCompanyNotFound)
}

func IsCompanyRequired(err error) bool {
	return errors.Is(err, ErrCompanyRequired)
}

func IsTrackNotFound(err error) bool {
	return errors.Is(err, ErrTrackNotFound)
}

func IsPlanNotFound(err error) bool {
	return errors.Is(err, ErrPlanNotFound)
}

func IsTrackHasPlans(err error) bool {
	return errors.Is(err, ErrTrackHasPlans)
}

func IsInvalidStatus(err error) bool {
	return errors.Is(err, ErrInvalidStatus)
}

func IsTicketNotFound(err error) bool {
	return errors.Is(err, ErrTicketNotFound)
}

func IsPaymentNotSuccessful(err error) bool {
	return errors.Is(err, ErrPaymentNotSuccessful)
}
