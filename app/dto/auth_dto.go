// Package dto contains Data Transfer Objects for API request and response structures
package dto

// RegisterRequest represents the request payload for account registration
type RegisterRequest struct {
	FirstName       string `json:"first_name" validate:"required,min=2,max=100,alpha_space" example:"Jane"`
	LastName        string `json:"last_name" validate:"required,min=2,max=100,alpha_space" example:"Doe"`
	Email           string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,max=20" example:"+2348012345678"`
	Password        string `json:"password" validate:"required,min=8,max=100,password_strength" example:"SecurePass123!"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" example:"SecurePass123!"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// UserInfo represents sanitized user information in API responses
type UserInfo struct {
	ID                  uint    `json:"id" example:"123"`
	UUID                string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email               string  `json:"email" example:"jane@example.com"`
	FirstName           string  `json:"first_name" example:"Jane"`
	LastName            string  `json:"last_name" example:"Doe"`
	Username            string  `json:"username" example:"jane-doe"`
	PhoneNumber         *string `json:"phone_number,omitempty" example:"+2348012345678"`
	Image               *string `json:"image,omitempty"`
	Role                string  `json:"role" example:"CLIENT"`
	OnboardingCompleted bool    `json:"onboarding_completed" example:"false"`
	CompanyID           *uint   `json:"company_id,omitempty" example:"7"`
	CreatedAt           string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// AuthResult carries issued tokens plus the sanitized user
type AuthResult struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type" example:"Bearer"`
	ExpiresIn    int      `json:"expires_in" example:"900"`
	User         UserInfo `json:"user"`
}

// ForgotPasswordRequest represents the request to initiate password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
}

// VerifyResetCodeRequest represents the reset code pre-check
type VerifyResetCodeRequest struct {
	Email string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	OTP   string `json:"otp" validate:"required,len=6,numeric" example:"123456"`
}

// SetNewPasswordRequest represents the final password reset step
type SetNewPasswordRequest struct {
	Email           string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	OTP             string `json:"otp" validate:"required,len=6,numeric" example:"123456"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100,password_strength" example:"NewSecurePass123!"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword" example:"NewSecurePass123!"`
}
