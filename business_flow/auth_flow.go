// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/app/services"
	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
	"github.com/nuvylux/subscription-backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthFlow handles registration, login, session rotation, and password recovery
type AuthFlow interface {
	Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, metadata *ClientMetadata) (*dto.AuthResult, error)
	Logout(ctx context.Context, refreshToken string, metadata *ClientMetadata) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest, metadata *ClientMetadata) error
	VerifyResetCode(ctx context.Context, req *dto.VerifyResetCodeRequest, metadata *ClientMetadata) error
	SetNewPassword(ctx context.Context, req *dto.SetNewPasswordRequest, metadata *ClientMetadata) error
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	userRepo        repository.UserRepository
	tokenService    services.TokenService
	notificationSvc services.NotificationService
	db              *gorm.DB
}

// NewAuthFlow creates a new authentication flow instance
func NewAuthFlow(
	userRepo repository.UserRepository,
	tokenService services.TokenService,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		userRepo:        userRepo,
		tokenService:    tokenService,
		notificationSvc: notificationSvc,
		db:              db,
	}
}

// Register creates a new account and signs the user in immediately
func (f *AuthFlowImpl) Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if req.Password != req.ConfirmPassword {
		return nil, NewBusinessError(CodeValidationError, "Passwords do not match", ErrPasswordMismatch)
	}

	existing, err := f.userRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Registration failed", err)
	}
	if existing != nil {
		return nil, NewBusinessError(CodeConflict, "An account with this email already exists", ErrEmailAlreadyExists)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), utils.BcryptCost)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Registration failed", err)
	}

	var user *models.User
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		username, err := f.nextAvailableUsername(txCtx, req.FirstName, req.LastName)
		if err != nil {
			return err
		}

		user = &models.User{
			UUID:         uuid.New(),
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Email:        email,
			Username:     username,
			PasswordHash: string(passwordHash),
			Role:         models.UserRoleClient,
		}
		if req.PhoneNumber != "" {
			user.PhoneNumber = utils.ToPtr(req.PhoneNumber)
		}

		return f.userRepo.Save(txCtx, user)
	})
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Registration failed", err)
	}

	f.notificationSvc.SendEmailAsync(user.Email, user.FirstName, "Welcome aboard", services.WelcomeEmailBody(user.FirstName))

	return f.issueSession(ctx, user)
}

// Login authenticates an email/password pair and issues a fresh session
func (f *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := f.userRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Login failed", err)
	}
	if user == nil {
		return nil, NewBusinessError(CodeUnauthorized, "Invalid email or password", ErrInvalidCredentials)
	}
	if !user.HasPassword() {
		return nil, NewBusinessError(CodeUnauthorized, "This account uses social sign-in", ErrSocialLoginAccount)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError(CodeUnauthorized, "Invalid email or password", ErrInvalidCredentials)
	}

	return f.issueSession(ctx, user)
}

// Refresh rotates the refresh token. The swap is a compare-and-swap
// against the stored token: the row updates only while the stored value
// still equals the presented one, so of two concurrent refreshes exactly
// one wins. A lost swap on a valid token means the token was already
// rotated (possible theft), so the stored token is cleared and every
// session for the user is invalidated.
func (f *AuthFlowImpl) Refresh(ctx context.Context, refreshToken string, metadata *ClientMetadata) (*dto.AuthResult, error) {
	claims, err := f.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, NewBusinessError(CodeSessionInvalid, "Session expired or invalid", ErrSessionInvalid)
	}

	user, err := f.userRepo.ByID(ctx, claims.UserID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Session refresh failed", err)
	}
	if user == nil || user.RefreshToken == nil {
		return nil, NewBusinessError(CodeSessionInvalid, "Session expired or invalid", ErrSessionInvalid)
	}

	accessToken, err := f.tokenService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Session refresh failed", err)
	}
	nextRefresh, err := f.tokenService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Session refresh failed", err)
	}

	rotated, err := f.userRepo.RotateRefreshToken(ctx, user.ID, refreshToken, nextRefresh)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Session refresh failed", err)
	}
	if !rotated {
		// Reuse detected: revoke whatever session is still live
		if clearErr := f.userRepo.UpdateRefreshToken(ctx, user.ID, nil); clearErr != nil {
			log.Printf("failed to revoke refresh token for user %d: %v", user.ID, clearErr)
		}
		return nil, NewBusinessError(CodeSessionInvalid, "Session expired or invalid", ErrSessionInvalid)
	}

	return &dto.AuthResult{
		AccessToken:  accessToken,
		RefreshToken: nextRefresh,
		TokenType:    "Bearer",
		ExpiresIn:    utils.AccessTokenTTLSeconds,
		User:         ToUserInfo(*user),
	}, nil
}

// Logout clears the stored refresh token. It never fails the caller:
// an expired or malformed token still results in a clean logout.
func (f *AuthFlowImpl) Logout(ctx context.Context, refreshToken string, metadata *ClientMetadata) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := f.tokenService.ParseRefreshTokenIgnoreExpiry(refreshToken)
	if err != nil {
		return nil
	}

	if err := f.userRepo.UpdateRefreshToken(ctx, claims.UserID, nil); err != nil {
		log.Printf("failed to clear refresh token for user %d on logout: %v", claims.UserID, err)
	}
	return nil
}

// ForgotPassword generates a short-lived reset code and mails it out
func (f *AuthFlowImpl) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest, metadata *ClientMetadata) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := f.userRepo.ByEmail(ctx, email)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Password reset failed", err)
	}
	if user == nil {
		return NewBusinessError(CodeNotFound, "No account found for this email", ErrUserNotFound)
	}

	otp, err := utils.RandomDigits(6)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Password reset failed", err)
	}
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), utils.BcryptCost)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Password reset failed", err)
	}

	expiry := utils.UTCNowAdd(utils.ResetOTPExpiry)
	if err := f.userRepo.UpdateResetOTP(ctx, user.ID, utils.ToPtr(string(otpHash)), &expiry); err != nil {
		return NewBusinessError(CodeInternalError, "Password reset failed", err)
	}

	f.notificationSvc.SendEmailAsync(user.Email, user.FirstName, "Your password reset code", services.PasswordResetEmailBody(user.FirstName, otp))
	return nil
}

// VerifyResetCode checks a reset code without consuming it
func (f *AuthFlowImpl) VerifyResetCode(ctx context.Context, req *dto.VerifyResetCodeRequest, metadata *ClientMetadata) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := f.userRepo.ByEmail(ctx, email)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Reset code verification failed", err)
	}
	if user == nil {
		return NewBusinessError(CodeNotFound, "No account found for this email", ErrUserNotFound)
	}

	if err := f.checkResetCode(user, req.OTP); err != nil {
		return err
	}
	return nil
}

// SetNewPassword consumes the reset code, updates the password, and
// revokes any live session so the new password must be used everywhere
func (f *AuthFlowImpl) SetNewPassword(ctx context.Context, req *dto.SetNewPasswordRequest, metadata *ClientMetadata) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if req.NewPassword != req.ConfirmPassword {
		return NewBusinessError(CodeValidationError, "Passwords do not match", ErrPasswordMismatch)
	}

	user, err := f.userRepo.ByEmail(ctx, email)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Password reset failed", err)
	}
	if user == nil {
		return NewBusinessError(CodeNotFound, "No account found for this email", ErrUserNotFound)
	}

	if err := f.checkResetCode(user, req.OTP); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), utils.BcryptCost)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Password reset failed", err)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.userRepo.UpdatePassword(txCtx, user.ID, string(passwordHash)); err != nil {
			return err
		}
		if err := f.userRepo.UpdateResetOTP(txCtx, user.ID, nil, nil); err != nil {
			return err
		}
		return f.userRepo.UpdateRefreshToken(txCtx, user.ID, nil)
	})
	if err != nil {
		return NewBusinessError(CodeInternalError, "Password reset failed", err)
	}
	return nil
}

func (f *AuthFlowImpl) checkResetCode(user *models.User, otp string) error {
	if user.ResetOTPHash == nil || user.ResetOTPExpiry == nil {
		return NewBusinessError(CodeValidationError, "Invalid or expired reset code", ErrNoResetCode)
	}
	if utils.IsExpiredPtr(user.ResetOTPExpiry) {
		return NewBusinessError(CodeValidationError, "Reset code has expired", ErrResetCodeExpired)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.ResetOTPHash), []byte(otp)); err != nil {
		return NewBusinessError(CodeValidationError, "Incorrect reset code", ErrResetCodeIncorrect)
	}
	return nil
}

// issueSession generates a token pair and persists the refresh token so
// it can be compared on rotation. One stored token per user means one
// concurrent session.
func (f *AuthFlowImpl) issueSession(ctx context.Context, user *models.User) (*dto.AuthResult, error) {
	accessToken, err := f.tokenService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to issue session", err)
	}
	refreshToken, err := f.tokenService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to issue session", err)
	}

	if err := f.userRepo.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to issue session", err)
	}

	return &dto.AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    utils.AccessTokenTTLSeconds,
		User:         ToUserInfo(*user),
	}, nil
}

// nextAvailableUsername derives "jane-doe" from the name and appends a
// numeric suffix ("jane-doe-1", "jane-doe-2", ...) until the username
// is free.
func (f *AuthFlowImpl) nextAvailableUsername(ctx context.Context, firstName, lastName string) (string, error) {
	base := utils.Slugify(firstName + " " + lastName)
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 1; ; i++ {
		existing, err := f.userRepo.ByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
