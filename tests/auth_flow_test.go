package tests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/app/services"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/nuvylux/subscription-backend/repository"
	testingutil "github.com/nuvylux/subscription-backend/testing"
)

func newAuthFlow(t *testing.T, testDB *testingutil.TestDB) businessflow.AuthFlow {
	t.Helper()

	tokenService, err := services.NewTokenService(
		15*time.Minute, 30*24*time.Hour,
		"nuvylux", "nuvylux-api",
		"test-access-secret-0123456789-0123456789",
		"test-refresh-secret-0123456789-012345678",
	)
	require.NoError(t, err)

	notificationSvc := services.NewNotificationService(services.NewMockEmailProvider(), "noreply@example.com", "Test")
	userRepo := repository.NewUserRepository(testDB.DB)

	return businessflow.NewAuthFlow(userRepo, tokenService, notificationSvc, testDB.DB)
}

func registerRequest(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           email,
		Password:        "SecurePass123",
		ConfirmPassword: "SecurePass123",
	}
}

func testMetadata() *businessflow.ClientMetadata {
	return &businessflow.ClientMetadata{IPAddress: "127.0.0.1", UserAgent: "go-test"}
}

func TestRegisterAndUsernameSuffixing(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB)
		ctx := testingutil.CreateTestContext()

		first, err := flow.Register(ctx, registerRequest("jane1@example.com"), testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "jane-doe", first.User.Username)
		assert.NotEmpty(t, first.AccessToken)
		assert.NotEmpty(t, first.RefreshToken)
		assert.Equal(t, "Bearer", first.TokenType)
		assert.Equal(t, 900, first.ExpiresIn)

		// Same display name, different email: username gets a numeric suffix
		second, err := flow.Register(ctx, registerRequest("jane2@example.com"), testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "jane-doe-1", second.User.Username)

		third, err := flow.Register(ctx, registerRequest("jane3@example.com"), testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "jane-doe-2", third.User.Username)

		return nil
	})
	require.NoError(t, err)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB)
		ctx := testingutil.CreateTestContext()

		_, err := flow.Register(ctx, registerRequest("jane@example.com"), testMetadata())
		require.NoError(t, err)

		// Email comparison is case-insensitive
		_, err = flow.Register(ctx, registerRequest("Jane@Example.com"), testMetadata())
		require.Error(t, err)
		assert.Equal(t, businessflow.CodeConflict, businessflow.ErrorCode(err))

		return nil
	})
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB)
		ctx := testingutil.CreateTestContext()

		_, err := flow.Register(ctx, registerRequest("jane@example.com"), testMetadata())
		require.NoError(t, err)

		result, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "jane@example.com",
			Password: "SecurePass123",
		}, testMetadata())
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)

		// Wrong password and unknown email both map to the same code
		_, err = flow.Login(ctx, &dto.LoginRequest{
			Email:    "jane@example.com",
			Password: "WrongPass123",
		}, testMetadata())
		assert.Equal(t, businessflow.CodeUnauthorized, businessflow.ErrorCode(err))

		_, err = flow.Login(ctx, &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "SecurePass123",
		}, testMetadata())
		assert.Equal(t, businessflow.CodeUnauthorized, businessflow.ErrorCode(err))

		return nil
	})
	require.NoError(t, err)
}

func TestRefreshRotatesStoredToken(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB)
		ctx := testingutil.CreateTestContext()
		userRepo := repository.NewUserRepository(testDB.DB)

		registered, err := flow.Register(ctx, registerRequest("jane@example.com"), testMetadata())
		require.NoError(t, err)

		rotated, err := flow.Refresh(ctx, registered.RefreshToken, testMetadata())
		require.NoError(t, err)
		assert.NotEqual(t, registered.RefreshToken, rotated.RefreshToken)

		// The stored token is the newly issued one
		user, err := userRepo.ByID(ctx, registered.User.ID)
		require.NoError(t, err)
		require.NotNil(t, user.RefreshToken)
		assert.Equal(t, rotated.RefreshToken, *user.RefreshToken)

		return nil
	})
	require.NoError(t, err)
}

func TestRefreshReuseDetectionRevokesSession(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB)
		ctx := testingutil.CreateTestContext()
		userRepo := repository.NewUserRepository(testDB.DB)

		registered, err := flow.Register(ctx, registerRequest("jane@example.com"), testMetadata())
		require.NoError(t, err)

		rotated, err := flow.Refresh(ctx, registered.RefreshToken, testMetadata())
		require.NoError(t, err)

		// Presenting the superseded token signals reuse: the whole session
		// is revoked, including the currently stored token.
		_, err = flow.Refresh(ctx, registered.RefreshToken, testMetadata())
		require.Error(t, err)
		assert.Equal(t, businessflow.CodeSessionInvalid, businessflow.ErrorCode(err))

		user, err := userRepo.ByID(ctx, registered.User.ID)
		require.NoError(t, err)
		assert.Nil(t, user.RefreshToken)

		// The once-valid rotated token is now dead too
		_, err = flow.Refresh(ctx, rotated.RefreshToken, testMetadata())
		assert.Equal(t, businessflow.CodeSessionInvalid, businessflow.ErrorCode(err))

		return nil
	})
	require.NoError(t, err)
}

func TestRotateRefreshTokenIsCompareAndSwap(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB)
		ctx := testingutil.CreateTestContext()
		userRepo := repository.NewUserRepository(testDB.DB)

		registered, err := flow.Register(ctx, registerRequest("jane@example.com"), testMetadata())
		require.NoError(t, err)

		// First swap wins: the row updates because the stored token still
		// matches the presented one.
		rotated, err := userRepo.RotateRefreshToken(ctx, registered.User.ID, registered.RefreshToken, "next-token-a")
		require.NoError(t, err)
		assert.True(t, rotated)

		// Second swap with the same presented token loses: the equality
		// precondition no longer holds, and the stored token is untouched.
		rotated, err = userRepo.RotateRefreshToken(ctx, registered.User.ID, registered.RefreshToken, "next-token-b")
		require.NoError(t, err)
		assert.False(t, rotated)

		user, err := userRepo.ByID(ctx, registered.User.ID)
		require.NoError(t, err)
		require.NotNil(t, user.RefreshToken)
		assert.Equal(t, "next-token-a", *user.RefreshToken)

		return nil
	})
	require.NoError(t, err)
}

func TestLogoutIsBestEffort(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB)
		ctx := testingutil.CreateTestContext()
		userRepo := repository.NewUserRepository(testDB.DB)

		registered, err := flow.Register(ctx, registerRequest("jane@example.com"), testMetadata())
		require.NoError(t, err)

		require.NoError(t, flow.Logout(ctx, registered.RefreshToken, testMetadata()))

		user, err := userRepo.ByID(ctx, registered.User.ID)
		require.NoError(t, err)
		assert.Nil(t, user.RefreshToken)

		// Garbage or missing tokens never fail logout
		assert.NoError(t, flow.Logout(ctx, "not-a-jwt", testMetadata()))
		assert.NoError(t, flow.Logout(ctx, "", testMetadata()))

		return nil
	})
	require.NoError(t, err)
}

func TestForgotPasswordStoresHashedCode(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB)
		ctx := testingutil.CreateTestContext()
		userRepo := repository.NewUserRepository(testDB.DB)

		registered, err := flow.Register(ctx, registerRequest("jane@example.com"), testMetadata())
		require.NoError(t, err)

		require.NoError(t, flow.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "jane@example.com"}, testMetadata()))

		user, err := userRepo.ByID(ctx, registered.User.ID)
		require.NoError(t, err)
		require.NotNil(t, user.ResetOTPHash)
		require.NotNil(t, user.ResetOTPExpiry)

		// The stored value is a bcrypt hash, not the code itself
		_, err = bcrypt.Cost([]byte(*user.ResetOTPHash))
		assert.NoError(t, err)

		// Unknown email is reported, not silently ignored
		err = flow.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "nobody@example.com"}, testMetadata())
		assert.Equal(t, businessflow.CodeNotFound, businessflow.ErrorCode(err))

		return nil
	})
	require.NoError(t, err)
}
