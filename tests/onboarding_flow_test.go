package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/app/services"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
	testingutil "github.com/nuvylux/subscription-backend/testing"
	"github.com/nuvylux/subscription-backend/utils"
)

func newOnboardingFlow(testDB *testingutil.TestDB) businessflow.OnboardingFlow {
	userRepo := repository.NewUserRepository(testDB.DB)
	companyRepo := repository.NewCompanyRepository(testDB.DB)
	return businessflow.NewOnboardingFlow(userRepo, companyRepo, services.NewStaticPricingSource(), testDB.DB)
}

func companyRequest(name string) *dto.UpsertCompanyRequest {
	return &dto.UpsertCompanyRequest{
		CompanyName: name,
		Industry:    "Retail",
		CompanySize: "10-50",
		Address:     "12 Marina Road",
		City:        "Lagos",
		Country:     "Nigeria",
	}
}

func TestUpsertCompanyCreateThenUpdate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		user, err := fixtures.CreateTestUser(models.UserRoleClient)
		require.NoError(t, err)

		flow := newOnboardingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		created, err := flow.UpsertCompany(ctx, user.ID, companyRequest("Acme Consulting"))
		require.NoError(t, err)
		assert.Equal(t, "acme-consulting", created.Slug)
		assert.Contains(t, created.DisplayCode, "AC-")

		// The user is linked to the new company
		userRepo := repository.NewUserRepository(testDB.DB)
		linked, err := userRepo.ByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, linked.CompanyID)
		assert.Equal(t, created.ID, *linked.CompanyID)

		// Revisiting the step updates in place, no second company
		updated, err := flow.UpsertCompany(ctx, user.ID, companyRequest("Acme Holdings"))
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "acme-holdings", updated.Slug)

		var count int64
		require.NoError(t, testDB.DB.Model(&models.Company{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		return nil
	})
	require.NoError(t, err)
}

func TestUpsertCompanySlugConflict(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		first, err := fixtures.CreateTestUser(models.UserRoleClient)
		require.NoError(t, err)
		second, err := fixtures.CreateTestUser(models.UserRoleClient)
		require.NoError(t, err)

		flow := newOnboardingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		_, err = flow.UpsertCompany(ctx, first.ID, companyRequest("Acme Consulting"))
		require.NoError(t, err)

		// Different casing, same slug
		_, err = flow.UpsertCompany(ctx, second.ID, companyRequest("ACME Consulting"))
		require.Error(t, err)
		assert.Equal(t, businessflow.CodeConflict, businessflow.ErrorCode(err))

		return nil
	})
	require.NoError(t, err)
}

func TestSelectPlansCommitsQuote(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		user, err := fixtures.CreateTestUser(models.UserRoleClient)
		require.NoError(t, err)

		flow := newOnboardingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		_, err = flow.UpsertCompany(ctx, user.ID, companyRequest("Acme Consulting"))
		require.NoError(t, err)

		result, err := flow.SelectPlans(ctx, user.ID, &dto.SelectPlansRequest{
			SelectedPlans: []string{"STARTER", "GROWTH"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(150000), result.Subtotal)
		assert.Equal(t, int64(11250), result.DiscountAmount)
		assert.Equal(t, int64(138750), result.FinalAmount)
		assert.True(t, result.DiscountApplied)
		assert.Equal(t, utils.CycleMonthly, result.Cycle)

		companyRepo := repository.NewCompanyRepository(testDB.DB)
		userRepo := repository.NewUserRepository(testDB.DB)
		linked, err := userRepo.ByID(ctx, user.ID)
		require.NoError(t, err)
		company, err := companyRepo.ByID(ctx, *linked.CompanyID)
		require.NoError(t, err)
		assert.Equal(t, int64(138750), company.Amount)
		assert.Equal(t, int64(11250), company.BundleDiscount)
		assert.Equal(t, []string{"STARTER", "GROWTH"}, []string(company.SelectedPlans))
		assert.Equal(t, utils.CycleMonthly, company.BillingCycle)
		assert.Equal(t, models.SubscriptionStatusPending, company.Status)
		assert.False(t, utils.IsTrue(company.PaymentVerified))

		return nil
	})
	require.NoError(t, err)
}

func TestSelectPlansRejectsInvalidRefsAndMissingCompany(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		user, err := fixtures.CreateTestUser(models.UserRoleClient)
		require.NoError(t, err)

		flow := newOnboardingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		// No company yet
		_, err = flow.SelectPlans(ctx, user.ID, &dto.SelectPlansRequest{SelectedPlans: []string{"STARTER"}})
		require.Error(t, err)
		assert.Equal(t, businessflow.CodeValidationError, businessflow.ErrorCode(err))

		_, err = flow.UpsertCompany(ctx, user.ID, companyRequest("Acme Consulting"))
		require.NoError(t, err)

		// Every bad reference is reported in one response
		_, err = flow.SelectPlans(ctx, user.ID, &dto.SelectPlansRequest{
			SelectedPlans: []string{"STARTER", "DELUXE", "MEGA"},
		})
		require.Error(t, err)
		assert.Equal(t, businessflow.CodeValidationError, businessflow.ErrorCode(err))
		assert.Contains(t, err.Error(), "DELUXE")
		assert.Contains(t, err.Error(), "MEGA")

		return nil
	})
	require.NoError(t, err)
}
