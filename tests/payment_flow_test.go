package tests

import (
	"context"
	"strconv"
	"testing"
	"time"

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

// stubGateway answers verification calls from a canned map
type stubGateway struct {
	transactions map[string]*services.GatewayTransaction
	calls        int
}

func (g *stubGateway) VerifyTransaction(_ context.Context, reference string) (*services.GatewayTransaction, error) {
	g.calls++
	txn, ok := g.transactions[reference]
	if !ok {
		return nil, services.ErrPaymentNotSuccessful
	}
	return txn, nil
}

type paymentHarness struct {
	flow            businessflow.PaymentFlow
	gateway         *stubGateway
	userRepo        repository.UserRepository
	companyRepo     repository.CompanyRepository
	transactionRepo repository.TransactionRepository
	user            *models.User
	company         *models.Company
}

func newPaymentHarness(t *testing.T, testDB *testingutil.TestDB, gateway *stubGateway) *paymentHarness {
	t.Helper()

	fixtures := testingutil.NewTestFixtures(testDB)
	user, err := fixtures.CreateTestUser(models.UserRoleClient)
	require.NoError(t, err)
	company, err := fixtures.CreateTestCompany([]string{"STARTER", "GROWTH"}, 138750)
	require.NoError(t, err)
	require.NoError(t, fixtures.LinkUserToCompany(user, company))

	userRepo := repository.NewUserRepository(testDB.DB)
	companyRepo := repository.NewCompanyRepository(testDB.DB)
	transactionRepo := repository.NewTransactionRepository(testDB.DB)
	planRepo := repository.NewPlanRepository(testDB.DB)
	notificationSvc := services.NewNotificationService(services.NewMockEmailProvider(), "noreply@example.com", "Test")

	return &paymentHarness{
		flow:            businessflow.NewPaymentFlow(userRepo, companyRepo, transactionRepo, planRepo, gateway, notificationSvc, testDB.DB),
		gateway:         gateway,
		userRepo:        userRepo,
		companyRepo:     companyRepo,
		transactionRepo: transactionRepo,
		user:            user,
		company:         company,
	}
}

func successfulGateway(reference string) *stubGateway {
	return &stubGateway{transactions: map[string]*services.GatewayTransaction{
		reference: {
			Reference:    reference,
			Status:       "success",
			Amount:       13875000,
			CustomerCode: utils.ToPtr("CUS_abc123"),
		},
	}}
}

func verifyRequest(reference string) *dto.VerifyPaymentRequest {
	return &dto.VerifyPaymentRequest{
		Reference:     reference,
		SelectedPlans: []string{"STARTER", "GROWTH"},
		Amount:        138750,
		IsBundle:      true,
		Cycle:         utils.CycleMonthly,
	}
}

func TestVerifyPaymentActivatesSubscription(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		h := newPaymentHarness(t, testDB, successfulGateway("T100"))
		ctx := testingutil.CreateTestContext()

		result, err := h.flow.VerifyPayment(ctx, h.user.ID, verifyRequest("T100"), nil)
		require.NoError(t, err)
		assert.False(t, result.AlreadyProcessed)
		assert.NotEmpty(t, result.NextBilling)

		company, err := h.companyRepo.ByID(ctx, h.company.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionStatusActive, company.Status)
		assert.True(t, utils.IsTrue(company.PaymentVerified))
		require.NotNil(t, company.NextBilling)
		assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), *company.NextBilling, time.Minute)
		require.NotNil(t, company.GatewayCustomerCode)
		assert.Equal(t, "CUS_abc123", *company.GatewayCustomerCode)

		// No subscription code from the gateway means a one-time charge
		require.NotNil(t, company.SubscriptionType)
		assert.Equal(t, models.SubscriptionTypeOneTime, *company.SubscriptionType)

		// Exactly one ledger row for the reference
		txn, err := h.transactionRepo.ByGatewayRef(ctx, "T100")
		require.NoError(t, err)
		require.NotNil(t, txn)
		assert.Equal(t, int64(138750), txn.Amount)
		assert.Equal(t, models.TransactionStatusPaid, txn.Status)
		assert.Equal(t, "Bundle: STARTER + GROWTH", txn.Description)

		user, err := h.userRepo.ByID(ctx, h.user.ID)
		require.NoError(t, err)
		assert.True(t, utils.IsTrue(user.OnboardingCompleted))

		return nil
	})
	require.NoError(t, err)
}

func TestVerifyPaymentReplayIsNoOp(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		h := newPaymentHarness(t, testDB, successfulGateway("T200"))
		ctx := testingutil.CreateTestContext()

		_, err := h.flow.VerifyPayment(ctx, h.user.ID, verifyRequest("T200"), nil)
		require.NoError(t, err)
		callsAfterFirst := h.gateway.calls

		result, err := h.flow.VerifyPayment(ctx, h.user.ID, verifyRequest("T200"), nil)
		require.NoError(t, err)
		assert.True(t, result.AlreadyProcessed)
		assert.NotEmpty(t, result.NextBilling)

		// The replay is answered from the ledger without calling the gateway
		assert.Equal(t, callsAfterFirst, h.gateway.calls)

		var count int64
		require.NoError(t, testDB.DB.Model(&models.Transaction{}).Where("gateway_ref = ?", "T200").Count(&count).Error)
		assert.Equal(t, int64(1), count)

		return nil
	})
	require.NoError(t, err)
}

func TestVerifyPaymentGatewayFailureLeavesStateUntouched(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		h := newPaymentHarness(t, testDB, &stubGateway{transactions: map[string]*services.GatewayTransaction{}})
		ctx := testingutil.CreateTestContext()

		_, err := h.flow.VerifyPayment(ctx, h.user.ID, verifyRequest("T300"), nil)
		require.Error(t, err)
		assert.Equal(t, businessflow.CodePaymentNotSuccessful, businessflow.ErrorCode(err))

		company, err := h.companyRepo.ByID(ctx, h.company.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionStatusPending, company.Status)
		assert.False(t, utils.IsTrue(company.PaymentVerified))
		assert.Nil(t, company.NextBilling)

		txn, err := h.transactionRepo.ByGatewayRef(ctx, "T300")
		require.NoError(t, err)
		assert.Nil(t, txn)

		user, err := h.userRepo.ByID(ctx, h.user.ID)
		require.NoError(t, err)
		assert.False(t, utils.IsTrue(user.OnboardingCompleted))

		return nil
	})
	require.NoError(t, err)
}

func TestVerifyPaymentCycleDrivesNextBilling(t *testing.T) {
	cases := []struct {
		cycle    string
		expected time.Time
	}{
		{utils.CycleQuarterly, time.Now().UTC().AddDate(0, 0, 90)},
		{utils.CycleYearly, time.Now().UTC().AddDate(1, 0, 0)},
		{"", time.Now().UTC().AddDate(0, 0, 30)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run("cycle_"+tc.cycle, func(t *testing.T) {
			err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
				h := newPaymentHarness(t, testDB, successfulGateway("T400"))
				ctx := testingutil.CreateTestContext()

				req := verifyRequest("T400")
				req.Cycle = tc.cycle
				_, err := h.flow.VerifyPayment(ctx, h.user.ID, req, nil)
				require.NoError(t, err)

				company, err := h.companyRepo.ByID(ctx, h.company.ID)
				require.NoError(t, err)
				require.NotNil(t, company.NextBilling)
				assert.WithinDuration(t, tc.expected, *company.NextBilling, time.Minute)

				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestVerifyPaymentDefaultsCycleFromCompany(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		h := newPaymentHarness(t, testDB, successfulGateway("T450"))
		ctx := testingutil.CreateTestContext()

		// The cycle committed at plan selection carries through when the
		// verification request omits it.
		h.company.BillingCycle = utils.CycleYearly
		require.NoError(t, h.companyRepo.Update(ctx, h.company))

		req := verifyRequest("T450")
		req.Cycle = ""
		_, err := h.flow.VerifyPayment(ctx, h.user.ID, req, nil)
		require.NoError(t, err)

		company, err := h.companyRepo.ByID(ctx, h.company.ID)
		require.NoError(t, err)
		require.NotNil(t, company.NextBilling)
		assert.WithinDuration(t, time.Now().UTC().AddDate(1, 0, 0), *company.NextBilling, time.Minute)

		return nil
	})
	require.NoError(t, err)
}

func TestVerifyPaymentRequiresCompany(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		user, err := fixtures.CreateTestUser(models.UserRoleClient)
		require.NoError(t, err)

		userRepo := repository.NewUserRepository(testDB.DB)
		companyRepo := repository.NewCompanyRepository(testDB.DB)
		transactionRepo := repository.NewTransactionRepository(testDB.DB)
		planRepo := repository.NewPlanRepository(testDB.DB)
		notificationSvc := services.NewNotificationService(services.NewMockEmailProvider(), "noreply@example.com", "Test")
		flow := businessflow.NewPaymentFlow(userRepo, companyRepo, transactionRepo, planRepo, successfulGateway("T500"), notificationSvc, testDB.DB)

		ctx := testingutil.CreateTestContext()
		_, err = flow.VerifyPayment(ctx, user.ID, verifyRequest("T500"), nil)
		require.Error(t, err)
		assert.Equal(t, businessflow.CodeValidationError, businessflow.ErrorCode(err))

		// Blank reference rejected before anything else
		_, err = flow.VerifyPayment(ctx, user.ID, verifyRequest("   "), nil)
		assert.Equal(t, businessflow.CodeValidationError, businessflow.ErrorCode(err))

		return nil
	})
	require.NoError(t, err)
}

func TestVerifyPaymentDescriptionResolvesPlanNames(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		h := newPaymentHarness(t, testDB, successfulGateway("T600"))
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		track, err := fixtures.CreateTestTrack("Web", 1)
		require.NoError(t, err)
		starter, err := fixtures.CreateTestPlan(track.ID, "Starter", 50000)
		require.NoError(t, err)
		growth, err := fixtures.CreateTestPlan(track.ID, "Growth", 90000)
		require.NoError(t, err)

		// Catalog references in the request, display names in the ledger
		req := verifyRequest("T600")
		req.SelectedPlans = []string{
			strconv.FormatUint(uint64(starter.ID), 10),
			strconv.FormatUint(uint64(growth.ID), 10),
		}

		_, err = h.flow.VerifyPayment(ctx, h.user.ID, req, nil)
		require.NoError(t, err)

		txn, err := h.transactionRepo.ByGatewayRef(ctx, "T600")
		require.NoError(t, err)
		require.NotNil(t, txn)
		assert.Equal(t, "Bundle: Starter + Growth", txn.Description)

		return nil
	})
	require.NoError(t, err)
}

func TestVerifyPaymentDescriptionCycleLabelAndFallback(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		h := newPaymentHarness(t, testDB, successfulGateway("T700"))
		ctx := testingutil.CreateTestContext()

		// No catalog entry for the ref: the raw value stays in the ledger
		req := verifyRequest("T700")
		req.SelectedPlans = []string{"STARTER"}
		req.IsBundle = false
		req.Cycle = utils.CycleYearly

		_, err := h.flow.VerifyPayment(ctx, h.user.ID, req, nil)
		require.NoError(t, err)

		txn, err := h.transactionRepo.ByGatewayRef(ctx, "T700")
		require.NoError(t, err)
		require.NotNil(t, txn)
		assert.Equal(t, "STARTER Plan - Yearly Subscription", txn.Description)

		return nil
	})
	require.NoError(t, err)
}
