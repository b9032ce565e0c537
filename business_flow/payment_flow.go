// Package businessflow contains the core business logic and use cases for payment reconciliation
package businessflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/app/services"
	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
	"github.com/nuvylux/subscription-backend/utils"
	"gorm.io/gorm"
)

// PaymentFlow reconciles gateway charges against subscriptions
type PaymentFlow interface {
	VerifyPayment(ctx context.Context, userID uint, req *dto.VerifyPaymentRequest, metadata *ClientMetadata) (*dto.VerifyPaymentResult, error)
}

// PaymentFlowImpl implements the payment reconciliation flow
type PaymentFlowImpl struct {
	userRepo        repository.UserRepository
	companyRepo     repository.CompanyRepository
	transactionRepo repository.TransactionRepository
	planRepo        repository.PlanRepository
	gateway         services.PaymentGateway
	notificationSvc services.NotificationService
	db              *gorm.DB
}

// NewPaymentFlow creates a new payment reconciliation flow instance
func NewPaymentFlow(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	transactionRepo repository.TransactionRepository,
	planRepo repository.PlanRepository,
	gateway services.PaymentGateway,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) PaymentFlow {
	return &PaymentFlowImpl{
		userRepo:        userRepo,
		companyRepo:     companyRepo,
		transactionRepo: transactionRepo,
		planRepo:        planRepo,
		gateway:         gateway,
		notificationSvc: notificationSvc,
		db:              db,
	}
}

// VerifyPayment confirms the charge with the gateway before touching any
// local state, then activates the subscription, records exactly one
// ledger row, and completes onboarding inside one transaction. A replayed
// reference is a successful no-op.
func (f *PaymentFlowImpl) VerifyPayment(ctx context.Context, userID uint, req *dto.VerifyPaymentRequest, metadata *ClientMetadata) (*dto.VerifyPaymentResult, error) {
	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		return nil, NewBusinessError(CodeValidationError, "Transaction reference is required", ErrReferenceRequired)
	}

	user, err := f.userRepo.ByIDWithCompany(ctx, userID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Payment verification failed", err)
	}
	if user == nil {
		return nil, NewBusinessError(CodeNotFound, "User not found", ErrUserNotFound)
	}
	if user.CompanyID == nil || user.Company == nil {
		return nil, NewBusinessError(CodeValidationError, "Complete company setup before verifying payment", ErrCompanyRequired)
	}
	company := user.Company

	// Idempotency: a reference we already recorded was fully processed
	existing, err := f.transactionRepo.ByGatewayRef(ctx, reference)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Payment verification failed", err)
	}
	if existing != nil {
		result := &dto.VerifyPaymentResult{
			Message:          "Payment already verified",
			AlreadyProcessed: true,
		}
		if company.NextBilling != nil {
			result.NextBilling = company.NextBilling.Format(time.RFC3339)
		}
		return result, nil
	}

	// Confirm with the gateway before any local mutation
	gatewayTxn, err := f.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotSuccessful) {
			return nil, NewBusinessError(CodePaymentNotSuccessful, "Payment was not successful", ErrPaymentNotSuccessful)
		}
		return nil, NewBusinessError(CodeInternalError, "Payment verification failed", err)
	}

	// Cycle defaults from what was committed at plan selection
	cycle := req.Cycle
	if cycle == "" {
		cycle = company.BillingCycle
	}
	if cycle == "" {
		cycle = utils.CycleMonthly
	}
	nextBilling := nextBillingDate(cycle)

	subscriptionType := models.SubscriptionTypeRecurring
	if gatewayTxn.SubscriptionCode == nil {
		subscriptionType = models.SubscriptionTypeOneTime
	}

	description := transactionDescription(f.resolvePlanNames(ctx, req.SelectedPlans), req.IsBundle, cycle)

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		company.SelectedPlans = append([]string{}, req.SelectedPlans...)
		company.Amount = req.Amount
		if req.DiscountAmount != nil {
			company.BundleDiscount = *req.DiscountAmount
		}
		company.Status = models.SubscriptionStatusActive
		company.PaymentVerified = utils.ToPtr(true)
		company.NextBilling = &nextBilling
		company.SubscriptionType = &subscriptionType
		if gatewayTxn.CustomerCode != nil {
			company.GatewayCustomerCode = gatewayTxn.CustomerCode
		}
		company.GatewaySubscriptionCode = gatewayTxn.SubscriptionCode

		if err := f.companyRepo.Update(txCtx, company); err != nil {
			return err
		}

		txn := &models.Transaction{
			CompanyID:   company.ID,
			Amount:      req.Amount,
			Description: description,
			Status:      models.TransactionStatusPaid,
			Type:        models.TransactionType(subscriptionType),
			GatewayRef:  reference,
			Date:        utils.UTCNow(),
		}
		if err := f.transactionRepo.Save(txCtx, txn); err != nil {
			return err
		}

		return f.userRepo.MarkOnboardingCompleted(txCtx, user.ID)
	})
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Payment verification failed", err)
	}

	f.notificationSvc.SendEmailAsync(user.Email, user.FirstName, "Subscription activated",
		services.WelcomeEmailBody(user.FirstName))

	return &dto.VerifyPaymentResult{
		Message:     "Payment verified and subscription activated",
		NextBilling: nextBilling.Format(time.RFC3339),
	}, nil
}

// nextBillingDate advances from now by the billing cycle. Unknown cycles
// fall back to monthly.
func nextBillingDate(cycle string) time.Time {
	now := utils.UTCNow()
	switch cycle {
	case utils.CycleQuarterly:
		return now.AddDate(0, 0, 90)
	case utils.CycleYearly:
		return now.AddDate(1, 0, 0)
	default:
		return now.AddDate(0, 0, 30)
	}
}

// resolvePlanNames maps plan references to catalog display names. A
// reference that no longer resolves keeps its raw value so the ledger
// row still records what was bought.
func (f *PaymentFlowImpl) resolvePlanNames(ctx context.Context, refs []string) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		var plan *models.Plan

		if id, parseErr := strconv.ParseUint(ref, 10, 64); parseErr == nil {
			plan, _ = f.planRepo.ByID(ctx, uint(id))
		} else {
			matches, _ := f.planRepo.ByFilter(ctx, models.PlanFilter{Name: &ref}, "id ASC", 1, 0)
			if len(matches) > 0 {
				plan = matches[0]
			}
		}

		if plan != nil {
			names = append(names, plan.Name)
		} else {
			names = append(names, ref)
		}
	}
	return names
}

func transactionDescription(planNames []string, isBundle bool, cycle string) string {
	if isBundle && len(planNames) > 1 {
		return "Bundle: " + strings.Join(planNames, " + ")
	}
	if len(planNames) == 1 {
		return fmt.Sprintf("%s Plan - %s Subscription", planNames[0], cycleLabel(cycle))
	}
	return "Subscription payment"
}

func cycleLabel(cycle string) string {
	switch cycle {
	case utils.CycleQuarterly:
		return "Quarterly"
	case utils.CycleYearly:
		return "Yearly"
	default:
		return "Monthly"
	}
}
