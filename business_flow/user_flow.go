// Package businessflow contains the core business logic and use cases for the client dashboard
package businessflow

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
	"github.com/nuvylux/subscription-backend/utils"
)

const dashboardTransactionsLimit = 20

// UserFlow serves the authenticated user's own account and dashboard
type UserFlow interface {
	Me(ctx context.Context, userID uint) (*dto.MeResponse, error)
	ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error
	Dashboard(ctx context.Context, userID uint) (*dto.DashboardResponse, error)
}

// UserFlowImpl implements the user-facing account flow
type UserFlowImpl struct {
	userRepo        repository.UserRepository
	planRepo        repository.PlanRepository
	transactionRepo repository.TransactionRepository
	ticketRepo      repository.TicketRepository
}

// NewUserFlow creates a new user account flow instance
func NewUserFlow(
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	transactionRepo repository.TransactionRepository,
	ticketRepo repository.TicketRepository,
) UserFlow {
	return &UserFlowImpl{
		userRepo:        userRepo,
		planRepo:        planRepo,
		transactionRepo: transactionRepo,
		ticketRepo:      ticketRepo,
	}
}

// Me returns the authenticated user's profile with their company
func (f *UserFlowImpl) Me(ctx context.Context, userID uint) (*dto.MeResponse, error) {
	user, err := f.userRepo.ByIDWithCompany(ctx, userID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to load profile", err)
	}
	if user == nil {
		return nil, NewBusinessError(CodeNotFound, "User not found", ErrUserNotFound)
	}

	resp := &dto.MeResponse{User: ToUserInfo(*user)}
	if user.Company != nil {
		company := ToCompanyInfo(*user.Company)
		resp.Company = &company
	}
	return resp, nil
}

// ChangePassword verifies the current password before setting a new one.
// The live session is kept; only future logins need the new password.
func (f *UserFlowImpl) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	user, err := f.userRepo.ByID(ctx, userID)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Password change failed", err)
	}
	if user == nil {
		return NewBusinessError(CodeNotFound, "User not found", ErrUserNotFound)
	}
	if !user.HasPassword() {
		return NewBusinessError(CodeValidationError, "This account uses social sign-in", ErrSocialLoginAccount)
	}

	if req.NewPassword != req.ConfirmPassword {
		return NewBusinessError(CodeValidationError, "Passwords do not match", ErrPasswordMismatch)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return NewBusinessError(CodeUnauthorized, "Current password is incorrect", ErrIncorrectPassword)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), utils.BcryptCost)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Password change failed", err)
	}
	if err := f.userRepo.UpdatePassword(ctx, userID, string(newHash)); err != nil {
		return NewBusinessError(CodeInternalError, "Password change failed", err)
	}
	return nil
}

// Dashboard assembles the billing card, the payment history, and the
// open-ticket count for the client dashboard
func (f *UserFlowImpl) Dashboard(ctx context.Context, userID uint) (*dto.DashboardResponse, error) {
	user, err := f.userRepo.ByIDWithCompany(ctx, userID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to load dashboard", err)
	}
	if user == nil {
		return nil, NewBusinessError(CodeNotFound, "User not found", ErrUserNotFound)
	}

	resp := &dto.DashboardResponse{Transactions: []dto.TransactionInfo{}}
	if user.Company == nil {
		return resp, nil
	}
	company := user.Company

	plans, err := f.resolvePlans(ctx, company.SelectedPlans)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to load dashboard", err)
	}

	card := &dto.DashboardCompany{
		ID:              company.ID,
		Name:            company.Name,
		LogoURL:         company.LogoURL,
		Plans:           plans,
		Amount:          company.Amount,
		BundleDiscount:  company.BundleDiscount,
		Status:          string(company.Status),
		PaymentVerified: utils.IsTrue(company.PaymentVerified),
	}
	if company.NextBilling != nil {
		nb := company.NextBilling.Format(time.RFC3339)
		card.NextBilling = &nb
	}
	if company.SubscriptionType != nil {
		st := string(*company.SubscriptionType)
		card.SubscriptionType = &st
	}
	resp.Company = card

	transactions, err := f.transactionRepo.ListByCompany(ctx, company.ID, dashboardTransactionsLimit)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to load dashboard", err)
	}
	for _, txn := range transactions {
		info := ToTransactionInfo(*txn)
		info.CompanyName = company.Name
		resp.Transactions = append(resp.Transactions, info)
	}

	openTickets, err := f.ticketRepo.CountOpenByCompany(ctx, company.ID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to load dashboard", err)
	}
	resp.OpenTicketsCount = openTickets

	return resp, nil
}

// resolvePlans maps stored plan references to catalog entries. References
// are catalog IDs or plan names depending on the pricing mode; anything
// that no longer resolves is skipped rather than failing the dashboard.
func (f *UserFlowImpl) resolvePlans(ctx context.Context, refs []string) ([]dto.PlanInfo, error) {
	plans := make([]dto.PlanInfo, 0, len(refs))
	for _, ref := range refs {
		var plan *models.Plan
		var err error

		if id, parseErr := strconv.ParseUint(ref, 10, 64); parseErr == nil {
			plan, err = f.planRepo.ByID(ctx, uint(id))
		} else {
			matches, ferr := f.planRepo.ByFilter(ctx, models.PlanFilter{Name: &ref}, "id ASC", 1, 0)
			err = ferr
			if len(matches) > 0 {
				plan = matches[0]
			}
		}
		if err != nil {
			return nil, err
		}
		if plan != nil {
			plans = append(plans, ToPlanInfo(*plan))
		}
	}
	return plans, nil
}
