// Package businessflow contains the core business logic and use cases for onboarding workflows
package businessflow

import (
	"context"
	"errors"
	"strings"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/app/services"
	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
	"github.com/nuvylux/subscription-backend/utils"
	"gorm.io/gorm"
)

// OnboardingFlow walks a fresh account through profile, company, and plan selection
type OnboardingFlow interface {
	UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserInfo, error)
	UpsertCompany(ctx context.Context, userID uint, req *dto.UpsertCompanyRequest) (*dto.CompanyInfo, error)
	SelectPlans(ctx context.Context, userID uint, req *dto.SelectPlansRequest) (*dto.SelectPlansResult, error)
}

// OnboardingFlowImpl implements the onboarding business flow
type OnboardingFlowImpl struct {
	userRepo      repository.UserRepository
	companyRepo   repository.CompanyRepository
	pricingSource services.PricingSource
	db            *gorm.DB
}

// NewOnboardingFlow creates a new onboarding flow instance
func NewOnboardingFlow(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	pricingSource services.PricingSource,
	db *gorm.DB,
) OnboardingFlow {
	return &OnboardingFlowImpl{
		userRepo:      userRepo,
		companyRepo:   companyRepo,
		pricingSource: pricingSource,
		db:            db,
	}
}

// UpdateProfile fills in the personal details collected during onboarding
func (f *OnboardingFlowImpl) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := f.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Profile update failed", err)
	}
	if user == nil {
		return nil, NewBusinessError(CodeNotFound, "User not found", ErrUserNotFound)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		existing, err := f.userRepo.ByEmail(ctx, email)
		if err != nil {
			return nil, NewBusinessError(CodeInternalError, "Profile update failed", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, NewBusinessError(CodeConflict, "An account with this email already exists", ErrEmailAlreadyExists)
		}
		user.Email = email
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.PhoneNumber = req.PhoneNumber
	user.Image = req.Image
	user.DOB = req.DOB
	user.Gender = req.Gender
	user.Address = req.Address
	user.City = req.City
	user.State = req.State
	user.Country = req.Country

	if err := f.userRepo.Update(ctx, user); err != nil {
		return nil, NewBusinessError(CodeInternalError, "Profile update failed", err)
	}

	info := ToUserInfo(*user)
	return &info, nil
}

// UpsertCompany creates the user's company on first submit and updates it
// on subsequent submits, so the onboarding step can be revisited freely.
func (f *OnboardingFlowImpl) UpsertCompany(ctx context.Context, userID uint, req *dto.UpsertCompanyRequest) (*dto.CompanyInfo, error) {
	user, err := f.userRepo.ByIDWithCompany(ctx, userID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Company setup failed", err)
	}
	if user == nil {
		return nil, NewBusinessError(CodeNotFound, "User not found", ErrUserNotFound)
	}

	name := strings.TrimSpace(req.CompanyName)
	slug := utils.Slugify(name)

	var company *models.Company
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if user.CompanyID != nil && user.Company != nil {
			company = user.Company
		}

		if company == nil || company.Slug != slug {
			existing, err := f.companyRepo.BySlug(txCtx, slug)
			if err != nil {
				return err
			}
			if existing != nil && (company == nil || existing.ID != company.ID) {
				return ErrSlugAlreadyTaken
			}
		}

		if company == nil {
			code, err := utils.RandomCode(4)
			if err != nil {
				return err
			}
			company = &models.Company{
				Name:        name,
				Slug:        slug,
				DisplayCode: utils.Acronym(name) + "-" + code,
				Status:      models.SubscriptionStatusPending,
			}
		} else {
			company.Name = name
			company.Slug = slug
		}

		company.WebsiteURL = req.Website
		company.Industry = utils.ToPtr(req.Industry)
		company.CompanySize = utils.ToPtr(req.CompanySize)
		company.Address = utils.ToPtr(req.Address)
		company.City = utils.ToPtr(req.City)
		company.State = req.State
		company.Country = utils.ToPtr(req.Country)
		company.CompanyPhone = req.CompanyPhone
		company.RCNumber = req.RCNumber
		company.LogoURL = req.LogoURL

		if err := f.companyRepo.Save(txCtx, company); err != nil {
			return err
		}

		if user.CompanyID == nil {
			return f.userRepo.LinkCompany(txCtx, user.ID, company.ID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlugAlreadyTaken) {
			return nil, NewBusinessError(CodeConflict, "A company with this name already exists", ErrSlugAlreadyTaken)
		}
		return nil, NewBusinessError(CodeInternalError, "Company setup failed", err)
	}

	info := ToCompanyInfo(*company)
	return &info, nil
}

// SelectPlans prices the requested plans and commits the quote on the
// company. Re-selecting resets payment verification so the next payment
// is reconciled against the new amount.
func (f *OnboardingFlowImpl) SelectPlans(ctx context.Context, userID uint, req *dto.SelectPlansRequest) (*dto.SelectPlansResult, error) {
	user, err := f.userRepo.ByIDWithCompany(ctx, userID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Plan selection failed", err)
	}
	if user == nil {
		return nil, NewBusinessError(CodeNotFound, "User not found", ErrUserNotFound)
	}
	if user.CompanyID == nil || user.Company == nil {
		return nil, NewBusinessError(CodeValidationError, "Complete company setup before selecting a plan", ErrCompanyRequired)
	}

	cycle := req.Cycle
	if cycle == "" {
		cycle = utils.CycleMonthly
	}

	quote, err := f.pricingSource.Quote(ctx, req.SelectedPlans, cycle)
	if err != nil {
		var invalidRefs *services.ErrInvalidPlanRefs
		var invalidCycle *services.ErrInvalidCycle
		switch {
		case errors.As(err, &invalidRefs), errors.As(err, &invalidCycle):
			return nil, NewBusinessError(CodeValidationError, err.Error(), err)
		default:
			return nil, NewBusinessError(CodeInternalError, "Plan selection failed", err)
		}
	}

	company := user.Company
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		company.SelectedPlans = append([]string{}, req.SelectedPlans...)
		company.Amount = quote.Total
		company.BundleDiscount = quote.DiscountAmount
		company.BillingCycle = quote.Cycle
		company.Status = models.SubscriptionStatusPending
		company.PaymentVerified = utils.ToPtr(false)
		company.NextBilling = nil
		return f.companyRepo.Update(txCtx, company)
	})
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Plan selection failed", err)
	}

	return &dto.SelectPlansResult{
		SelectedPlans:   append([]string{}, req.SelectedPlans...),
		Cycle:           quote.Cycle,
		Subtotal:        quote.Subtotal,
		SetupFees:       quote.SetupFees,
		DiscountAmount:  quote.DiscountAmount,
		FinalAmount:     quote.Total,
		DiscountApplied: quote.DiscountAmount > 0,
	}, nil
}
