// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/nuvylux/subscription-backend/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
}

// UserRepository defines operations for user accounts
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByIDWithCompany(ctx context.Context, id uint) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	UpdateRefreshToken(ctx context.Context, userID uint, refreshToken *string) error
	RotateRefreshToken(ctx context.Context, userID uint, presented, next string) (bool, error)
	UpdateResetOTP(ctx context.Context, userID uint, otpHash *string, expiry *time.Time) error
	LinkCompany(ctx context.Context, userID, companyID uint) error
	MarkOnboardingCompleted(ctx context.Context, userID uint) error
}

// CompanyRepository defines operations for companies
type CompanyRepository interface {
	Repository[models.Company, models.CompanyFilter]
	BySlug(ctx context.Context, slug string) (*models.Company, error)
	ListSubscribers(ctx context.Context, search string) ([]*models.Company, error)
	ListDueForBilling(ctx context.Context, asOf time.Time) ([]*models.Company, error)
	CountActiveSubscribers(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, companyID uint, status models.SubscriptionStatus) error
}

// TrackRepository defines operations for plan tracks
type TrackRepository interface {
	Repository[models.Track, models.TrackFilter]
	ListOrderedWithActivePlans(ctx context.Context) ([]*models.Track, error)
	Delete(ctx context.Context, trackID uint) error
}

// PlanRepository defines operations for plans
type PlanRepository interface {
	Repository[models.Plan, models.PlanFilter]
	ByIDs(ctx context.Context, ids []uint) ([]*models.Plan, error)
	ActiveByIDs(ctx context.Context, ids []uint) ([]*models.Plan, error)
	CountByTrack(ctx context.Context, trackID uint) (int64, error)
	Deactivate(ctx context.Context, planID uint) (*models.Plan, error)
}

// TransactionRepository defines operations for the payment ledger
type TransactionRepository interface {
	Repository[models.Transaction, models.TransactionFilter]
	ByGatewayRef(ctx context.Context, ref string) (*models.Transaction, error)
	ListRecentWithCompany(ctx context.Context, limit int) ([]*models.Transaction, error)
	ListByCompany(ctx context.Context, companyID uint, limit int) ([]*models.Transaction, error)
	SumAmounts(ctx context.Context) (int64, error)
}

// TicketRepository defines operations for support tickets
type TicketRepository interface {
	Repository[models.Ticket, models.TicketFilter]
	ListByCompany(ctx context.Context, companyID uint) ([]*models.Ticket, error)
	CountOpen(ctx context.Context) (int64, error)
	CountOpenByCompany(ctx context.Context, companyID uint) (int64, error)
	UpdateStatus(ctx context.Context, ticketID uint, status models.TicketStatus) error
}
