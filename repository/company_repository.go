// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/utils"
	"gorm.io/gorm"
)

// CompanyRepositoryImpl implements CompanyRepository interface
type CompanyRepositoryImpl struct {
	*BaseRepository[models.Company, models.CompanyFilter]
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &CompanyRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Company, models.CompanyFilter](db),
	}
}

// BySlug retrieves a company by its slug
func (r *CompanyRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.Company, error) {
	db := r.getDB(ctx)

	var company models.Company
	err := db.Where("slug = ?", slug).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find company by slug: %w", err)
	}

	return &company, nil
}

// ByFilter retrieves companies based on filter criteria
func (r *CompanyRepositoryImpl) ByFilter(ctx context.Context, filter models.CompanyFilter, orderBy string, limit, offset int) ([]*models.Company, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Company{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Company
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CompanyRepositoryImpl) applyFilter(query *gorm.DB, filter models.CompanyFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Slug != nil {
		query = query.Where("slug = ?", *filter.Slug)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentVerified != nil {
		query = query.Where("payment_verified = ?", *filter.PaymentVerified)
	}
	if filter.NameContains != nil {
		query = query.Where("name ILIKE ?", "%"+*filter.NameContains+"%")
	}
	if filter.HasPlanRef != nil {
		query = query.Where("? = ANY(selected_plans)", *filter.HasPlanRef)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ListSubscribers retrieves companies newest-first with their contact user
// and transaction history preloaded. The search term matches company names
// case-insensitively or a selected plan reference exactly.
func (r *CompanyRepositoryImpl) ListSubscribers(ctx context.Context, search string) ([]*models.Company, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Company{})

	if search != "" {
		query = query.Where("name ILIKE ? OR ? = ANY(selected_plans)", "%"+search+"%", search)
	}

	var rows []*models.Company
	err := query.
		Preload("Users", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC")
		}).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	return rows, nil
}

// CountActiveSubscribers counts companies with an active, payment-verified subscription
func (r *CompanyRepositoryImpl) CountActiveSubscribers(ctx context.Context) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Company{}).
		Where("status = ? AND payment_verified = ?", models.SubscriptionStatusActive, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active subscribers: %w", err)
	}

	return count, nil
}

// ListDueForBilling retrieves active subscribers whose billing date has
// passed, with their users preloaded for notification.
func (r *CompanyRepositoryImpl) ListDueForBilling(ctx context.Context, asOf time.Time) ([]*models.Company, error) {
	db := r.getDB(ctx)

	var rows []*models.Company
	err := db.Model(&models.Company{}).
		Where("status = ? AND next_billing IS NOT NULL AND next_billing <= ?", models.SubscriptionStatusActive, asOf).
		Preload("Users", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("next_billing ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list companies due for billing: %w", err)
	}

	return rows, nil
}

// UpdateStatus sets the subscription status for a company
func (r *CompanyRepositoryImpl) UpdateStatus(ctx context.Context, companyID uint, status models.SubscriptionStatus) error {
	return r.updateColumns(ctx, "id = ?", []any{companyID}, map[string]any{
		"status":     status,
		"updated_at": utils.UTCNow(),
	})
}
