// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nuvylux/subscription-backend/models"
	"gorm.io/gorm"
)

// TransactionRepositoryImpl implements TransactionRepository interface
type TransactionRepositoryImpl struct {
	*BaseRepository[models.Transaction, models.TransactionFilter]
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &TransactionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Transaction, models.TransactionFilter](db),
	}
}

// ByGatewayRef retrieves a transaction by its gateway reference.
// This is the idempotency lookup for payment reconciliation.
func (r *TransactionRepositoryImpl) ByGatewayRef(ctx context.Context, ref string) (*models.Transaction, error) {
	db := r.getDB(ctx)

	var txn models.Transaction
	err := db.Where("gateway_ref = ?", ref).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find transaction by gateway ref: %w", err)
	}

	return &txn, nil
}

// ByFilter retrieves transactions based on filter criteria
func (r *TransactionRepositoryImpl) ByFilter(ctx context.Context, filter models.TransactionFilter, orderBy string, limit, offset int) ([]*models.Transaction, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Transaction{})

	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.GatewayRef != nil {
		query = query.Where("gateway_ref = ?", *filter.GatewayRef)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.DateAfter != nil {
		query = query.Where("date >= ?", *filter.DateAfter)
	}
	if filter.DateBefore != nil {
		query = query.Where("date <= ?", *filter.DateBefore)
	}

	if orderBy == "" {
		orderBy = "date DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Transaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecentWithCompany returns the latest transactions with company preloaded
func (r *TransactionRepositoryImpl) ListRecentWithCompany(ctx context.Context, limit int) ([]*models.Transaction, error) {
	db := r.getDB(ctx)

	var rows []*models.Transaction
	err := db.Preload("Company").Order("date DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}

	return rows, nil
}

// ListByCompany returns the latest transactions for one company
func (r *TransactionRepositoryImpl) ListByCompany(ctx context.Context, companyID uint, limit int) ([]*models.Transaction, error) {
	db := r.getDB(ctx)

	var rows []*models.Transaction
	query := db.Where("company_id = ?", companyID).Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions by company: %w", err)
	}

	return rows, nil
}

// SumAmounts returns total recorded revenue across all companies
func (r *TransactionRepositoryImpl) SumAmounts(ctx context.Context) (int64, error) {
	db := r.getDB(ctx)

	var total int64
	err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum transaction amounts: %w", err)
	}

	return total, nil
}
