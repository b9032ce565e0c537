// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/utils"
	"gorm.io/gorm"
)

// TicketRepositoryImpl implements TicketRepository interface
type TicketRepositoryImpl struct {
	*BaseRepository[models.Ticket, models.TicketFilter]
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &TicketRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Ticket, models.TicketFilter](db),
	}
}

// ByFilter retrieves tickets based on filter criteria
func (r *TicketRepositoryImpl) ByFilter(ctx context.Context, filter models.TicketFilter, orderBy string, limit, offset int) ([]*models.Ticket, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Ticket{})

	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.NotStatus != nil {
		query = query.Where("status <> ?", *filter.NotStatus)
	}

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Ticket
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCompany returns all tickets raised by a company, newest first
func (r *TicketRepositoryImpl) ListByCompany(ctx context.Context, companyID uint) ([]*models.Ticket, error) {
	return r.ByFilter(ctx, models.TicketFilter{CompanyID: &companyID}, "", 0, 0)
}

// CountOpen counts tickets currently in OPEN state across all companies
func (r *TicketRepositoryImpl) CountOpen(ctx context.Context) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Ticket{}).
		Where("status = ?", models.TicketStatusOpen).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count open tickets: %w", err)
	}

	return count, nil
}

// CountOpenByCompany counts a company's tickets that are not yet closed
func (r *TicketRepositoryImpl) CountOpenByCompany(ctx context.Context, companyID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Ticket{}).
		Where("company_id = ? AND status <> ?", companyID, models.TicketStatusClosed).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count open tickets by company: %w", err)
	}

	return count, nil
}

// UpdateStatus moves a ticket through its lifecycle
func (r *TicketRepositoryImpl) UpdateStatus(ctx context.Context, ticketID uint, status models.TicketStatus) error {
	return r.updateColumns(ctx, "id = ?", []any{ticketID}, map[string]any{
		"status":     status,
		"updated_at": utils.UTCNow(),
	})
}
