// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/utils"
	"gorm.io/gorm"
)

// PlanRepositoryImpl implements PlanRepository interface
type PlanRepositoryImpl struct {
	*BaseRepository[models.Plan, models.PlanFilter]
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &PlanRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Plan, models.PlanFilter](db),
	}
}

// ByFilter retrieves plans based on filter criteria
func (r *PlanRepositoryImpl) ByFilter(ctx context.Context, filter models.PlanFilter, orderBy string, limit, offset int) ([]*models.Plan, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Plan{})

	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.TrackID != nil {
		query = query.Where("track_id = ?", *filter.TrackID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if orderBy == "" {
		orderBy = "display_order ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Plan
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ByIDs retrieves plans matching any of the given IDs, active or not
func (r *PlanRepositoryImpl) ByIDs(ctx context.Context, ids []uint) ([]*models.Plan, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var rows []*models.Plan
	err := db.Where("id IN ?", ids).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find plans by ids: %w", err)
	}

	return rows, nil
}

// ActiveByIDs retrieves only active plans matching the given IDs
func (r *PlanRepositoryImpl) ActiveByIDs(ctx context.Context, ids []uint) ([]*models.Plan, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var rows []*models.Plan
	err := db.Where("id IN ? AND is_active = ?", ids, true).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active plans by ids: %w", err)
	}

	return rows, nil
}

// CountByTrack counts all plans in a track, including inactive ones
func (r *PlanRepositoryImpl) CountByTrack(ctx context.Context, trackID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Plan{}).Where("track_id = ?", trackID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count plans by track: %w", err)
	}

	return count, nil
}

// Deactivate soft-deletes a plan so existing selections keep resolving
func (r *PlanRepositoryImpl) Deactivate(ctx context.Context, planID uint) (*models.Plan, error) {
	err := r.updateColumns(ctx, "id = ?", []any{planID}, map[string]any{
		"is_active":  false,
		"updated_at": utils.UTCNow(),
	})
	if err != nil {
		return nil, err
	}

	db := r.getDB(ctx)
	var plan models.Plan
	if err := db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to reload deactivated plan: %w", err)
	}

	return &plan, nil
}
