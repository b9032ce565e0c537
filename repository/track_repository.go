// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/nuvylux/subscription-backend/models"
	"gorm.io/gorm"
)

// TrackRepositoryImpl implements TrackRepository interface
type TrackRepositoryImpl struct {
	*BaseRepository[models.Track, models.TrackFilter]
}

// NewTrackRepository creates a new track repository
func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &TrackRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Track, models.TrackFilter](db),
	}
}

// ByFilter retrieves tracks based on filter criteria
func (r *TrackRepositoryImpl) ByFilter(ctx context.Context, filter models.TrackFilter, orderBy string, limit, offset int) ([]*models.Track, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Track{})

	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
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

	var rows []*models.Track
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOrderedWithActivePlans returns the public catalog: tracks in display
// order, each carrying only its active plans, also in display order.
func (r *TrackRepositoryImpl) ListOrderedWithActivePlans(ctx context.Context) ([]*models.Track, error) {
	db := r.getDB(ctx)

	var rows []*models.Track
	err := db.
		Preload("Plans", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("display_order ASC")
		}).
		Order("display_order ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks with plans: %w", err)
	}

	return rows, nil
}

// Delete removes a track. Callers must ensure no plans remain in it.
func (r *TrackRepositoryImpl) Delete(ctx context.Context, trackID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Delete(&models.Track{}, trackID).Error
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	return nil
}
