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

// UserRepositoryImpl implements UserRepository interface
type UserRepositoryImpl struct {
	*BaseRepository[models.User, models.UserFilter]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User, models.UserFilter](db),
	}
}

// ByEmail retrieves a user by email address
func (r *UserRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.User, error) {
	db := r.getDB(ctx)

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

// ByUsername retrieves a user by username
func (r *UserRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.User, error) {
	db := r.getDB(ctx)

	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	return &user, nil
}

// ByIDWithCompany retrieves a user together with their linked company
func (r *UserRepositoryImpl) ByIDWithCompany(ctx context.Context, id uint) (*models.User, error) {
	db := r.getDB(ctx)

	var user models.User
	err := db.Preload("Company").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user with company: %w", err)
	}

	return &user, nil
}

// ByFilter retrieves users based on filter criteria
func (r *UserRepositoryImpl) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.User{})

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

	var rows []*models.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UserRepositoryImpl) applyFilter(query *gorm.DB, filter models.UserFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.Username != nil {
		query = query.Where("username = ?", *filter.Username)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.OnboardingCompleted != nil {
		query = query.Where("onboarding_completed = ?", *filter.OnboardingCompleted)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// UpdatePassword updates the password hash for a user
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return r.updateColumns(ctx, "id = ?", []any{userID}, map[string]any{
		"password_hash": passwordHash,
		"updated_at":    utils.UTCNow(),
	})
}

// UpdateRefreshToken replaces the stored refresh token. Passing nil clears
// the session (logout and reuse detection).
func (r *UserRepositoryImpl) UpdateRefreshToken(ctx context.Context, userID uint, refreshToken *string) error {
	return r.updateColumns(ctx, "id = ?", []any{userID}, map[string]any{
		"refresh_token": refreshToken,
		"updated_at":    utils.UTCNow(),
	})
}

// RotateRefreshToken swaps the stored refresh token for the next one, but
// only while the stored value still equals the presented token. A false
// return means another rotation already won and the presented token is
// stale.
func (r *UserRepositoryImpl) RotateRefreshToken(ctx context.Context, userID uint, presented, next string) (rotated bool, err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return false, err
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

	res := db.Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", userID, presented).
		Updates(map[string]any{
			"refresh_token": next,
			"updated_at":    utils.UTCNow(),
		})
	if res.Error != nil {
		err = fmt.Errorf("failed to rotate refresh token: %w", res.Error)
		return false, err
	}

	return res.RowsAffected == 1, nil
}

// UpdateResetOTP sets or clears the password reset code hash and its expiry
func (r *UserRepositoryImpl) UpdateResetOTP(ctx context.Context, userID uint, otpHash *string, expiry *time.Time) error {
	return r.updateColumns(ctx, "id = ?", []any{userID}, map[string]any{
		"reset_otp_hash":   otpHash,
		"reset_otp_expiry": expiry,
		"updated_at":       utils.UTCNow(),
	})
}

// LinkCompany attaches the user to a company
func (r *UserRepositoryImpl) LinkCompany(ctx context.Context, userID, companyID uint) error {
	return r.updateColumns(ctx, "id = ?", []any{userID}, map[string]any{
		"company_id": companyID,
		"updated_at": utils.UTCNow(),
	})
}

// MarkOnboardingCompleted flips the onboarding flag after a verified payment
func (r *UserRepositoryImpl) MarkOnboardingCompleted(ctx context.Context, userID uint) error {
	return r.updateColumns(ctx, "id = ?", []any{userID}, map[string]any{
		"onboarding_completed": true,
		"updated_at":           utils.UTCNow(),
	})
}
