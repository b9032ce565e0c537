// Package models contains domain entities and business models for the subscription platform
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole distinguishes paying clients from back-office staff
type UserRole string

const (
	UserRoleClient UserRole = "CLIENT"
	UserRoleAdmin  UserRole = "ADMIN"
)

type User struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Email     string `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	Username  string `gorm:"size:255;not null;uniqueIndex:uk_users_username" json:"username"`

	// Empty for accounts created through social sign-in
	PasswordHash string `gorm:"size:255" json:"-"`

	PhoneNumber *string `gorm:"size:20" json:"phone_number,omitempty"`
	Image       *string `gorm:"size:512" json:"image,omitempty"`
	DOB         *string `gorm:"size:32" json:"dob,omitempty"`
	Gender      *string `gorm:"size:16" json:"gender,omitempty"`
	Address     *string `gorm:"size:255" json:"address,omitempty"`
	City        *string `gorm:"size:100" json:"city,omitempty"`
	State       *string `gorm:"size:100" json:"state,omitempty"`
	Country     *string `gorm:"size:100" json:"country,omitempty"`

	Role                UserRole `gorm:"type:varchar(16);not null;default:'CLIENT';index:idx_users_role" json:"role"`
	OnboardingCompleted *bool    `gorm:"default:false" json:"onboarding_completed"`

	CompanyID *uint    `gorm:"index:idx_users_company_id" json:"company_id,omitempty"`
	Company   *Company `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`

	// Single active session per user. Rotated on every refresh,
	// cleared on logout and on detected reuse.
	RefreshToken *string `gorm:"size:1024;uniqueIndex:uk_users_refresh_token" json:"-"`

	// Password reset code (bcrypt hash) and its expiry
	ResetOTPHash   *string    `gorm:"size:255" json:"-"`
	ResetOTPExpiry *time.Time `json:"-"`

	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// HasPassword reports whether this account can authenticate with a password
// (false for social sign-in accounts).
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID                  *uint
	UUID                *uuid.UUID
	Email               *string
	Username            *string
	Role                *UserRole
	CompanyID           *uint
	OnboardingCompleted *bool
	CreatedAfter        *time.Time
	CreatedBefore       *time.Time
}
