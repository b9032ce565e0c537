package models

import (
	"time"

	"github.com/lib/pq"
)

type Plan struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	TrackID uint  `gorm:"not null;index:idx_plans_track_id" json:"track_id"`
	Track   Track `gorm:"foreignKey:TrackID;references:ID" json:"-"`

	Name string `gorm:"size:100;not null;index:idx_plans_name" json:"name"`

	// Monthly price in whole Naira. SetupFee, when present, is charged
	// once regardless of billing cycle.
	Price    int64  `gorm:"not null" json:"price"`
	SetupFee *int64 `json:"setup_fee,omitempty"`

	ForLabel     string         `gorm:"size:255" json:"for_label"`
	Features     pq.StringArray `gorm:"type:text[]" json:"features"`
	Highlight    *bool          `gorm:"default:false" json:"highlight"`
	ResponseTime *string        `gorm:"size:100" json:"response_time,omitempty"`

	// Gateway recurring-plan code, when the gateway bills this plan directly
	GatewayPlanCode *string `gorm:"size:100" json:"gateway_plan_code,omitempty"`

	Order    int   `gorm:"column:display_order;not null;default:0;index:idx_plans_order" json:"order"`
	IsActive *bool `gorm:"default:true;index:idx_plans_is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

// PlanFilter represents filter criteria for plan queries
type PlanFilter struct {
	ID       *uint
	TrackID  *uint
	Name     *string
	IsActive *bool
}
