// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreateTrackRequest creates or updates a product track
type CreateTrackRequest struct {
	Label    string `json:"label" validate:"required,max=255" example:"TRACK 1 — WEB & DIGITAL CARE PLANS"`
	Color    string `json:"color" validate:"omitempty,max=255"`
	Title    string `json:"title" validate:"required,max=255" example:"Website Management & Security"`
	Subtitle string `json:"subtitle" validate:"omitempty"`
	Order    *int   `json:"order,omitempty" validate:"omitempty,gte=0"`
}

// UpdateTrackRequest carries partial track changes
type UpdateTrackRequest struct {
	Label    *string `json:"label,omitempty" validate:"omitempty,max=255"`
	Color    *string `json:"color,omitempty" validate:"omitempty,max=255"`
	Title    *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Subtitle *string `json:"subtitle,omitempty"`
	Order    *int    `json:"order,omitempty" validate:"omitempty,gte=0"`
}

// CreatePlanRequest creates a plan inside a track
type CreatePlanRequest struct {
	Name            string   `json:"name" validate:"required,max=100" example:"STARTER"`
	Price           int64    `json:"price" validate:"required,gt=0" example:"55000"`
	SetupFee        *int64   `json:"setup_fee,omitempty" validate:"omitempty,gte=0"`
	ForLabel        string   `json:"for_label" validate:"required,max=255"`
	Features        []string `json:"features" validate:"required,min=1,dive,required"`
	Highlight       *bool    `json:"highlight,omitempty"`
	ResponseTime    *string  `json:"response_time,omitempty" validate:"omitempty,max=100"`
	GatewayPlanCode *string  `json:"gateway_plan_code,omitempty" validate:"omitempty,max=100"`
	Order           *int     `json:"order,omitempty" validate:"omitempty,gte=0"`
}

// UpdatePlanRequest carries partial plan changes
type UpdatePlanRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	Price           *int64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	SetupFee        *int64   `json:"setup_fee,omitempty" validate:"omitempty,gte=0"`
	ForLabel        *string  `json:"for_label,omitempty" validate:"omitempty,max=255"`
	Features        []string `json:"features,omitempty" validate:"omitempty,min=1,dive,required"`
	Highlight       *bool    `json:"highlight,omitempty"`
	ResponseTime    *string  `json:"response_time,omitempty" validate:"omitempty,max=100"`
	GatewayPlanCode *string  `json:"gateway_plan_code,omitempty" validate:"omitempty,max=100"`
	Order           *int     `json:"order,omitempty" validate:"omitempty,gte=0"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

// PlanInfo represents a plan in the public catalog response
type PlanInfo struct {
	ID           uint     `json:"id" example:"1"`
	TrackID      uint     `json:"track_id" example:"1"`
	Name         string   `json:"name" example:"STARTER"`
	Price        int64    `json:"price" example:"55000"`
	SetupFee     *int64   `json:"setup_fee,omitempty"`
	ForLabel     string   `json:"for_label"`
	Features     []string `json:"features"`
	Highlight    bool     `json:"highlight" example:"false"`
	ResponseTime *string  `json:"response_time,omitempty"`
	Order        int      `json:"order" example:"1"`
	IsActive     bool     `json:"is_active" example:"true"`
}

// TrackInfo represents a track with its active plans
type TrackInfo struct {
	ID       uint       `json:"id" example:"1"`
	Label    string     `json:"label"`
	Color    string     `json:"color"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Order    int        `json:"order" example:"1"`
	Plans    []PlanInfo `json:"plans"`
}
