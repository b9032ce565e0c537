// Package dto contains Data Transfer Objects for API request and response structures
package dto

// UpdateProfileRequest represents the onboarding profile step
type UpdateProfileRequest struct {
	FirstName   string  `json:"first_name" validate:"required,min=2,max=100,alpha_space" example:"Jane"`
	LastName    string  `json:"last_name" validate:"required,min=2,max=100,alpha_space" example:"Doe"`
	Email       string  `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Image       *string `json:"image,omitempty" validate:"omitempty,max=512"`
	DOB         *string `json:"dob,omitempty" validate:"omitempty,max=32"`
	Gender      *string `json:"gender,omitempty" validate:"omitempty,max=16"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=255"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State       *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Country     *string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// UpsertCompanyRequest represents the onboarding company step.
// Submitting again updates the existing company instead of creating another.
type UpsertCompanyRequest struct {
	CompanyName  string  `json:"company_name" validate:"required,min=2,max=255" example:"Acme Consulting"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url,max=512"`
	Industry     string  `json:"industry" validate:"required,max=100" example:"Retail"`
	CompanySize  string  `json:"company_size" validate:"required,max=50" example:"10-50"`
	Address      string  `json:"address" validate:"required,max=255"`
	City         string  `json:"city" validate:"required,max=100"`
	State        *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Country      string  `json:"country" validate:"required,max=100" example:"Nigeria"`
	CompanyPhone *string `json:"company_phone,omitempty" validate:"omitempty,max=20"`
	RCNumber     *string `json:"rc_number,omitempty" validate:"omitempty,max=50"`
	LogoURL      *string `json:"logo_url,omitempty" validate:"omitempty,max=512"`
}

// CompanyInfo represents a company in API responses
type CompanyInfo struct {
	ID              uint     `json:"id" example:"7"`
	Name            string   `json:"name" example:"Acme Consulting"`
	Slug            string   `json:"slug" example:"acme-consulting"`
	DisplayCode     string   `json:"display_code" example:"AC-7K2P"`
	WebsiteURL      *string  `json:"website_url,omitempty"`
	Industry        *string  `json:"industry,omitempty"`
	CompanySize     *string  `json:"company_size,omitempty"`
	Address         *string  `json:"address,omitempty"`
	City            *string  `json:"city,omitempty"`
	State           *string  `json:"state,omitempty"`
	Country         *string  `json:"country,omitempty"`
	CompanyPhone    *string  `json:"company_phone,omitempty"`
	RCNumber        *string  `json:"rc_number,omitempty"`
	LogoURL         *string  `json:"logo_url,omitempty"`
	SelectedPlans   []string `json:"selected_plans"`
	Amount          int64    `json:"amount" example:"142500"`
	BundleDiscount  int64    `json:"bundle_discount" example:"7500"`
	Status          string   `json:"status" example:"PENDING"`
	PaymentVerified bool     `json:"payment_verified" example:"false"`
	NextBilling     *string  `json:"next_billing,omitempty"`
}

// SelectPlansRequest represents the onboarding plan selection step
type SelectPlansRequest struct {
	SelectedPlans []string `json:"selected_plans" validate:"required,min=1,dive,required" example:"STARTER,GROWTH"`
	Cycle         string   `json:"cycle" validate:"omitempty,oneof=monthly quarterly yearly" example:"monthly"`
}

// SelectPlansResult echoes the committed pricing back to the client
type SelectPlansResult struct {
	SelectedPlans   []string `json:"selected_plans"`
	Cycle           string   `json:"cycle" example:"monthly"`
	Subtotal        int64    `json:"subtotal" example:"150000"`
	SetupFees       int64    `json:"setup_fees" example:"0"`
	DiscountAmount  int64    `json:"discount_amount" example:"11250"`
	FinalAmount     int64    `json:"final_amount" example:"138750"`
	DiscountApplied bool     `json:"discount_applied" example:"true"`
}
