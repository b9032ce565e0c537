// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ChangePasswordRequest updates the account password from the settings page
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=8,max=100"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100,password_strength"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// MeResponse is the authenticated user's profile plus their company
type MeResponse struct {
	User    UserInfo     `json:"user"`
	Company *CompanyInfo `json:"company,omitempty"`
}

// DashboardCompany is the billing summary card on the client dashboard
type DashboardCompany struct {
	ID               uint       `json:"id" example:"7"`
	Name             string     `json:"name" example:"Acme Consulting"`
	LogoURL          *string    `json:"logo_url,omitempty"`
	Plans            []PlanInfo `json:"plans"`
	Amount           int64      `json:"amount" example:"138750"`
	BundleDiscount   int64      `json:"bundle_discount" example:"11250"`
	Status           string     `json:"status" example:"ACTIVE"`
	NextBilling      *string    `json:"next_billing,omitempty"`
	PaymentVerified  bool       `json:"payment_verified" example:"true"`
	SubscriptionType *string    `json:"subscription_type,omitempty" example:"subscription"`
}

// DashboardResponse is everything the client dashboard renders
type DashboardResponse struct {
	Company          *DashboardCompany `json:"company,omitempty"`
	Transactions     []TransactionInfo `json:"transactions"`
	OpenTicketsCount int64             `json:"open_tickets_count" example:"1"`
}
