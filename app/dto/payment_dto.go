// Package dto contains Data Transfer Objects for API request and response structures
package dto

// VerifyPaymentRequest reconciles a gateway charge against a subscription
type VerifyPaymentRequest struct {
	Reference      string   `json:"reference" validate:"required,max=255" example:"T685312322670283"`
	SelectedPlans  []string `json:"selected_plans" validate:"required,min=1,dive,required"`
	Amount         int64    `json:"amount" validate:"required,gt=0" example:"138750"`
	IsBundle       bool     `json:"is_bundle" example:"true"`
	Cycle          string   `json:"cycle" validate:"omitempty,oneof=monthly quarterly yearly" example:"monthly"`
	DiscountAmount *int64   `json:"discount_amount,omitempty" validate:"omitempty,gte=0"`
}

// VerifyPaymentResult is the reconciliation outcome
type VerifyPaymentResult struct {
	Message          string `json:"message" example:"Payment verified and subscription activated"`
	AlreadyProcessed bool   `json:"already_processed" example:"false"`
	NextBilling      string `json:"next_billing,omitempty" example:"2026-09-30T00:00:00Z"`
}

// TransactionInfo represents a ledger row in API responses
type TransactionInfo struct {
	ID          uint   `json:"id" example:"42"`
	CompanyID   uint   `json:"company_id" example:"7"`
	CompanyName string `json:"company_name,omitempty" example:"Acme Consulting"`
	Amount      int64  `json:"amount" example:"138750"`
	Description string `json:"description" example:"Bundle: STARTER + GROWTH"`
	Status      string `json:"status" example:"Paid"`
	Type        string `json:"type" example:"subscription"`
	GatewayRef  string `json:"gateway_ref" example:"T685312322670283"`
	Date        string `json:"date" example:"2026-08-31T12:00:00Z"`
}
