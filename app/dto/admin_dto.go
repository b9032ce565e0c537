// Package dto contains Data Transfer Objects for API request and response structures
package dto

// SubscriberContact is the first user attached to a subscriber company
type SubscriberContact struct {
	ID        uint   `json:"id" example:"123"`
	FirstName string `json:"first_name" example:"Jane"`
	LastName  string `json:"last_name" example:"Doe"`
	Email     string `json:"email" example:"jane@example.com"`
}

// SubscriberInfo is one row in the admin subscribers listing
type SubscriberInfo struct {
	ID              uint               `json:"id" example:"7"`
	Name            string             `json:"name" example:"Acme Consulting"`
	DisplayCode     string             `json:"display_code" example:"AC-7K2P"`
	SelectedPlans   []string           `json:"selected_plans"`
	Amount          int64              `json:"amount" example:"138750"`
	BundleDiscount  int64              `json:"bundle_discount" example:"11250"`
	Status          string             `json:"status" example:"ACTIVE"`
	PaymentVerified bool               `json:"payment_verified" example:"true"`
	NextBilling     *string            `json:"next_billing,omitempty"`
	CreatedAt       string             `json:"created_at" example:"2026-08-01T09:00:00Z"`
	Contact         *SubscriberContact `json:"contact,omitempty"`
	LastTransaction *TransactionInfo   `json:"last_transaction,omitempty"`
}

// AdminStats is the back-office dashboard summary
type AdminStats struct {
	TotalRevenue       int64             `json:"total_revenue" example:"1250000"`
	ActiveSubscribers  int64             `json:"active_subscribers" example:"34"`
	OpenTickets        int64             `json:"open_tickets" example:"3"`
	RecentTransactions []TransactionInfo `json:"recent_transactions"`
}

// UpdateSubscriptionStatusRequest moves a company between billing states
type UpdateSubscriptionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE PAST_DUE CANCELLED" example:"PAST_DUE"`
}
