package models

import (
	"time"

	"github.com/lib/pq"
)

// SubscriptionStatus tracks where a company sits in the billing lifecycle
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "PENDING"
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue   SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// SubscriptionType mirrors how the charge was collected at the gateway
type SubscriptionType string

const (
	SubscriptionTypeRecurring SubscriptionType = "subscription"
	SubscriptionTypeOneTime   SubscriptionType = "one_time"
)

type Company struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
	Slug string `gorm:"size:255;not null;uniqueIndex:uk_companies_slug" json:"slug"`

	// Human-facing display code, e.g. "ACM-7K2P" for "Acme Consulting"
	DisplayCode string `gorm:"size:16;not null" json:"display_code"`

	WebsiteURL   *string `gorm:"size:512" json:"website_url,omitempty"`
	Industry     *string `gorm:"size:100" json:"industry,omitempty"`
	CompanySize  *string `gorm:"size:50" json:"company_size,omitempty"`
	Address      *string `gorm:"size:255" json:"address,omitempty"`
	City         *string `gorm:"size:100" json:"city,omitempty"`
	State        *string `gorm:"size:100" json:"state,omitempty"`
	Country      *string `gorm:"size:100" json:"country,omitempty"`
	CompanyPhone *string `gorm:"size:20" json:"company_phone,omitempty"`
	RCNumber     *string `gorm:"size:50" json:"rc_number,omitempty"`
	LogoURL      *string `gorm:"size:512" json:"logo_url,omitempty"`

	// Billing state. SelectedPlans holds plan references (names in static
	// pricing mode, IDs in catalog mode); Amount and BundleDiscount are
	// whole Naira as committed by the pricing engine.
	SelectedPlans  pq.StringArray     `gorm:"type:text[]" json:"selected_plans"`
	Amount         int64              `gorm:"not null;default:0" json:"amount"`
	BundleDiscount int64              `gorm:"not null;default:0" json:"bundle_discount"`
	BillingCycle   string             `gorm:"size:16;not null;default:'monthly'" json:"billing_cycle"`
	Status         SubscriptionStatus `gorm:"type:varchar(16);not null;default:'PENDING';index:idx_companies_status" json:"status"`

	PaymentVerified  *bool             `gorm:"default:false" json:"payment_verified"`
	NextBilling      *time.Time        `json:"next_billing,omitempty"`
	SubscriptionType *SubscriptionType `gorm:"type:varchar(16)" json:"subscription_type,omitempty"`

	// Gateway-issued identifiers, captured during payment reconciliation
	GatewayCustomerCode     *string `gorm:"size:100" json:"-"`
	GatewaySubscriptionCode *string `gorm:"size:100" json:"-"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_companies_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Users        []User        `gorm:"foreignKey:CompanyID" json:"users,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CompanyID" json:"transactions,omitempty"`
	Tickets      []Ticket      `gorm:"foreignKey:CompanyID" json:"tickets,omitempty"`
}

func (Company) TableName() string {
	return "companies"
}

func (c *Company) IsActiveSubscriber() bool {
	return c.Status == SubscriptionStatusActive && c.PaymentVerified != nil && *c.PaymentVerified
}

// CompanyFilter represents filter criteria for company queries
type CompanyFilter struct {
	ID              *uint
	Slug            *string
	Status          *SubscriptionStatus
	PaymentVerified *bool
	NameContains    *string
	HasPlanRef      *string
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
}
