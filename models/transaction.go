package models

import (
	"time"
)

// TransactionType mirrors SubscriptionType at the ledger level
type TransactionType string

const (
	TransactionTypeSubscription TransactionType = "subscription"
	TransactionTypeOneTime      TransactionType = "one_time"
)

// TransactionStatus represents the settled state of a recorded payment
type TransactionStatus string

const (
	TransactionStatusPaid     TransactionStatus = "Paid"
	TransactionStatusRefunded TransactionStatus = "Refunded"
)

// Transaction is an immutable record of a settled gateway charge.
// Exactly one row exists per gateway reference; reconciliation replays
// are answered from this table without inserting again.
type Transaction struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyID uint    `gorm:"not null;index:idx_transactions_company_id" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID;references:ID" json:"-"`

	Amount      int64             `gorm:"not null" json:"amount"` // Whole Naira
	Description string            `gorm:"type:text" json:"description"`
	Status      TransactionStatus `gorm:"type:varchar(16);not null;default:'Paid'" json:"status"`
	Type        TransactionType   `gorm:"type:varchar(16);not null" json:"type"`

	// Gateway transaction reference. The unique index is the idempotency
	// guard for payment reconciliation.
	GatewayRef string `gorm:"size:255;not null;uniqueIndex:uk_transactions_gateway_ref" json:"gateway_ref"`

	Date      time.Time `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_transactions_date" json:"date"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionFilter represents filter criteria for transaction queries
type TransactionFilter struct {
	ID         *uint
	CompanyID  *uint
	GatewayRef *string
	Status     *TransactionStatus
	Type       *TransactionType
	DateAfter  *time.Time
	DateBefore *time.Time
}
