package models

import (
	"time"
)

// TicketStatus represents the lifecycle of a support ticket
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

type Ticket struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CompanyID uint    `gorm:"not null;index:idx_tickets_company_id" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID;references:ID" json:"-"`

	Subject string       `gorm:"size:255;not null" json:"subject"`
	Body    string       `gorm:"type:text" json:"body"`
	Status  TicketStatus `gorm:"type:varchar(16);not null;default:'OPEN';index:idx_tickets_status" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_tickets_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) IsOpen() bool {
	return t.Status != TicketStatusClosed
}

// TicketFilter represents filter criteria for ticket queries
type TicketFilter struct {
	ID        *uint
	CompanyID *uint
	Status    *TicketStatus
	NotStatus *TicketStatus
}
