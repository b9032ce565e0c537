// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreateTicketRequest opens a support ticket for the user's company
type CreateTicketRequest struct {
	Subject string `json:"subject" validate:"required,min=3,max=255" example:"Site restore request"`
	Body    string `json:"body" validate:"required,min=3" example:"Our landing page is returning 500s since last night."`
}

// UpdateTicketStatusRequest moves a ticket through its lifecycle
type UpdateTicketStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS CLOSED" example:"IN_PROGRESS"`
}

// TicketInfo represents a ticket in API responses
type TicketInfo struct {
	ID        uint   `json:"id" example:"11"`
	CompanyID uint   `json:"company_id" example:"7"`
	Subject   string `json:"subject" example:"Site restore request"`
	Body      string `json:"body"`
	Status    string `json:"status" example:"OPEN"`
	CreatedAt string `json:"created_at" example:"2026-08-31T12:00:00Z"`
}
