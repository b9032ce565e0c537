// Package businessflow contains the core business logic and use cases for back-office administration
package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
	"github.com/xuri/excelize/v2"
)

const recentTransactionsLimit = 5

// AdminFlow serves the back-office: subscriber listing, revenue stats,
// subscription status management, and spreadsheet export
type AdminFlow interface {
	ListSubscribers(ctx context.Context, search string) ([]dto.SubscriberInfo, error)
	Stats(ctx context.Context) (*dto.AdminStats, error)
	UpdateSubscriptionStatus(ctx context.Context, companyID uint, req *dto.UpdateSubscriptionStatusRequest) error
	ExportSubscribers(ctx context.Context, search string) ([]byte, error)
}

// AdminFlowImpl implements the back-office flow
type AdminFlowImpl struct {
	companyRepo     repository.CompanyRepository
	transactionRepo repository.TransactionRepository
	ticketRepo      repository.TicketRepository
}

// NewAdminFlow creates a new back-office flow instance
func NewAdminFlow(
	companyRepo repository.CompanyRepository,
	transactionRepo repository.TransactionRepository,
	ticketRepo repository.TicketRepository,
) AdminFlow {
	return &AdminFlowImpl{
		companyRepo:     companyRepo,
		transactionRepo: transactionRepo,
		ticketRepo:      ticketRepo,
	}
}

// ListSubscribers returns every company, optionally filtered by name or
// by a plan reference the company selected
func (f *AdminFlowImpl) ListSubscribers(ctx context.Context, search string) ([]dto.SubscriberInfo, error) {
	companies, err := f.companyRepo.ListSubscribers(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to list subscribers", err)
	}

	subscribers := make([]dto.SubscriberInfo, 0, len(companies))
	for _, company := range companies {
		subscribers = append(subscribers, toSubscriberInfo(company))
	}
	return subscribers, nil
}

// Stats aggregates total revenue, active subscribers, open tickets, and
// the most recent ledger rows
func (f *AdminFlowImpl) Stats(ctx context.Context) (*dto.AdminStats, error) {
	revenue, err := f.transactionRepo.SumAmounts(ctx)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to load stats", err)
	}

	activeSubscribers, err := f.companyRepo.CountActiveSubscribers(ctx)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to load stats", err)
	}

	openTickets, err := f.ticketRepo.CountOpen(ctx)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to load stats", err)
	}

	recent, err := f.transactionRepo.ListRecentWithCompany(ctx, recentTransactionsLimit)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to load stats", err)
	}

	recentInfos := make([]dto.TransactionInfo, 0, len(recent))
	for _, txn := range recent {
		recentInfos = append(recentInfos, ToTransactionInfo(*txn))
	}

	return &dto.AdminStats{
		TotalRevenue:       revenue,
		ActiveSubscribers:  activeSubscribers,
		OpenTickets:        openTickets,
		RecentTransactions: recentInfos,
	}, nil
}

// UpdateSubscriptionStatus moves a company between billing states
func (f *AdminFlowImpl) UpdateSubscriptionStatus(ctx context.Context, companyID uint, req *dto.UpdateSubscriptionStatusRequest) error {
	status := models.SubscriptionStatus(req.Status)
	switch status {
	case models.SubscriptionStatusActive, models.SubscriptionStatusPastDue, models.SubscriptionStatusCancelled:
	default:
		return NewBusinessError(CodeValidationError, "Invalid subscription status", ErrInvalidStatus)
	}

	company, err := f.companyRepo.ByID(ctx, companyID)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Failed to update subscription status", err)
	}
	if company == nil {
		return NewBusinessError(CodeNotFound, "Company not found", ErrCompanyNotFound)
	}

	if err := f.companyRepo.UpdateStatus(ctx, companyID, status); err != nil {
		return NewBusinessError(CodeInternalError, "Failed to update subscription status", err)
	}
	return nil
}

// ExportSubscribers renders the subscriber listing as an XLSX workbook
func (f *AdminFlowImpl) ExportSubscribers(ctx context.Context, search string) ([]byte, error) {
	companies, err := f.companyRepo.ListSubscribers(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to export subscribers", err)
	}

	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	const sheet = "Subscribers"
	wb.SetSheetName(wb.GetSheetName(0), sheet)

	header := []any{"ID", "Company", "Code", "Contact", "Email", "Plans", "Amount", "Discount", "Status", "Verified", "Next Billing", "Created"}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to export subscribers", err)
	}

	for i, company := range companies {
		info := toSubscriberInfo(company)

		contactName, contactEmail := "", ""
		if info.Contact != nil {
			contactName = info.Contact.FirstName + " " + info.Contact.LastName
			contactEmail = info.Contact.Email
		}
		nextBilling := ""
		if info.NextBilling != nil {
			nextBilling = *info.NextBilling
		}

		row := []any{
			info.ID,
			info.Name,
			info.DisplayCode,
			contactName,
			contactEmail,
			strings.Join(info.SelectedPlans, ", "),
			info.Amount,
			info.BundleDiscount,
			info.Status,
			info.PaymentVerified,
			nextBilling,
			info.CreatedAt,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, NewBusinessError(CodeInternalError, "Failed to export subscribers", err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to export subscribers", err)
	}
	return buf.Bytes(), nil
}

func toSubscriberInfo(company *models.Company) dto.SubscriberInfo {
	info := dto.SubscriberInfo{
		ID:              company.ID,
		Name:            company.Name,
		DisplayCode:     company.DisplayCode,
		SelectedPlans:   append([]string{}, company.SelectedPlans...),
		Amount:          company.Amount,
		BundleDiscount:  company.BundleDiscount,
		Status:          string(company.Status),
		PaymentVerified: company.PaymentVerified != nil && *company.PaymentVerified,
		CreatedAt:       company.CreatedAt.Format(time.RFC3339),
	}
	if company.NextBilling != nil {
		nb := company.NextBilling.Format(time.RFC3339)
		info.NextBilling = &nb
	}
	if len(company.Users) > 0 {
		contact := company.Users[0]
		info.Contact = &dto.SubscriberContact{
			ID:        contact.ID,
			FirstName: contact.FirstName,
			LastName:  contact.LastName,
			Email:     contact.Email,
		}
	}
	if len(company.Transactions) > 0 {
		last := ToTransactionInfo(company.Transactions[0])
		last.CompanyName = company.Name
		info.LastTransaction = &last
	}
	return info
}
