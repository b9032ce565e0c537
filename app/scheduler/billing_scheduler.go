// Package scheduler runs recurring background jobs against the subscription base
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
	"github.com/nuvylux/subscription-backend/utils"
)

// EmailSender is the minimal notification surface the scheduler needs.
// Keeping it narrow makes the scheduler easy to test.
type EmailSender interface {
	SendEmailAsync(email, name, subject, htmlBody string)
}

// BillingScheduler periodically sweeps active subscriptions whose billing
// date has passed and marks them past due. Affected companies keep their
// data; only the status changes until a new payment is reconciled.
type BillingScheduler struct {
	companyRepo repository.CompanyRepository
	notifier    EmailSender
	logger      *log.Logger
	interval    time.Duration
}

// NewBillingScheduler creates the billing sweep worker
func NewBillingScheduler(
	companyRepo repository.CompanyRepository,
	notifier EmailSender,
	logger *log.Logger,
	interval time.Duration,
) *BillingScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}

	return &BillingScheduler{
		companyRepo: companyRepo,
		notifier:    notifier,
		logger:      logger,
		interval:    interval,
	}
}

// Start launches the sweep loop. The returned cancel function stops it.
func (s *BillingScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *BillingScheduler) runOnce(ctx context.Context) {
	due, err := s.companyRepo.ListDueForBilling(ctx, utils.UTCNow())
	if err != nil {
		s.logger.Printf("billing: list due companies failed: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}
	s.logger.Printf("billing: %d subscriptions past their billing date", len(due))

	for _, company := range due {
		if err := s.companyRepo.UpdateStatus(ctx, company.ID, models.SubscriptionStatusPastDue); err != nil {
			s.logger.Printf("billing: mark past due failed for company id=%d: %v", company.ID, err)
			continue
		}
		s.logger.Printf("billing: company id=%d marked past due", company.ID)

		s.notifyCompany(company)
	}
}

// notifyCompany emails every user on the company. Delivery is best effort.
func (s *BillingScheduler) notifyCompany(company *models.Company) {
	if s.notifier == nil {
		return
	}
	for _, user := range company.Users {
		s.notifier.SendEmailAsync(
			user.Email,
			user.FirstName,
			"Payment due for "+company.Name,
			paymentDueEmailBody(user.FirstName, company.Name),
		)
	}
}

func paymentDueEmailBody(firstName, companyName string) string {
	return `<h2>Hi ` + firstName + `,</h2><p>The subscription for <strong>` + companyName +
		`</strong> has reached its billing date. Please renew to keep your services active.</p>`
}
