package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
)

type stubCompanyRepo struct {
	repository.CompanyRepository
	due     []*models.Company
	updated map[uint]models.SubscriptionStatus
}

func (s *stubCompanyRepo) ListDueForBilling(_ context.Context, _ time.Time) ([]*models.Company, error) {
	return s.due, nil
}

func (s *stubCompanyRepo) UpdateStatus(_ context.Context, companyID uint, status models.SubscriptionStatus) error {
	if s.updated == nil {
		s.updated = map[uint]models.SubscriptionStatus{}
	}
	s.updated[companyID] = status
	return nil
}

type recordingSender struct {
	mu     sync.Mutex
	emails []string
}

func (r *recordingSender) SendEmailAsync(email, _, _, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, email)
}

func TestBillingSweepMarksPastDueAndNotifies(t *testing.T) {
	repo := &stubCompanyRepo{due: []*models.Company{
		{
			ID:   1,
			Name: "Acme Consulting",
			Users: []models.User{
				{Email: "owner@acme.test", FirstName: "Jane"},
				{Email: "billing@acme.test", FirstName: "Sam"},
			},
		},
		{ID: 2, Name: "Globex"},
	}}
	sender := &recordingSender{}

	s := NewBillingScheduler(repo, sender, nil, time.Hour)
	s.runOnce(context.Background())

	assert.Equal(t, models.SubscriptionStatusPastDue, repo.updated[1])
	assert.Equal(t, models.SubscriptionStatusPastDue, repo.updated[2])

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.ElementsMatch(t, []string{"owner@acme.test", "billing@acme.test"}, sender.emails)
}

func TestBillingSweepNoDueCompanies(t *testing.T) {
	repo := &stubCompanyRepo{}
	sender := &recordingSender{}

	s := NewBillingScheduler(repo, sender, nil, 0)
	s.runOnce(context.Background())

	assert.Empty(t, repo.updated)
	assert.Empty(t, sender.emails)
}
