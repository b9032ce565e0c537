// Package testing provides test utilities and database setup for testing the subscription backend
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates a test user with a bcrypt-hashed default password
func (tf *TestFixtures) CreateTestUser(role models.UserRole) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123"), utils.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	user := &models.User{
		UUID:                uuid.New(),
		FirstName:           "Jane",
		LastName:            "Doe",
		Email:               fmt.Sprintf("jane.doe.%s@example.com", randomDigits),
		Username:            fmt.Sprintf("jane-doe-%s", randomDigits),
		PasswordHash:        string(hashedPassword),
		Role:                role,
		OnboardingCompleted: utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestCompany creates a company with committed billing state
func (tf *TestFixtures) CreateTestCompany(plans []string, amount int64) (*models.Company, error) {
	randomDigits := fmt.Sprintf("%06d", rand.Intn(900000)+100000)
	name := fmt.Sprintf("Acme Consulting %s", randomDigits)

	company := &models.Company{
		Name:            name,
		Slug:            utils.Slugify(name),
		DisplayCode:     fmt.Sprintf("AC-%s", randomDigits[:4]),
		SelectedPlans:   pq.StringArray(plans),
		Amount:          amount,
		Status:          models.SubscriptionStatusPending,
		PaymentVerified: utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(company).Error; err != nil {
		return nil, fmt.Errorf("failed to create test company: %w", err)
	}

	return company, nil
}

// LinkUserToCompany attaches a user to a company
func (tf *TestFixtures) LinkUserToCompany(user *models.User, company *models.Company) error {
	user.CompanyID = &company.ID
	return tf.DB.DB.Model(user).Update("company_id", company.ID).Error
}

// CreateTestTrack creates a track for catalog fixtures
func (tf *TestFixtures) CreateTestTrack(label string, order int) (*models.Track, error) {
	track := &models.Track{
		Label:    label,
		Color:    "#0E7C66",
		Title:    label + " Solutions",
		Subtitle: "Everything your team needs",
		Order:    order,
	}

	if err := tf.DB.DB.Create(track).Error; err != nil {
		return nil, fmt.Errorf("failed to create test track: %w", err)
	}

	return track, nil
}

// CreateTestPlan creates an active plan under a track
func (tf *TestFixtures) CreateTestPlan(trackID uint, name string, price int64) (*models.Plan, error) {
	plan := &models.Plan{
		TrackID:  trackID,
		Name:     name,
		Price:    price,
		ForLabel: "For growing teams",
		Features: pq.StringArray{"Feature one", "Feature two"},
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create test plan: %w", err)
	}

	return plan, nil
}

// CreateTestTransaction records a settled charge against a company
func (tf *TestFixtures) CreateTestTransaction(companyID uint, reference string, amount int64) (*models.Transaction, error) {
	txn := &models.Transaction{
		CompanyID:   companyID,
		Amount:      amount,
		Description: "Subscription payment",
		Status:      models.TransactionStatusPaid,
		Type:        models.TransactionTypeSubscription,
		GatewayRef:  reference,
		Date:        time.Now().UTC(),
	}

	if err := tf.DB.DB.Create(txn).Error; err != nil {
		return nil, fmt.Errorf("failed to create test transaction: %w", err)
	}

	return txn, nil
}

// CreateTestTicket opens a support ticket for a company
func (tf *TestFixtures) CreateTestTicket(companyID uint, subject string) (*models.Ticket, error) {
	ticket := &models.Ticket{
		CompanyID: companyID,
		Subject:   subject,
		Body:      "Something went wrong with our dashboard.",
		Status:    models.TicketStatusOpen,
	}

	if err := tf.DB.DB.Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create test ticket: %w", err)
	}

	return ticket, nil
}
