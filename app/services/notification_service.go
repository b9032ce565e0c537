// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// NotificationService handles transactional email delivery
type NotificationService interface {
	SendEmail(ctx context.Context, email, name, subject, htmlBody string) error
	// SendEmailAsync delivers in the background. Failures are logged, never
	// surfaced; account flows must not block on email.
	SendEmailAsync(email, name, subject, htmlBody string)
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(ctx context.Context, email, name, subject, htmlBody string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	emailProvider EmailProvider
	senderEmail   string
	senderName    string
	sendTimeout   time.Duration
}

// NewNotificationService creates a new notification service
func NewNotificationService(emailProvider EmailProvider, senderEmail, senderName string) NotificationService {
	return &NotificationServiceImpl{
		emailProvider: emailProvider,
		senderEmail:   senderEmail,
		senderName:    senderName,
		sendTimeout:   15 * time.Second,
	}
}

// SendEmail sends an email to the specified address
func (s *NotificationServiceImpl) SendEmail(ctx context.Context, email, name, subject, htmlBody string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	return s.emailProvider.SendEmail(ctx, email, name, subject, htmlBody)
}

// SendEmailAsync sends an email on a background goroutine
func (s *NotificationServiceImpl) SendEmailAsync(email, name, subject, htmlBody string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
		defer cancel()

		if err := s.SendEmail(ctx, email, name, subject, htmlBody); err != nil {
			log.Printf("Failed to send email to %s [%s]: %v", email, subject, err)
		}
	}()
}

// MockEmailProvider logs instead of delivering; used in development and tests
type MockEmailProvider struct{}

func NewMockEmailProvider() EmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(_ context.Context, email, _, subject, _ string) error {
	log.Printf("Email sent to %s [%s]", email, subject)
	return nil
}

// MailjetEmailProvider delivers through the Mailjet v3.1 send API
type MailjetEmailProvider struct {
	BaseURL     string
	PublicKey   string
	PrivateKey  string
	SenderEmail string
	SenderName  string
	HTTPClient  *http.Client
}

func NewMailjetEmailProvider(baseURL, publicKey, privateKey, senderEmail, senderName string) EmailProvider {
	if baseURL == "" {
		baseURL = "https://api.mailjet.com"
	}
	return &MailjetEmailProvider{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		PublicKey:   publicKey,
		PrivateKey:  privateKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type mailjetRecipient struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetMessage struct {
	From     mailjetRecipient   `json:"From"`
	To       []mailjetRecipient `json:"To"`
	Subject  string             `json:"Subject"`
	HTMLPart string             `json:"HTMLPart"`
}

type mailjetSendReq struct {
	Messages []mailjetMessage `json:"Messages"`
}

func (p *MailjetEmailProvider) SendEmail(ctx context.Context, email, name, subject, htmlBody string) error {
	payload := mailjetSendReq{
		Messages: []mailjetMessage{
			{
				From:     mailjetRecipient{Email: p.SenderEmail, Name: p.SenderName},
				To:       []mailjetRecipient{{Email: email, Name: name}},
				Subject:  subject,
				HTMLPart: htmlBody,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v3.1/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.SetBasicAuth(p.PublicKey, p.PrivateKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	return nil
}

// WelcomeEmailBody renders the onboarding welcome email
func WelcomeEmailBody(firstName string) string {
	return fmt.Sprintf(
		`<h2>Welcome, %s!</h2><p>Your account is ready. Finish onboarding to pick the plans that fit your business.</p>`,
		firstName,
	)
}

// PasswordResetEmailBody renders the reset-code email
func PasswordResetEmailBody(firstName, otp string) string {
	return fmt.Sprintf(
		`<h2>Hi %s,</h2><p>Your password reset code is <strong>%s</strong>. It expires in 10 minutes. If you did not request this, you can ignore this email.</p>`,
		firstName, otp,
	)
}
