// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrPaymentNotSuccessful is returned when the gateway reports the charge
// as anything other than settled. The wrapped message comes from the gateway.
var ErrPaymentNotSuccessful = errors.New("payment was not successful")

// GatewayTransaction is the verified state of a charge at the gateway
type GatewayTransaction struct {
	Reference        string
	Status           string
	Amount           int64 // Gateway reports kobo; callers decide the unit
	CustomerCode     *string
	SubscriptionCode *string
}

// PaymentGateway verifies charges against the payment provider
type PaymentGateway interface {
	VerifyTransaction(ctx context.Context, reference string) (*GatewayTransaction, error)
}

// PaystackClient talks to the Paystack REST API
type PaystackClient struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

// NewPaystackClient creates a Paystack API client
func NewPaystackClient(baseURL, secretKey string, timeout time.Duration) *PaystackClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PaystackClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		SecretKey:  secretKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type paystackVerifyResp struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Customer struct {
			CustomerCode string `json:"customer_code"`
		} `json:"customer"`
		Subscription struct {
			SubscriptionCode string `json:"subscription_code"`
		} `json:"subscription"`
	} `json:"data"`
}

// VerifyTransaction confirms a charge by reference. Any outcome other than
// a settled charge comes back as ErrPaymentNotSuccessful with the gateway's
// own message attached.
func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*GatewayTransaction, error) {
	endpoint := c.BaseURL + "/transaction/verify/" + url.PathEscape(reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	var out paystackVerifyResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := out.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", ErrPaymentNotSuccessful, msg)
	}

	if !out.Status || out.Data.Status != "success" {
		msg := out.Message
		if msg == "" {
			msg = "transaction not settled"
		}
		return nil, fmt.Errorf("%w: %s", ErrPaymentNotSuccessful, msg)
	}

	txn := &GatewayTransaction{
		Reference: reference,
		Status:    out.Data.Status,
		Amount:    out.Data.Amount,
	}
	if out.Data.Customer.CustomerCode != "" {
		code := out.Data.Customer.CustomerCode
		txn.CustomerCode = &code
	}
	if out.Data.Subscription.SubscriptionCode != "" {
		code := out.Data.Subscription.SubscriptionCode
		txn.SubscriptionCode = &code
	}

	return txn, nil
}
