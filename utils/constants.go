package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (15 minutes)
	AccessTokenTTL = 15 * time.Minute

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (900 seconds = 15 minutes)
	AccessTokenTTLSeconds = 900

	// RefreshTokenTTL is the time-to-live for refresh tokens (30 days)
	RefreshTokenTTL = 30 * 24 * time.Hour

	// SessionCookieMaxAge is the max-age applied to both auth cookies (30 days, in seconds).
	// The access token JWT inside expires much earlier; the client refreshes it silently.
	SessionCookieMaxAge = 30 * 24 * 60 * 60

	// ResetOTPExpiry is the time-to-live for password reset codes (10 minutes)
	ResetOTPExpiry = 10 * time.Minute
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Billing constants
const (
	NairaCurrency = "NGN"

	// BundleDiscountRate is the discount applied when two or more plans are selected together (7.5%)
	BundleDiscountRate = 0.075

	// BcryptCost is the cost used for password and reset code hashes
	BcryptCost = 10
)

// Billing cycles accepted by pricing and reconciliation
const (
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleYearly    = "yearly"
)

// CtxKey is the type for request-scoped context values
type CtxKey string

// Request-scoped context keys
const (
	CtxRequestID CtxKey = "request_id"
	CtxUserAgent CtxKey = "user_agent"
	CtxIPAddress CtxKey = "ip_address"
	CtxEndpoint  CtxKey = "endpoint"
)
