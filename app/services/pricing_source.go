// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
	"github.com/nuvylux/subscription-backend/utils"
)

// Pricing mode names accepted by config
const (
	PricingModeStatic  = "static"
	PricingModeCatalog = "catalog"
)

// ErrInvalidPlanRefs carries the full list of rejected plan references so
// callers can report all of them in one response.
type ErrInvalidPlanRefs struct {
	Refs []string
}

func (e *ErrInvalidPlanRefs) Error() string {
	return fmt.Sprintf("invalid plan reference(s): %s", strings.Join(e.Refs, ", "))
}

// ErrInvalidCycle is returned for billing cycles outside monthly/quarterly/yearly
type ErrInvalidCycle struct {
	Cycle string
}

func (e *ErrInvalidCycle) Error() string {
	return fmt.Sprintf("invalid billing cycle: %s", e.Cycle)
}

// QuoteItem is a single priced plan inside a quote
type QuoteItem struct {
	Ref      string `json:"ref"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`     // Per selected cycle, whole Naira
	SetupFee int64  `json:"setup_fee"` // Charged once, not multiplied by cycle
}

// PriceQuote is the committed output of a pricing source
type PriceQuote struct {
	Items          []QuoteItem `json:"items"`
	Cycle          string      `json:"cycle"`
	Subtotal       int64       `json:"subtotal"`
	SetupFees      int64       `json:"setup_fees"`
	DiscountRate   float64     `json:"discount_rate"`
	DiscountAmount int64       `json:"discount_amount"`
	Total          int64       `json:"total"`
}

// PricingSource prices a set of plan references for a billing cycle.
// Validation is all-or-nothing: either every reference resolves and a quote
// is returned, or no quote is produced and the error names every bad ref.
type PricingSource interface {
	Quote(ctx context.Context, planRefs []string, cycle string) (*PriceQuote, error)
}

// staticPlanPrices is the fixed monthly price table used when no catalog
// database is configured. Keys are plan display names.
var staticPlanPrices = map[string]int64{
	"STARTER":              55000,
	"GROWTH":               95000,
	"BUSINESS":             175000,
	"ESSENTIALS":           70000,
	"PROFESSIONAL":         120000,
	"ENTERPRISE":           230000,
	"Insight Starter":      80000,
	"Insight Professional": 150000,
	"Insight Enterprise":   280000,
}

// StaticPricingSource prices from the fixed table. Billing is monthly only;
// the cycle argument is ignored. Two or more plans earn the bundle discount.
type StaticPricingSource struct{}

// NewStaticPricingSource creates the table-backed pricing source
func NewStaticPricingSource() PricingSource {
	return &StaticPricingSource{}
}

func (s *StaticPricingSource) Quote(_ context.Context, planRefs []string, _ string) (*PriceQuote, error) {
	if len(planRefs) == 0 {
		return nil, &ErrInvalidPlanRefs{Refs: []string{"(none)"}}
	}

	var invalid []string
	for _, ref := range planRefs {
		if _, ok := staticPlanPrices[ref]; !ok {
			invalid = append(invalid, ref)
		}
	}
	if len(invalid) > 0 {
		return nil, &ErrInvalidPlanRefs{Refs: invalid}
	}

	quote := &PriceQuote{Cycle: utils.CycleMonthly}
	for _, ref := range planRefs {
		price := staticPlanPrices[ref]
		quote.Items = append(quote.Items, QuoteItem{Ref: ref, Name: ref, Price: price})
		quote.Subtotal += price
	}

	if len(planRefs) >= 2 {
		quote.DiscountRate = utils.BundleDiscountRate
		quote.DiscountAmount = int64(math.Round(float64(quote.Subtotal) * utils.BundleDiscountRate))
	}
	quote.Total = quote.Subtotal - quote.DiscountAmount

	return quote, nil
}

// CatalogPricingSource prices against the plans table. Only active plans
// are sellable; cycle scales the monthly price and longer commitments earn
// a larger discount.
type CatalogPricingSource struct {
	planRepo repository.PlanRepository
}

// NewCatalogPricingSource creates the database-backed pricing source
func NewCatalogPricingSource(planRepo repository.PlanRepository) PricingSource {
	return &CatalogPricingSource{planRepo: planRepo}
}

// cycleTerms returns the price multiplier and discount rate for a billing
// cycle. Longer cycles prepay more months and earn a larger discount.
func cycleTerms(cycle string) (multiplier int64, discountRate float64, ok bool) {
	switch cycle {
	case utils.CycleMonthly:
		return 1, 0, true
	case utils.CycleQuarterly:
		return 3, 0.05, true
	case utils.CycleYearly:
		return 12, 0.10, true
	default:
		return 0, 0, false
	}
}

func (s *CatalogPricingSource) Quote(ctx context.Context, planRefs []string, cycle string) (*PriceQuote, error) {
	if len(planRefs) == 0 {
		return nil, &ErrInvalidPlanRefs{Refs: []string{"(none)"}}
	}

	multiplier, discountRate, ok := cycleTerms(cycle)
	if !ok {
		return nil, &ErrInvalidCycle{Cycle: cycle}
	}

	// Collect every unresolvable reference before failing, so the caller
	// sees the complete list in one pass.
	var invalid []string
	ids := make([]uint, 0, len(planRefs))
	refByID := make(map[uint]string, len(planRefs))
	for _, ref := range planRefs {
		id, err := strconv.ParseUint(ref, 10, 32)
		if err != nil {
			invalid = append(invalid, ref)
			continue
		}
		ids = append(ids, uint(id))
		refByID[uint(id)] = ref
	}

	plans, err := s.planRepo.ActiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans for quote: %w", err)
	}

	found := make(map[uint]*models.Plan, len(plans))
	for _, p := range plans {
		found[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			invalid = append(invalid, refByID[id])
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, &ErrInvalidPlanRefs{Refs: invalid}
	}

	quote := &PriceQuote{Cycle: cycle}
	for _, id := range ids {
		plan := found[id]
		item := QuoteItem{
			Ref:   refByID[id],
			Name:  plan.Name,
			Price: plan.Price * multiplier,
		}
		if plan.SetupFee != nil {
			item.SetupFee = *plan.SetupFee
		}
		quote.Items = append(quote.Items, item)
		quote.Subtotal += item.Price
		quote.SetupFees += item.SetupFee
	}

	quote.DiscountRate = discountRate
	quote.DiscountAmount = int64(math.Round(float64(quote.Subtotal) * discountRate))

	// Setup fees are one-time charges and sit outside the bundle discount
	quote.Total = quote.Subtotal - quote.DiscountAmount + quote.SetupFees

	return quote, nil
}

// NewPricingSource selects the pricing strategy for the configured mode
func NewPricingSource(mode string, planRepo repository.PlanRepository) (PricingSource, error) {
	switch mode {
	case PricingModeStatic, "":
		return NewStaticPricingSource(), nil
	case PricingModeCatalog:
		if planRepo == nil {
			return nil, fmt.Errorf("catalog pricing requires a plan repository")
		}
		return NewCatalogPricingSource(planRepo), nil
	default:
		return nil, fmt.Errorf("unknown pricing mode: %s", mode)
	}
}
