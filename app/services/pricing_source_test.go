package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
	"github.com/nuvylux/subscription-backend/utils"
)

// stubPlanRepo serves a fixed set of active plans for catalog pricing tests
type stubPlanRepo struct {
	repository.PlanRepository
	plans map[uint]*models.Plan
}

func (s *stubPlanRepo) ActiveByIDs(_ context.Context, ids []uint) ([]*models.Plan, error) {
	var out []*models.Plan
	for _, id := range ids {
		if p, ok := s.plans[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestStaticPricingSinglePlan(t *testing.T) {
	src := NewStaticPricingSource()

	quote, err := src.Quote(context.Background(), []string{"STARTER"}, utils.CycleMonthly)
	require.NoError(t, err)

	assert.Equal(t, int64(55000), quote.Subtotal)
	assert.Equal(t, int64(0), quote.DiscountAmount)
	assert.Equal(t, float64(0), quote.DiscountRate)
	assert.Equal(t, int64(55000), quote.Total)
	assert.Len(t, quote.Items, 1)
	assert.Equal(t, utils.CycleMonthly, quote.Cycle)
}

func TestStaticPricingBundleDiscount(t *testing.T) {
	src := NewStaticPricingSource()

	// GROWTH (95000) + STARTER (55000) + nothing else: 150000 subtotal
	quote, err := src.Quote(context.Background(), []string{"GROWTH", "STARTER"}, utils.CycleMonthly)
	require.NoError(t, err)

	assert.Equal(t, int64(150000), quote.Subtotal)
	assert.Equal(t, utils.BundleDiscountRate, quote.DiscountRate)
	assert.Equal(t, int64(11250), quote.DiscountAmount)
	assert.Equal(t, int64(138750), quote.Total)
}

func TestStaticPricingInvalidRefs(t *testing.T) {
	src := NewStaticPricingSource()

	_, err := src.Quote(context.Background(), []string{"STARTER", "DELUXE", "MEGA"}, utils.CycleMonthly)
	require.Error(t, err)

	var invalid *ErrInvalidPlanRefs
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"DELUXE", "MEGA"}, invalid.Refs)
}

func TestStaticPricingEmptySelection(t *testing.T) {
	src := NewStaticPricingSource()

	_, err := src.Quote(context.Background(), nil, utils.CycleMonthly)
	var invalid *ErrInvalidPlanRefs
	require.ErrorAs(t, err, &invalid)
}

func newCatalogSource() PricingSource {
	setupFee := int64(20000)
	repo := &stubPlanRepo{plans: map[uint]*models.Plan{
		1: {ID: 1, Name: "Starter", Price: 50000, IsActive: utils.ToPtr(true)},
		2: {ID: 2, Name: "Growth", Price: 90000, IsActive: utils.ToPtr(true)},
		3: {ID: 3, Name: "Business", Price: 160000, SetupFee: &setupFee, IsActive: utils.ToPtr(true)},
	}}
	return NewCatalogPricingSource(repo)
}

func TestCatalogPricingCycleTerms(t *testing.T) {
	src := newCatalogSource()

	// Longer cycles multiply the monthly price and earn a larger discount.
	cases := []struct {
		cycle    string
		subtotal int64
		rate     float64
		discount int64
		total    int64
	}{
		{utils.CycleMonthly, 50000, 0, 0, 50000},
		{utils.CycleQuarterly, 150000, 0.05, 7500, 142500},
		{utils.CycleYearly, 600000, 0.10, 60000, 540000},
	}

	for _, tc := range cases {
		quote, err := src.Quote(context.Background(), []string{"1"}, tc.cycle)
		require.NoError(t, err, tc.cycle)
		assert.Equal(t, tc.subtotal, quote.Subtotal, tc.cycle)
		assert.Equal(t, tc.rate, quote.DiscountRate, tc.cycle)
		assert.Equal(t, tc.discount, quote.DiscountAmount, tc.cycle)
		assert.Equal(t, tc.total, quote.Total, tc.cycle)
	}
}

func TestCatalogPricingMonthlyBundleUndiscounted(t *testing.T) {
	src := newCatalogSource()

	// The discount follows the cycle, not the bundle size.
	quote, err := src.Quote(context.Background(), []string{"1", "2"}, utils.CycleMonthly)
	require.NoError(t, err)
	assert.Equal(t, int64(140000), quote.Subtotal)
	assert.Equal(t, float64(0), quote.DiscountRate)
	assert.Equal(t, int64(0), quote.DiscountAmount)
	assert.Equal(t, int64(140000), quote.Total)
}

func TestCatalogPricingSetupFeesOutsideDiscount(t *testing.T) {
	src := newCatalogSource()

	quote, err := src.Quote(context.Background(), []string{"2", "3"}, utils.CycleYearly)
	require.NoError(t, err)

	// (90000 + 160000) * 12 = 3000000 subtotal, 10% yearly discount,
	// 20000 setup fee charged once
	assert.Equal(t, int64(3000000), quote.Subtotal)
	assert.Equal(t, int64(300000), quote.DiscountAmount)
	assert.Equal(t, int64(20000), quote.SetupFees)
	assert.Equal(t, int64(2720000), quote.Total)
}

func TestCatalogPricingInvalidRefsCollected(t *testing.T) {
	src := newCatalogSource()

	_, err := src.Quote(context.Background(), []string{"1", "99", "abc"}, utils.CycleMonthly)
	require.Error(t, err)

	var invalid *ErrInvalidPlanRefs
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"99", "abc"}, invalid.Refs)
}

func TestCatalogPricingInvalidCycle(t *testing.T) {
	src := newCatalogSource()

	_, err := src.Quote(context.Background(), []string{"1"}, "weekly")
	var invalidCycle *ErrInvalidCycle
	require.ErrorAs(t, err, &invalidCycle)
	assert.Equal(t, "weekly", invalidCycle.Cycle)
}

func TestNewPricingSourceModeSelection(t *testing.T) {
	src, err := NewPricingSource(PricingModeStatic, nil)
	require.NoError(t, err)
	assert.IsType(t, &StaticPricingSource{}, src)

	src, err = NewPricingSource(PricingModeCatalog, &stubPlanRepo{})
	require.NoError(t, err)
	assert.IsType(t, &CatalogPricingSource{}, src)

	_, err = NewPricingSource(PricingModeCatalog, nil)
	assert.Error(t, err)

	_, err = NewPricingSource("auction", nil)
	assert.Error(t, err)
}
