package pricing_test

import (
	"testing"

	"github.com/napoleonmm83/emmotion-api/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allExtraSubsets enumerates the powerset of extras as toggle maps.
func allExtraSubsets() []map[pricing.ExtraID]bool {
	extras := pricing.CanonicalExtraOrder
	n := 1 << len(extras)
	subsets := make([]map[pricing.ExtraID]bool, 0, n)
	for mask := 0; mask < n; mask++ {
		subset := make(map[pricing.ExtraID]bool)
		for i, id := range extras {
			if mask&(1<<i) != 0 {
				subset[id] = true
			}
		}
		subsets = append(subsets, subset)
	}
	return subsets
}

func TestDefaultRuleTablesAreValid(t *testing.T) {
	rules := pricing.DefaultRuleTables()
	require.NoError(t, rules.Validate())
}

func TestComputeTotality(t *testing.T) {
	rules := pricing.DefaultRuleTables()

	for _, st := range pricing.AllServiceTypes {
		for _, d := range pricing.AllDurations {
			for _, c := range pricing.AllComplexities {
				for _, extras := range allExtraSubsets() {
					cfg := pricing.Configuration{
						ServiceType: st,
						Duration:    d,
						Complexity:  c,
						Extras:      extras,
					}
					result := pricing.Compute(cfg, rules)

					assert.Greater(t, result.TotalPrice, 0,
						"total must be positive for %s/%s/%s", st, d, c)
					assert.NotEmpty(t, result.Breakdown)

					// Breakdown-sum consistency.
					sum := 0
					for _, line := range result.Breakdown {
						sum += line.Price
					}
					assert.Equal(t, result.TotalPrice, sum)

					// Deposit invariant: split sums back exactly.
					assert.Equal(t, result.TotalPrice, result.DepositAmount+result.RemainingAmount)

					// Deposit bounds invariant.
					assert.GreaterOrEqual(t, result.DepositPercentage, rules.Deposit.MinPercentage)
					assert.LessOrEqual(t, result.DepositPercentage, rules.Deposit.MaxPercentage)

					assert.GreaterOrEqual(t, result.EstimatedDays, rules.MinDeliveryDays)
				}
			}
		}
	}
}

func TestComputeComplexityMonotonicity(t *testing.T) {
	rules := pricing.DefaultRuleTables()

	for _, st := range pricing.AllServiceTypes {
		for _, d := range pricing.AllDurations {
			prev := -1 << 30
			for _, c := range pricing.AllComplexities {
				result := pricing.Compute(pricing.Configuration{
					ServiceType: st,
					Duration:    d,
					Complexity:  c,
				}, rules)
				assert.GreaterOrEqual(t, result.TotalPrice, prev,
					"raising complexity to %s must not lower the price", c)
				prev = result.TotalPrice
			}
		}
	}
}

func TestComputeExtraMonotonicity(t *testing.T) {
	rules := pricing.DefaultRuleTables()
	base := pricing.Configuration{
		ServiceType: pricing.ServiceEventvideo,
		Duration:    pricing.DurationShort,
		Complexity:  pricing.ComplexitySimple,
	}
	without := pricing.Compute(base, rules)

	for _, id := range pricing.CanonicalExtraOrder {
		cfg := base
		cfg.Extras = map[pricing.ExtraID]bool{id: true}
		with := pricing.Compute(cfg, rules)
		assert.GreaterOrEqual(t, with.TotalPrice, without.TotalPrice,
			"enabling %s must not lower the price", id)
	}
}

func TestComputeIdempotence(t *testing.T) {
	rules := pricing.DefaultRuleTables()
	cfg := pricing.Configuration{
		ServiceType: pricing.ServiceProductVideo,
		Duration:    pricing.DurationLong,
		Complexity:  pricing.ComplexityPremium,
		Extras: map[pricing.ExtraID]bool{
			pricing.ExtraSubtitles:       true,
			pricing.ExtraExpressDelivery: true,
		},
	}

	first := pricing.Compute(cfg, rules)
	second := pricing.Compute(cfg, rules)
	assert.Equal(t, first, second)
}

func TestComputeCanonicalExtraOrder(t *testing.T) {
	rules := pricing.DefaultRuleTables()
	cfg := pricing.Configuration{
		ServiceType: pricing.ServiceImagefilm,
		Duration:    pricing.DurationMedium,
		Complexity:  pricing.ComplexityStandard,
		Extras: map[pricing.ExtraID]bool{
			pricing.ExtraExpressDelivery: true,
			pricing.ExtraDroneFootage:    true,
			pricing.ExtraPremiumMusic:    true,
		},
	}

	result := pricing.Compute(cfg, rules)
	require.Len(t, result.Breakdown, 6)

	// Extras follow canonical order, not toggle order.
	assert.Equal(t, rules.Extras[pricing.ExtraDroneFootage].Label, result.Breakdown[3].Item)
	assert.Equal(t, rules.Extras[pricing.ExtraPremiumMusic].Label, result.Breakdown[4].Item)
	assert.Equal(t, rules.Extras[pricing.ExtraExpressDelivery].Label, result.Breakdown[5].Item)
}

func TestComputeImagefilmBaseline(t *testing.T) {
	rules := pricing.DefaultRuleTables()
	result := pricing.Compute(pricing.Configuration{
		ServiceType: pricing.ServiceImagefilm,
		Duration:    pricing.DurationMedium,
		Complexity:  pricing.ComplexityStandard,
	}, rules)

	assert.Equal(t, 2400, result.TotalPrice)
	assert.Len(t, result.Breakdown, 3)
	assert.Equal(t, 30, result.DepositPercentage)
	assert.Equal(t, 720, result.DepositAmount)
	assert.Equal(t, 1680, result.RemainingAmount)
	assert.Equal(t, 21, result.EstimatedDays)
}

func TestComputeImagefilmWithDroneAndExpress(t *testing.T) {
	rules := pricing.DefaultRuleTables()
	result := pricing.Compute(pricing.Configuration{
		ServiceType: pricing.ServiceImagefilm,
		Duration:    pricing.DurationMedium,
		Complexity:  pricing.ComplexityStandard,
		Extras: map[pricing.ExtraID]bool{
			pricing.ExtraDroneFootage:    true,
			pricing.ExtraExpressDelivery: true,
		},
	}, rules)

	assert.Equal(t, 3100, result.TotalPrice)
	// Express reduces the standard/medium baseline of 21 days by 7.
	assert.Equal(t, 14, result.EstimatedDays)
}

func TestComputeExpressDeliveryFloor(t *testing.T) {
	rules := pricing.DefaultRuleTables()
	result := pricing.Compute(pricing.Configuration{
		ServiceType: pricing.ServiceSocialMedia,
		Duration:    pricing.DurationShort,
		Complexity:  pricing.ComplexitySimple,
		Extras:      map[pricing.ExtraID]bool{pricing.ExtraExpressDelivery: true},
	}, rules)

	// Baseline 10 days minus 7 would undercut the floor of 5.
	assert.Equal(t, 5, result.EstimatedDays)
}

func TestDepositTierBoundaryIsInclusive(t *testing.T) {
	rules := pricing.DepositRules{
		Tiers: []pricing.DepositTier{
			{UpToAmount: 2000, DepositPercentage: 40},
			{UpToAmount: 5000, DepositPercentage: 30},
		},
		MinPercentage: 20,
		MaxPercentage: 50,
	}
	tables := pricing.DefaultRuleTables()
	tables.Deposit = rules

	// totalPrice == upToAmount lands in that tier, one above falls through.
	atBoundary := pricing.Compute(pricing.Configuration{
		ServiceType: pricing.ServiceEventvideo, // 1800
		Duration:    pricing.DurationMedium,    // +0
		Complexity:  pricing.ComplexityStandard,
	}, tables)
	assert.Equal(t, 1800, atBoundary.TotalPrice)
	assert.Equal(t, 40, atBoundary.DepositPercentage)

	tables.Deposit.Tiers[0].UpToAmount = 1800
	stillFirst := pricing.Compute(pricing.Configuration{
		ServiceType: pricing.ServiceEventvideo,
		Duration:    pricing.DurationMedium,
		Complexity:  pricing.ComplexityStandard,
	}, tables)
	assert.Equal(t, 40, stillFirst.DepositPercentage, "total equal to the ceiling belongs to the tier")

	tables.Deposit.Tiers[0].UpToAmount = 1799
	nextTier := pricing.Compute(pricing.Configuration{
		ServiceType: pricing.ServiceEventvideo,
		Duration:    pricing.DurationMedium,
		Complexity:  pricing.ComplexityStandard,
	}, tables)
	assert.Equal(t, 30, nextTier.DepositPercentage)
}

func TestDepositFallbackAboveAllTiersIsClamped(t *testing.T) {
	tables := pricing.DefaultRuleTables()
	tables.Deposit = pricing.DepositRules{
		Tiers:         []pricing.DepositTier{{UpToAmount: 1000, DepositPercentage: 10}},
		MinPercentage: 20,
		MaxPercentage: 50,
	}

	result := pricing.Compute(pricing.Configuration{
		ServiceType: pricing.ServiceImagefilm,
		Duration:    pricing.DurationLong,
		Complexity:  pricing.ComplexityPremium,
	}, tables)

	// Fallback tier says 10%, global minimum lifts it to 20%.
	assert.Equal(t, 20, result.DepositPercentage)
}

func TestPriceRangeBand(t *testing.T) {
	rules := pricing.DefaultRuleTables()
	result := pricing.Compute(pricing.Configuration{
		ServiceType: pricing.ServiceImagefilm,
		Duration:    pricing.DurationMedium,
		Complexity:  pricing.ComplexityStandard,
	}, rules)

	assert.Equal(t, 2040, result.PriceRange.Min)
	assert.Equal(t, 2760, result.PriceRange.Max)
}

func TestRuleTablesValidateRejectsBrokenTables(t *testing.T) {
	broken := pricing.DefaultRuleTables()
	delete(broken.Services, pricing.ServiceDrone)
	assert.Error(t, broken.Validate())

	broken = pricing.DefaultRuleTables()
	svc := broken.Services[pricing.ServiceImagefilm]
	svc.BasePrice = 0
	broken.Services[pricing.ServiceImagefilm] = svc
	assert.Error(t, broken.Validate())

	broken = pricing.DefaultRuleTables()
	broken.Deposit.Tiers = nil
	assert.Error(t, broken.Validate())

	broken = pricing.DefaultRuleTables()
	broken.Deposit.Tiers = []pricing.DepositTier{
		{UpToAmount: 5000, DepositPercentage: 30},
		{UpToAmount: 2000, DepositPercentage: 40},
	}
	assert.Error(t, broken.Validate(), "tiers out of order must be rejected")
}

func TestConfigurationValidate(t *testing.T) {
	cfg := pricing.Configuration{
		ServiceType: pricing.ServiceImagefilm,
		Duration:    pricing.DurationShort,
		Complexity:  pricing.ComplexitySimple,
	}
	assert.NoError(t, cfg.Validate())

	cfg.ServiceType = "wedding"
	assert.Error(t, cfg.Validate())

	cfg.ServiceType = pricing.ServiceImagefilm
	cfg.Extras = map[pricing.ExtraID]bool{"gold_plating": true}
	assert.Error(t, cfg.Validate())
}
