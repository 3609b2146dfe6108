// Package pricing implements the deterministic quote calculator behind both
// the public price configurator and the binding onboarding flow. Compute is a
// pure function of the configuration and the active rule tables; it performs
// no I/O and is safe to call concurrently.
package pricing

import "fmt"

// Configuration is the user's selection driving a price computation.
type Configuration struct {
	ServiceType ServiceType      `json:"serviceType"`
	Duration    Duration         `json:"duration"`
	Complexity  Complexity       `json:"complexity"`
	Extras      map[ExtraID]bool `json:"extras"`
}

// Validate checks that every enum value in the configuration is known.
func (c *Configuration) Validate() error {
	if !c.ServiceType.IsValid() {
		return fmt.Errorf("unknown service type %q", c.ServiceType)
	}
	if !c.Duration.IsValid() {
		return fmt.Errorf("unknown duration %q", c.Duration)
	}
	if !c.Complexity.IsValid() {
		return fmt.Errorf("unknown complexity %q", c.Complexity)
	}
	for id := range c.Extras {
		if !id.IsValid() {
			return fmt.Errorf("unknown extra %q", id)
		}
	}
	return nil
}

// BreakdownLine is one priced component of a quote.
type BreakdownLine struct {
	Item  string `json:"item"`
	Price int    `json:"price"`
}

// PriceRange is the tolerance band communicated by the public configurator.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Result is the full output of a price computation. It is never persisted on
// its own; it is always recomputed from a Configuration and the rule tables.
type Result struct {
	Breakdown         []BreakdownLine `json:"breakdown"`
	TotalPrice        int             `json:"totalPrice"`
	PriceRange        PriceRange      `json:"priceRange"`
	DepositPercentage int             `json:"depositPercentage"`
	DepositAmount     int             `json:"depositAmount"`
	RemainingAmount   int             `json:"remainingAmount"`
	EstimatedDays     int             `json:"estimatedDays"`
}

// Compute maps a configuration to a price breakdown, range, deposit split and
// delivery estimate. It is total over the enum domain: callers must have
// validated the rule tables (RuleTables.Validate) at load time, after which
// no reachable configuration produces an error.
func Compute(cfg Configuration, rules RuleTables) Result {
	service := rules.Services[cfg.ServiceType]
	duration := rules.Durations[cfg.Duration]
	complexity := rules.Complexities[cfg.Complexity]

	breakdown := []BreakdownLine{
		{Item: "Basispreis " + service.Label, Price: service.BasePrice},
		{Item: "Videolänge: " + duration.Label, Price: duration.Delta},
		{Item: "Umfang: " + complexity.Label, Price: complexity.Delta},
	}

	// Extras appear in canonical order regardless of toggle order so the
	// breakdown is reproducible.
	for _, id := range CanonicalExtraOrder {
		if cfg.Extras[id] {
			extra := rules.Extras[id]
			breakdown = append(breakdown, BreakdownLine{Item: extra.Label, Price: extra.Price})
		}
	}

	total := 0
	for _, line := range breakdown {
		total += line.Price
	}

	depositPct := resolveDepositPercentage(total, rules.Deposit)
	depositAmount := roundDiv(total*depositPct, 100)

	return Result{
		Breakdown:         breakdown,
		TotalPrice:        total,
		PriceRange:        computeRange(total, rules.RangePercent),
		DepositPercentage: depositPct,
		DepositAmount:     depositAmount,
		// Subtraction rather than independent rounding, so the split always
		// sums back to the total.
		RemainingAmount: total - depositAmount,
		EstimatedDays:   estimateDays(cfg, rules),
	}
}

// resolveDepositPercentage finds the smallest tier whose ceiling covers the
// total (boundary inclusive: a total equal to upToAmount belongs to that
// tier). Totals above every ceiling use the final tier. The result is clamped
// to the configured bounds.
func resolveDepositPercentage(total int, rules DepositRules) int {
	pct := rules.Tiers[len(rules.Tiers)-1].DepositPercentage
	for _, tier := range rules.Tiers {
		if total <= tier.UpToAmount {
			pct = tier.DepositPercentage
			break
		}
	}
	if pct < rules.MinPercentage {
		pct = rules.MinPercentage
	}
	if pct > rules.MaxPercentage {
		pct = rules.MaxPercentage
	}
	return pct
}

func computeRange(total, percent int) PriceRange {
	delta := roundDiv(total*percent, 100)
	return PriceRange{Min: total - delta, Max: total + delta}
}

func estimateDays(cfg Configuration, rules RuleTables) int {
	days := rules.DeliveryDays[cfg.Complexity][cfg.Duration]
	if cfg.Extras[ExtraExpressDelivery] {
		days -= rules.ExpressReductionDays
	}
	if days < rules.MinDeliveryDays {
		days = rules.MinDeliveryDays
	}
	return days
}

// roundDiv divides a by b rounding half away from zero. Inputs here are
// always non-negative (prices and percentages).
func roundDiv(a, b int) int {
	return (a + b/2) / b
}
