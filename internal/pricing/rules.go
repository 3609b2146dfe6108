package pricing

import "fmt"

// ServiceType identifies a video production category.
type ServiceType string

const (
	ServiceImagefilm      ServiceType = "imagefilm"
	ServiceEventvideo     ServiceType = "eventvideo"
	ServiceSocialMedia    ServiceType = "social_media"
	ServiceDrone          ServiceType = "drone"
	ServiceProductVideo   ServiceType = "product_video"
	ServicePostProduction ServiceType = "post_production"
)

// AllServiceTypes lists every service category in display order.
var AllServiceTypes = []ServiceType{
	ServiceImagefilm,
	ServiceEventvideo,
	ServiceSocialMedia,
	ServiceDrone,
	ServiceProductVideo,
	ServicePostProduction,
}

// IsValid checks if the ServiceType is a valid enum value
func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceImagefilm, ServiceEventvideo, ServiceSocialMedia, ServiceDrone, ServiceProductVideo, ServicePostProduction:
		return true
	}
	return false
}

// Duration represents the target length bucket of the final video.
type Duration string

const (
	DurationShort  Duration = "short"
	DurationMedium Duration = "medium"
	DurationLong   Duration = "long"
)

// AllDurations lists duration buckets from shortest to longest.
var AllDurations = []Duration{DurationShort, DurationMedium, DurationLong}

// IsValid checks if the Duration is a valid enum value
func (d Duration) IsValid() bool {
	switch d {
	case DurationShort, DurationMedium, DurationLong:
		return true
	}
	return false
}

// Complexity represents the production scope tier.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityStandard Complexity = "standard"
	ComplexityPremium  Complexity = "premium"
)

// AllComplexities lists scope tiers from smallest to largest.
var AllComplexities = []Complexity{ComplexitySimple, ComplexityStandard, ComplexityPremium}

// IsValid checks if the Complexity is a valid enum value
func (c Complexity) IsValid() bool {
	switch c {
	case ComplexitySimple, ComplexityStandard, ComplexityPremium:
		return true
	}
	return false
}

// ExtraID identifies an independently toggleable add-on.
type ExtraID string

const (
	ExtraDroneFootage    ExtraID = "drone_footage"
	ExtraPremiumMusic    ExtraID = "premium_music"
	ExtraSubtitles       ExtraID = "subtitles"
	ExtraSocialMediaCuts ExtraID = "social_media_cuts"
	ExtraExpressDelivery ExtraID = "express_delivery"
)

// CanonicalExtraOrder fixes the order in which selected extras appear in a
// breakdown, independent of the order the user toggled them in.
var CanonicalExtraOrder = []ExtraID{
	ExtraDroneFootage,
	ExtraPremiumMusic,
	ExtraSubtitles,
	ExtraSocialMediaCuts,
	ExtraExpressDelivery,
}

// IsValid checks if the ExtraID is a valid enum value
func (e ExtraID) IsValid() bool {
	switch e {
	case ExtraDroneFootage, ExtraPremiumMusic, ExtraSubtitles, ExtraSocialMediaCuts, ExtraExpressDelivery:
		return true
	}
	return false
}

// ServiceRule holds the flat starting price and label for a service category.
type ServiceRule struct {
	Label     string `json:"label"`
	BasePrice int    `json:"basePrice"`
}

// DurationRule holds the additive price delta and label for a duration bucket.
// Additive deltas keep the breakdown readable (one line per component).
type DurationRule struct {
	Label string `json:"label"`
	Delta int    `json:"delta"`
}

// ComplexityRule holds the additive price delta and label for a scope tier.
type ComplexityRule struct {
	Label string `json:"label"`
	Delta int    `json:"delta"`
}

// ExtraRule holds the flat price and label for an add-on.
type ExtraRule struct {
	Label string `json:"label"`
	Price int    `json:"price"`
}

// DepositTier maps a total-price ceiling (inclusive) to a deposit percentage.
type DepositTier struct {
	UpToAmount        int `json:"upToAmount"`
	DepositPercentage int `json:"depositPercentage"`
}

// DepositRules is the ordered threshold table plus global percentage bounds.
// Tiers must be sorted by ascending UpToAmount; the last tier doubles as the
// fallback for totals above every ceiling.
type DepositRules struct {
	Tiers         []DepositTier `json:"tiers"`
	MinPercentage int           `json:"minPercentage"`
	MaxPercentage int           `json:"maxPercentage"`
}

// RuleTables is the full pricing configuration consumed by Compute. It is
// sourced from the content store per request (with built-in defaults as
// fallback) and treated as an immutable snapshot.
type RuleTables struct {
	Services     map[ServiceType]ServiceRule   `json:"services"`
	Durations    map[Duration]DurationRule     `json:"durations"`
	Complexities map[Complexity]ComplexityRule `json:"complexities"`
	Extras       map[ExtraID]ExtraRule         `json:"extras"`
	Deposit      DepositRules                  `json:"deposit"`

	// DeliveryDays is the baseline delivery estimate keyed by scope tier,
	// then duration bucket.
	DeliveryDays map[Complexity]map[Duration]int `json:"deliveryDays"`

	// ExpressReductionDays is subtracted from the baseline when the express
	// delivery extra is active, floored at MinDeliveryDays.
	ExpressReductionDays int `json:"expressReductionDays"`
	MinDeliveryDays      int `json:"minDeliveryDays"`

	// RangePercent is the symmetric tolerance band around the total price
	// communicated by the public configurator.
	RangePercent int `json:"rangePercent"`
}

// Validate checks that every reachable enum value has a rule entry and that
// the tables cannot produce a non-positive price. A failure here is a content
// configuration error, caught at snapshot load time, never at compute time.
func (rt *RuleTables) Validate() error {
	for _, st := range AllServiceTypes {
		rule, ok := rt.Services[st]
		if !ok {
			return fmt.Errorf("missing service rule for %q", st)
		}
		if rule.BasePrice <= 0 {
			return fmt.Errorf("service %q has non-positive base price %d", st, rule.BasePrice)
		}
	}
	for _, d := range AllDurations {
		if _, ok := rt.Durations[d]; !ok {
			return fmt.Errorf("missing duration rule for %q", d)
		}
	}
	for _, c := range AllComplexities {
		if _, ok := rt.Complexities[c]; !ok {
			return fmt.Errorf("missing complexity rule for %q", c)
		}
	}
	for _, e := range CanonicalExtraOrder {
		rule, ok := rt.Extras[e]
		if !ok {
			return fmt.Errorf("missing extra rule for %q", e)
		}
		if rule.Price < 0 {
			return fmt.Errorf("extra %q has negative price %d", e, rule.Price)
		}
	}
	for _, c := range AllComplexities {
		days, ok := rt.DeliveryDays[c]
		if !ok {
			return fmt.Errorf("missing delivery days for complexity %q", c)
		}
		for _, d := range AllDurations {
			if days[d] <= 0 {
				return fmt.Errorf("missing delivery days for complexity %q, duration %q", c, d)
			}
		}
	}

	if len(rt.Deposit.Tiers) == 0 {
		return fmt.Errorf("deposit table has no tiers")
	}
	prev := 0
	for i, tier := range rt.Deposit.Tiers {
		if tier.UpToAmount <= prev {
			return fmt.Errorf("deposit tiers not strictly ascending at index %d", i)
		}
		prev = tier.UpToAmount
	}
	if rt.Deposit.MinPercentage < 0 || rt.Deposit.MaxPercentage > 100 || rt.Deposit.MinPercentage > rt.Deposit.MaxPercentage {
		return fmt.Errorf("deposit bounds invalid: min=%d max=%d", rt.Deposit.MinPercentage, rt.Deposit.MaxPercentage)
	}

	if rt.RangePercent <= 0 || rt.RangePercent >= 100 {
		return fmt.Errorf("range percent invalid: %d", rt.RangePercent)
	}
	if rt.MinDeliveryDays <= 0 || rt.ExpressReductionDays < 0 {
		return fmt.Errorf("delivery constants invalid: min=%d reduction=%d", rt.MinDeliveryDays, rt.ExpressReductionDays)
	}

	// The cheapest combination without extras must still cost something.
	for _, st := range AllServiceTypes {
		for _, d := range AllDurations {
			for _, c := range AllComplexities {
				total := rt.Services[st].BasePrice + rt.Durations[d].Delta + rt.Complexities[c].Delta
				if total <= 0 {
					return fmt.Errorf("rule tables yield non-positive price for %s/%s/%s", st, d, c)
				}
			}
		}
	}

	return nil
}

// DefaultRuleTables returns the built-in pricing configuration. It is the
// fallback when the content store is unreachable and the baseline the CMS
// values are seeded from. All amounts are whole CHF.
func DefaultRuleTables() RuleTables {
	return RuleTables{
		Services: map[ServiceType]ServiceRule{
			ServiceImagefilm:      {Label: "Imagefilm", BasePrice: 2400},
			ServiceEventvideo:     {Label: "Eventvideo", BasePrice: 1800},
			ServiceSocialMedia:    {Label: "Social Media Video", BasePrice: 1200},
			ServiceDrone:          {Label: "Drohnenaufnahmen", BasePrice: 900},
			ServiceProductVideo:   {Label: "Produktvideo", BasePrice: 1500},
			ServicePostProduction: {Label: "Postproduktion", BasePrice: 800},
		},
		Durations: map[Duration]DurationRule{
			DurationShort:  {Label: "Kurz (bis 1 Min.)", Delta: -200},
			DurationMedium: {Label: "Mittel (1-3 Min.)", Delta: 0},
			DurationLong:   {Label: "Lang (über 3 Min.)", Delta: 600},
		},
		Complexities: map[Complexity]ComplexityRule{
			ComplexitySimple:   {Label: "Einfach", Delta: -300},
			ComplexityStandard: {Label: "Standard", Delta: 0},
			ComplexityPremium:  {Label: "Premium", Delta: 900},
		},
		Extras: map[ExtraID]ExtraRule{
			ExtraDroneFootage:    {Label: "Drohnenaufnahmen", Price: 400},
			ExtraPremiumMusic:    {Label: "Premium-Musiklizenz", Price: 250},
			ExtraSubtitles:       {Label: "Untertitel", Price: 180},
			ExtraSocialMediaCuts: {Label: "Social-Media-Schnitte", Price: 350},
			ExtraExpressDelivery: {Label: "Express-Lieferung", Price: 300},
		},
		Deposit: DepositRules{
			Tiers: []DepositTier{
				{UpToAmount: 2000, DepositPercentage: 40},
				{UpToAmount: 5000, DepositPercentage: 30},
				{UpToAmount: 10000, DepositPercentage: 25},
				{UpToAmount: 25000, DepositPercentage: 20},
			},
			MinPercentage: 20,
			MaxPercentage: 50,
		},
		DeliveryDays: map[Complexity]map[Duration]int{
			ComplexitySimple:   {DurationShort: 10, DurationMedium: 14, DurationLong: 18},
			ComplexityStandard: {DurationShort: 14, DurationMedium: 21, DurationLong: 28},
			ComplexityPremium:  {DurationShort: 21, DurationMedium: 30, DurationLong: 40},
		},
		ExpressReductionDays: 7,
		MinDeliveryDays:      5,
		RangePercent:         15,
	}
}
