package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/content"
	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
)

func newQuoteService() *QuoteService {
	return NewQuoteService(&fakeSnapshots{snapshot: content.DefaultSnapshot()}, zap.NewNop())
}

func quoteRequest(serviceType, duration, complexity string, extras ...string) *domain.QuoteRequest {
	return &domain.QuoteRequest{
		ServiceType: serviceType,
		Duration:    duration,
		Complexity:  complexity,
		Extras:      extras,
	}
}

func TestEstimateHappyPath(t *testing.T) {
	svc := newQuoteService()

	resp, err := svc.Estimate(context.Background(), quoteRequest("imagefilm", "medium", "standard", "drone_footage"))

	require.NoError(t, err)
	assert.Equal(t, "CHF", resp.Currency)
	assert.False(t, resp.Binding)
	assert.Equal(t, content.DefaultContractVersion, resp.Version)
	assert.Equal(t, 2800, resp.Pricing.TotalPrice)
	assert.Equal(t, 30, resp.Pricing.DepositPercentage)
	assert.Equal(t, resp.Pricing.DepositAmount+resp.Pricing.RemainingAmount, resp.Pricing.TotalPrice)
}

func TestEstimateRejectsUnknownServiceType(t *testing.T) {
	svc := newQuoteService()

	_, err := svc.Estimate(context.Background(), quoteRequest("hologram", "medium", "standard"))

	assert.ErrorIs(t, err, ErrUnknownServiceType)
}

func TestEstimateRejectsUnknownExtra(t *testing.T) {
	svc := newQuoteService()

	_, err := svc.Estimate(context.Background(), quoteRequest("imagefilm", "medium", "standard", "popcorn_machine"))

	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestEstimateUsesActiveSnapshot(t *testing.T) {
	snapshot := content.DefaultSnapshot()
	snapshot.ContractVersion = "2026-03"
	rule := snapshot.Rules.Services[pricing.ServiceImagefilm]
	rule.BasePrice = 3000
	snapshot.Rules.Services[pricing.ServiceImagefilm] = rule
	svc := NewQuoteService(&fakeSnapshots{snapshot: snapshot}, zap.NewNop())

	resp, err := svc.Estimate(context.Background(), quoteRequest("imagefilm", "medium", "standard"))

	require.NoError(t, err)
	assert.Equal(t, "2026-03", resp.Version)
	assert.Equal(t, 3000, resp.Pricing.TotalPrice)
}

func TestOnboardingConfig(t *testing.T) {
	svc := newQuoteService()

	cfg, err := svc.OnboardingConfig(context.Background(), pricing.ServiceImagefilm)

	require.NoError(t, err)
	assert.Equal(t, "Imagefilm", cfg.ServiceLabel)
	assert.NotEmpty(t, cfg.Questions)
	assert.NotEmpty(t, cfg.Clauses)
	assert.Equal(t, content.DefaultContractVersion, cfg.ContractVersion)

	require.Len(t, cfg.Extras, len(pricing.CanonicalExtraOrder))
	assert.Equal(t, pricing.ExtraDroneFootage, cfg.Extras[0].ID)
	assert.Equal(t, 400, cfg.Extras[0].Price)
}

func TestOnboardingConfigUnknownService(t *testing.T) {
	svc := newQuoteService()

	_, err := svc.OnboardingConfig(context.Background(), "hologram")

	assert.ErrorIs(t, err, ErrUnknownServiceType)
}
