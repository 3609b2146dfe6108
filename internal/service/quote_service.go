package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/content"
	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
	"github.com/napoleonmm83/emmotion-api/internal/wizard"
)

// ExtraOption is one bookable add-on with its flat price.
type ExtraOption struct {
	ID    pricing.ExtraID `json:"id"`
	Label string          `json:"label"`
	Price int             `json:"price"`
}

// OnboardingConfigResponse bootstraps the wizard for one service type.
type OnboardingConfigResponse struct {
	ServiceType     pricing.ServiceType `json:"serviceType"`
	ServiceLabel    string              `json:"serviceLabel"`
	Questions       []wizard.Question   `json:"questions"`
	Extras          []ExtraOption       `json:"extras"`
	Clauses         []content.Clause    `json:"clauses"`
	ContractVersion string              `json:"contractVersion"`
}

// SnapshotSource yields the content snapshot in effect for a request.
type SnapshotSource interface {
	Get(ctx context.Context) *content.Snapshot
}

// QuoteService computes non-binding estimates for the public
// configurator. Every call prices against the snapshot current at that
// moment; nothing is persisted.
type QuoteService struct {
	snapshots SnapshotSource
	logger    *zap.Logger
}

func NewQuoteService(snapshots SnapshotSource, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		snapshots: snapshots,
		logger:    logger,
	}
}

// Estimate prices a configuration against the active rule tables.
func (s *QuoteService) Estimate(ctx context.Context, req *domain.QuoteRequest) (*domain.QuoteResponse, error) {
	snapshot := s.snapshots.Get(ctx)
	cfg := req.Configuration()

	if err := validateConfiguration(cfg, snapshot.Rules); err != nil {
		return nil, err
	}

	result := pricing.Compute(cfg, snapshot.Rules)
	return &domain.QuoteResponse{
		Pricing:  result,
		Currency: "CHF",
		Binding:  false,
		Version:  snapshot.ContractVersion,
	}, nil
}

// OnboardingConfig returns the wizard bootstrap for a service type: its
// questions, the available extras and the active rule-derived options.
func (s *QuoteService) OnboardingConfig(ctx context.Context, serviceType pricing.ServiceType) (*OnboardingConfigResponse, error) {
	snapshot := s.snapshots.Get(ctx)
	serviceRule, ok := snapshot.Rules.Services[serviceType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownServiceType, serviceType)
	}

	extras := make([]ExtraOption, 0, len(pricing.CanonicalExtraOrder))
	for _, id := range pricing.CanonicalExtraOrder {
		rule, ok := snapshot.Rules.Extras[id]
		if !ok {
			continue
		}
		extras = append(extras, ExtraOption{
			ID:    id,
			Label: rule.Label,
			Price: rule.Price,
		})
	}

	return &OnboardingConfigResponse{
		ServiceType:     serviceType,
		ServiceLabel:    serviceRule.Label,
		Questions:       snapshot.QuestionsFor(serviceType),
		Extras:          extras,
		Clauses:         snapshot.Clauses,
		ContractVersion: snapshot.ContractVersion,
	}, nil
}

// validateConfiguration checks enum membership against the active rule
// tables, so options removed from the content snapshot stop being
// priceable immediately.
func validateConfiguration(cfg pricing.Configuration, rules pricing.RuleTables) error {
	if _, ok := rules.Services[cfg.ServiceType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownServiceType, cfg.ServiceType)
	}
	if _, ok := rules.Durations[cfg.Duration]; !ok {
		return fmt.Errorf("%w: duration %q", ErrUnknownOption, cfg.Duration)
	}
	if _, ok := rules.Complexities[cfg.Complexity]; !ok {
		return fmt.Errorf("%w: complexity %q", ErrUnknownOption, cfg.Complexity)
	}
	for id, selected := range cfg.Extras {
		if !selected {
			continue
		}
		if _, ok := rules.Extras[id]; !ok {
			return fmt.Errorf("%w: extra %q", ErrUnknownOption, id)
		}
	}
	return nil
}
