package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Fetcher retrieves the current content snapshot from its source.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Client fetches content snapshots from the headless content store over
// HTTP. The store serves a single JSON document with rules, questions
// and contract clauses.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates a content store client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Fetch retrieves and validates the current snapshot. A snapshot whose
// rule tables fail validation is rejected so a broken content deploy
// cannot break pricing.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/onboarding-content", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create content request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("content store returned status %d: %s", resp.StatusCode, string(body))
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode content snapshot: %w", err)
	}

	if err := snapshot.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("content snapshot has invalid rule tables: %w", err)
	}
	if snapshot.ContractVersion == "" {
		return nil, fmt.Errorf("content snapshot has no contract version")
	}

	snapshot.FetchedAt = time.Now()
	c.logger.Debug("Fetched content snapshot",
		zap.String("contract_version", snapshot.ContractVersion))
	return &snapshot, nil
}
