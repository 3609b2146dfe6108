package content_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/napoleonmm83/emmotion-api/internal/content"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	snapshot *content.Snapshot
	err      error
	calls    int
}

func (f *fakeFetcher) Fetch(_ context.Context) (*content.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func remoteSnapshot(version string) *content.Snapshot {
	s := content.DefaultSnapshot()
	s.ContractVersion = version
	return s
}

func TestCacheServesDefaultsWhenFetchFails(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("content store unreachable")}
	cache := content.NewCache(fetcher, time.Hour, zap.NewNop())

	snapshot := cache.Get(context.Background())

	require.NotNil(t, snapshot)
	assert.Equal(t, content.DefaultContractVersion, snapshot.ContractVersion)
	assert.NoError(t, snapshot.Rules.Validate())
	assert.Equal(t, 1, fetcher.calls)
}

func TestCacheServesFreshSnapshotWithoutRefetch(t *testing.T) {
	fetcher := &fakeFetcher{snapshot: remoteSnapshot("2025-02")}
	cache := content.NewCache(fetcher, time.Hour, zap.NewNop())

	first := cache.Get(context.Background())
	second := cache.Get(context.Background())

	assert.Equal(t, "2025-02", first.ContractVersion)
	assert.Same(t, first, second)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCacheKeepsLastGoodSnapshotOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{snapshot: remoteSnapshot("2025-02")}
	cache := content.NewCache(fetcher, time.Hour, zap.NewNop())
	cache.Refresh(context.Background())

	fetcher.err = errors.New("content store unreachable")
	snapshot := cache.Refresh(context.Background())

	assert.Equal(t, "2025-02", snapshot.ContractVersion)
	assert.Equal(t, "2025-02", cache.Current().ContractVersion)
}

func TestSnapshotQuestionsForFallsBackToDefaults(t *testing.T) {
	s := remoteSnapshot("2025-02")
	s.Questions = nil

	qs := s.QuestionsFor(pricing.ServiceImagefilm)
	require.NotEmpty(t, qs)
	assert.Equal(t, "target_audience", qs[0].ID)
}

func TestClientFetchParsesSnapshot(t *testing.T) {
	payload := remoteSnapshot("2025-03")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/onboarding-content", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	}))
	defer server.Close()

	client := content.NewClient(server.URL, "secret", 5*time.Second, zap.NewNop())
	snapshot, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2025-03", snapshot.ContractVersion)
	assert.False(t, snapshot.FetchedAt.IsZero())
}

func TestClientFetchRejectsInvalidRules(t *testing.T) {
	payload := remoteSnapshot("2025-03")
	payload.Rules.Services = nil
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	}))
	defer server.Close()

	client := content.NewClient(server.URL, "", 5*time.Second, zap.NewNop())
	_, err := client.Fetch(context.Background())

	assert.ErrorContains(t, err, "invalid rule tables")
}

func TestClientFetchRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := content.NewClient(server.URL, "", 5*time.Second, zap.NewNop())
	_, err := client.Fetch(context.Background())

	assert.ErrorContains(t, err, "status 503")
}
