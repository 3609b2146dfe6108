package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/content"
)

// ContentRefreshJobName is the name of the content snapshot refresh job
const ContentRefreshJobName = "content_refresh"

// SnapshotRefresher re-fetches the content snapshot from the CMS. The
// interface keeps the job decoupled from the content cache implementation.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) *content.Snapshot
}

// ContentRefreshJob keeps the pricing rules, wizard questions and
// contract clauses in sync with the content store. A failed refresh
// keeps the last good snapshot; the cache logs the details.
type ContentRefreshJob struct {
	cache   SnapshotRefresher
	logger  *zap.Logger
	timeout time.Duration
}

// NewContentRefreshJob creates a new content refresh job.
func NewContentRefreshJob(cache SnapshotRefresher, logger *zap.Logger, timeout time.Duration) *ContentRefreshJob {
	return &ContentRefreshJob{
		cache:   cache,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the content refresh. This is called by the scheduler
// according to the configured cron expression.
func (j *ContentRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	snapshot := j.cache.Refresh(ctx)
	j.logger.Info("content snapshot refreshed",
		zap.String("contract_version", snapshot.ContractVersion),
		zap.Time("fetched_at", snapshot.FetchedAt),
		zap.Duration("duration", time.Since(start)))
}
