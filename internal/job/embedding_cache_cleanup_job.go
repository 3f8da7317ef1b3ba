package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/wiz-abhi/realprep/internal/repo"
)

const defaultCacheMaxAgeDays = 30

// EmbeddingCacheCleanupJob expires embedding_cache rows nobody asked
// for in maxAgeDays. Dropped entries just get recomputed on the next
// miss.
type EmbeddingCacheCleanupJob struct {
	cache      *repo.EmbeddingCacheRepo
	maxAgeDays int
}

func NewEmbeddingCacheCleanupJob(cache *repo.EmbeddingCacheRepo, maxAgeDays int) *EmbeddingCacheCleanupJob {
	if maxAgeDays <= 0 {
		maxAgeDays = defaultCacheMaxAgeDays
	}
	return &EmbeddingCacheCleanupJob{cache: cache, maxAgeDays: maxAgeDays}
}

func (j *EmbeddingCacheCleanupJob) Name() string {
	return "embedding_cache_cleanup"
}

func (j *EmbeddingCacheCleanupJob) Run(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -j.maxAgeDays).Unix()
	deleted, err := j.cache.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("expired embedding cache entries removed",
			zap.Int64("deleted", deleted),
			zap.Int("max_age_days", j.maxAgeDays),
		)
	}
	return nil
}
