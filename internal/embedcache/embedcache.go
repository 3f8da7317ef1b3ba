package embedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/wiz-abhi/realprep/internal/ai"
	"github.com/wiz-abhi/realprep/internal/model"
	"github.com/wiz-abhi/realprep/internal/pkg/timeutil"
)

// Persist is the durable cache tier behind the in-process LRU.
// *repo.EmbeddingCacheRepo satisfies it.
type Persist interface {
	Get(ctx context.Context, modelName, taskType, contentHash string) ([]float32, bool, error)
	Save(ctx context.Context, item *model.EmbeddingCache) error
}

// CachedEmbedder puts two cache tiers in front of an embedder: an
// expiring LRU for hot entries and the embedding_cache table for
// everything embedded before, keyed by (model, task type, content
// hash). Cache trouble never fails an embed call; a broken tier only
// costs a recompute.
type CachedEmbedder struct {
	next ai.IEmbedder
	mem  *expirable.LRU[string, []float32]
	db   Persist
}

func Wrap(next ai.IEmbedder, db Persist, memSize int, memTTL time.Duration) ai.IEmbedder {
	if next == nil {
		return nil
	}
	c := &CachedEmbedder{next: next, db: db}
	if memSize > 0 && memTTL > 0 {
		c.mem = expirable.NewLRU[string, []float32](memSize, nil, memTTL)
	}
	if c.mem == nil && c.db == nil {
		return next
	}
	return c
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	modelName, contentHash := cacheKey(c.next.ModelName(), text)
	memKey := modelName + ":" + taskType + ":" + contentHash

	if c.mem != nil {
		if values, ok := c.mem.Get(memKey); ok {
			return cloneEmbedding(values), nil
		}
	}
	if c.db != nil {
		values, ok, err := c.db.Get(ctx, modelName, taskType, contentHash)
		if err != nil {
			logutil.GetLogger(ctx).Warn("embedding cache lookup failed", zap.Error(err))
		} else if ok {
			if c.mem != nil {
				c.mem.Add(memKey, cloneEmbedding(values))
			}
			return values, nil
		}
	}

	values, err := c.next.Embed(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	if c.db != nil {
		if err := c.db.Save(ctx, &model.EmbeddingCache{
			ModelName:   modelName,
			TaskType:    taskType,
			ContentHash: contentHash,
			Embedding:   values,
			Ctime:       timeutil.NowUnix(),
		}); err != nil {
			logutil.GetLogger(ctx).Warn("failed to persist embedding", zap.Error(err))
		}
	}
	if c.mem != nil {
		c.mem.Add(memKey, cloneEmbedding(values))
	}
	return values, nil
}

func (c *CachedEmbedder) ModelName() string {
	return c.next.ModelName()
}

// cacheKey normalizes the model name (an unset name still has to index
// somewhere) and hashes the content.
func cacheKey(modelName, text string) (string, string) {
	modelName = strings.TrimSpace(modelName)
	if modelName == "" {
		modelName = "unknown"
	}
	sum := sha256.Sum256([]byte(text))
	return modelName, hex.EncodeToString(sum[:])
}

func cloneEmbedding(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
