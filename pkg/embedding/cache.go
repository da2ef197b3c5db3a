package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"study_core_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CachedEmbedder 在 Redis 中缓存查询文本的向量。
// 键只由模型和文本决定，缓存的是向量而不是检索结果，不会跨来源文档串数据。
type CachedEmbedder struct {
	next Embedder
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedEmbedder(next Embedder, rdb *redis.Client, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedEmbedder) Model() string {
	return c.next.Model()
}

func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + model + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(c.next.Model(), text)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var vec []float32
		if jsonErr := json.Unmarshal(raw, &vec); jsonErr == nil && len(vec) > 0 {
			return vec, nil
		}
	} else if err != redis.Nil {
		// 缓存不可用时直接走上游
		logger.Log.Warn("embedding cache get failed", zap.Error(err))
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vec); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			logger.Log.Warn("embedding cache set failed", zap.Error(err))
		}
	}
	return vec, nil
}

// EmbedBatch 仅用于入库，不走缓存
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return c.next.EmbedBatch(ctx, texts)
}
