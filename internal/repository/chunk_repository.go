package repository

import (
	"context"
	"math"
	"sort"

	"study_core_backend/internal/model"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ChunkRepository struct {
	DB *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{DB: db}
}

// pgvector 的 <=> 是余弦距离，1 - 距离即余弦相似度
const similarChunksSQL = `
SELECT id, content, page_number, 1 - (embedding <=> ?) AS similarity
FROM content_chunks
WHERE source_id = ? AND embedding IS NOT NULL AND 1 - (embedding <=> ?) >= ?
ORDER BY embedding <=> ? ASC, chunk_index ASC
LIMIT ?`

// SearchSimilar 在单个来源文档内按余弦相似度检索切片，结果按相似度降序
func (r *ChunkRepository) SearchSimilar(ctx context.Context, vector []float32, limit int, threshold float64, sourceID string) ([]model.ChunkMatch, error) {
	if r.DB.Dialector.Name() != "postgres" {
		return r.searchInMemory(ctx, vector, limit, threshold, sourceID)
	}

	v := pgvector.NewVector(vector)
	var matches []model.ChunkMatch
	err := r.DB.WithContext(ctx).
		Raw(similarChunksSQL, v, sourceID, v, threshold, v, limit).
		Scan(&matches).Error
	if err != nil {
		return nil, errors.Wrap(err, "search similar chunks")
	}
	return matches, nil
}

// searchInMemory 没有 pgvector 时（sqlite/mysql 开发环境）在进程内计算余弦相似度
func (r *ChunkRepository) searchInMemory(ctx context.Context, vector []float32, limit int, threshold float64, sourceID string) ([]model.ChunkMatch, error) {
	chunks, err := r.ListBySource(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	matches := make([]model.ChunkMatch, 0, len(chunks))
	for _, c := range chunks {
		emb := c.Embedding.Slice()
		if len(emb) == 0 {
			continue
		}
		score := CosineSimilarity(vector, emb)
		if score < threshold {
			continue
		}
		matches = append(matches, model.ChunkMatch{
			ID:         c.ID,
			Content:    c.Content,
			PageNumber: c.PageNumber,
			Similarity: score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// ListBySource 按切片顺序返回来源文档的全部切片
func (r *ChunkRepository) ListBySource(ctx context.Context, sourceID string) ([]model.ContentChunk, error) {
	var chunks []model.ContentChunk
	err := r.DB.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("chunk_index ASC").
		Find(&chunks).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list chunks of source %s", sourceID)
	}
	return chunks, nil
}

// UpdateEmbedding 更换向量模型后重算向量，内容本身不变
func (r *ChunkRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	err := r.DB.WithContext(ctx).Model(&model.ContentChunk{}).
		Where("id = ?", id).
		Update("embedding", model.NewEmbedding(embedding)).Error
	return errors.Wrapf(err, "update embedding of chunk %s", id)
}

// CosineSimilarity 两个向量长度不同或任一为零向量时返回 0
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
