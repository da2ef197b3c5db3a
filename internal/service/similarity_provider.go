package service

import (
	"context"

	"study_core_backend/internal/model"
	"study_core_backend/internal/repository"
	"study_core_backend/pkg/embedding"
)

// PgVectorProvider 向量化交给 Embedder，近邻检索交给切片仓库
type PgVectorProvider struct {
	Embedder  embedding.Embedder
	ChunkRepo *repository.ChunkRepository
}

func NewPgVectorProvider(embedder embedding.Embedder, chunkRepo *repository.ChunkRepository) *PgVectorProvider {
	return &PgVectorProvider{Embedder: embedder, ChunkRepo: chunkRepo}
}

func (p *PgVectorProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.Embedder.Embed(ctx, text)
}

func (p *PgVectorProvider) FindSimilar(ctx context.Context, vector []float32, limit int, threshold float64, sourceID string) ([]model.ChunkMatch, error) {
	return p.ChunkRepo.SearchSimilar(ctx, vector, limit, threshold, sourceID)
}
