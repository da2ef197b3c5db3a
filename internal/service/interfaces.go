package service

import (
	"context"

	"study_core_backend/internal/model"
	"study_core_backend/internal/repository"
)

// ContentRepository 题目与单元的读写能力，repository.ContentRepository 为默认实现
type ContentRepository interface {
	FindQuestionByID(ctx context.Context, id uint) (*model.Question, error)
	FindUnitByID(ctx context.Context, id uint) (*model.Unit, error)
	FindDueQuestions(ctx context.Context, q repository.QuestionQuery) ([]model.Question, error)
	FindUnseenQuestions(ctx context.Context, q repository.QuestionQuery) ([]model.Question, error)
	FindUpcomingQuestions(ctx context.Context, q repository.QuestionQuery) ([]model.Question, error)
	CreateQuestions(ctx context.Context, questions []model.Question) error
	UpdateQuestions(ctx context.Context, userID uint, questions []model.Question) error
	DeleteQuestions(ctx context.Context, userID uint, ids []uint) (int64, error)
	SaveReviewState(ctx context.Context, q *model.Question) error
}

// SimilarityProvider 向量化与近邻检索
type SimilarityProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	FindSimilar(ctx context.Context, vector []float32, limit int, threshold float64, sourceID string) ([]model.ChunkMatch, error)
}

// ActivityRepository 学习打卡记录
type ActivityRepository interface {
	Increment(ctx context.Context, userID uint, day string, items int) error
	ListRecentByUser(ctx context.Context, userID uint, limit int) ([]model.ActivityLog, error)
}

// SourceRepository 来源文档与切片的写入
type SourceRepository interface {
	CreateWithChunks(ctx context.Context, source *model.Source, chunks []model.ContentChunk) error
	FindByID(ctx context.Context, id string) (*model.Source, error)
}

// ChunkStore 重算向量时读写切片
type ChunkStore interface {
	ListBySource(ctx context.Context, sourceID string) ([]model.ContentChunk, error)
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
}

var (
	_ ContentRepository  = (*repository.ContentRepository)(nil)
	_ ActivityRepository = (*repository.ActivityLogRepository)(nil)
	_ SourceRepository   = (*repository.SourceRepository)(nil)
	_ ChunkStore         = (*repository.ChunkRepository)(nil)
	_ SimilarityProvider = (*PgVectorProvider)(nil)
)
