package repository

import (
	"context"
	"regexp"
	"testing"

	"study_core_backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestChunkRepository_SearchSimilar_Postgres(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewChunkRepository(db)

	rows := sqlmock.NewRows([]string{"id", "content", "page_number", "similarity"}).
		AddRow("c1", "photosynthesis converts light", 3, 0.91).
		AddRow("c2", "chlorophyll absorbs", 4, 0.47)

	mock.ExpectQuery(regexp.QuoteMeta("1 - (embedding <=> $1) AS similarity")).
		WithArgs("[0.1,0.2]", "src-1", "[0.1,0.2]", 0.3, "[0.1,0.2]", 5).
		WillReturnRows(rows)

	got, err := repo.SearchSimilar(context.Background(), []float32{0.1, 0.2}, 5, 0.3, "src-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.ChunkMatch{ID: "c1", Content: "photosynthesis converts light", PageNumber: 3, Similarity: 0.91}, got[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChunkRepository_SearchSimilar_PostgresError(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewChunkRepository(db)

	mock.ExpectQuery("content_chunks").WillReturnError(assert.AnError)

	_, err := repo.SearchSimilar(context.Background(), []float32{1}, 5, 0.3, "src-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestChunkRepository_SearchSimilar_InMemory(t *testing.T) {
	db := newTestDB(t)
	repo := NewChunkRepository(db)
	sources := NewSourceRepository(db)
	ctx := context.Background()

	src := model.Source{UserID: 1, Title: "biology"}
	chunks := []model.ContentChunk{
		{ChunkIndex: 0, PageNumber: 1, Content: "exact", Embedding: model.NewEmbedding([]float32{1, 0})},
		{ChunkIndex: 1, PageNumber: 1, Content: "close", Embedding: model.NewEmbedding([]float32{0.8, 0.6})},
		{ChunkIndex: 2, PageNumber: 2, Content: "orthogonal", Embedding: model.NewEmbedding([]float32{0, 1})},
		{ChunkIndex: 3, PageNumber: 2, Content: "pending"},
	}
	require.NoError(t, sources.CreateWithChunks(ctx, &src, chunks))

	other := model.Source{UserID: 1, Title: "other"}
	require.NoError(t, sources.CreateWithChunks(ctx, &other, []model.ContentChunk{
		{ChunkIndex: 0, Content: "same vector elsewhere", Embedding: model.NewEmbedding([]float32{1, 0})},
	}))

	got, err := repo.SearchSimilar(ctx, []float32{1, 0}, 10, 0.3, src.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "exact", got[0].Content)
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-6)
	assert.Equal(t, "close", got[1].Content)
	assert.InDelta(t, 0.8, got[1].Similarity, 1e-6)

	got, err = repo.SearchSimilar(ctx, []float32{1, 0}, 1, 0.3, src.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	stored, err := sources.FindByID(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.ChunkCount)
}

func TestChunkRepository_UpdateEmbedding(t *testing.T) {
	db := newTestDB(t)
	repo := NewChunkRepository(db)
	ctx := context.Background()

	src := model.Source{UserID: 1, Title: "notes"}
	require.NoError(t, NewSourceRepository(db).CreateWithChunks(ctx, &src, []model.ContentChunk{{Content: "text"}}))

	chunks, err := repo.ListBySource(ctx, src.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0].Embedding.Slice())

	require.NoError(t, repo.UpdateEmbedding(ctx, chunks[0].ID, []float32{0.5, 0.25}))

	chunks, err = repo.ListBySource(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, chunks[0].Embedding.Slice())
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{2, 0}, []float32{5, 0}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}
