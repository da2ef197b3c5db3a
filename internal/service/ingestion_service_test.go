package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"study_core_backend/internal/config"
	"study_core_backend/internal/model"
	"study_core_backend/internal/util"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder 按文本长度生成向量，文本包含 FAIL 时报错
type fakeEmbedder struct {
	mu      sync.Mutex
	batches int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.batches++
	f.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.Contains(text, "FAIL") {
			return nil, errors.New("embedding backend rejected input")
		}
		out[i] = []float32{float32(len(text)), 1}
	}
	return out, nil
}

func (f *fakeEmbedder) Model() string { return "fake" }

type fakeSourceRepo struct {
	sources map[string]model.Source
	chunks  map[string][]model.ContentChunk
	err     error
}

func newFakeSourceRepo() *fakeSourceRepo {
	return &fakeSourceRepo{sources: map[string]model.Source{}, chunks: map[string][]model.ContentChunk{}}
}

func (f *fakeSourceRepo) CreateWithChunks(ctx context.Context, source *model.Source, chunks []model.ContentChunk) error {
	if f.err != nil {
		return f.err
	}
	source.ID = model.GenerateUUID()
	source.ChunkCount = len(chunks)
	for i := range chunks {
		chunks[i].ID = model.GenerateUUID()
		chunks[i].SourceID = source.ID
	}
	f.sources[source.ID] = *source
	f.chunks[source.ID] = chunks
	return nil
}

func (f *fakeSourceRepo) FindByID(ctx context.Context, id string) (*model.Source, error) {
	s, ok := f.sources[id]
	if !ok {
		return nil, util.NewNotFoundError("source", id)
	}
	return &s, nil
}

func (f *fakeSourceRepo) ListBySource(ctx context.Context, sourceID string) ([]model.ContentChunk, error) {
	return append([]model.ContentChunk(nil), f.chunks[sourceID]...), nil
}

func (f *fakeSourceRepo) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	for sid, chunks := range f.chunks {
		for i := range chunks {
			if chunks[i].ID == id {
				f.chunks[sid][i].Embedding = model.NewEmbedding(embedding)
				return nil
			}
		}
	}
	return util.NewNotFoundError("chunk", id)
}

func newTestIngestion(t *testing.T, repo *fakeSourceRepo, embedder *fakeEmbedder) (*IngestionService, string) {
	t.Helper()
	dir := t.TempDir()
	storage := NewStorageService(&config.StorageConfig{Type: util.StorageLocal, LocalPath: dir})
	s := NewIngestionService(repo, repo, embedder, storage, 2)
	s.chunkRunes = 30
	return s, dir
}

func TestIngestSource(t *testing.T) {
	repo := newFakeSourceRepo()
	embedder := &fakeEmbedder{}
	s, dir := newTestIngestion(t, repo, embedder)

	pages := []string{
		"Mitochondria produce ATP.\n\nThey have a double membrane.",
		"Ribosomes build proteins.\n\nThey read mRNA.\n\nSome float freely.",
	}
	src, err := s.IngestSource(context.Background(), IngestRequest{
		UserID:      7,
		Title:       " Biology notes ",
		FileName:    "bio.TXT",
		ContentType: util.MimeText,
		Data:        []byte(strings.Join(pages, "\f")),
		Pages:       pages,
	})
	require.NoError(t, err)

	assert.Equal(t, "Biology notes", src.Title)
	assert.True(t, strings.HasPrefix(src.ObjectKey, "sources/"))
	assert.True(t, strings.HasSuffix(src.ObjectKey, ".txt"))
	assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(src.ObjectKey)))

	chunks := repo.chunks[src.ID]
	require.Equal(t, src.ChunkCount, len(chunks))
	require.Greater(t, len(chunks), 2)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, []float32{float32(len(c.Content)), 1}, c.Embedding.Slice())
	}
	assert.Equal(t, (len(chunks)+1)/2, embedder.batches)

	got, err := s.GetSource(context.Background(), 7, src.ID)
	require.NoError(t, err)
	assert.Equal(t, src.ID, got.ID)
	_, err = s.GetSource(context.Background(), 8, src.ID)
	assert.True(t, util.IsNotFoundError(err))
}

func TestIngestSource_Validation(t *testing.T) {
	s, _ := newTestIngestion(t, newFakeSourceRepo(), &fakeEmbedder{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  IngestRequest
	}{
		{"missing title", IngestRequest{FileName: "a.txt", Pages: []string{"x"}}},
		{"bad extension", IngestRequest{Title: "t", FileName: "a.exe", Pages: []string{"x"}}},
		{"no text", IngestRequest{Title: "t", FileName: "a.md", Pages: []string{"  ", ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.IngestSource(ctx, tt.req)
			assert.True(t, util.IsValidationError(err))
		})
	}
}

func TestIngestSource_EmbeddingFailureStoresNothing(t *testing.T) {
	repo := newFakeSourceRepo()
	s, dir := newTestIngestion(t, repo, &fakeEmbedder{})

	_, err := s.IngestSource(context.Background(), IngestRequest{
		UserID:   7,
		Title:    "broken",
		FileName: "b.md",
		Data:     []byte("x"),
		Pages:    []string{"fine paragraph", "FAIL here"},
	})
	require.True(t, util.IsProviderError(err))
	assert.Empty(t, repo.sources)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIngestSource_PersistFailureRemovesFile(t *testing.T) {
	repo := newFakeSourceRepo()
	repo.err = errors.New("tx aborted")
	s, dir := newTestIngestion(t, repo, &fakeEmbedder{})

	_, err := s.IngestSource(context.Background(), IngestRequest{
		UserID:   7,
		Title:    "t",
		FileName: "c.txt",
		Data:     []byte("hello"),
		Pages:    []string{"hello"},
	})
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "sources"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReembedSource(t *testing.T) {
	repo := newFakeSourceRepo()
	s, _ := newTestIngestion(t, repo, &fakeEmbedder{})
	ctx := context.Background()

	src, err := s.IngestSource(ctx, IngestRequest{UserID: 7, Title: "t", FileName: "d.txt", Pages: []string{"one\n\ntwo"}})
	require.NoError(t, err)
	for i := range repo.chunks[src.ID] {
		repo.chunks[src.ID][i].Embedding = model.NewEmbedding([]float32{0, 0})
	}

	n, err := s.ReembedSource(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, len(repo.chunks[src.ID]), n)
	for _, c := range repo.chunks[src.ID] {
		assert.Equal(t, float32(1), c.Embedding.Slice()[1])
	}

	n, err = s.ReembedSource(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)
}
