package service

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"study_core_backend/internal/model"
	"study_core_backend/internal/util"
	"study_core_backend/pkg/embedding"
	"study_core_backend/pkg/logger"
	"study_core_backend/pkg/monitoring"
	"study_core_backend/pkg/tracing"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// embedConcurrency 同时向向量化服务发出的批次数
const embedConcurrency = 4

// IngestRequest 上传的来源文档，Pages 为逐页提取出的文本
type IngestRequest struct {
	UserID      uint
	Title       string
	FileName    string
	ContentType string
	Data        []byte
	Pages       []string
}

type IngestionService struct {
	SourceRepo SourceRepository
	ChunkStore ChunkStore
	Embedder   embedding.Embedder
	Storage    *StorageService
	batchSize  int
	chunkRunes int
}

func NewIngestionService(sourceRepo SourceRepository, chunkStore ChunkStore, embedder embedding.Embedder, storage *StorageService, batchSize int) *IngestionService {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &IngestionService{
		SourceRepo: sourceRepo,
		ChunkStore: chunkStore,
		Embedder:   embedder,
		Storage:    storage,
		batchSize:  batchSize,
		chunkRunes: DefaultChunkRunes,
	}
}

// IngestSource 保存原文件、切片并向量化，全部切片向量化成功后才落库
func (s *IngestionService) IngestSource(ctx context.Context, req IngestRequest) (source *model.Source, err error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, util.NewValidationError("title", "is required", nil)
	}
	ext := strings.ToLower(filepath.Ext(req.FileName))
	if !allowedSourceExt(ext) {
		return nil, util.NewValidationError("file", "unsupported file type "+ext, nil)
	}

	chunks := SplitPages(req.Pages, s.chunkRunes)
	if len(chunks) == 0 {
		return nil, util.NewValidationError("pages", "no text content found", nil)
	}

	ctx, span := tracing.StartSpan(ctx, "IngestionService.IngestSource",
		attribute.Int("chunks", len(chunks)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	key := "sources/" + shortuuid.New() + ext
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(req.Data), int64(len(req.Data)), req.ContentType)
	if err != nil {
		return nil, errors.Wrap(err, "upload source file")
	}

	source = &model.Source{
		UserID:      req.UserID,
		Title:       strings.TrimSpace(req.Title),
		ObjectKey:   key,
		URL:         url,
		ContentType: req.ContentType,
	}
	if err := s.SourceRepo.CreateWithChunks(ctx, source, chunks); err != nil {
		if delErr := s.Storage.Delete(ctx, key); delErr != nil {
			logger.Log.Warn("Failed to remove orphaned source file", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	logger.Log.Info("Source ingested",
		zap.Uint("userID", req.UserID),
		zap.String("sourceID", source.ID),
		zap.Int("chunks", len(chunks)))
	return source, nil
}

// GetSource 只能访问自己上传的来源文档
func (s *IngestionService) GetSource(ctx context.Context, userID uint, id string) (*model.Source, error) {
	src, err := s.SourceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if src.UserID != userID {
		return nil, util.NewNotFoundError("source", id)
	}
	return src, nil
}

// ReembedSource 更换向量模型后重算来源文档下全部切片的向量
func (s *IngestionService) ReembedSource(ctx context.Context, sourceID string) (int, error) {
	chunks, err := s.ChunkStore.ListBySource(ctx, sourceID)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := s.embedChunks(ctx, chunks); err != nil {
		return 0, err
	}
	for _, c := range chunks {
		if err := s.ChunkStore.UpdateEmbedding(ctx, c.ID, c.Embedding.Slice()); err != nil {
			return 0, err
		}
	}
	return len(chunks), nil
}

// embedChunks 分批并发向量化，结果按下标写回，任一批失败整体失败
func (s *IngestionService) embedChunks(ctx context.Context, chunks []model.ContentChunk) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i := range batch {
				texts[i] = batch[i].Content
			}
			vectors, err := s.Embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return err
			}
			if len(vectors) != len(batch) {
				return errors.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(batch))
			}
			for i := range batch {
				batch[i].Embedding = model.NewEmbedding(vectors[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		monitoring.ProviderErrors.WithLabelValues("embed_batch").Inc()
		return util.NewProviderError("embed_batch", err)
	}
	return nil
}

func allowedSourceExt(ext string) bool {
	for _, e := range util.AllowedSourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
