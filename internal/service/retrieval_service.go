package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"study_core_backend/internal/model"
	"study_core_backend/internal/util"
	"study_core_backend/pkg/logger"
	"study_core_backend/pkg/monitoring"
	"study_core_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	// SimilarityThreshold 低于该余弦相似度的切片视为不相关
	SimilarityThreshold = 0.3

	DefaultRelatedLimit = 5
	MaxRelatedLimit     = 50
)

type RetrievalService struct {
	Provider SimilarityProvider
}

func NewRetrievalService(provider SimilarityProvider) *RetrievalService {
	return &RetrievalService{Provider: provider}
}

// FindRelatedChunks 在指定来源文档内检索与 query 语义相近的切片
func (s *RetrievalService) FindRelatedChunks(ctx context.Context, query string, limit int, sourceID string) (matches []model.ChunkMatch, err error) {
	if strings.TrimSpace(sourceID) == "" {
		return nil, util.NewValidationError("sourceId", "is required", nil)
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	if limit > MaxRelatedLimit {
		return nil, util.NewValidationError("limit", "must not exceed "+strconv.Itoa(MaxRelatedLimit), util.ErrLimitExceeded)
	}
	if strings.TrimSpace(query) == "" {
		return []model.ChunkMatch{}, nil
	}

	ctx, span := tracing.StartSpan(ctx, "RetrievalService.FindRelatedChunks",
		attribute.String("sourceID", sourceID),
		attribute.Int("limit", limit),
	)
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		monitoring.RetrievalDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		tracing.EndSpan(span, err)
	}()

	vector, err := s.Provider.Embed(ctx, query)
	if err != nil {
		return nil, s.providerFailure("embed", sourceID, err)
	}

	matches, err = s.Provider.FindSimilar(ctx, vector, limit, SimilarityThreshold, sourceID)
	if err != nil {
		return nil, s.providerFailure("find_similar", sourceID, err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []model.ChunkMatch{}
	}
	return matches, nil
}

func (s *RetrievalService) providerFailure(op, sourceID string, err error) error {
	logger.Log.Warn("Similarity provider failed",
		zap.String("op", op),
		zap.String("sourceID", sourceID),
		zap.Error(err))
	monitoring.ProviderErrors.WithLabelValues(op).Inc()
	return util.NewProviderError(op, err)
}
