package service

import (
	"context"
	"strconv"
	"time"

	"study_core_backend/internal/model"
	"study_core_backend/internal/repository"
	"study_core_backend/internal/util"
	"study_core_backend/pkg/logger"
	"study_core_backend/pkg/monitoring"
	"study_core_backend/pkg/tracing"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MaxSessionLimit 单次请求最多返回的题目数
const MaxSessionLimit = 100

// FetchRequest 一次选题请求，ExcludeIDs 为本次会话已经下发过的题目
type FetchRequest struct {
	UserID      uint            `json:"-"`
	Mode        model.StudyMode `json:"mode"`
	Limit       int             `json:"limit"`
	SubjectIDs  []uint          `json:"subjectIds"`
	TopicIDs    []uint          `json:"topicIds"`
	ExcludeIDs  []uint          `json:"excludeIds"`
	ReviewAhead bool            `json:"reviewAhead"`
}

type modePolicy struct {
	honorSubject     bool
	honorTopic       bool
	allowReviewAhead bool
}

// 各模式的层级优先级一致，只在过滤条件和提前复习上有差别
var modePolicies = map[model.StudyMode]modePolicy{
	model.ModeCrisis:      {honorSubject: true, honorTopic: true},
	model.ModeDeep:        {honorSubject: true, honorTopic: true},
	model.ModeMaintenance: {},
	model.ModeCustom:      {honorSubject: true, honorTopic: true},
	model.ModeCram:        {honorSubject: true, honorTopic: true, allowReviewAhead: true},
}

type SchedulingService struct {
	ContentRepo ContentRepository
	maxLimit    int
	now         func() time.Time
}

func NewSchedulingService(contentRepo ContentRepository, maxLimit int) *SchedulingService {
	if maxLimit <= 0 || maxLimit > MaxSessionLimit {
		maxLimit = MaxSessionLimit
	}
	return &SchedulingService{
		ContentRepo: contentRepo,
		maxLimit:    maxLimit,
		now:         time.Now,
	}
}

func (s *SchedulingService) validate(req FetchRequest) (modePolicy, error) {
	policy, ok := modePolicies[req.Mode]
	if !ok {
		return modePolicy{}, util.NewValidationError("mode", "unknown study mode "+strconv.Quote(string(req.Mode)), util.ErrInvalidMode)
	}
	if req.Limit > s.maxLimit {
		return modePolicy{}, util.NewValidationError("limit", "must not exceed "+strconv.Itoa(s.maxLimit), util.ErrLimitExceeded)
	}
	if req.ReviewAhead && !policy.allowReviewAhead {
		return modePolicy{}, util.NewValidationError("reviewAhead", "only supported in cram mode", nil)
	}
	return policy, nil
}

// FetchQuestions 先取到期题目，不足时用未学过的题目补齐；冲刺模式可以再提前复习未到期的题目
func (s *SchedulingService) FetchQuestions(ctx context.Context, req FetchRequest) (result []model.Question, err error) {
	policy, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	if req.Limit <= 0 {
		return []model.Question{}, nil
	}

	ctx, span := tracing.StartSpan(ctx, "SchedulingService.FetchQuestions",
		attribute.String("mode", string(req.Mode)),
		attribute.Int("limit", req.Limit),
	)
	defer func() { tracing.EndSpan(span, err) }()

	query := repository.QuestionQuery{
		UserID:     req.UserID,
		ExcludeIDs: req.ExcludeIDs,
		Now:        s.now(),
		Limit:      req.Limit,
	}
	if policy.honorSubject {
		query.SubjectIDs = req.SubjectIDs
	}
	if policy.honorTopic {
		query.TopicIDs = req.TopicIDs
	}

	due, err := s.ContentRepo.FindDueQuestions(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "tier 1")
	}
	seen := make(map[uint]struct{}, len(req.ExcludeIDs)+req.Limit)
	for _, id := range req.ExcludeIDs {
		seen[id] = struct{}{}
	}
	result = appendUnique(make([]model.Question, 0, req.Limit), due, req.Limit, seen, nil)
	s.observe(req, "due", len(result))

	if remaining := req.Limit - len(result); remaining > 0 {
		query.ExcludeIDs = mergeIDs(req.ExcludeIDs, result)
		query.Limit = remaining
		unseen, err := s.ContentRepo.FindUnseenQuestions(ctx, query)
		if err != nil {
			return nil, errors.Wrap(err, "tier 2")
		}
		before := len(result)
		result = appendUnique(result, unseen, req.Limit, seen, nil)
		s.observe(req, "unseen", len(result)-before)
	}

	if remaining := req.Limit - len(result); remaining > 0 && req.ReviewAhead {
		query.ExcludeIDs = mergeIDs(req.ExcludeIDs, result)
		query.Limit = remaining
		upcoming, err := s.ContentRepo.FindUpcomingQuestions(ctx, query)
		if err != nil {
			return nil, errors.Wrap(err, "review ahead")
		}
		before := len(result)
		result = appendUnique(result, upcoming, req.Limit, seen, func(q *model.Question) { q.IsReviewAhead = true })
		s.observe(req, "ahead", len(result)-before)
	}

	return result, nil
}

// ExtendSession 把已下发的题目并入排除集合后重新选题
func (s *SchedulingService) ExtendSession(ctx context.Context, req FetchRequest, deliveredIDs []uint) ([]model.Question, error) {
	excluded := make([]uint, 0, len(req.ExcludeIDs)+len(deliveredIDs))
	excluded = append(excluded, req.ExcludeIDs...)
	excluded = append(excluded, deliveredIDs...)
	req.ExcludeIDs = excluded
	return s.FetchQuestions(ctx, req)
}

func (s *SchedulingService) observe(req FetchRequest, tier string, n int) {
	logger.Log.Debug("Selected questions",
		zap.Uint("userID", req.UserID),
		zap.String("mode", string(req.Mode)),
		zap.String("tier", tier),
		zap.Int("count", n))
	if n > 0 {
		monitoring.QuestionsSelected.WithLabelValues(string(req.Mode), tier).Add(float64(n))
	}
}

// appendUnique 追加 src 中不在 seen 里的题目，总数不超过 limit
func appendUnique(dst, src []model.Question, limit int, seen map[uint]struct{}, mark func(*model.Question)) []model.Question {
	for _, q := range src {
		if len(dst) >= limit {
			break
		}
		if _, ok := seen[q.ID]; ok {
			continue
		}
		seen[q.ID] = struct{}{}
		if mark != nil {
			mark(&q)
		}
		dst = append(dst, q)
	}
	return dst
}

func mergeIDs(ids []uint, questions []model.Question) []uint {
	out := make([]uint, 0, len(ids)+len(questions))
	out = append(out, ids...)
	for _, q := range questions {
		out = append(out, q.ID)
	}
	return out
}
