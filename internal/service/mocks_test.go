package service

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"study_core_backend/internal/model"
	"study_core_backend/internal/repository"
	"study_core_backend/internal/util"
	"study_core_backend/pkg/logger"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.InitNop()
	os.Exit(m.Run())
}

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// fakeContentRepo 内存版题库，按真实仓库的语义过滤和排序
type fakeContentRepo struct {
	questions []model.Question
	units     []model.Unit
	calls     map[string]int
	queries   map[string][]repository.QuestionQuery
	errs      map[string]error
	saved     []model.Question
}

func newFakeContentRepo(qs ...model.Question) *fakeContentRepo {
	return &fakeContentRepo{
		questions: qs,
		calls:     map[string]int{},
		queries:   map[string][]repository.QuestionQuery{},
		errs:      map[string]error{},
	}
}

func (f *fakeContentRepo) record(op string, q repository.QuestionQuery) error {
	f.calls[op]++
	f.queries[op] = append(f.queries[op], q)
	return f.errs[op]
}

func (f *fakeContentRepo) totalCalls() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeContentRepo) match(q repository.QuestionQuery, keep func(model.Question) bool) []model.Question {
	excluded := map[uint]bool{}
	for _, id := range q.ExcludeIDs {
		excluded[id] = true
	}
	var out []model.Question
	for _, question := range f.questions {
		if question.UserID != q.UserID || excluded[question.ID] || !keep(question) {
			continue
		}
		if len(q.SubjectIDs) > 0 && (question.SubjectID == nil || !containsID(q.SubjectIDs, *question.SubjectID)) {
			continue
		}
		if len(q.TopicIDs) > 0 && !hasTopic(question, q.TopicIDs) {
			continue
		}
		out = append(out, question)
	}
	return out
}

func limitQuestions(qs []model.Question, limit int) []model.Question {
	if limit > 0 && len(qs) > limit {
		return qs[:limit]
	}
	return qs
}

func (f *fakeContentRepo) FindQuestionByID(ctx context.Context, id uint) (*model.Question, error) {
	f.calls["FindQuestionByID"]++
	for i := range f.questions {
		if f.questions[i].ID == id {
			q := f.questions[i]
			return &q, nil
		}
	}
	return nil, util.NewNotFoundError("question", id)
}

func (f *fakeContentRepo) FindUnitByID(ctx context.Context, id uint) (*model.Unit, error) {
	f.calls["FindUnitByID"]++
	for i := range f.units {
		if f.units[i].ID == id {
			u := f.units[i]
			return &u, nil
		}
	}
	return nil, util.NewNotFoundError("unit", id)
}

func (f *fakeContentRepo) FindDueQuestions(ctx context.Context, q repository.QuestionQuery) ([]model.Question, error) {
	if err := f.record("FindDueQuestions", q); err != nil {
		return nil, err
	}
	out := f.match(q, func(x model.Question) bool { return x.IsDue(q.Now) })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NextReviewDate.Equal(*out[j].NextReviewDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].NextReviewDate.Before(*out[j].NextReviewDate)
	})
	return limitQuestions(out, q.Limit), nil
}

func (f *fakeContentRepo) FindUnseenQuestions(ctx context.Context, q repository.QuestionQuery) ([]model.Question, error) {
	if err := f.record("FindUnseenQuestions", q); err != nil {
		return nil, err
	}
	out := f.match(q, func(x model.Question) bool { return x.IsUnseen() })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return limitQuestions(out, q.Limit), nil
}

func (f *fakeContentRepo) FindUpcomingQuestions(ctx context.Context, q repository.QuestionQuery) ([]model.Question, error) {
	if err := f.record("FindUpcomingQuestions", q); err != nil {
		return nil, err
	}
	out := f.match(q, func(x model.Question) bool { return !x.IsUnseen() && !x.IsDue(q.Now) })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextReviewDate.Before(*out[j].NextReviewDate)
	})
	return limitQuestions(out, q.Limit), nil
}

func (f *fakeContentRepo) CreateQuestions(ctx context.Context, questions []model.Question) error {
	f.calls["CreateQuestions"]++
	if err := f.errs["CreateQuestions"]; err != nil {
		return err
	}
	for i := range questions {
		questions[i].ID = uint(len(f.questions) + 1)
		f.questions = append(f.questions, questions[i])
	}
	return nil
}

func (f *fakeContentRepo) UpdateQuestions(ctx context.Context, userID uint, questions []model.Question) error {
	f.calls["UpdateQuestions"]++
	return f.errs["UpdateQuestions"]
}

func (f *fakeContentRepo) DeleteQuestions(ctx context.Context, userID uint, ids []uint) (int64, error) {
	f.calls["DeleteQuestions"]++
	return int64(len(ids)), f.errs["DeleteQuestions"]
}

func (f *fakeContentRepo) SaveReviewState(ctx context.Context, q *model.Question) error {
	f.calls["SaveReviewState"]++
	if err := f.errs["SaveReviewState"]; err != nil {
		return err
	}
	f.saved = append(f.saved, *q)
	return nil
}

func containsID(ids []uint, id uint) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func hasTopic(q model.Question, topicIDs []uint) bool {
	for _, t := range q.Topics {
		if containsID(topicIDs, t.ID) {
			return true
		}
	}
	return false
}

func dueQuestion(id, user uint, dueAgo time.Duration) model.Question {
	last := testNow.Add(-dueAgo - 72*time.Hour)
	next := testNow.Add(-dueAgo)
	q := model.Question{UserID: user, LastReviewed: &last, NextReviewDate: &next, EaseFactor: 2.5}
	q.ID = id
	q.CreatedAt = testNow.Add(-30 * 24 * time.Hour)
	return q
}

func upcomingQuestion(id, user uint, dueIn time.Duration) model.Question {
	q := dueQuestion(id, user, -dueIn)
	return q
}

func unseenQuestion(id, user uint, createdAgo time.Duration) model.Question {
	q := model.Question{UserID: user, EaseFactor: 2.5}
	q.ID = id
	q.CreatedAt = testNow.Add(-createdAgo)
	return q
}

type MockSimilarityProvider struct {
	mock.Mock
}

func (m *MockSimilarityProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockSimilarityProvider) FindSimilar(ctx context.Context, vector []float32, limit int, threshold float64, sourceID string) ([]model.ChunkMatch, error) {
	args := m.Called(ctx, vector, limit, threshold, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChunkMatch), args.Error(1)
}

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockEmbedder) Model() string {
	return "test-model"
}

// fakeActivityRepo 内存版打卡记录
type fakeActivityRepo struct {
	mu   sync.Mutex
	days map[uint]map[string]int
	err  error
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{days: map[uint]map[string]int{}}
}

func (f *fakeActivityRepo) Increment(ctx context.Context, userID uint, day string, items int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.days[userID] == nil {
		f.days[userID] = map[string]int{}
	}
	f.days[userID][day] += items
	return nil
}

func (f *fakeActivityRepo) ListRecentByUser(ctx context.Context, userID uint, limit int) ([]model.ActivityLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var logs []model.ActivityLog
	for day, items := range f.days[userID] {
		logs = append(logs, model.ActivityLog{UserID: userID, Day: day, ItemsReviewed: items})
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Day > logs[j].Day })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
