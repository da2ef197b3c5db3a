package service

import (
	"context"
	"testing"
	"time"

	"study_core_backend/internal/model"
	"study_core_backend/internal/repository"
	"study_core_backend/internal/util"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(repo ContentRepository) *SchedulingService {
	s := NewSchedulingService(repo, MaxSessionLimit)
	s.now = func() time.Time { return testNow }
	return s
}

func questionIDs(qs []model.Question) []uint {
	out := make([]uint, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.ID)
	}
	return out
}

func TestFetchQuestions_MaintenanceFillsWithUnseen(t *testing.T) {
	repo := newFakeContentRepo(
		dueQuestion(1, 7, time.Hour),
		dueQuestion(2, 7, 48*time.Hour),
		unseenQuestion(10, 7, 5*time.Hour),
		unseenQuestion(11, 7, 4*time.Hour),
		unseenQuestion(12, 7, 3*time.Hour),
		unseenQuestion(13, 7, 2*time.Hour),
		unseenQuestion(14, 7, time.Hour),
	)
	s := newTestScheduler(repo)

	got, err := s.FetchQuestions(context.Background(), FetchRequest{UserID: 7, Mode: model.ModeMaintenance, Limit: 5})
	require.NoError(t, err)

	// 先到期题目（最早到期在前），再按创建时间补未学题目
	assert.Equal(t, []uint{2, 1, 10, 11, 12}, questionIDs(got))
	assert.Equal(t, 1, repo.calls["FindDueQuestions"])
	assert.Equal(t, 1, repo.calls["FindUnseenQuestions"])

	tier2 := repo.queries["FindUnseenQuestions"][0]
	assert.Equal(t, 3, tier2.Limit)
	assert.ElementsMatch(t, []uint{2, 1}, tier2.ExcludeIDs)
}

func TestFetchQuestions_SkipsTier2WhenDueFillsLimit(t *testing.T) {
	repo := newFakeContentRepo(
		dueQuestion(1, 7, time.Hour),
		dueQuestion(2, 7, 2*time.Hour),
		dueQuestion(3, 7, 3*time.Hour),
		unseenQuestion(10, 7, time.Hour),
	)
	s := newTestScheduler(repo)

	got, err := s.FetchQuestions(context.Background(), FetchRequest{UserID: 7, Mode: model.ModeDeep, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 2}, questionIDs(got))
	assert.Zero(t, repo.calls["FindUnseenQuestions"])
}

func TestFetchQuestions_ExcludesAndDeduplicates(t *testing.T) {
	repo := newFakeContentRepo(
		dueQuestion(1, 7, time.Hour),
		dueQuestion(2, 7, 2*time.Hour),
		unseenQuestion(10, 7, 2*time.Hour),
		unseenQuestion(11, 7, time.Hour),
	)
	s := newTestScheduler(repo)

	got, err := s.FetchQuestions(context.Background(), FetchRequest{
		UserID:     7,
		Mode:       model.ModeCrisis,
		Limit:      10,
		ExcludeIDs: []uint{2, 10},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 11}, questionIDs(got))

	seen := map[uint]bool{}
	for _, q := range got {
		assert.False(t, seen[q.ID], "duplicate question %d", q.ID)
		seen[q.ID] = true
	}
}

func TestFetchQuestions_DuplicateFromRepositoryIsDropped(t *testing.T) {
	repo := newFakeContentRepo(dueQuestion(1, 7, time.Hour))
	// 未学题目查询返回了已经选中的题目
	broken := &overlappingRepo{fakeContentRepo: repo}
	s := newTestScheduler(broken)

	got, err := s.FetchQuestions(context.Background(), FetchRequest{UserID: 7, Mode: model.ModeDeep, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, questionIDs(got))
}

type overlappingRepo struct {
	*fakeContentRepo
}

func (r *overlappingRepo) FindUnseenQuestions(ctx context.Context, q repository.QuestionQuery) ([]model.Question, error) {
	return []model.Question{dueQuestion(1, 7, time.Hour)}, nil
}

func TestFetchQuestions_Validation(t *testing.T) {
	tests := []struct {
		name     string
		req      FetchRequest
		sentinel error
	}{
		{"unknown mode", FetchRequest{Mode: "turbo", Limit: 5}, util.ErrInvalidMode},
		{"empty mode", FetchRequest{Limit: 5}, util.ErrInvalidMode},
		{"limit above max", FetchRequest{Mode: model.ModeDeep, Limit: MaxSessionLimit + 1}, util.ErrLimitExceeded},
		{"review ahead outside cram", FetchRequest{Mode: model.ModeDeep, Limit: 5, ReviewAhead: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeContentRepo()
			s := newTestScheduler(repo)

			got, err := s.FetchQuestions(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, util.IsValidationError(err))
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			}
			assert.Zero(t, repo.totalCalls())
		})
	}
}

func TestFetchQuestions_LimitBoundaries(t *testing.T) {
	repo := newFakeContentRepo(dueQuestion(1, 7, time.Hour))
	s := newTestScheduler(repo)
	ctx := context.Background()

	for _, limit := range []int{0, -3} {
		got, err := s.FetchQuestions(ctx, FetchRequest{UserID: 7, Mode: model.ModeCustom, Limit: limit})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
	assert.Zero(t, repo.totalCalls())

	got, err := s.FetchQuestions(ctx, FetchRequest{UserID: 7, Mode: model.ModeCustom, Limit: MaxSessionLimit})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFetchQuestions_ConfiguredMaxLimit(t *testing.T) {
	s := NewSchedulingService(newFakeContentRepo(), 20)
	_, err := s.FetchQuestions(context.Background(), FetchRequest{Mode: model.ModeDeep, Limit: 21})
	assert.True(t, errors.Is(err, util.ErrLimitExceeded))

	// 超出硬上限的配置按硬上限处理
	s = NewSchedulingService(newFakeContentRepo(), 500)
	assert.Equal(t, MaxSessionLimit, s.maxLimit)
}

func TestFetchQuestions_ModeFilters(t *testing.T) {
	mathID, physicsID := uint(1), uint(2)
	algebra := model.Topic{Name: "algebra"}
	algebra.ID = 100

	qMath := unseenQuestion(10, 7, 3*time.Hour)
	qMath.SubjectID = &mathID
	qMath.Topics = []model.Topic{algebra}
	qPhysics := unseenQuestion(11, 7, 2*time.Hour)
	qPhysics.SubjectID = &physicsID

	tests := []struct {
		mode model.StudyMode
		want []uint
	}{
		{model.ModeCrisis, []uint{10}},
		{model.ModeDeep, []uint{10}},
		{model.ModeCustom, []uint{10}},
		{model.ModeCram, []uint{10}},
		{model.ModeMaintenance, []uint{10, 11}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			s := newTestScheduler(newFakeContentRepo(qMath, qPhysics))
			got, err := s.FetchQuestions(context.Background(), FetchRequest{
				UserID:     7,
				Mode:       tt.mode,
				Limit:      10,
				SubjectIDs: []uint{mathID},
				TopicIDs:   []uint{algebra.ID},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, questionIDs(got))
		})
	}
}

func TestFetchQuestions_CramReviewAhead(t *testing.T) {
	repo := newFakeContentRepo(
		dueQuestion(1, 7, time.Hour),
		unseenQuestion(10, 7, time.Hour),
		upcomingQuestion(20, 7, 48*time.Hour),
		upcomingQuestion(21, 7, 24*time.Hour),
	)
	s := newTestScheduler(repo)
	ctx := context.Background()

	got, err := s.FetchQuestions(ctx, FetchRequest{UserID: 7, Mode: model.ModeCram, Limit: 3, ReviewAhead: true})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 10, 21}, questionIDs(got))
	assert.False(t, got[0].IsReviewAhead)
	assert.False(t, got[1].IsReviewAhead)
	assert.True(t, got[2].IsReviewAhead)

	// 不提前复习时与其他模式一致
	got, err = s.FetchQuestions(ctx, FetchRequest{UserID: 7, Mode: model.ModeCram, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 10}, questionIDs(got))
}

func TestFetchQuestions_RepositoryErrorFailsWholeCall(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		op  string
		req FetchRequest
	}{
		{"FindDueQuestions", FetchRequest{UserID: 7, Mode: model.ModeDeep, Limit: 5}},
		{"FindUnseenQuestions", FetchRequest{UserID: 7, Mode: model.ModeDeep, Limit: 5}},
		{"FindUpcomingQuestions", FetchRequest{UserID: 7, Mode: model.ModeCram, Limit: 5, ReviewAhead: true}},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			// 前面的层级已经选出题目，后面的层级失败也不返回部分结果
			repo := newFakeContentRepo(
				dueQuestion(1, 7, time.Hour),
				unseenQuestion(10, 7, time.Hour),
				upcomingQuestion(20, 7, 24*time.Hour),
			)
			repo.errs[tt.op] = boom
			s := newTestScheduler(repo)

			got, err := s.FetchQuestions(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, boom))
			assert.Equal(t, 1, repo.calls[tt.op])
		})
	}
}

func TestFetchQuestions_DoesNotMutateQuestions(t *testing.T) {
	repo := newFakeContentRepo(dueQuestion(1, 7, time.Hour), unseenQuestion(10, 7, time.Hour))
	s := newTestScheduler(repo)

	_, err := s.FetchQuestions(context.Background(), FetchRequest{UserID: 7, Mode: model.ModeDeep, Limit: 5})
	require.NoError(t, err)
	assert.Zero(t, repo.calls["SaveReviewState"])
	assert.Zero(t, repo.calls["UpdateQuestions"])
	assert.Nil(t, repo.questions[1].LastReviewed)
}

func TestExtendSession(t *testing.T) {
	repo := newFakeContentRepo(
		unseenQuestion(10, 7, 3*time.Hour),
		unseenQuestion(11, 7, 2*time.Hour),
		unseenQuestion(12, 7, time.Hour),
	)
	s := newTestScheduler(repo)
	ctx := context.Background()
	req := FetchRequest{UserID: 7, Mode: model.ModeDeep, Limit: 2}

	first, err := s.FetchQuestions(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 11}, questionIDs(first))

	more, err := s.ExtendSession(ctx, req, questionIDs(first))
	require.NoError(t, err)
	assert.Equal(t, []uint{12}, questionIDs(more))
	assert.Empty(t, req.ExcludeIDs)
}
