package service

import (
	"context"
	"math"
	"time"

	"study_core_backend/internal/model"
	"study_core_backend/internal/util"
	"study_core_backend/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	minEaseFactor     = 1.3
	defaultEaseFactor = 2.5
	passingQuality    = 3
)

// ReviewResult 评分后的复习状态
type ReviewResult struct {
	QuestionID     uint      `json:"questionId"`
	Quality        int       `json:"quality"`
	EaseFactor     float64   `json:"easeFactor"`
	IntervalDays   int       `json:"intervalDays"`
	Repetitions    int       `json:"repetitions"`
	NextReviewDate time.Time `json:"nextReviewDate"`
}

type ReviewService struct {
	ContentRepo     ContentRepository
	ActivityService *ActivityService
	now             func() time.Time
}

func NewReviewService(contentRepo ContentRepository, activityService *ActivityService) *ReviewService {
	return &ReviewService{
		ContentRepo:     contentRepo,
		ActivityService: activityService,
		now:             time.Now,
	}
}

// RecordReview 按 SM-2 算法更新题目的复习间隔，quality 取值 0..5
func (s *ReviewService) RecordReview(ctx context.Context, userID, questionID uint, quality int) (*ReviewResult, error) {
	if quality < 0 || quality > 5 {
		return nil, util.NewValidationError("quality", util.ErrInvalidQuality.Error(), util.ErrInvalidQuality)
	}

	q, err := s.ContentRepo.FindQuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.UserID != userID {
		return nil, util.NewNotFoundError("question", questionID)
	}

	now := s.now()
	applySM2(q, quality, now)

	if err := s.ContentRepo.SaveReviewState(ctx, q); err != nil {
		return nil, errors.Wrap(err, "record review")
	}

	if s.ActivityService != nil {
		if _, err := s.ActivityService.LogStudyActivity(ctx, userID, 1); err != nil {
			logger.Log.Warn("Failed to log review activity",
				zap.Uint("userID", userID),
				zap.Uint("questionID", questionID),
				zap.Error(err))
		}
	}

	return &ReviewResult{
		QuestionID:     q.ID,
		Quality:        quality,
		EaseFactor:     q.EaseFactor,
		IntervalDays:   q.IntervalDays,
		Repetitions:    q.Repetitions,
		NextReviewDate: *q.NextReviewDate,
	}, nil
}

// applySM2 原地更新复习状态
func applySM2(q *model.Question, quality int, now time.Time) {
	ef := q.EaseFactor
	if ef == 0 {
		ef = defaultEaseFactor
	}

	if quality < passingQuality {
		q.Repetitions = 0
		q.IntervalDays = 1
	} else {
		switch q.Repetitions {
		case 0:
			q.IntervalDays = 1
		case 1:
			q.IntervalDays = 6
		default:
			q.IntervalDays = int(math.Round(float64(q.IntervalDays) * ef))
		}
		q.Repetitions++
	}

	diff := float64(5 - quality)
	ef += 0.1 - diff*(0.08+diff*0.02)
	if ef < minEaseFactor {
		ef = minEaseFactor
	}
	q.EaseFactor = ef

	last := now
	next := now.AddDate(0, 0, q.IntervalDays)
	q.LastReviewed = &last
	q.NextReviewDate = &next
}
