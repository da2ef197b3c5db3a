package service

import (
	"context"
	"fmt"
	"time"

	"study_core_backend/internal/util"
	"study_core_backend/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// streakWindow 计算连续天数时最多读取的记录数
const streakWindow = 366

type ActivityResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Streak  int    `json:"streak"`
}

type ActivityService struct {
	ActivityRepo ActivityRepository
	now          func() time.Time
}

func NewActivityService(activityRepo ActivityRepository) *ActivityService {
	return &ActivityService{ActivityRepo: activityRepo, now: time.Now}
}

// LogStudyActivity 记录当天的学习数量并返回最新的连续学习天数
func (s *ActivityService) LogStudyActivity(ctx context.Context, userID uint, itemsCount int) (*ActivityResult, error) {
	if itemsCount < 1 {
		return nil, util.NewValidationError("itemsCount", "must be at least 1", nil)
	}

	now := s.now()
	day := now.Format(util.DateFormat)
	if err := s.ActivityRepo.Increment(ctx, userID, day, itemsCount); err != nil {
		return nil, errors.Wrap(err, "log study activity")
	}

	streak, err := s.streakAt(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("Study activity logged",
		zap.Uint("userID", userID),
		zap.String("day", day),
		zap.Int("items", itemsCount),
		zap.Int("streak", streak))

	return &ActivityResult{
		Success: true,
		Message: fmt.Sprintf("Logged %d items for %s", itemsCount, day),
		Streak:  streak,
	}, nil
}

// GetStreak 当前连续学习天数
func (s *ActivityService) GetStreak(ctx context.Context, userID uint) (int, error) {
	return s.streakAt(ctx, userID, s.now())
}

func (s *ActivityService) streakAt(ctx context.Context, userID uint, now time.Time) (int, error) {
	logs, err := s.ActivityRepo.ListRecentByUser(ctx, userID, streakWindow)
	if err != nil {
		return 0, errors.Wrap(err, "load activity logs")
	}

	dates := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		d, err := time.ParseInLocation(util.DateFormat, l.Day, now.Location())
		if err != nil {
			logger.Log.Warn("Skip malformed activity day", zap.Uint("userID", userID), zap.String("day", l.Day))
			continue
		}
		dates = append(dates, d)
	}
	return util.CalculateStreak(dates, now), nil
}
