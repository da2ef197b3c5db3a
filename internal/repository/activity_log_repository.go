package repository

import (
	"context"
	"time"

	"study_core_backend/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityLogRepository struct {
	DB *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{DB: db}
}

// Increment 按 (user_id, day) 插入或累加当天的复习数量
func (r *ActivityLogRepository) Increment(ctx context.Context, userID uint, day string, items int) error {
	entry := model.ActivityLog{
		UserID:        userID,
		Day:           day,
		ItemsReviewed: items,
	}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"items_reviewed": gorm.Expr("activity_logs.items_reviewed + ?", items),
			"updated_at":     time.Now(),
		}),
	}).Create(&entry).Error
	return errors.Wrapf(err, "upsert activity log of user %d on %s", userID, day)
}

// ListRecentByUser 按日期倒序返回最近 limit 条
func (r *ActivityLogRepository) ListRecentByUser(ctx context.Context, userID uint, limit int) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog
	tx := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("day DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&logs).Error; err != nil {
		return nil, errors.Wrap(err, "list activity logs")
	}
	return logs, nil
}
