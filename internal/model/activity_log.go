package model

import "time"

// ActivityLog 每个用户每天最多一条，当天多次学习累加 ItemsReviewed
// swagger:model ActivityLog
type ActivityLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_activity_user_day" json:"userId"`
	Day           string    `gorm:"size:10;not null;uniqueIndex:idx_activity_user_day" json:"day"`
	ItemsReviewed int       `gorm:"not null;default:0" json:"itemsReviewed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
