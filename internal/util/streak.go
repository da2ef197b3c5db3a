package util

import "time"

// StartOfDay 返回 t 在 loc 时区下当天零点
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// CalculateStreak 计算连续学习天数
// dates 必须按时间倒序排列，函数内部不排序。最近一次活动早于昨天时连续记录已中断，返回 0。
func CalculateStreak(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	loc := now.Location()
	yesterday := StartOfDay(now, loc).AddDate(0, 0, -1)

	cursor := StartOfDay(dates[0], loc)
	if cursor.Before(yesterday) {
		return 0
	}

	streak := 1
	for _, d := range dates[1:] {
		day := StartOfDay(d, loc)
		if day.Equal(cursor) {
			continue
		}
		if !day.Equal(cursor.AddDate(0, 0, -1)) {
			break
		}
		streak++
		cursor = day
	}

	return streak
}
