package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateStreak(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2024, 3, 15+offset, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"empty", nil, 0},
		{"today only", []time.Time{day(0, 9)}, 1},
		{"yesterday only", []time.Time{day(-1, 22)}, 1},
		{"three consecutive days", []time.Time{day(0, 8), day(-1, 8), day(-2, 8)}, 3},
		{"gap after today", []time.Time{day(0, 8), day(-3, 8)}, 1},
		{"last activity two days ago", []time.Time{day(-2, 23), day(-3, 8)}, 0},
		{"last activity three days ago", []time.Time{day(-3, 8), day(-4, 8), day(-5, 8)}, 0},
		{"same day duplicates", []time.Time{day(0, 20), day(0, 9), day(-1, 18), day(-1, 7), day(-2, 12)}, 3},
		{"streak anchored at yesterday", []time.Time{day(-1, 8), day(-2, 8), day(-3, 8), day(-5, 8)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStreak(tt.dates, now))
		})
	}
}

func TestCalculateStreak_UsesLocationOfNow(t *testing.T) {
	shanghai := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, shanghai)

	// 2024-03-14 20:00 UTC 在东八区已经是 15 号
	dates := []time.Time{
		time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 14, 1, 0, 0, 0, shanghai),
	}

	assert.Equal(t, 2, CalculateStreak(dates, now))
}

func TestCalculateStreak_DoesNotMutateInput(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	dates := []time.Time{now, now.AddDate(0, 0, -1)}
	snapshot := append([]time.Time(nil), dates...)

	CalculateStreak(dates, now)

	assert.Equal(t, snapshot, dates)
}
