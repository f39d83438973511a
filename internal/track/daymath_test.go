package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestDayBoundary(t *testing.T) {
	cases := []struct {
		name string
		ts   time.Time
		hour int
		want time.Time
	}{
		{"morning after boundary", at(2024, 1, 15, 9, 30), 7, at(2024, 1, 15, 7, 0)},
		{"morning before boundary", at(2024, 1, 15, 5, 30), 7, at(2024, 1, 14, 7, 0)},
		{"exactly at boundary", at(2024, 1, 15, 7, 0), 7, at(2024, 1, 15, 7, 0)},
		{"midnight", at(2024, 1, 15, 0, 0), 7, at(2024, 1, 14, 7, 0)},
		{"late evening", at(2024, 1, 15, 23, 59), 7, at(2024, 1, 15, 7, 0)},
		{"custom day start", at(2024, 1, 15, 8, 30), 9, at(2024, 1, 14, 9, 0)},
		{"year boundary", at(2024, 1, 1, 3, 0), 7, at(2023, 12, 31, 7, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DayBoundary(tc.ts, tc.hour))
		})
	}
}

func TestMinuteOfDay(t *testing.T) {
	cases := []struct {
		name string
		ts   time.Time
		want int
	}{
		{"at boundary", at(2024, 1, 15, 7, 0), 0},
		{"one hour after", at(2024, 1, 15, 8, 0), 60},
		{"midnight", at(2024, 1, 15, 0, 0), 17 * 60},
		{"just before boundary", at(2024, 1, 15, 6, 55), 23*60 + 55},
		{"partial hour", at(2024, 1, 15, 9, 30), 2*60 + 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MinuteOfDay(tc.ts, 7))
		})
	}
}

func TestDayIndex(t *testing.T) {
	zero := at(2024, 1, 15, 7, 0)

	t.Run("same logical day", func(t *testing.T) {
		assert.Equal(t, 0, DayIndex(at(2024, 1, 15, 23, 0), zero, 7))
		assert.Equal(t, 0, DayIndex(at(2024, 1, 16, 3, 0), zero, 7))
	})

	t.Run("next logical day starts at boundary", func(t *testing.T) {
		assert.Equal(t, 1, DayIndex(at(2024, 1, 16, 7, 0), zero, 7))
	})

	t.Run("weeks later", func(t *testing.T) {
		assert.Equal(t, 31, DayIndex(at(2024, 2, 15, 12, 0), zero, 7))
	})

	t.Run("before zero is negative", func(t *testing.T) {
		assert.Equal(t, -1, DayIndex(at(2024, 1, 14, 12, 0), zero, 7))
	})
}

func TestBucketIndex(t *testing.T) {
	assert.Equal(t, 0, BucketIndex(at(2024, 1, 15, 7, 0), 7, 5))
	assert.Equal(t, 0, BucketIndex(at(2024, 1, 15, 7, 4), 7, 5))
	assert.Equal(t, 1, BucketIndex(at(2024, 1, 15, 7, 5), 7, 5))
	assert.Equal(t, 287, BucketIndex(at(2024, 1, 15, 6, 59), 7, 5))
}

func TestMidnightBucket(t *testing.T) {
	// 17 hours after a 7:00 day start.
	assert.Equal(t, 204, MidnightBucket(7, 5))
	// Day starting at midnight wraps to bucket 0.
	assert.Equal(t, 0, MidnightBucket(0, 5))
	// Hour-wide buckets.
	assert.Equal(t, 17, MidnightBucket(7, 60))
}
