package track

import "time"

// Logical-day arithmetic. A "day" runs from dayStartHour to dayStartHour the
// next calendar day, so that an overnight sleep session stays in one visual
// column instead of being split at midnight. The renderer uses the same
// functions for overlay placement; the two sides must never diverge.

// DayBoundary returns the start of the logical day a timestamp belongs to:
// the timestamp's date at dayStartHour, or the previous date's dayStartHour
// when the timestamp falls before it.
func DayBoundary(ts time.Time, dayStartHour int) time.Time {
	b := time.Date(ts.Year(), ts.Month(), ts.Day(), dayStartHour, 0, 0, 0, ts.Location())
	if ts.Hour() < dayStartHour {
		b = b.AddDate(0, 0, -1)
	}
	return b
}

// MinuteOfDay returns whole minutes since the logical day boundary, in
// [0, 1440).
func MinuteOfDay(ts time.Time, dayStartHour int) int {
	return int(ts.Sub(DayBoundary(ts, dayStartHour)).Minutes())
}

// DayIndex returns the number of logical days between zero's boundary and
// ts's boundary. Negative when ts falls before zero. Rounding absorbs DST
// shifts, where a "day" is 23 or 25 wall-clock hours.
func DayIndex(ts, zero time.Time, dayStartHour int) int {
	zb := DayBoundary(zero, dayStartHour)
	tb := DayBoundary(ts, dayStartHour)
	h := tb.Sub(zb).Hours()
	if h < 0 {
		return -int((-h + 12) / 24)
	}
	return int((h + 12) / 24)
}

// BucketIndex returns the bucket a timestamp falls into within its logical
// day.
func BucketIndex(ts time.Time, dayStartHour, bucketMinutes int) int {
	return MinuteOfDay(ts, dayStartHour) / bucketMinutes
}

// MidnightBucket returns the bucket index of midnight within a logical day.
func MidnightBucket(dayStartHour, bucketMinutes int) int {
	bucketsPerDay := 24 * 60 / bucketMinutes
	return ((24 - dayStartHour) % 24) * 60 / bucketMinutes % bucketsPerDay
}
