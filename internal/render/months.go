package render

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	appLog "sleepviz/internal/log"
	"sleepviz/internal/track"
)

// MonthBoundaries returns the day indices where a new age month starts,
// walking forward from dayZero in calendar months anchored to the birthday
// day-of-month, plus the (possibly reduced) day count after applying the
// maxMonths cap.
//
// Boundary dates come from a monthly recurrence (BYMONTHDAY=birthdayDay), so
// months without that day (say the 31st) are skipped exactly like a
// day-by-day calendar walk would skip them. Each date is converted to a day
// index with the same logical-day arithmetic the bucketizer uses; anything
// else drifts off the pixel grid.
func MonthBoundaries(dayZero time.Time, birthdayDay, numDays, maxMonths, dayStartHour int) (boundaries []int, cappedDays int, err error) {
	if birthdayDay < 1 || birthdayDay > 31 {
		return nil, 0, fmt.Errorf("render: birthday day %d out of range", birthdayDay)
	}
	if numDays <= 0 {
		return nil, numDays, nil
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:       rrule.MONTHLY,
		Bymonthday: []int{birthdayDay},
		Dtstart:    dayZero,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("render: month recurrence: %w", err)
	}

	// Day 0 already carries the "Born" label, so the walk starts one day in.
	after := dayZero.AddDate(0, 0, 1)
	before := dayZero.AddDate(0, 0, numDays-1)
	for _, ts := range r.Between(after, before, true) {
		boundaries = append(boundaries, track.DayIndex(ts, dayZero, dayStartHour))
	}

	cappedDays = numDays
	if len(boundaries) > maxMonths {
		cappedDays = min(numDays, boundaries[maxMonths])
		boundaries = boundaries[:maxMonths]
	}

	appLog.Info("computed month boundaries",
		"count", len(boundaries), "days", cappedDays)
	return boundaries, cappedDays, nil
}

// AgeLabel converts a month ordinal into a label: "Born", "3 mo", "1 yr",
// "1 yr 2 mo".
func AgeLabel(month int) string {
	if month == 0 {
		return "Born"
	}
	years := month / 12
	months := month % 12
	switch {
	case years == 0:
		return fmt.Sprintf("%d mo", months)
	case months == 0:
		return fmt.Sprintf("%d yr", years)
	default:
		return fmt.Sprintf("%d yr %d mo", years, months)
	}
}
