package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleepviz/internal/track"
)

func day(y int, m time.Month, d int) time.Time {
	// Day-zero dates carry the day start hour, like the CLI builds them.
	return time.Date(y, m, d, 7, 0, 0, 0, time.UTC)
}

func TestMonthBoundaries(t *testing.T) {
	dayZero := day(2024, 1, 15)

	t.Run("one boundary per calendar month", func(t *testing.T) {
		boundaries, days, err := MonthBoundaries(dayZero, 15, 100, 24, 7)
		require.NoError(t, err)

		// Feb 15, Mar 15 (leap year), Apr 15.
		assert.Equal(t, []int{31, 60, 91}, boundaries)
		assert.Equal(t, 100, days)
	})

	t.Run("day zero itself is not a boundary", func(t *testing.T) {
		boundaries, _, err := MonthBoundaries(dayZero, 15, 31, 24, 7)
		require.NoError(t, err)
		assert.Empty(t, boundaries)
	})

	t.Run("cap drops boundaries and trailing days", func(t *testing.T) {
		boundaries, days, err := MonthBoundaries(dayZero, 15, 100, 2, 7)
		require.NoError(t, err)

		assert.Equal(t, []int{31, 60}, boundaries)
		assert.Equal(t, 91, days, "days past the third boundary are dropped")
	})

	t.Run("months without the anchor day are skipped", func(t *testing.T) {
		boundaries, _, err := MonthBoundaries(day(2024, 1, 31), 31, 130, 24, 7)
		require.NoError(t, err)

		// Feb 2024 has no 31st; next boundaries are Mar 31 and May 31.
		require.NotEmpty(t, boundaries)
		assert.Equal(t, 60, boundaries[0])
		assert.Equal(t, 121, boundaries[1])
	})

	t.Run("indices agree with bucketizer day arithmetic", func(t *testing.T) {
		boundaries, _, err := MonthBoundaries(dayZero, 15, 100, 24, 7)
		require.NoError(t, err)

		want := []int{
			track.DayIndex(day(2024, 2, 15), dayZero, 7),
			track.DayIndex(day(2024, 3, 15), dayZero, 7),
			track.DayIndex(day(2024, 4, 15), dayZero, 7),
		}
		assert.Equal(t, want, boundaries)
	})

	t.Run("bad birthday day", func(t *testing.T) {
		_, _, err := MonthBoundaries(dayZero, 0, 100, 24, 7)
		assert.Error(t, err)
	})
}

func TestAgeLabel(t *testing.T) {
	cases := []struct {
		month int
		want  string
	}{
		{0, "Born"},
		{1, "1 mo"},
		{11, "11 mo"},
		{12, "1 yr"},
		{14, "1 yr 2 mo"},
		{24, "2 yr"},
		{30, "2 yr 6 mo"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, AgeLabel(tc.month))
		})
	}
}
