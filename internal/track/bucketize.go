package track

import (
	"errors"
	"time"

	appLog "sleepviz/internal/log"
	"sleepviz/internal/model"
)

// Options control the bucketizing transform.
type Options struct {
	// DayStartHour is the wall-clock hour that opens each logical day.
	DayStartHour int
	// BucketMinutes is the bucket width; must divide 24*60.
	BucketMinutes int
}

// DefaultOptions matches the tool's defaults: 7:00 day start, 5-minute
// buckets (288 per day).
func DefaultOptions() Options {
	return Options{DayStartHour: 7, BucketMinutes: 5}
}

func (o Options) validate() error {
	if o.DayStartHour < 0 || o.DayStartHour > 23 {
		return errors.New("track: day start hour out of range")
	}
	if o.BucketMinutes <= 0 || (24*60)%o.BucketMinutes != 0 {
		return errors.New("track: bucket minutes must divide a day")
	}
	return nil
}

// Bucketize folds events into a grid spanning the full observed range. Day 0
// is the logical day of the earliest event; the grid extends through the
// logical day of the latest start or end.
//
// Interval events (sleep) mark every bucket they overlap, walking in
// bucket-width steps from the floored start while still before the end, so an
// interval spanning a day boundary marks buckets on both days. An interval
// longer than 24h simply keeps walking and marks buckets on every day it
// crosses. Point events (feed, meds) mark the single bucket containing their
// start; meds also record the medication name. Cells combine via model.Merge,
// never by overwrite.
func Bucketize(events []model.Event, opts Options) (*model.Grid, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, errors.New("track: no events to bucketize")
	}

	zero, last := observedRange(events, opts.DayStartHour)
	days := DayIndex(last, zero, opts.DayStartHour) + 1

	grid := model.NewGrid(days, opts.DayStartHour, opts.BucketMinutes)

	for _, ev := range events {
		switch ev.Type {
		case model.EventSleep:
			markInterval(grid, zero, ev.Start, ev.End, opts)
		case model.EventFeed:
			grid.Add(cellOf(ev.Start, zero, opts), model.Bucket{Feed: true})
		case model.EventMeds:
			grid.Add(cellOf(ev.Start, zero, opts), model.Bucket{}.WithMed(ev.MedName))
		}
	}

	appLog.Info("bucketized events",
		"days", grid.Days,
		"buckets_per_day", grid.BucketsPerDay,
		"marked_cells", grid.MarkedCells(),
	)
	return grid, nil
}

// observedRange returns the earliest boundary timestamp (grid day zero) and
// the latest timestamp seen across all starts and ends.
func observedRange(events []model.Event, dayStartHour int) (zero, last time.Time) {
	for _, ev := range events {
		b := DayBoundary(ev.Start, dayStartHour)
		if zero.IsZero() || b.Before(zero) {
			zero = b
		}
		end := ev.Start
		if ev.HasEnd() {
			end = ev.End
		}
		if end.After(last) {
			last = end
		}
	}
	return zero, last
}

// markInterval marks every bucket overlapped by [start, end) as sleep. The
// walk starts at the bucket boundary at or before start and advances one
// bucket width at a time; a bucket is overlapped as long as its own start is
// strictly before the interval end.
func markInterval(grid *model.Grid, zero, start, end time.Time, opts Options) {
	cur := floorToBucket(start, opts.BucketMinutes)
	step := time.Duration(opts.BucketMinutes) * time.Minute
	for cur.Before(end) {
		grid.Add(cellOf(cur, zero, opts), model.Bucket{Sleep: true})
		cur = cur.Add(step)
	}
}

func cellOf(ts, zero time.Time, opts Options) model.Key {
	return model.Key{
		Day:    DayIndex(ts, zero, opts.DayStartHour),
		Bucket: BucketIndex(ts, opts.DayStartHour, opts.BucketMinutes),
	}
}

func floorToBucket(ts time.Time, bucketMinutes int) time.Time {
	ts = ts.Truncate(time.Minute)
	return ts.Add(-time.Duration(ts.Minute()%bucketMinutes) * time.Minute)
}
