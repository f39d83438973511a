package model

import (
	"sort"
	"time"
)

// EventType classifies a raw tracking record.
type EventType string

const (
	EventSleep EventType = "sleep"
	EventFeed  EventType = "feed"
	EventMeds  EventType = "meds"
)

// Event is the normalized representation of one tracking record after CSV
// parsing and column/value mapping.
//
// Sleep events are intervals and carry both Start and End. Feed and meds
// events are instantaneous; their End is the zero value. MedName is only set
// for meds events and has already been normalized against the configured
// medication list.
type Event struct {
	Type    EventType
	Start   time.Time
	End     time.Time
	MedName string
}

// HasEnd reports whether the event carries an end timestamp.
func (e Event) HasEnd() bool {
	return !e.End.IsZero()
}

// Key identifies a single cell of the bucket grid.
type Key struct {
	Day    int // logical day index, 0-based from the grid's day zero
	Bucket int // bucket index within the day, [0, BucketsPerDay)
}

// Bucket is one cell of the grid: a fixed-width time slot within a logical
// day, with flags for each event kind and the set of medication names seen in
// that slot.
type Bucket struct {
	Sleep bool
	Feed  bool
	Meds  map[string]bool
}

// WithMed returns a copy of b with name added to the medication set.
func (b Bucket) WithMed(name string) Bucket {
	out := b
	out.Meds = make(map[string]bool, len(b.Meds)+1)
	for n := range b.Meds {
		out.Meds[n] = true
	}
	out.Meds[name] = true
	return out
}

// MedNames returns the medication names of the bucket in sorted order.
func (b Bucket) MedNames() []string {
	if len(b.Meds) == 0 {
		return nil
	}
	names := make([]string, 0, len(b.Meds))
	for n := range b.Meds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merge combines two buckets assigned to the same (day, bucket) cell:
// OR on the sleep/feed flags, set union on medication names. The operation is
// commutative, associative, and idempotent, so the order in which events fold
// into a cell never matters and nothing is ever overwritten.
func Merge(a, b Bucket) Bucket {
	out := Bucket{
		Sleep: a.Sleep || b.Sleep,
		Feed:  a.Feed || b.Feed,
	}
	if len(a.Meds) > 0 || len(b.Meds) > 0 {
		out.Meds = make(map[string]bool, len(a.Meds)+len(b.Meds))
		for n := range a.Meds {
			out.Meds[n] = true
		}
		for n := range b.Meds {
			out.Meds[n] = true
		}
	}
	return out
}

// Grid is the bucketized view of a tracking export: Days logical days of
// BucketsPerDay slots each. Cells are stored sparsely; absent cells are empty
// buckets. Produced by the bucketizer, consumed by the renderer and the
// bucket-CSV writer.
type Grid struct {
	Days          int
	BucketsPerDay int
	BucketMinutes int
	DayStartHour  int

	cells map[Key]Bucket
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(days, dayStartHour, bucketMinutes int) *Grid {
	return &Grid{
		Days:          days,
		BucketsPerDay: 24 * 60 / bucketMinutes,
		BucketMinutes: bucketMinutes,
		DayStartHour:  dayStartHour,
		cells:         make(map[Key]Bucket),
	}
}

// Add folds b into the cell at k via Merge. Cells outside the grid bounds are
// dropped silently; interval walking near the edges of the observed range can
// produce them.
func (g *Grid) Add(k Key, b Bucket) {
	if k.Day < 0 || k.Day >= g.Days || k.Bucket < 0 || k.Bucket >= g.BucketsPerDay {
		return
	}
	g.cells[k] = Merge(g.cells[k], b)
}

// At returns the cell at (day, bucket); absent cells read as empty buckets.
func (g *Grid) At(day, bucket int) Bucket {
	return g.cells[Key{Day: day, Bucket: bucket}]
}

// MarkedCells returns the number of non-empty cells.
func (g *Grid) MarkedCells() int {
	return len(g.cells)
}

// PresentMeds returns the sorted set of medication names appearing anywhere
// in the grid.
func (g *Grid) PresentMeds() []string {
	seen := make(map[string]bool)
	for _, cell := range g.cells {
		for n := range cell.Meds {
			seen[n] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Truncate drops all cells at or beyond the given day count.
func (g *Grid) Truncate(days int) {
	if days >= g.Days {
		return
	}
	for k := range g.cells {
		if k.Day >= days {
			delete(g.cells, k)
		}
	}
	g.Days = days
}
