package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	appLog "sleepviz/internal/log"
)

// newSampleCmd builds the sample-data generator: synthetic but plausible
// Huckleberry-format records, with sleep consolidating and feeds thinning out
// as the simulated baby ages. Useful for trying the tool without a real
// export.
func newSampleCmd() *cobra.Command {
	var (
		days      int
		startDate string
		seed      int64
		output    string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate synthetic tracking data in Huckleberry format",
		Example: `  sleepviz sample --days 90 --start-date 2024-01-15 -o local/sample.csv
  sleepviz local/sample.csv --day-zero 2024-01-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
			if err != nil {
				return fmt.Errorf("bad --start-date %q: want YYYY-MM-DD", startDate)
			}
			return writeSampleCSV(output, start, days, seed)
		},
		SilenceUsage: true,
	}

	fs := cmd.Flags()
	fs.IntVar(&days, "days", 90, "Number of days of data to generate")
	fs.StringVar(&startDate, "start-date", "2024-01-01", "First day, YYYY-MM-DD")
	fs.Int64Var(&seed, "seed", 42, "Random seed")
	fs.StringVarP(&output, "output", "o", "local/sample_huckleberry.csv", "Output CSV path")
	return cmd
}

// sampleRecord is one synthetic export row.
type sampleRecord struct {
	typ      string
	start    time.Time
	end      time.Time // zero for point events
	location string    // Huckleberry's med-name column
}

func writeSampleCSV(path string, start time.Time, days int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	var records []sampleRecord
	records = append(records, sampleSleep(rng, start, days)...)
	records = append(records, sampleFeeds(rng, start, days)...)
	records = append(records, sampleMeds(rng, start, days)...)

	// Newest first, like a real Huckleberry export.
	sort.Slice(records, func(i, j int) bool {
		return records[i].start.After(records[j].start)
	})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"Type", "Start", "End", "Duration", "Start Conditions", "Start Location", "End Conditions", "Notes"}
	if err := w.Write(header); err != nil {
		return err
	}
	const layout = "2006-01-02 15:04"
	counts := map[string]int{}
	for _, r := range records {
		end, duration := "", ""
		if !r.end.IsZero() {
			end = r.end.Format(layout)
			mins := int(r.end.Sub(r.start).Minutes())
			duration = fmt.Sprintf("%d:%02d", mins/60, mins%60)
		}
		row := []string{r.typ, r.start.Format(layout), end, duration, "", r.location, "", ""}
		if err := w.Write(row); err != nil {
			return err
		}
		counts[r.typ]++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	appLog.Info("generated sample data", "path", path, "days", days,
		"sleep", counts["sleep"], "feed", counts["feed"], "meds", counts["meds"])
	return nil
}

// sampleSleep generates naps plus segmented night sleep. The pattern shifts
// with age: newborns take many short naps with frequent night wakings,
// toddlers take one or two naps and sleep through.
func sampleSleep(rng *rand.Rand, start time.Time, days int) []sampleRecord {
	var out []sampleRecord

	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		ageMonths := float64(day) / 30

		var naps, wakings int
		var napMin, napMax, stretchMin, stretchMax int
		switch {
		case ageMonths < 3:
			naps, wakings = 4+rng.Intn(3), 2+rng.Intn(3)
			napMin, napMax, stretchMin, stretchMax = 30, 120, 90, 180
		case ageMonths < 6:
			naps, wakings = 3+rng.Intn(2), 1+rng.Intn(3)
			napMin, napMax, stretchMin, stretchMax = 45, 150, 180, 300
		case ageMonths < 12:
			naps, wakings = 2+rng.Intn(2), rng.Intn(3)
			napMin, napMax, stretchMin, stretchMax = 60, 180, 300, 480
		default:
			naps, wakings = 1+rng.Intn(2), rng.Intn(2)
			napMin, napMax, stretchMin, stretchMax = 60, 150, 480, 660
		}

		// Daytime naps between 8:00 and 18:00.
		for i := 0; i < naps; i++ {
			napStart := date.Add(time.Duration((8+rng.Intn(10))*60+rng.Intn(60)) * time.Minute)
			napEnd := napStart.Add(time.Duration(napMin+rng.Intn(napMax-napMin+1)) * time.Minute)
			out = append(out, sampleRecord{typ: "sleep", start: napStart, end: napEnd})
		}

		// Night sleep: bedtime 18-20h, final wake 6-8h next day, broken into
		// stretches by brief wakings.
		bedtime := date.Add(time.Duration((18+rng.Intn(3))*60+rng.Intn(60)) * time.Minute)
		finalWake := date.AddDate(0, 0, 1).Add(time.Duration((6+rng.Intn(3))*60+rng.Intn(60)) * time.Minute)

		cur := bedtime
		for i := 0; i <= wakings; i++ {
			var end time.Time
			if i < wakings {
				remaining := int(finalWake.Sub(cur).Minutes())
				if remaining <= 0 {
					break
				}
				stretch := stretchMin + rng.Intn(stretchMax-stretchMin+1)
				if limit := remaining * 8 / 10; stretch > limit {
					stretch = limit
				}
				end = cur.Add(time.Duration(stretch) * time.Minute)
			} else {
				end = finalWake
			}
			if end.After(cur) {
				out = append(out, sampleRecord{typ: "sleep", start: cur, end: end})
			}
			if i < wakings {
				cur = end.Add(time.Duration(10+rng.Intn(21)) * time.Minute)
			}
		}
	}
	return out
}

// sampleFeeds generates point feed events whose daily count drops with age.
func sampleFeeds(rng *rand.Rand, start time.Time, days int) []sampleRecord {
	var out []sampleRecord
	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		ageMonths := float64(day) / 30

		var feeds int
		switch {
		case ageMonths < 3:
			feeds = 8 + rng.Intn(5)
		case ageMonths < 6:
			feeds = 6 + rng.Intn(3)
		case ageMonths < 12:
			feeds = 5 + rng.Intn(3)
		default:
			feeds = 4 + rng.Intn(3)
		}

		for i := 0; i < feeds; i++ {
			ts := date.Add(time.Duration(rng.Intn(24)*60+rng.Intn(60)) * time.Minute)
			out = append(out, sampleRecord{typ: "feed", start: ts})
		}
	}
	return out
}

// sampleMeds generates a near-daily vitamin plus occasional other
// medications.
func sampleMeds(rng *rand.Rand, start time.Time, days int) []sampleRecord {
	var out []sampleRecord
	occasional := []string{"Tylenol", "Gas Relief Drops", "Gripe Water"}

	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)

		if rng.Float64() < 0.9 {
			ts := date.Add(time.Duration((8+rng.Intn(3))*60+rng.Intn(60)) * time.Minute)
			out = append(out, sampleRecord{typ: "meds", start: ts, end: ts, location: "Vitamin D"})
		}
		for _, med := range occasional {
			if rng.Float64() < 0.05 {
				ts := date.Add(time.Duration((8+rng.Intn(13))*60+rng.Intn(60)) * time.Minute)
				out = append(out, sampleRecord{typ: "meds", start: ts, end: ts, location: med})
			}
		}
	}
	return out
}
