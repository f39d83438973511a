package track

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	appLog "sleepviz/internal/log"
	"sleepviz/internal/model"
)

// Intermediate bucket CSV. The schema is deliberately independent of any
// source app's export format so render-only runs can consume it directly:
//
//	day,bucket,sleep,feed,meds
//
// One row per (day, bucket) cell over the whole grid, flags as 0/1, meds as
// semicolon-joined names.

var bucketHeader = []string{"day", "bucket", "sleep", "feed", "meds"}

// WriteGridFile writes the grid to path, creating parent directories.
func WriteGridFile(path string, grid *model.Grid) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("track: create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteGrid(f, grid); err != nil {
		return fmt.Errorf("track: write %s: %w", path, err)
	}
	appLog.Info("saved bucket data", "path", path,
		"days", grid.Days, "rows", grid.Days*grid.BucketsPerDay)
	return nil
}

// WriteGrid writes all cells of the grid, dense, ordered by (day, bucket).
func WriteGrid(w io.Writer, grid *model.Grid) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bucketHeader); err != nil {
		return err
	}

	for day := 0; day < grid.Days; day++ {
		for bucket := 0; bucket < grid.BucketsPerDay; bucket++ {
			cell := grid.At(day, bucket)
			row := []string{
				strconv.Itoa(day),
				strconv.Itoa(bucket),
				flag(cell.Sleep),
				flag(cell.Feed),
				strings.Join(cell.MedNames(), ";"),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadGridFile loads a bucket CSV produced by WriteGrid. dayStartHour and
// bucketMinutes are not stored in the file; the caller supplies the values it
// will render with, and the file's bucket indices are checked against them.
func ReadGridFile(path string, opts Options) (*model.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("track: open %s: %w", path, err)
	}
	defer f.Close()

	grid, err := ReadGrid(f, opts)
	if err != nil {
		return nil, fmt.Errorf("track: read %s: %w", path, err)
	}
	return grid, nil
}

// ReadGrid parses bucket CSV rows into a grid.
func ReadGrid(r io.Reader, opts Options) (*model.Grid, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < len(bucketHeader) || header[0] != "day" || header[1] != "bucket" {
		return nil, fmt.Errorf("unexpected header %v, want %v", header, bucketHeader)
	}

	bucketsPerDay := 24 * 60 / opts.BucketMinutes

	type cell struct {
		key model.Key
		b   model.Bucket
	}
	var cells []cell
	days := 0

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		day, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad day %q", line, row[0])
		}
		bucket, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad bucket %q", line, row[1])
		}
		if bucket < 0 || bucket >= bucketsPerDay {
			return nil, fmt.Errorf("line %d: bucket %d out of range for %d-minute buckets",
				line, bucket, opts.BucketMinutes)
		}
		if day >= days {
			days = day + 1
		}

		b := model.Bucket{
			Sleep: row[2] == "1",
			Feed:  row[3] == "1",
		}
		if meds := strings.TrimSpace(row[4]); meds != "" {
			for _, name := range strings.Split(meds, ";") {
				b = b.WithMed(name)
			}
		}
		if b.Sleep || b.Feed || len(b.Meds) > 0 {
			cells = append(cells, cell{
				key: model.Key{Day: day, Bucket: bucket},
				b:   b,
			})
		}
	}

	if days == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	grid := model.NewGrid(days, opts.DayStartHour, opts.BucketMinutes)
	for _, c := range cells {
		grid.Add(c.key, c.b)
	}
	return grid, nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
