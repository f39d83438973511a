package track

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"sleepviz/internal/config"
	appLog "sleepviz/internal/log"
	"sleepviz/internal/model"
)

// timestampLayouts are tried in order when parsing the start/end columns.
// Huckleberry exports minute-resolution local times; the rest cover other
// apps and hand-edited files.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006 15:04",
}

// ParseResult is the outcome of reading one export file.
type ParseResult struct {
	Events []model.Event
	// Skipped counts rows dropped for a missing or unparseable required
	// timestamp. Reported, not fatal.
	Skipped int
}

// ParseFile reads a tracking-app CSV export and returns normalized events.
func ParseFile(path string, cfg *config.Config) (ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("track: open %s: %w", path, err)
	}
	defer f.Close()

	res, err := Parse(f, cfg)
	if err != nil {
		return res, fmt.Errorf("track: parse %s: %w", path, err)
	}
	return res, nil
}

// Parse reads CSV rows from r, maps columns and type values through cfg, and
// returns events. Rows that fail to parse a required timestamp are skipped
// with a warning; a malformed header or unreadable stream is an error.
func Parse(r io.Reader, cfg *config.Config) (ParseResult, error) {
	var res ParseResult

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tracking apps pad trailing columns inconsistently

	header, err := cr.Read()
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	typeIdx, ok := col[cfg.Columns.Type]
	if !ok {
		return res, fmt.Errorf("missing column %q", cfg.Columns.Type)
	}
	startIdx, ok := col[cfg.Columns.Start]
	if !ok {
		return res, fmt.Errorf("missing column %q", cfg.Columns.Start)
	}
	endIdx, hasEndCol := col[cfg.Columns.End]
	medIdx, hasMedCol := col[cfg.MedNameColumn]

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			appLog.Warn("skipping unreadable row", "line", line, "err", err)
			res.Skipped++
			continue
		}

		rawType := strings.TrimSpace(field(row, typeIdx))
		var typ model.EventType
		switch rawType {
		case cfg.EventTypes.Sleep:
			typ = model.EventSleep
		case cfg.EventTypes.Feed:
			typ = model.EventFeed
		case cfg.EventTypes.Meds:
			typ = model.EventMeds
		default:
			// Exports carry other record kinds (diaper, pump, ...); not ours.
			continue
		}

		start, ok := parseTimestamp(field(row, startIdx))
		if !ok {
			appLog.Warn("skipping row with bad start timestamp",
				"line", line, "type", rawType, "start", field(row, startIdx))
			res.Skipped++
			continue
		}

		ev := model.Event{Type: typ, Start: start}

		switch typ {
		case model.EventSleep:
			// Sleep is an interval; without an end there is nothing to mark.
			raw := ""
			if hasEndCol {
				raw = field(row, endIdx)
			}
			end, ok := parseTimestamp(raw)
			if !ok {
				appLog.Warn("skipping sleep row without end timestamp", "line", line)
				res.Skipped++
				continue
			}
			if end.Before(start) {
				appLog.Warn("skipping sleep row with end before start",
					"line", line, "start", start, "end", end)
				res.Skipped++
				continue
			}
			ev.End = end

		case model.EventMeds:
			raw := ""
			if hasMedCol {
				raw = field(row, medIdx)
			}
			ev.MedName = NormalizeMedName(raw, cfg)
		}

		res.Events = append(res.Events, ev)
	}

	appLog.Info("parsed tracking export",
		"events", len(res.Events), "skipped", res.Skipped)
	return res, nil
}

// NormalizeMedName maps a raw medication-name cell to a canonical name:
// configured substring aliases first, then the known-medication list, then
// "Other".
func NormalizeMedName(raw string, cfg *config.Config) string {
	name := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	if name == "" {
		return "Other"
	}

	lower := strings.ToLower(name)
	for sub, canonical := range cfg.MedicationAliases {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return canonical
		}
	}
	for _, known := range cfg.MedicationTypes {
		if name == known {
			return known
		}
	}
	return "Other"
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
