package track

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "sleepviz/internal/log"
	"sleepviz/internal/model"
)

// ICS export of sleep sessions. Dropping the generated file into a calendar
// app lays the baby's sleep over the parents' own schedule; feed and meds
// events are instantaneous and far too dense to be useful there, so only
// sleep intervals are exported.

// WriteSleepICSFile writes all sleep intervals in events to path as an
// iCalendar file.
func WriteSleepICSFile(path string, events []model.Event) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("track: create %s: %w", path, err)
	}
	defer f.Close()

	n, err := WriteSleepICS(f, events)
	if err != nil {
		return fmt.Errorf("track: write %s: %w", path, err)
	}
	appLog.Info("saved sleep calendar", "path", path, "events", n)
	return nil
}

// WriteSleepICS serializes sleep intervals as VEVENTs and reports how many
// were written.
func WriteSleepICS(w io.Writer, events []model.Event) (int, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//sleepviz//sleep export//EN")
	cal.SetCalscale("GREGORIAN")

	now := time.Now()
	n := 0
	for _, ev := range events {
		if ev.Type != model.EventSleep || !ev.HasEnd() {
			continue
		}
		uid := fmt.Sprintf("sleep-%s@sleepviz", ev.Start.Format("20060102T150405"))
		ve := cal.AddEvent(uid)
		ve.SetDtStampTime(now)
		ve.SetStartAt(ev.Start)
		ve.SetEndAt(ev.End)
		ve.SetSummary("Sleep")
		n++
	}

	return n, cal.SerializeTo(w)
}
