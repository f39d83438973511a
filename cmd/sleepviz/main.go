package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"sleepviz/internal/config"
	appLog "sleepviz/internal/log"
	"sleepviz/internal/render"
	"sleepviz/internal/track"
)

// rootFlags holds the flag values of the combined parse+render command.
type rootFlags struct {
	output      string
	configPath  string
	dayZero     string
	birthdayDay int
	maxMonths   int
	dayStart    int
	bucketMin   int
	saveBuckets string
	saveICS     string
	scale       int
	refresh     string
}

func main() {
	// Root context with cancellation on SIGINT/SIGTERM; only the --refresh
	// loop ever blocks on it, one-shot runs finish on their own.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		appLog.Error("sleepviz failed", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "sleepviz <export.csv>",
		Short: "Render a baby-tracking CSV export as a sleep heatmap",
		Long: `sleepviz converts a baby-tracking app CSV export (e.g. Huckleberry) into a
time-bucketed grid and renders it as a heatmap PNG: one column per day, one
row per time bucket, colored by sleep, feeding, and medication events.

The day-zero date anchors day 0 of the image and is usually the birthday.`,
		Example: `  sleepviz local/export.csv --day-zero 2024-01-15 -o sleep_patterns.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd.Context(), args[0], flags)
		},
		SilenceUsage: true,
	}

	fs := root.Flags()
	fs.StringVarP(&flags.output, "output", "o", "local/heatmap.png", "Output PNG path")
	fs.StringVarP(&flags.configPath, "config", "c", "configs/huckleberry.yaml", "Data source config path")
	fs.StringVar(&flags.dayZero, "day-zero", "", "Calendar date of day 0, YYYY-MM-DD (usually the birthday)")
	fs.IntVar(&flags.birthdayDay, "birthday-day", 1, "Day of month anchoring month boundaries")
	fs.IntVar(&flags.maxMonths, "max-months", 24, "Maximum months to display")
	fs.IntVar(&flags.dayStart, "day-start-hour", 7, "Hour that starts each day")
	fs.IntVar(&flags.bucketMin, "bucket-minutes", 5, "Bucket width in minutes")
	fs.StringVar(&flags.saveBuckets, "save-buckets", "", "Also save intermediate bucket CSV here")
	fs.StringVar(&flags.saveICS, "save-ics", "", "Also save sleep sessions as an iCalendar file here")
	fs.IntVar(&flags.scale, "scale", 1, "Integer upscaling factor for the output image")
	fs.StringVar(&flags.refresh, "refresh", "", "Cron schedule to re-run on (e.g. \"0 * * * *\"); runs until interrupted")
	cobra.CheckErr(root.MarkFlagRequired("day-zero"))

	root.AddCommand(newParseCmd(), newRenderCmd(), newSampleCmd())
	return root
}

func runRoot(ctx context.Context, input string, flags rootFlags) error {
	// Everything that can fail fast does so before any data is touched.
	dayZero, err := parseDayZero(flags.dayZero, flags.dayStart)
	if err != nil {
		return err
	}
	lay := render.Layout{
		DayZero:     dayZero,
		BirthdayDay: flags.birthdayDay,
		MaxMonths:   flags.maxMonths,
		Scale:       flags.scale,
	}
	if err := render.ValidateLayout(lay); err != nil {
		return err
	}
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	lay.WorkStartHour = cfg.Visualization.WorkHours.Start
	lay.WorkEndHour = cfg.Visualization.WorkHours.End

	run := func() error {
		return pipeline(input, flags, lay, cfg)
	}

	if flags.refresh == "" {
		return run()
	}

	// Refresh mode: run once now, then on the cron schedule until the
	// context is canceled. Failures inside a scheduled run are logged and
	// the schedule keeps going; a moved input file shouldn't kill the loop.
	if err := run(); err != nil {
		appLog.Error("initial run failed", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(flags.refresh, func() {
		if err := run(); err != nil {
			appLog.Error("scheduled run failed", err)
		}
	}); err != nil {
		return fmt.Errorf("bad --refresh schedule %q: %w", flags.refresh, err)
	}

	appLog.Info("refresh loop started", "schedule", flags.refresh)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	appLog.Info("refresh loop stopped")
	return nil
}

// pipeline is one full parse+render pass.
func pipeline(input string, flags rootFlags, lay render.Layout, cfg *config.Config) error {
	opts := track.Options{DayStartHour: flags.dayStart, BucketMinutes: flags.bucketMin}

	parsed, err := track.ParseFile(input, cfg)
	if err != nil {
		return err
	}
	grid, err := track.Bucketize(parsed.Events, opts)
	if err != nil {
		return err
	}

	if flags.saveBuckets != "" {
		if err := track.WriteGridFile(flags.saveBuckets, grid); err != nil {
			return err
		}
	}
	if flags.saveICS != "" {
		if err := track.WriteSleepICSFile(flags.saveICS, parsed.Events); err != nil {
			return err
		}
	}

	pal, err := render.PaletteFromConfig(cfg)
	if err != nil {
		return err
	}
	img, err := render.Heatmap(grid, lay, pal)
	if err != nil {
		return err
	}
	return render.WritePNGFile(flags.output, img)
}

// parseDayZero reads a YYYY-MM-DD date and pins it to the day start hour so
// day-index arithmetic lines up with the bucketizer's boundaries.
func parseDayZero(s string, dayStartHour int) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("--day-zero is required")
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad --day-zero %q: want YYYY-MM-DD", s)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), dayStartHour, 0, 0, 0, time.Local), nil
}
