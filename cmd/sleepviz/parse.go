package main

import (
	"github.com/spf13/cobra"

	"sleepviz/internal/config"
	"sleepviz/internal/track"
)

// newParseCmd builds the parse-only subcommand: CSV export → bucket CSV.
func newParseCmd() *cobra.Command {
	var (
		output     string
		configPath string
		dayStart   int
		bucketMin  int
		saveICS    string
	)

	cmd := &cobra.Command{
		Use:   "parse <export.csv>",
		Short: "Parse a tracking export into bucketed CSV data",
		Long: `Parse a baby-tracking app CSV export into the intermediate bucket CSV
(day,bucket,sleep,feed,meds). The bucket file can later be rendered with
"sleepviz render" without re-reading the original export.`,
		Example: `  sleepviz parse local/export.csv -o local/buckets.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			parsed, err := track.ParseFile(args[0], cfg)
			if err != nil {
				return err
			}
			opts := track.Options{DayStartHour: dayStart, BucketMinutes: bucketMin}
			grid, err := track.Bucketize(parsed.Events, opts)
			if err != nil {
				return err
			}

			if saveICS != "" {
				if err := track.WriteSleepICSFile(saveICS, parsed.Events); err != nil {
					return err
				}
			}
			return track.WriteGridFile(output, grid)
		},
		SilenceUsage: true,
	}

	fs := cmd.Flags()
	fs.StringVarP(&output, "output", "o", "local/buckets.csv", "Output bucket CSV path")
	fs.StringVarP(&configPath, "config", "c", "configs/huckleberry.yaml", "Data source config path")
	fs.IntVar(&dayStart, "day-start-hour", 7, "Hour that starts each day")
	fs.IntVar(&bucketMin, "bucket-minutes", 5, "Bucket width in minutes")
	fs.StringVar(&saveICS, "save-ics", "", "Also save sleep sessions as an iCalendar file here")
	return cmd
}
