package main

import (
	"github.com/spf13/cobra"

	"sleepviz/internal/config"
	"sleepviz/internal/render"
	"sleepviz/internal/track"
)

// newRenderCmd builds the render-only subcommand: bucket CSV → PNG.
func newRenderCmd() *cobra.Command {
	var (
		output      string
		configPath  string
		dayZero     string
		birthdayDay int
		maxMonths   int
		dayStart    int
		bucketMin   int
		scale       int
	)

	cmd := &cobra.Command{
		Use:   "render <buckets.csv>",
		Short: "Render bucketed data as a heatmap PNG",
		Long: `Render a bucket CSV (produced by "sleepviz parse") as a heatmap PNG.
The day-start-hour and bucket-minutes values must match the ones used when
parsing, or the rows will not line up with the original timestamps.`,
		Example: `  sleepviz render local/buckets.csv --day-zero 2024-01-15`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zero, err := parseDayZero(dayZero, dayStart)
			if err != nil {
				return err
			}
			lay := render.Layout{
				DayZero:     zero,
				BirthdayDay: birthdayDay,
				MaxMonths:   maxMonths,
				Scale:       scale,
			}
			if err := render.ValidateLayout(lay); err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			lay.WorkStartHour = cfg.Visualization.WorkHours.Start
			lay.WorkEndHour = cfg.Visualization.WorkHours.End

			opts := track.Options{DayStartHour: dayStart, BucketMinutes: bucketMin}
			grid, err := track.ReadGridFile(args[0], opts)
			if err != nil {
				return err
			}
			pal, err := render.PaletteFromConfig(cfg)
			if err != nil {
				return err
			}
			img, err := render.Heatmap(grid, lay, pal)
			if err != nil {
				return err
			}
			return render.WritePNGFile(output, img)
		},
		SilenceUsage: true,
	}

	fs := cmd.Flags()
	fs.StringVarP(&output, "output", "o", "local/heatmap.png", "Output PNG path")
	fs.StringVarP(&configPath, "config", "c", "configs/huckleberry.yaml", "Data source config path")
	fs.StringVar(&dayZero, "day-zero", "", "Calendar date of day 0, YYYY-MM-DD")
	fs.IntVar(&birthdayDay, "birthday-day", 1, "Day of month anchoring month boundaries")
	fs.IntVar(&maxMonths, "max-months", 24, "Maximum months to display")
	fs.IntVar(&dayStart, "day-start-hour", 7, "Hour that starts each day")
	fs.IntVar(&bucketMin, "bucket-minutes", 5, "Bucket width in minutes")
	fs.IntVar(&scale, "scale", 1, "Integer upscaling factor for the output image")
	cobra.CheckErr(cmd.MarkFlagRequired("day-zero"))
	return cmd
}
