package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	appLog "sleepviz/internal/log"
	"sleepviz/internal/model"
	"sleepviz/internal/track"
)

// Grid geometry, in unscaled pixels.
const (
	dayWidth           = 6
	dayPadding         = 2
	separatorPadding   = 4
	separatorLineWidth = 2
	separatorWidth     = separatorPadding + separatorLineWidth + separatorPadding
)

// Margins around the data area, in unscaled pixels.
const (
	leftMargin    = 60
	topMargin     = 20
	legendRowH    = 12
	legendSquare  = 8
	legendPadding = 10
)

var midnightOverlay = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 89} // white @ 0.35

// Layout carries the caller-supplied placement parameters. They position the
// axis overlays only; event semantics are fixed by the grid itself.
type Layout struct {
	// DayZero is the calendar date of day index 0, at the grid's day start
	// hour. Typically the birthday.
	DayZero time.Time
	// BirthdayDay anchors month boundaries to this day of the month.
	BirthdayDay int
	// MaxMonths caps how many month sections are drawn; days beyond the cap
	// are dropped.
	MaxMonths int
	// WorkStartHour / WorkEndHour bound the highlighted working-hours band
	// (wall-clock hours).
	WorkStartHour int
	WorkEndHour   int
	// Scale is an integer upscaling factor for the final image; 0 or 1 means
	// native resolution.
	Scale int
}

// frame is the resolved column geometry for one render.
type frame struct {
	days       int
	rows       int
	totalCols  int
	boundaries []int // month-boundary day indices, ascending
}

// colOffset returns the leftmost column of a day's lane, accounting for the
// extra width of every separator at or before that day.
func (f frame) colOffset(day int) int {
	separatorsBefore := 0
	for _, b := range f.boundaries {
		if b <= day {
			separatorsBefore++
		}
	}
	return day*(dayWidth+dayPadding) + separatorsBefore*(separatorWidth-dayPadding)
}

// Heatmap renders the bucket grid as an image: one lane per logical day on
// the x axis, one row per bucket on the y axis, with month separators, the
// working-hours band, the midnight line, age labels, and a legend.
//
// Layer order, bottom to top: working-hours band, sleep, feed, medication
// checkerboard, month separators, midnight overlay.
func Heatmap(grid *model.Grid, lay Layout, pal Palette) (*image.NRGBA, error) {
	if grid == nil || grid.Days == 0 {
		return nil, errors.New("render: empty grid")
	}
	if lay.DayZero.IsZero() {
		return nil, errors.New("render: day zero not set")
	}

	boundaries, days, err := MonthBoundaries(
		lay.DayZero, lay.BirthdayDay, grid.Days, lay.MaxMonths, grid.DayStartHour)
	if err != nil {
		return nil, err
	}
	if days < grid.Days {
		appLog.Info("dropping days past month cap",
			"max_months", lay.MaxMonths, "days", days, "observed_days", grid.Days)
		grid.Truncate(days)
	}

	f := frame{
		days:       days,
		rows:       grid.BucketsPerDay,
		totalCols:  days*dayWidth + (days-1)*dayPadding + len(boundaries)*(separatorWidth-dayPadding),
		boundaries: boundaries,
	}

	img := image.NewNRGBA(image.Rect(0, 0, f.totalCols, f.rows))

	drawWorkHours(img, f, grid, lay, pal)
	drawCells(img, f, grid, pal)
	drawSeparators(img, f, pal)
	drawMidnight(img, f, grid)

	full := annotate(img, f, grid, lay, pal)
	if lay.Scale > 1 {
		full = scaleNearest(full, lay.Scale)
	}

	appLog.Info("composed heatmap",
		"days", f.days, "rows", f.rows,
		"width", full.Bounds().Dx(), "height", full.Bounds().Dy())
	return full, nil
}

// drawWorkHours fills the configured working-hours rows across all columns
// with the translucent band color.
func drawWorkHours(img *image.NRGBA, f frame, grid *model.Grid, lay Layout, pal Palette) {
	startRow := hourRow(lay.WorkStartHour, grid)
	endRow := hourRow(lay.WorkEndHour, grid)
	if endRow <= startRow {
		return
	}
	for row := startRow; row < endRow; row++ {
		for col := 0; col < f.totalCols; col++ {
			img.SetNRGBA(col, row, pal.WorkHours)
		}
	}
}

// drawCells paints the data lanes. Within a cell, feed paints over sleep, and
// the medication checkerboard paints over both so the layers below stay
// visible between its pixels.
func drawCells(img *image.NRGBA, f frame, grid *model.Grid, pal Palette) {
	for day := 0; day < f.days; day++ {
		colStart := f.colOffset(day)
		colEnd := colStart + dayWidth

		for row := 0; row < f.rows; row++ {
			cell := grid.At(day, row)
			if !cell.Sleep && !cell.Feed && len(cell.Meds) == 0 {
				continue
			}

			if cell.Sleep {
				fillSpan(img, row, colStart, colEnd, pal.Sleep)
			}
			if cell.Feed {
				fillSpan(img, row, colStart, colEnd, pal.Feed)
			}
			for _, name := range cell.MedNames() {
				c := pal.MedColor(name)
				for col := colStart; col < colEnd; col++ {
					if (row+col)%2 == 0 {
						img.SetNRGBA(col, row, c)
					}
				}
			}
		}
	}
}

// drawSeparators draws a vertical line in the middle of each month
// separator, over the middle half of the column.
func drawSeparators(img *image.NRGBA, f frame, pal Palette) {
	rowStart := f.rows / 4
	rowEnd := f.rows * 3 / 4
	for _, day := range f.boundaries {
		lineCol := f.colOffset(day) - separatorWidth/2
		for w := 0; w < separatorLineWidth; w++ {
			col := lineCol + w
			if col < 0 || col >= f.totalCols {
				continue
			}
			for row := rowStart; row < rowEnd; row++ {
				img.SetNRGBA(col, row, pal.Separator)
			}
		}
	}
}

// drawMidnight blends a translucent white band over the midnight row and its
// neighbors, on top of whatever data is there.
func drawMidnight(img *image.NRGBA, f frame, grid *model.Grid) {
	mid := track.MidnightBucket(grid.DayStartHour, grid.BucketMinutes)
	for row := mid - 1; row <= mid+1; row++ {
		if row < 0 || row >= f.rows {
			continue
		}
		for col := 0; col < f.totalCols; col++ {
			img.SetNRGBA(col, row, blendOver(img.NRGBAAt(col, row), midnightOverlay))
		}
	}
}

// hourRow converts a wall-clock hour to a row index relative to the day
// start hour.
func hourRow(hour int, grid *model.Grid) int {
	return ((hour - grid.DayStartHour + 24) % 24) * 60 / grid.BucketMinutes
}

func fillSpan(img *image.NRGBA, row, colStart, colEnd int, c color.NRGBA) {
	for col := colStart; col < colEnd; col++ {
		img.SetNRGBA(col, row, c)
	}
}

// blendOver composites src over dst (non-premultiplied source-over).
func blendOver(dst, src color.NRGBA) color.NRGBA {
	sa := float64(src.A) / 255
	da := float64(dst.A) / 255
	oa := sa + da*(1-sa)
	if oa == 0 {
		return color.NRGBA{}
	}
	mix := func(s, d uint8) uint8 {
		v := (float64(s)*sa + float64(d)*da*(1-sa)) / oa
		return uint8(v + 0.5)
	}
	return color.NRGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: uint8(oa*255 + 0.5),
	}
}

// scaleNearest upscales by an integer factor with nearest-neighbor sampling,
// keeping the hard cell edges crisp.
func scaleNearest(src *image.NRGBA, factor int) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	for y := 0; y < b.Dy()*factor; y++ {
		for x := 0; x < b.Dx()*factor; x++ {
			out.SetNRGBA(x, y, src.NRGBAAt(b.Min.X+x/factor, b.Min.Y+y/factor))
		}
	}
	return out
}

// ValidateLayout rejects out-of-range layout parameters before any rendering
// starts.
func ValidateLayout(lay Layout) error {
	if lay.BirthdayDay < 1 || lay.BirthdayDay > 31 {
		return fmt.Errorf("render: birthday day %d out of range", lay.BirthdayDay)
	}
	if lay.MaxMonths <= 0 {
		return errors.New("render: max months must be positive")
	}
	return nil
}
