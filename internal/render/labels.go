package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"sleepviz/internal/model"
	"sleepviz/internal/track"
)

var labelColor = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// annotate places the composed data area inside a larger canvas with margins
// and draws the age labels, y-axis labels, and legend around it.
func annotate(data *image.NRGBA, f frame, grid *model.Grid, lay Layout, pal Palette) *image.NRGBA {
	legendItems := legendFor(grid, pal)
	legendHeight := len(legendItems)*legendRowH + legendPadding*2

	width := leftMargin + f.totalCols
	height := topMargin + f.rows + legendHeight

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out,
		image.Rect(leftMargin, topMargin, leftMargin+f.totalCols, topMargin+f.rows),
		data, image.Point{}, draw.Src)

	// Month section labels along the top: "Born" over day 0, then one age
	// label per separator.
	labelY := topMargin - 6
	drawText(out, leftMargin+f.colOffset(0), labelY, AgeLabel(0), labelColor)
	for i, day := range f.boundaries {
		x := leftMargin + f.colOffset(day) - separatorWidth/2
		drawText(out, x, labelY, AgeLabel(i+1), labelColor)
	}

	// Y-axis labels, right-aligned against the data area.
	labelX := leftMargin - 5
	startLabel := hourLabel(grid.DayStartHour)
	drawTextRight(out, labelX, topMargin+8, startLabel, labelColor)
	drawTextRight(out, labelX, topMargin+f.rows, startLabel, labelColor)

	workCenter := (hourRow(lay.WorkStartHour, grid) + hourRow(lay.WorkEndHour, grid)) / 2
	drawTextRight(out, labelX, topMargin+workCenter+4,
		fmt.Sprintf("%d - %d", clockHour(lay.WorkStartHour), clockHour(lay.WorkEndHour)),
		pal.Separator)

	midnight := track.MidnightBucket(grid.DayStartHour, grid.BucketMinutes)
	drawTextRight(out, labelX, topMargin+midnight+4, "midnight", labelColor)

	// Legend below the data area.
	y := topMargin + f.rows + legendPadding
	for _, item := range legendItems {
		sq := image.Rect(leftMargin, y, leftMargin+legendSquare, y+legendSquare)
		draw.Draw(out, sq, image.NewUniform(item.color), image.Point{}, draw.Src)
		drawText(out, leftMargin+legendSquare+4, y+legendSquare, item.label, labelColor)
		y += legendRowH
	}

	return out
}

type legendItem struct {
	color color.NRGBA
	label string
}

// legendFor lists sleep, feeding, and every medication actually present in
// the grid except the fallback bucket.
func legendFor(grid *model.Grid, pal Palette) []legendItem {
	items := []legendItem{
		{pal.Sleep, "Sleep"},
		{pal.Feed, "Feeding"},
	}
	for _, name := range grid.PresentMeds() {
		if name == "Other" {
			continue
		}
		items = append(items, legendItem{pal.MedColor(name), name})
	}
	return items
}

// hourLabel formats an hour like "7 am" or "1 pm".
func hourLabel(hour int) string {
	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	return fmt.Sprintf("%d %s", clockHour(hour), suffix)
}

// clockHour converts a 24h hour to its 12h clock face number.
func clockHour(hour int) int {
	h := hour % 12
	if h == 0 {
		return 12
	}
	return h
}

func drawText(img *image.NRGBA, x, y int, s string, c color.NRGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func drawTextRight(img *image.NRGBA, x, y int, s string, c color.NRGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(s).Ceil()
	d.Dot = fixed.P(x-w, y)
	d.DrawString(s)
}
