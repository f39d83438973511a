package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"sleepviz/internal/config"
)

// Palette holds the resolved colors for every rendered layer.
type Palette struct {
	Sleep     color.NRGBA
	Feed      color.NRGBA
	Separator color.NRGBA
	WorkHours color.NRGBA // includes its translucency
	Meds      map[string]color.NRGBA
}

// fallbackMedColor is used for medications without a configured color.
var fallbackMedColor = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

const workHoursAlpha = 0.15

// PaletteFromConfig resolves the configured hex colors into a Palette.
// Unknown or malformed hex strings are an error; an absent medication color
// falls back to white at render time via MedColor.
func PaletteFromConfig(cfg *config.Config) (Palette, error) {
	colors := cfg.Visualization.Colors

	var p Palette
	var err error
	if p.Sleep, err = parseHex(colors.Sleep, 1.0); err != nil {
		return p, fmt.Errorf("render: sleep color: %w", err)
	}
	if p.Feed, err = parseHex(colors.Feed, 1.0); err != nil {
		return p, fmt.Errorf("render: feed color: %w", err)
	}
	if p.Separator, err = parseHex(colors.Separator, 1.0); err != nil {
		return p, fmt.Errorf("render: separator color: %w", err)
	}
	if p.WorkHours, err = parseHex(colors.WorkHours, workHoursAlpha); err != nil {
		return p, fmt.Errorf("render: work hours color: %w", err)
	}

	p.Meds = make(map[string]color.NRGBA, len(colors.Medications))
	for name, hex := range colors.Medications {
		c, err := parseHex(hex, 1.0)
		if err != nil {
			return p, fmt.Errorf("render: medication color %q: %w", name, err)
		}
		p.Meds[name] = c
	}
	return p, nil
}

// MedColor returns the color for a medication name, falling back to the
// configured "Other" color and finally to white. Unknown medications render,
// they never fail.
func (p Palette) MedColor(name string) color.NRGBA {
	if c, ok := p.Meds[name]; ok {
		return c
	}
	if c, ok := p.Meds["Other"]; ok {
		return c
	}
	return fallbackMedColor
}

// parseHex converts "#RRGGBB" (leading '#' optional) into an NRGBA with the
// given alpha fraction.
func parseHex(s string, alpha float64) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("want RRGGBB, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad hex %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: uint8(alpha*255 + 0.5),
	}, nil
}
