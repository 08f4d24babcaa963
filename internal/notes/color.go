package notes

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color tags a note. The store only checks membership in Palette.
type Color string

const (
	ColorDefault Color = "default"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorBlue    Color = "blue"
	ColorPink    Color = "pink"
	ColorPurple  Color = "purple"
	ColorOrange  Color = "orange"
	ColorGray    Color = "gray"
	ColorCustom  Color = "custom"
)

// Foregrounds chosen for custom backgrounds.
const (
	DarkForeground  = "#1a1a1a"
	LightForeground = "#ffffff"
)

// Palette lists the named colors in display order, followed by ColorCustom.
var Palette = []Color{
	ColorDefault,
	ColorYellow,
	ColorGreen,
	ColorBlue,
	ColorPink,
	ColorPurple,
	ColorOrange,
	ColorGray,
	ColorCustom,
}

// ParseColor returns the palette color named by s.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return ColorDefault, nil
	}
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return c, nil
}

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// Swatches are the backgrounds the named palette colors are drawn with.
var Swatches = map[Color]string{
	ColorYellow: "#f4d03f",
	ColorGreen:  "#58d68d",
	ColorBlue:   "#5dade2",
	ColorPink:   "#f1948a",
	ColorPurple: "#a569bd",
	ColorOrange: "#eb984e",
	ColorGray:   "#aab7b8",
}

// DisplayColors returns the background and foreground n is drawn with. Both
// are empty for ColorDefault. A missing foreground is picked for contrast.
func (n Note) DisplayColors() (bg, fg string) {
	if n.Color == ColorCustom {
		bg, fg = n.CustomBg, n.CustomFg
	} else {
		bg = Swatches[n.Color]
	}

	if bg != "" && fg == "" {
		if computed, err := ContrastForeground(bg); err == nil {
			fg = computed
		}
	}
	return bg, fg
}

// RelativeLuminance returns the WCAG relative luminance of a "#rgb" or
// "#rrggbb" color.
func RelativeLuminance(hex string) (float64, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", hex, err)
	}

	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B), nil
}

// ContrastForeground picks the foreground for a custom background: dark when
// the background luminance is above 0.5, light otherwise.
func ContrastForeground(bg string) (string, error) {
	l, err := RelativeLuminance(bg)
	if err != nil {
		return "", err
	}
	if l > 0.5 {
		return DarkForeground, nil
	}
	return LightForeground, nil
}

func linearize(c float64) float64 {
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
