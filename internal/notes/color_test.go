package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContrastForeground(t *testing.T) {
	tests := []struct {
		bg   string
		want string
	}{
		{"#000000", LightForeground},
		{"#ffffff", DarkForeground},
		{"#fff", DarkForeground},
		{"ffffff", DarkForeground},
		{"#777777", LightForeground},
		{"#ffff00", DarkForeground},
		{"#0000ff", LightForeground},
	}

	for _, tt := range tests {
		t.Run(tt.bg, func(t *testing.T) {
			got, err := ContrastForeground(tt.bg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ContrastForeground("#zzzzzz")
	assert.Error(t, err)
}

func TestRelativeLuminance(t *testing.T) {
	l, err := RelativeLuminance("#ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, l, 1e-9)

	l, err = RelativeLuminance("#000000")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, l, 1e-9)

	// 0x0a/255 sits below the 0.03928 knee and is divided by 12.92.
	l, err = RelativeLuminance("#0a0a0a")
	require.NoError(t, err)
	assert.InDelta(t, (10.0/255.0)/12.92, l, 1e-9)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("Yellow")
	require.NoError(t, err)
	assert.Equal(t, ColorYellow, c)

	c, err = ParseColor("")
	require.NoError(t, err)
	assert.Equal(t, ColorDefault, c)

	_, err = ParseColor("mauve")
	assert.ErrorIs(t, err, ErrUnknownColor)

	for _, p := range Palette {
		assert.True(t, p.Valid(), "%s", p)
	}
}

func TestDisplayColors(t *testing.T) {
	bg, fg := Note{Color: ColorDefault}.DisplayColors()
	assert.Empty(t, bg)
	assert.Empty(t, fg)

	bg, fg = Note{Color: ColorYellow}.DisplayColors()
	assert.Equal(t, Swatches[ColorYellow], bg)
	assert.Equal(t, DarkForeground, fg)

	bg, fg = Note{Color: ColorCustom, CustomBg: "#102030", CustomFg: "#abcdef"}.DisplayColors()
	assert.Equal(t, "#102030", bg)
	assert.Equal(t, "#abcdef", fg)

	_, fg = Note{Color: ColorCustom, CustomBg: "#000000"}.DisplayColors()
	assert.Equal(t, LightForeground, fg)

	for _, c := range Palette {
		if c == ColorDefault || c == ColorCustom {
			continue
		}
		assert.NotEmpty(t, Swatches[c], "%s has no swatch", c)
	}
}
