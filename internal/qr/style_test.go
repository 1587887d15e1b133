package qr

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		err  bool
	}{
		{in: "#112233", want: color.RGBA{0x11, 0x22, 0x33, 0xff}},
		{in: "445566", want: color.RGBA{0x44, 0x55, 0x66, 0xff}},
		{in: "#fff", want: color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{in: " #1E3A8A ", want: color.RGBA{0x1e, 0x3a, 0x8a, 0xff}},
		{in: "", err: true},
		{in: "#12345", err: true},
		{in: "#GGHHII", err: true},
		{in: "red", err: true},
		{in: "#11223344", err: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseHexColor(tc.in)
			if tc.err {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLookupPreset(t *testing.T) {
	ps := LookupPreset(PresetBusinessBlue)
	assert.Equal(t, "#1E3A8A", ps.Foreground)
	assert.Equal(t, "#F0F9FF", ps.Background)
	assert.NotEmpty(t, ps.Description)

	assert.Equal(t, LookupPreset(PresetClassic), LookupPreset(Preset(99)))
	assert.Equal(t, PresetClassic, ParsePreset("does-not-exist"))
	assert.Equal(t, PresetNaturalGreen, ParsePreset("Natural-Green"))
	assert.Len(t, Presets(), 7)
}

func TestResolveColors(t *testing.T) {
	p, err := ResolveColors(NewConfig(WithCustomColors("#112233", "#445566")))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x11, 0x22, 0x33, 0xff}, p.Foreground)
	assert.Equal(t, color.RGBA{0x44, 0x55, 0x66, 0xff}, p.Background)

	// Overrides are ignored for named presets.
	cfg := NewConfig(WithPreset(PresetTechPurple))
	cfg.Foreground = "#000"
	p, err = ResolveColors(cfg)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x6b, 0x21, 0xa8, 0xff}, p.Foreground)

	_, err = ResolveColors(NewConfig(WithCustomColors("#zzzzzz", "#ffffff")))
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestParseDrawer(t *testing.T) {
	for _, d := range []DrawerStyle{DrawerSquare, DrawerCircle, DrawerRounded, DrawerGappedSquare, DrawerVerticalBars, DrawerHorizontalBars} {
		assert.Equal(t, d, ParseDrawer(d.String()))
	}
	assert.Equal(t, DrawerSquare, ParseDrawer("hexagon"))
}
