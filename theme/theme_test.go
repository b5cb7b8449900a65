package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-piano/synth"
)

func TestParseGPL(t *testing.T) {
	src := "GIMP Palette\nName: Test\nColumns: 2\n#\n  0   0   0\tblack\n255 255 255\twhite\nbogus line\n"
	p, err := ParseGPL(strings.NewReader(src), "test")
	require.NoError(t, err)
	assert.Equal(t, "Test", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)
}

func TestParseGPLSkipsOutOfRange(t *testing.T) {
	p, err := ParseGPL(strings.NewReader("300 0 0\n1 2 3\n"), "test")
	require.NoError(t, err)
	assert.Equal(t, []RGB{{1, 2, 3}}, p.Colors)
}

func TestParseGPLEmpty(t *testing.T) {
	_, err := ParseGPL(strings.NewReader("GIMP Palette\n"), "empty")
	assert.ErrorContains(t, err, "no colors")
}

func TestLookupInterpolates(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{100, 50, 25}, p.Lookup(0.5))
	assert.Equal(t, RGB{200, 100, 50}, p.Lookup(2))

	single := &Palette{Colors: []RGB{{1, 2, 3}}}
	assert.Equal(t, RGB{1, 2, 3}, single.Lookup(0.5))
}

func TestForStyle(t *testing.T) {
	g := ForStyle(synth.StyleGrand)
	s := ForStyle(synth.StyleSynth)

	assert.Equal(t, "Grand", g.Palette.Name)
	assert.Equal(t, "Synth", s.Palette.Name)
	assert.NotEqual(t, g.Title, s.Title)
	assert.NotEqual(t, g.Accent(), s.Accent())
	assert.Equal(t, lipgloss.Color("#faf6ec"), g.NaturalKey())
}
