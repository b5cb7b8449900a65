package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-piano/synth"
)

// Theme is the look of one instrument style
type Theme struct {
	Title    string
	Subtitle string
	Palette  *Palette
	Symbols  Symbols

	// Fixed key colors; palettes only drive the chrome and highlights
	naturalKey RGB
	raisedKey  RGB
}

type Symbols struct {
	Natural rune // fill for an unpressed natural key
	Raised  rune // fill for an unpressed raised key
	Pressed rune // fill for a highlighted key
	Ready   rune // status: audio ready
	Off     rune // status: audio unavailable
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleSurface = 0.2
	RoleMuted   = 0.4
	RoleAccent  = 0.6
	RoleActive  = 0.8
	RoleFG      = 1.0
)

var (
	grand = &Theme{
		Title:    "GRAND PIANO",
		Subtitle: "concert hall · warm · acoustic",
		Palette:  mustEmbedded("grand.gpl"),
		Symbols: Symbols{
			Natural: '█',
			Raised:  '█',
			Pressed: '▓',
			Ready:   '●',
			Off:     '○',
		},
		naturalKey: RGB{250, 246, 236},
		raisedKey:  RGB{20, 14, 8},
	}
	synthTheme = &Theme{
		Title:    "DIGITAL SYNTH",
		Subtitle: "electronic · future sound",
		Palette:  mustEmbedded("synth.gpl"),
		Symbols: Symbols{
			Natural: '█',
			Raised:  '█',
			Pressed: '▒',
			Ready:   '◆',
			Off:     '◇',
		},
		naturalKey: RGB{200, 200, 220},
		raisedKey:  RGB{24, 16, 48},
	}
)

// ForStyle returns the theme drawn for an instrument style
func ForStyle(s synth.Style) *Theme {
	if s == synth.StyleSynth {
		return synthTheme
	}
	return grand
}

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

// Surface is the panel behind the keys
func (t *Theme) Surface() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSurface))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

// Active is the highlight for pressed keys
func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) NaturalKey() lipgloss.Color {
	return rgbToLipgloss(t.naturalKey)
}

func (t *Theme) RaisedKey() lipgloss.Color {
	return rgbToLipgloss(t.raisedKey)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
