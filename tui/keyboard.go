package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-piano/keys"
	"go-piano/piano"
	"go-piano/theme"
)

// Keyboard geometry in terminal cells
const (
	naturalWidth  = 3 // cells per natural key
	keyPitch      = 4 // natural key + 1 cell gap
	raisedWidth   = 3
	raisedHeight  = 2
	naturalHeight = 4
)

// keyRect is the screen area of one key, [x0,x1) x [y0,y1)
type keyRect struct {
	key    keys.Key
	x0, x1 int
	y0, y1 int
}

func (r keyRect) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

// labelPos is where the trigger symbol is drawn
func (r keyRect) labelPos() (int, int) {
	return r.x0 + (r.x1-r.x0)/2, r.y1 - 1
}

// keyboardLayout places naturals left to right and each raised key over the
// gap after its natural-key position
type keyboardLayout struct {
	naturals []keyRect
	raised   []keyRect
	width    int
	height   int
}

func newKeyboardLayout(reg *keys.Registry) keyboardLayout {
	var l keyboardLayout
	for i, k := range reg.ByCategory(keys.Natural) {
		x := i * keyPitch
		l.naturals = append(l.naturals, keyRect{key: k, x0: x, x1: x + naturalWidth, y0: 0, y1: naturalHeight})
	}
	for _, k := range reg.ByCategory(keys.Raised) {
		x := keys.RaisedPosition(k.Note)*keyPitch + naturalWidth - 1
		l.raised = append(l.raised, keyRect{key: k, x0: x, x1: x + raisedWidth, y0: 0, y1: raisedHeight})
	}
	if n := len(l.naturals); n > 0 {
		l.width = l.naturals[n-1].x1
	}
	l.height = naturalHeight
	return l
}

// hit returns the key under cell (x, y). Raised keys sit on top.
func (l keyboardLayout) hit(x, y int) (keys.Key, bool) {
	if r := l.at(x, y); r != nil {
		return r.key, true
	}
	return keys.Key{}, false
}

func (l keyboardLayout) at(x, y int) *keyRect {
	for i := range l.raised {
		if l.raised[i].contains(x, y) {
			return &l.raised[i]
		}
	}
	for i := range l.naturals {
		if l.naturals[i].contains(x, y) {
			return &l.naturals[i]
		}
	}
	return nil
}

// rectFor finds the drawn area of note
func (l keyboardLayout) rectFor(note string) (keyRect, bool) {
	for _, r := range append(append([]keyRect{}, l.raised...), l.naturals...) {
		if r.key.Note == note {
			return r, true
		}
	}
	return keyRect{}, false
}

// render draws the keyboard on the theme's surface. Key bodies use the
// theme's fill runes; the trigger label is cut out of the fill.
func (l keyboardLayout) render(th *theme.Theme, active *piano.ActiveSet) string {
	gap := lipgloss.NewStyle().Background(th.Surface())
	fills := map[bool]lipgloss.Style{
		false: lipgloss.NewStyle().Foreground(th.NaturalKey()).Background(th.Surface()),
		true:  lipgloss.NewStyle().Foreground(th.RaisedKey()).Background(th.Surface()),
	}
	labels := map[bool]lipgloss.Style{
		false: lipgloss.NewStyle().Foreground(th.RaisedKey()).Background(th.NaturalKey()),
		true:  lipgloss.NewStyle().Foreground(th.NaturalKey()).Background(th.RaisedKey()),
	}
	pressedFill := lipgloss.NewStyle().Foreground(th.Active()).Background(th.Surface())
	pressedLabel := lipgloss.NewStyle().Foreground(th.BG()).Background(th.Active()).Bold(true)

	lines := make([]string, l.height)
	for y := 0; y < l.height; y++ {
		var row strings.Builder
		for x := 0; x < l.width; x++ {
			r := l.at(x, y)
			if r == nil {
				row.WriteString(gap.Render(" "))
				continue
			}

			isRaised := r.key.Category == keys.Raised
			pressed := active.Has(r.key.Note)
			if lx, ly := r.labelPos(); lx == x && ly == y {
				label := strings.ToUpper(r.key.Trigger)
				if pressed {
					row.WriteString(pressedLabel.Render(label))
				} else {
					row.WriteString(labels[isRaised].Render(label))
				}
				continue
			}

			switch {
			case pressed:
				row.WriteString(pressedFill.Render(string(th.Symbols.Pressed)))
			case isRaised:
				row.WriteString(fills[true].Render(string(th.Symbols.Raised)))
			default:
				row.WriteString(fills[false].Render(string(th.Symbols.Natural)))
			}
		}
		lines[y] = row.String()
	}
	return strings.Join(lines, "\n")
}
