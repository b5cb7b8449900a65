package piano

import (
	"time"

	"go-piano/debug"
	"go-piano/keys"
	"go-piano/synth"
)

// DecayWindow is how long a key stays highlighted after it is struck.
// Independent of how long the tone itself sounds.
const DecayWindow = 150 * time.Millisecond

// Player sounds a single tone
type Player interface {
	PlayTone(freq float64, style synth.Style)
}

// Dispatcher turns key and pointer input into highlighted keys and tones.
// It belongs to the UI event loop and is not safe for concurrent use.
type Dispatcher struct {
	reg    *keys.Registry
	player Player
	style  synth.Style
	active *ActiveSet
}

func NewDispatcher(reg *keys.Registry, player Player, style synth.Style) *Dispatcher {
	return &Dispatcher{
		reg:    reg,
		player: player,
		style:  style,
		active: NewActiveSet(reg),
	}
}

// KeyDown handles a typed symbol. It returns the struck key, or false when
// the symbol is unmapped or the note is still highlighted (key repeat).
func (d *Dispatcher) KeyDown(symbol string) (keys.Key, bool) {
	k, ok := d.reg.Lookup(symbol)
	if !ok {
		return keys.Key{}, false
	}
	if d.active.Has(k.Note) {
		debug.Log("input", "suppressed repeat %s", k.Note)
		return keys.Key{}, false
	}
	d.Press(k)
	return k, true
}

// Press strikes k unconditionally (pointer and MIDI input). The caller
// schedules Release(k.Note) after DecayWindow.
func (d *Dispatcher) Press(k keys.Key) {
	d.active.Add(k.Note)
	d.player.PlayTone(k.Frequency, d.style)
	debug.Log("input", "pressed %s (%.2f Hz, %s)", k.Note, k.Frequency, d.style)
}

// Release clears the highlight for note
func (d *Dispatcher) Release(note string) {
	d.active.Remove(note)
}

func (d *Dispatcher) Active() *ActiveSet       { return d.active }
func (d *Dispatcher) Registry() *keys.Registry { return d.reg }
func (d *Dispatcher) Style() synth.Style       { return d.style }

// SetStyle changes the style for notes struck from now on
func (d *Dispatcher) SetStyle(s synth.Style) {
	if s != d.style {
		debug.Log("input", "style %s -> %s", d.style, s)
	}
	d.style = s
}

// ToggleStyle flips between grand and synth
func (d *Dispatcher) ToggleStyle() synth.Style {
	d.SetStyle(d.style.Toggle())
	return d.style
}
