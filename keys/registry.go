package keys

import (
	"fmt"
	"strings"
)

// Category is the visual/pitch class of a key
type Category int

const (
	Natural Category = iota // unraised (white) key
	Raised                  // semitone (black) key
)

func (c Category) String() string {
	if c == Raised {
		return "raised"
	}
	return "natural"
}

// Key is one playable note
type Key struct {
	Note      string   // e.g. "C#4"
	Trigger   string   // computer key that plays it
	Category  Category // Natural or Raised
	Frequency float64  // Hz
	MIDI      uint8    // MIDI note number, C4=60
}

// Two octaves C4..B5 plus C6
var defaultKeys = []Key{
	{Note: "C4", Trigger: "q", Category: Natural, Frequency: 261.63, MIDI: 60},
	{Note: "C#4", Trigger: "w", Category: Raised, Frequency: 277.18, MIDI: 61},
	{Note: "D4", Trigger: "e", Category: Natural, Frequency: 293.66, MIDI: 62},
	{Note: "D#4", Trigger: "r", Category: Raised, Frequency: 311.13, MIDI: 63},
	{Note: "E4", Trigger: "t", Category: Natural, Frequency: 329.63, MIDI: 64},
	{Note: "F4", Trigger: "y", Category: Natural, Frequency: 349.23, MIDI: 65},
	{Note: "F#4", Trigger: "u", Category: Raised, Frequency: 369.99, MIDI: 66},
	{Note: "G4", Trigger: "i", Category: Natural, Frequency: 392.00, MIDI: 67},
	{Note: "G#4", Trigger: "o", Category: Raised, Frequency: 415.30, MIDI: 68},
	{Note: "A4", Trigger: "p", Category: Natural, Frequency: 440.00, MIDI: 69},
	{Note: "A#4", Trigger: "a", Category: Raised, Frequency: 466.16, MIDI: 70},
	{Note: "B4", Trigger: "s", Category: Natural, Frequency: 493.88, MIDI: 71},

	{Note: "C5", Trigger: "d", Category: Natural, Frequency: 523.25, MIDI: 72},
	{Note: "C#5", Trigger: "f", Category: Raised, Frequency: 554.37, MIDI: 73},
	{Note: "D5", Trigger: "g", Category: Natural, Frequency: 587.33, MIDI: 74},
	{Note: "D#5", Trigger: "h", Category: Raised, Frequency: 622.25, MIDI: 75},
	{Note: "E5", Trigger: "j", Category: Natural, Frequency: 659.25, MIDI: 76},
	{Note: "F5", Trigger: "k", Category: Natural, Frequency: 698.46, MIDI: 77},
	{Note: "F#5", Trigger: "l", Category: Raised, Frequency: 739.99, MIDI: 78},
	{Note: "G5", Trigger: "z", Category: Natural, Frequency: 783.99, MIDI: 79},
	{Note: "G#5", Trigger: "x", Category: Raised, Frequency: 830.61, MIDI: 80},
	{Note: "A5", Trigger: "c", Category: Natural, Frequency: 880.00, MIDI: 81},
	{Note: "A#5", Trigger: "v", Category: Raised, Frequency: 932.33, MIDI: 82},
	{Note: "B5", Trigger: "b", Category: Natural, Frequency: 987.77, MIDI: 83},

	{Note: "C6", Trigger: "n", Category: Natural, Frequency: 1046.50, MIDI: 84},
}

// raisedPositions maps each raised note to the ordinal of the natural key it
// sits after. Must stay in step with the natural-key order above.
var raisedPositions = map[string]int{
	"C#4": 0,
	"D#4": 1,
	"F#4": 3,
	"G#4": 4,
	"A#4": 5,
	"C#5": 7,
	"D#5": 8,
	"F#5": 10,
	"G#5": 11,
	"A#5": 12,
}

// RaisedPosition returns the natural-key index a raised key is drawn after.
// Notes missing from the table report 0.
func RaisedPosition(note string) int {
	return raisedPositions[note]
}

// HasRaisedPosition reports whether note has an explicit placement entry
func HasRaisedPosition(note string) bool {
	_, ok := raisedPositions[note]
	return ok
}

// Registry is an immutable, ordered table of keys
type Registry struct {
	keys      []Key
	byTrigger map[string]int
	byNote    map[string]int
	byMIDI    map[uint8]int
}

// New validates keys and builds a registry from them. Keys must be given
// in pitch order.
func New(keys []Key) (*Registry, error) {
	r := &Registry{
		keys:      make([]Key, len(keys)),
		byTrigger: make(map[string]int, len(keys)),
		byNote:    make(map[string]int, len(keys)),
		byMIDI:    make(map[uint8]int, len(keys)),
	}
	copy(r.keys, keys)

	for i, k := range r.keys {
		trig := strings.ToLower(k.Trigger)
		if trig == "" {
			return nil, fmt.Errorf("key %s: empty trigger", k.Note)
		}
		if k.Frequency <= 0 {
			return nil, fmt.Errorf("key %s: frequency %v must be positive", k.Note, k.Frequency)
		}
		if j, dup := r.byTrigger[trig]; dup {
			return nil, fmt.Errorf("trigger %q used by both %s and %s", trig, r.keys[j].Note, k.Note)
		}
		if _, dup := r.byNote[k.Note]; dup {
			return nil, fmt.Errorf("duplicate note %s", k.Note)
		}
		if _, dup := r.byMIDI[k.MIDI]; dup {
			return nil, fmt.Errorf("duplicate MIDI number %d (%s)", k.MIDI, k.Note)
		}
		if i > 0 && k.Frequency <= r.keys[i-1].Frequency {
			return nil, fmt.Errorf("key %s: frequency %v not above %s (%v)",
				k.Note, k.Frequency, r.keys[i-1].Note, r.keys[i-1].Frequency)
		}
		r.keys[i].Trigger = trig
		r.byTrigger[trig] = i
		r.byNote[k.Note] = i
		r.byMIDI[k.MIDI] = i
	}
	return r, nil
}

var defaultRegistry = mustNew(defaultKeys)

func mustNew(keys []Key) *Registry {
	r, err := New(keys)
	if err != nil {
		panic(fmt.Sprintf("invalid key table: %v", err))
	}
	return r
}

// Default returns the built-in C4..C6 registry
func Default() *Registry {
	return defaultRegistry
}

// Lookup finds the key bound to trigger, ignoring case
func (r *Registry) Lookup(trigger string) (Key, bool) {
	i, ok := r.byTrigger[strings.ToLower(trigger)]
	if !ok {
		return Key{}, false
	}
	return r.keys[i], true
}

// ByNote finds a key by its note identifier
func (r *Registry) ByNote(note string) (Key, bool) {
	i, ok := r.byNote[note]
	if !ok {
		return Key{}, false
	}
	return r.keys[i], true
}

// ByMIDI finds a key by MIDI note number
func (r *Registry) ByMIDI(n uint8) (Key, bool) {
	i, ok := r.byMIDI[n]
	if !ok {
		return Key{}, false
	}
	return r.keys[i], true
}

// ByCategory returns the keys of one category in pitch order
func (r *Registry) ByCategory(c Category) []Key {
	var out []Key
	for _, k := range r.keys {
		if k.Category == c {
			out = append(out, k)
		}
	}
	return out
}

// Keys returns a copy of the full table
func (r *Registry) Keys() []Key {
	out := make([]Key, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys
func (r *Registry) Len() int {
	return len(r.keys)
}

// Index returns the pitch-order position of note, or -1
func (r *Registry) Index(note string) int {
	i, ok := r.byNote[note]
	if !ok {
		return -1
	}
	return i
}
