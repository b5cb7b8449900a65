package synth

import (
	"fmt"
	"strings"
)

// Style selects the instrument preset
type Style int

const (
	StyleGrand Style = iota // primary: soft triangle piano
	StyleSynth              // alternate: bright sawtooth lead
)

func (s Style) String() string {
	switch s {
	case StyleSynth:
		return "synth"
	default:
		return "grand"
	}
}

// Toggle returns the other style
func (s Style) Toggle() Style {
	if s == StyleSynth {
		return StyleGrand
	}
	return StyleSynth
}

// ParseStyle converts a config/flag value to a Style
func ParseStyle(v string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "grand", "piano", "primary":
		return StyleGrand, nil
	case "synth", "alternate":
		return StyleSynth, nil
	}
	return StyleGrand, fmt.Errorf("unknown style %q (want grand or synth)", v)
}

// MarshalText lets Style appear as a word in config files
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(b []byte) error {
	v, err := ParseStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Stage is one envelope breakpoint: ramp linearly to Level, reaching it At
// seconds after the note starts
type Stage struct {
	Level float64
	At    float64
}

// Profile is the waveform and amplitude envelope for a style
type Profile struct {
	Waveform Waveform
	Attack   Stage
	Decay    Stage
	Sustain  Stage
	Release  Stage // Level is always 0; At is also the oscillator stop time
}

// Stages returns the breakpoints in schedule order
func (p Profile) Stages() []Stage {
	return []Stage{p.Attack, p.Decay, p.Sustain, p.Release}
}

// Duration is how long a note sounds, in seconds
func (p Profile) Duration() float64 {
	return p.Release.At
}

var profiles = map[Style]Profile{
	StyleGrand: {
		Waveform: Triangle,
		Attack:   Stage{Level: 0.3, At: 0.01},
		Decay:    Stage{Level: 0.2, At: 0.1},
		Sustain:  Stage{Level: 0.1, At: 0.3},
		Release:  Stage{Level: 0, At: 1.0},
	},
	StyleSynth: {
		Waveform: Sawtooth,
		Attack:   Stage{Level: 0.4, At: 0.005},
		Decay:    Stage{Level: 0.3, At: 0.05},
		Sustain:  Stage{Level: 0.2, At: 0.5},
		Release:  Stage{Level: 0, At: 1.5},
	},
}

// ProfileFor returns the synthesis profile for s
func ProfileFor(s Style) Profile {
	if p, ok := profiles[s]; ok {
		return p
	}
	return profiles[StyleGrand]
}
