package synth

import "math"

// Waveform is an oscillator shape
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

func (w Waveform) String() string {
	switch w {
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	default:
		return "sine"
	}
}

// Oscillator is a phase-accumulating tone source that only sounds between
// its start and stop times
type Oscillator struct {
	Waveform  Waveform
	Frequency float64

	phase float64 // 0..1
	start float64
	stop  float64
}

// NewOscillator creates an oscillator that has not been started
func NewOscillator(w Waveform, freq float64) *Oscillator {
	return &Oscillator{
		Waveform:  w,
		Frequency: freq,
		start:     math.Inf(1),
		stop:      math.Inf(1),
	}
}

func (o *Oscillator) Start(t float64) { o.start = t }
func (o *Oscillator) Stop(t float64)  { o.stop = t }

func (o *Oscillator) StartTime() float64 { return o.start }
func (o *Oscillator) StopTime() float64  { return o.stop }

// Playing reports whether t falls inside [start, stop)
func (o *Oscillator) Playing(t float64) bool {
	return t >= o.start && t < o.stop
}

// Next returns the current sample in [-1, 1] and advances one sample period
func (o *Oscillator) Next(sampleRate int) float64 {
	v := shape(o.Waveform, o.phase)
	o.phase += o.Frequency / float64(sampleRate)
	o.phase -= math.Floor(o.phase)
	return v
}

// shape evaluates a waveform at phase p in [0, 1). All shapes start at 0
// and rise.
func shape(w Waveform, p float64) float64 {
	switch w {
	case Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		q := p + 0.5
		return 2*(q-math.Floor(q)) - 1
	case Triangle:
		q := p + 0.25
		return 1 - 4*math.Abs(q-math.Floor(q)-0.5)
	default:
		return math.Sin(2 * math.Pi * p)
	}
}
