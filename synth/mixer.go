package synth

import (
	"encoding/binary"
	"math"
	"sync"
)

// Mixer is the output stage. It owns the audio clock, sums every connected
// voice into mono float32 frames and disconnects voices once they stop.
type Mixer struct {
	mu         sync.Mutex
	sampleRate int
	frame      int64
	voices     []*Voice
	buf        []float32
}

// NewMixer creates a mixer running at sampleRate frames per second
func NewMixer(sampleRate int) *Mixer {
	return &Mixer{
		sampleRate: sampleRate,
		buf:        make([]float32, 1024),
	}
}

func (m *Mixer) SampleRate() int { return m.sampleRate }

// CurrentTime is the audio clock in seconds: frames rendered so far
func (m *Mixer) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now()
}

func (m *Mixer) now() float64 {
	return float64(m.frame) / float64(m.sampleRate)
}

// schedule builds a voice against the current audio time and connects it
// in one step, so no frames are rendered in between
func (m *Mixer) schedule(build func(now float64) *Voice) *Voice {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := build(m.now())
	m.voices = append(m.voices, v)
	return v
}

// Voices returns the number of connected voices
func (m *Mixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Render fills dst with the next len(dst) frames
func (m *Mixer) Render(dst []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.render(dst)
}

func (m *Mixer) render(dst []float32) {
	for i := range dst {
		t := m.now()
		var sum float64
		for _, v := range m.voices {
			sum += v.sample(t, m.sampleRate)
		}
		dst[i] = float32(clamp(sum))
		m.frame++
	}
	m.reap()
}

// reap disconnects and drops finished voices
func (m *Mixer) reap() {
	t := m.now()
	live := m.voices[:0]
	for _, v := range m.voices {
		if v.Done(t) {
			v.Disconnect()
			continue
		}
		live = append(live, v)
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = live
}

// Read implements io.Reader, producing little-endian float32 mono samples.
// It never runs dry; silence is rendered when no voice is connected.
func (m *Mixer) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := len(p) / 4
	if cap(m.buf) < frames {
		m.buf = make([]float32, frames)
	}
	samples := m.buf[:frames]
	m.render(samples)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return frames * 4, nil
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
