package synth

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go-piano/debug"
)

// DefaultSampleRate is used when the config does not set one
const DefaultSampleRate = 44100

// ErrNoOutput is returned by EnsureContext when no backend is configured
var ErrNoOutput = errors.New("no audio output configured")

// Output is an open audio backend streaming from the mixer
type Output interface {
	Close() error
}

// Opener opens the platform audio output, pulling samples from src
type Opener func(src io.Reader, sampleRate int) (Output, error)

// Context is the single shared audio output: one mixer, one backend
type Context struct {
	mixer *Mixer
	out   Output
}

func (c *Context) CurrentTime() float64 { return c.mixer.CurrentTime() }
func (c *Context) SampleRate() int      { return c.mixer.SampleRate() }

// Voices is the number of notes currently sounding
func (c *Context) Voices() int { return c.mixer.Voices() }

// Mixer exposes the output stage (for offline rendering)
func (c *Context) Mixer() *Mixer { return c.mixer }

// Play allocates a fresh oscillator and gain for one note, schedules the
// style's envelope from the current audio time and connects it
func (c *Context) Play(freq float64, style Style) *Voice {
	p := ProfileFor(style)
	return c.mixer.schedule(func(now float64) *Voice {
		osc := NewOscillator(p.Waveform, freq)
		gain := NewParam(0)
		gain.SetValueAtTime(0, now)
		for _, st := range p.Stages() {
			gain.LinearRampToValueAtTime(st.Level, now+st.At)
		}
		osc.Start(now)
		osc.Stop(now + p.Duration())
		return newVoice(osc, gain)
	})
}

// Engine lazily creates the shared Context on the first user gesture and
// plays tones through it
type Engine struct {
	mu         sync.Mutex
	open       Opener
	sampleRate int

	tried bool
	ctx   *Context
	err   error
}

// NewEngine creates an engine. Nothing is opened until EnsureContext.
func NewEngine(open Opener, sampleRate int) *Engine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Engine{open: open, sampleRate: sampleRate}
}

// EnsureContext opens the audio output on the first call and returns the
// same context (or the same error) on every later call
func (e *Engine) EnsureContext() (*Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tried {
		return e.ctx, e.err
	}
	e.tried = true

	if e.open == nil {
		e.err = ErrNoOutput
		return nil, e.err
	}

	mixer := NewMixer(e.sampleRate)
	out, err := e.open(mixer, e.sampleRate)
	if err != nil {
		e.err = fmt.Errorf("open audio output: %w", err)
		debug.Log("audio", "context failed: %v", e.err)
		return nil, e.err
	}
	e.ctx = &Context{mixer: mixer, out: out}
	debug.Log("audio", "context ready at %d Hz", e.sampleRate)
	return e.ctx, nil
}

// Context returns the shared context, or nil before a successful
// EnsureContext
func (e *Engine) Context() *Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx
}

// Err returns the error from the first EnsureContext, if any
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// PlayTone sounds one note. Before the context exists the note is dropped.
func (e *Engine) PlayTone(freq float64, style Style) {
	ctx := e.Context()
	if ctx == nil {
		return
	}
	ctx.Play(freq, style)
}

// Close shuts down the audio output
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx == nil || e.ctx.out == nil {
		return nil
	}
	err := e.ctx.out.Close()
	e.ctx.out = nil
	return err
}
