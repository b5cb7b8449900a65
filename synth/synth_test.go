package synth

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testRate = 1000 // one frame per millisecond

type fakeOutput struct {
	src    io.Reader
	closed bool
}

func (f *fakeOutput) Close() error {
	f.closed = true
	return nil
}

type fakeOpener struct {
	calls int
	out   *fakeOutput
	err   error
}

func (f *fakeOpener) open(src io.Reader, sampleRate int) (Output, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.out = &fakeOutput{src: src}
	return f.out, nil
}

func newTestEngine(t *testing.T) (*Engine, *fakeOpener) {
	t.Helper()
	op := &fakeOpener{}
	return NewEngine(op.open, testRate), op
}

// advance renders d seconds of audio
func advance(ctx *Context, d float64) {
	buf := make([]float32, int(d*float64(ctx.SampleRate())+0.5))
	ctx.Mixer().Render(buf)
}

func TestPlayToneBeforeContextIsSilent(t *testing.T) {
	e, op := newTestEngine(t)

	assert.NotPanics(t, func() { e.PlayTone(261.63, StyleGrand) })
	assert.Nil(t, e.Context())
	assert.Equal(t, 0, op.calls)
}

func TestEnsureContextIsIdempotent(t *testing.T) {
	e, op := newTestEngine(t)

	first, err := e.EnsureContext()
	require.NoError(t, err)
	second, err := e.EnsureContext()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, op.calls)
	assert.Equal(t, testRate, first.SampleRate())
}

func TestEnsureContextFailureIsSticky(t *testing.T) {
	op := &fakeOpener{err: errors.New("no device")}
	e := NewEngine(op.open, testRate)

	_, err := e.EnsureContext()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no device")

	_, err = e.EnsureContext()
	require.Error(t, err)
	assert.Equal(t, 1, op.calls)
	assert.Equal(t, err, e.Err())

	assert.NotPanics(t, func() { e.PlayTone(440, StyleSynth) })
}

func TestEnsureContextWithoutOpener(t *testing.T) {
	e := NewEngine(nil, 0)
	_, err := e.EnsureContext()
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestGrandEnvelope(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx, err := e.EnsureContext()
	require.NoError(t, err)

	v := ctx.Play(261.63, StyleGrand)
	assert.Equal(t, Triangle, v.Waveform())
	assert.InDelta(t, 1.0, v.StopTime(), 1e-9)

	g := v.Gain()
	points := []struct{ t, want float64 }{
		{0, 0},
		{0.005, 0.15},
		{0.01, 0.3},
		{0.1, 0.2},
		{0.3, 0.1},
		{0.65, 0.05},
		{1.0, 0},
		{2.0, 0},
	}
	for _, p := range points {
		assert.InDelta(t, p.want, g.ValueAt(p.t), 1e-9, "gain at %v", p.t)
	}
}

func TestSynthEnvelope(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx, err := e.EnsureContext()
	require.NoError(t, err)

	v := ctx.Play(440, StyleSynth)
	assert.Equal(t, Sawtooth, v.Waveform())
	assert.InDelta(t, 1.5, v.StopTime(), 1e-9)

	g := v.Gain()
	points := []struct{ t, want float64 }{
		{0, 0},
		{0.005, 0.4},
		{0.05, 0.3},
		{0.5, 0.2},
		{1.0, 0.1},
		{1.5, 0},
	}
	for _, p := range points {
		assert.InDelta(t, p.want, g.ValueAt(p.t), 1e-9, "gain at %v", p.t)
	}
}

func TestEnvelopeScheduledFromCurrentTime(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx, err := e.EnsureContext()
	require.NoError(t, err)

	advance(ctx, 0.25)
	v := ctx.Play(440, StyleGrand)
	assert.InDelta(t, 1.25, v.StopTime(), 1e-9)
	assert.InDelta(t, 0.3, v.Gain().ValueAt(0.26), 1e-9)
	assert.InDelta(t, 0, v.Gain().ValueAt(0.1), 1e-9)
}

func TestOverlappingTonesAreIndependent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx, err := e.EnsureContext()
	require.NoError(t, err)

	a := ctx.Play(261.63, StyleGrand)
	advance(ctx, 0.05)
	b := ctx.Play(261.63, StyleGrand)
	assert.Equal(t, 2, ctx.Voices())
	assert.NotSame(t, a, b)

	// a ends at 1.0, b at 1.05
	advance(ctx, 0.96)
	assert.False(t, a.Connected())
	assert.True(t, b.Connected())
	assert.Equal(t, 1, ctx.Voices())

	advance(ctx, 0.05)
	assert.False(t, b.Connected())
	assert.Equal(t, 0, ctx.Voices())
}

func TestStyleSwitchOnlyAffectsLaterNotes(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx, err := e.EnsureContext()
	require.NoError(t, err)

	e.PlayTone(261.63, StyleGrand)
	grand := ctx.Mixer().voices[0]
	e.PlayTone(261.63, StyleSynth)
	synthV := ctx.Mixer().voices[1]

	assert.Equal(t, Triangle, grand.Waveform())
	assert.InDelta(t, 1.0, grand.StopTime(), 1e-9)
	assert.Equal(t, Sawtooth, synthV.Waveform())
	assert.InDelta(t, 1.5, synthV.StopTime(), 1e-9)
}

func TestMixerProducesSoundWhileVoiceIsLive(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx, err := e.EnsureContext()
	require.NoError(t, err)

	ctx.Play(100, StyleSynth)
	buf := make([]float32, 500)
	ctx.Mixer().Render(buf)

	var peak float32
	for _, s := range buf {
		if s > peak {
			peak = s
		}
		assert.LessOrEqual(t, s, float32(1))
		assert.GreaterOrEqual(t, s, float32(-1))
	}
	assert.Greater(t, peak, float32(0.1))

	advance(ctx, 1.1)
	ctx.Mixer().Render(buf)
	for _, s := range buf {
		assert.Zero(t, s)
	}
}

func TestMixerReadEncodesFloat32(t *testing.T) {
	m := NewMixer(testRate)
	p := make([]byte, 4*16)
	n, err := m.Read(p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)
	for _, b := range p {
		assert.Zero(t, b)
	}
	assert.InDelta(t, 0.016, m.CurrentTime(), 1e-9)
}

func TestEngineClose(t *testing.T) {
	e, op := newTestEngine(t)
	require.NoError(t, e.Close())

	_, err := e.EnsureContext()
	require.NoError(t, err)
	require.NoError(t, e.Close())
	assert.True(t, op.out.closed)
	require.NoError(t, e.Close())
}

func TestVoicesStartOnTheirFirstRenderedFrame(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx, err := e.EnsureContext()
	require.NoError(t, err)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		p := make([]byte, 4*20)
		for {
			select {
			case <-stop:
				return
			default:
				_, _ = ctx.Mixer().Read(p)
			}
		}
	}()

	var voices []*Voice
	for i := 0; i < 200; i++ {
		style := StyleGrand
		if i%2 == 1 {
			style = StyleSynth
		}
		voices = append(voices, ctx.Play(440, style))
	}
	close(stop)
	<-done

	advance(ctx, 2)
	for i, v := range voices {
		assert.Equal(t, v.StartTime(), v.onset, "voice %d", i)
	}
}
