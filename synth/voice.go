package synth

// Voice is one note's synthesis graph: oscillator -> gain -> output.
// A voice is used once and disconnected after its stop time.
type Voice struct {
	osc  *Oscillator
	gain *Param

	waveform Waveform
	start    float64
	stop     float64
	onset    float64 // audio time of the first rendered frame, -1 until then
}

func newVoice(osc *Oscillator, gain *Param) *Voice {
	return &Voice{
		osc:      osc,
		gain:     gain,
		waveform: osc.Waveform,
		start:    osc.StartTime(),
		stop:     osc.StopTime(),
		onset:    -1,
	}
}

// sample renders one frame at time t
func (v *Voice) sample(t float64, sampleRate int) float64 {
	if v.osc == nil || !v.osc.Playing(t) {
		return 0
	}
	if v.onset < 0 {
		v.onset = t
	}
	return v.osc.Next(sampleRate) * v.gain.ValueAt(t)
}

// Done reports whether the voice's stop time has passed at t
func (v *Voice) Done(t float64) bool {
	return t >= v.stop
}

// Disconnect drops the oscillator and gain nodes
func (v *Voice) Disconnect() {
	v.osc = nil
	v.gain = nil
}

// Connected reports whether the voice still holds its nodes
func (v *Voice) Connected() bool {
	return v.osc != nil
}

func (v *Voice) Waveform() Waveform { return v.waveform }
func (v *Voice) StartTime() float64 { return v.start }
func (v *Voice) StopTime() float64  { return v.stop }

// Gain returns the envelope, or nil once disconnected
func (v *Voice) Gain() *Param { return v.gain }
