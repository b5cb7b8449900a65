package synth

import "sort"

type rampKind int

const (
	setValue rampKind = iota
	linearRamp
)

type automationEvent struct {
	kind  rampKind
	value float64
	time  float64
}

// Param is an automatable value on the audio clock, e.g. a gain.
// Events must be scheduled in time order per kind of call; ValueAt
// interpolates between them.
type Param struct {
	initial float64
	events  []automationEvent
}

// NewParam creates a param holding v until its first event
func NewParam(v float64) *Param {
	return &Param{initial: v}
}

// SetValueAtTime jumps to v at time t
func (p *Param) SetValueAtTime(v, t float64) {
	p.insert(automationEvent{kind: setValue, value: v, time: t})
}

// LinearRampToValueAtTime ramps linearly from the previous event's value,
// arriving at v at time t
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.insert(automationEvent{kind: linearRamp, value: v, time: t})
}

func (p *Param) insert(ev automationEvent) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > ev.time })
	p.events = append(p.events, automationEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = ev
}

// ValueAt returns the param's value at time t
func (p *Param) ValueAt(t float64) float64 {
	if len(p.events) == 0 || t < p.events[0].time {
		return p.initial
	}

	// Index of the first event strictly after t
	next := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > t })
	prev := p.events[next-1]
	if next == len(p.events) {
		return prev.value
	}

	ev := p.events[next]
	if ev.kind != linearRamp {
		return prev.value
	}
	span := ev.time - prev.time
	if span <= 0 {
		return ev.value
	}
	frac := (t - prev.time) / span
	return prev.value + (ev.value-prev.value)*frac
}

// EndTime is the time of the last scheduled event
func (p *Param) EndTime() float64 {
	if len(p.events) == 0 {
		return 0
	}
	return p.events[len(p.events)-1].time
}
