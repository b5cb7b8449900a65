package piano

import (
	"sort"

	"go-piano/keys"
)

// ActiveSet holds the notes currently drawn as pressed
type ActiveSet struct {
	reg   *keys.Registry
	notes map[string]struct{}
}

func NewActiveSet(reg *keys.Registry) *ActiveSet {
	return &ActiveSet{reg: reg, notes: make(map[string]struct{})}
}

func (a *ActiveSet) Add(note string)    { a.notes[note] = struct{}{} }
func (a *ActiveSet) Remove(note string) { delete(a.notes, note) }
func (a *ActiveSet) Len() int           { return len(a.notes) }

func (a *ActiveSet) Has(note string) bool {
	_, ok := a.notes[note]
	return ok
}

// Notes returns the active notes in pitch order
func (a *ActiveSet) Notes() []string {
	out := make([]string, 0, len(a.notes))
	for n := range a.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return a.reg.Index(out[i]) < a.reg.Index(out[j])
	})
	return out
}
