package midi

// NoteEvent is sent when a note is played on a keyboard
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Channel  uint8
}

// Controller is the interface for MIDI input devices
type Controller interface {
	ID() string

	// Note-on events from the device; closed by Close
	NoteEvents() <-chan NoteEvent

	// Lifecycle
	Close() error
}
