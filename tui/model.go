package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-piano/debug"
	"go-piano/midi"
	"go-piano/piano"
	"go-piano/synth"
	"go-piano/theme"
)

// Audio is the lazily opened tone output
type Audio interface {
	EnsureContext() (*synth.Context, error)
	Context() *synth.Context
}

// refreshRate redraws the status line while notes ring out
const refreshRate = 100 * time.Millisecond

// Keyboard origin inside the view
const leftMargin = 2

// layoutBounds holds cached layout info
type layoutBounds struct {
	keyboardTop int
}

type Model struct {
	Dispatcher *piano.Dispatcher
	Audio      Audio
	DeviceMgr  *midi.DeviceManager // nil when MIDI is off

	keyboard  keyboardLayout
	bounds    *layoutBounds
	gestured  bool
	audioErr  error
	midiPorts []midi.Controller
	quitting  bool
}

// releaseMsg fires when a key's highlight decay window ends
type releaseMsg struct{ note string }

type refreshMsg struct{}

type DeviceEventMsg midi.DeviceEvent

// NoteMsg is a note-on from a connected MIDI keyboard
type NoteMsg struct {
	Controller midi.Controller
	Event      midi.NoteEvent
}

type controllerClosedMsg struct{ c midi.Controller }

func NewModel(d *piano.Dispatcher, audio Audio, deviceMgr *midi.DeviceManager) Model {
	return Model{
		Dispatcher: d,
		Audio:      audio,
		DeviceMgr:  deviceMgr,
		keyboard:   newKeyboardLayout(d.Registry()),
		bounds:     &layoutBounds{},
	}
}

func releaseAfter(note string) tea.Cmd {
	return tea.Tick(piano.DecayWindow, func(time.Time) tea.Msg {
		return releaseMsg{note: note}
	})
}

func refresh() tea.Cmd {
	return tea.Tick(refreshRate, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func ListenForNotes(c midi.Controller) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-c.NoteEvents()
		if !ok {
			return controllerClosedMsg{c: c}
		}
		return NoteMsg{Controller: c, Event: ev}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{refresh()}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

// gesture opens the audio output on the first user interaction
func (m *Model) gesture() {
	if m.gestured {
		return
	}
	m.gestured = true
	if _, err := m.Audio.EnsureContext(); err != nil {
		m.audioErr = err
		debug.Log("tui", "audio unavailable: %v", err)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "tab":
			m.gesture()
			m.Dispatcher.ToggleStyle()
			return m, nil

		default:
			m.gesture()
			if k, ok := m.Dispatcher.KeyDown(msg.String()); ok {
				return m, releaseAfter(k.Note)
			}
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.gesture()
		x := msg.X - leftMargin
		y := msg.Y - m.bounds.keyboardTop
		if k, ok := m.keyboard.hit(x, y); ok {
			m.Dispatcher.Press(k)
			return m, releaseAfter(k.Note)
		}

	case releaseMsg:
		m.Dispatcher.Release(msg.note)

	case refreshMsg:
		return m, refresh()

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		next := ListenForDevices(m.DeviceMgr)
		switch event.Type {
		case midi.DeviceConnected:
			m.midiPorts = append(m.midiPorts, event.Controller)
			return m, tea.Batch(next, ListenForNotes(event.Controller))
		case midi.DeviceDisconnected:
			m.dropPorts(func(c midi.Controller) bool { return c.ID() == event.ID })
		}
		return m, next

	case NoteMsg:
		m.gesture()
		next := ListenForNotes(msg.Controller)
		k, ok := m.Dispatcher.Registry().ByMIDI(msg.Event.Note)
		if !ok {
			return m, next
		}
		m.Dispatcher.Press(k)
		return m, tea.Batch(next, releaseAfter(k.Note))

	case controllerClosedMsg:
		// A port can reconnect under the same name before the old
		// listener sees its channel close, so match the controller itself.
		m.dropPorts(func(c midi.Controller) bool { return c == msg.c })
	}

	return m, nil
}

func (m *Model) dropPorts(match func(midi.Controller) bool) {
	var kept []midi.Controller
	for _, c := range m.midiPorts {
		if !match(c) {
			kept = append(kept, c)
		}
	}
	m.midiPorts = kept
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	style := m.Dispatcher.Style()
	th := theme.ForStyle(style)

	// Styles
	titleStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	selectedStyle := lipgloss.NewStyle().Foreground(th.BG()).Background(th.Accent()).Padding(0, 1)
	unselectedStyle := lipgloss.NewStyle().Foreground(th.Muted()).Padding(0, 1)

	grand, synthTab := unselectedStyle, unselectedStyle
	if style == synth.StyleSynth {
		synthTab = selectedStyle
	} else {
		grand = selectedStyle
	}
	switcher := grand.Render("Grand Piano") + " " + synthTab.Render("Synth")

	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(th.Title)+"   "+switcher,
		dimStyle.Render(th.Subtitle),
	)

	keyboard := lipgloss.NewStyle().MarginLeft(leftMargin).
		Render(m.keyboard.render(th, m.Dispatcher.Active()))

	playing := "♪"
	if notes := m.Dispatcher.Active().Notes(); len(notes) > 0 {
		playing += " " + strings.Join(notes, " ")
	}

	help := dimStyle.Render("q..n:play  click:play  tab:style  esc:quit")

	// Compute layout bounds: blank line, header, blank line
	m.bounds.keyboardTop = 1 + lipgloss.Height(header) + 1

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(keyboard)
	out.WriteString("\n\n")
	out.WriteString(lipgloss.NewStyle().Foreground(th.FG()).Render(playing))
	out.WriteString("\n")
	out.WriteString(m.status(th))
	out.WriteString("\n\n")
	out.WriteString(help)

	return out.String()
}

func (m Model) status(th *theme.Theme) string {
	dim := lipgloss.NewStyle().Foreground(th.Muted())
	ok := lipgloss.NewStyle().Foreground(th.Accent())

	var audio string
	switch ctx := m.Audio.Context(); {
	case ctx != nil:
		audio = ok.Render(fmt.Sprintf("%c audio %dHz  voices:%d", th.Symbols.Ready, ctx.SampleRate(), ctx.Voices()))
	case m.audioErr != nil:
		audio = dim.Render(fmt.Sprintf("%c audio unavailable: %v", th.Symbols.Off, m.audioErr))
	default:
		audio = dim.Render(fmt.Sprintf("%c audio starts on first key", th.Symbols.Off))
	}

	if m.DeviceMgr == nil {
		return audio
	}
	ports := "none"
	if len(m.midiPorts) > 0 {
		names := make([]string, len(m.midiPorts))
		for i, c := range m.midiPorts {
			names[i] = c.ID()
		}
		ports = strings.Join(names, ", ")
	}
	return audio + dim.Render("  midi: "+ports)
}
