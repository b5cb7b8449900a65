package midi

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"go-piano/debug"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeController struct {
	id     string
	notes  chan NoteEvent
	closed bool
}

func (f *fakeController) ID() string { return f.id }

func (f *fakeController) NoteEvents() <-chan NoteEvent { return f.notes }

func (f *fakeController) Close() error {
	f.closed = true
	return nil
}

type fakeSystem struct {
	mu     sync.Mutex
	ports  []string
	opened map[string]*fakeController
	fail   map[string]bool
}

func (s *fakeSystem) list() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ports...)
}

func (s *fakeSystem) setPorts(p ...string) {
	s.mu.Lock()
	s.ports = p
	s.mu.Unlock()
}

func (s *fakeSystem) connect(name string) (Controller, error) {
	if s.fail[name] {
		return nil, errors.New("busy")
	}
	c := &fakeController{id: name, notes: make(chan NoteEvent)}
	s.opened[name] = c
	return c, nil
}

func newTestManager(filter string, ports ...string) (*DeviceManager, *fakeSystem) {
	sys := &fakeSystem{ports: ports, opened: map[string]*fakeController{}, fail: map[string]bool{}}
	dm := NewDeviceManager(filter)
	dm.listPorts = sys.list
	dm.connect = sys.connect
	return dm, sys
}

func TestScanConnectsMatchingPorts(t *testing.T) {
	dm, sys := newTestManager("", "Keystation 49", "Midi Through Port-0")
	dm.scan(context.Background())

	require.Len(t, dm.Controllers(), 1)
	assert.Contains(t, sys.opened, "Keystation 49")

	ev := <-dm.Events()
	assert.Equal(t, DeviceConnected, ev.Type)
	assert.Equal(t, "Keystation 49", ev.ID)
	assert.NotNil(t, ev.Controller)
}

func TestScanFilter(t *testing.T) {
	dm, _ := newTestManager("keystation", "Keystation 49", "Launchpad X LPX MIDI")
	dm.scan(context.Background())

	ctrls := dm.Controllers()
	assert.Len(t, ctrls, 1)
	assert.Contains(t, ctrls, "Keystation 49")
}

func TestScanSkipsFailedConnect(t *testing.T) {
	dm, sys := newTestManager("", "A", "B")
	sys.fail["A"] = true
	dm.scan(context.Background())

	ctrls := dm.Controllers()
	assert.Len(t, ctrls, 1)
	assert.Contains(t, ctrls, "B")
}

func TestScanDetectsDisconnect(t *testing.T) {
	dm, sys := newTestManager("", "A")
	dm.scan(context.Background())
	<-dm.Events()

	sys.setPorts()
	dm.scan(context.Background())

	ev := <-dm.Events()
	assert.Equal(t, DeviceDisconnected, ev.Type)
	assert.Equal(t, "A", ev.ID)
	assert.Empty(t, dm.Controllers())
	assert.True(t, sys.opened["A"].closed)
}

func TestScanDoesNotReconnectKnownPorts(t *testing.T) {
	dm, sys := newTestManager("", "A")
	dm.scan(context.Background())
	first := sys.opened["A"]
	dm.scan(context.Background())

	assert.Same(t, first, sys.opened["A"])
	assert.Len(t, dm.Events(), 1)
}

func TestScanLogsPortCountPeriodically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, debug.Enable(path))
	t.Cleanup(debug.Disable)

	dm, _ := newTestManager("")
	// one in every 30 scans is logged
	for i := 0; i < 30; i++ {
		dm.scan(context.Background())
	}
	require.NoError(t, debug.Logger().Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scan: 0 input ports (every 30")
}

func TestRunClosesOnCancel(t *testing.T) {
	dm, sys := newTestManager("", "A")
	dm.pollRate = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dm.Run(ctx)
		close(done)
	}()

	ev := <-dm.Events()
	assert.Equal(t, DeviceConnected, ev.Type)

	cancel()
	<-done

	for range dm.Events() {
	}
	assert.True(t, sys.opened["A"].closed)
	assert.Empty(t, dm.Controllers())
}

func TestKeyboardControllerDropsWhenFull(t *testing.T) {
	kb, err := NewKeyboardController("test", nil)
	require.NoError(t, err)

	for i := 0; i < 40; i++ {
		kb.deliver(NoteEvent{Note: uint8(60 + i%12), Velocity: 100})
	}
	assert.Len(t, kb.NoteEvents(), 32)

	require.NoError(t, kb.Close())
	require.NoError(t, kb.Close())
	kb.deliver(NoteEvent{Note: 60})

	n := 0
	for range kb.NoteEvents() {
		n++
	}
	assert.Equal(t, 32, n)
}
