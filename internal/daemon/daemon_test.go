package daemon

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/hotkeyd/hardware/input"
	"github.com/temoto/hotkeyd/internal/keybind"
	"github.com/temoto/hotkeyd/internal/launch"
	"github.com/temoto/hotkeyd/log2"
)

type recordLauncher struct {
	mu   sync.Mutex
	cmds []string
}

func (self *recordLauncher) Launch(c launch.Command) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.cmds = append(self.cmds, c.String())
	return nil
}

func (self *recordLauncher) Commands() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]string(nil), self.cmds...)
}

const (
	codeCtrl = uint16(evdev.KEY_LEFTCTRL)
	codeAlt  = uint16(evdev.KEY_LEFTALT)
	codeT    = uint16(evdev.KEY_T)
)

type panicSource struct{}

func (panicSource) ReadEvent() (input.Event, error) { panic("driver bug") }
func (panicSource) String() string                  { return "panic" }

// closeCounter counts Close calls of a wrapped source.
type closeCounter struct {
	input.Source
	closed int32
}

func (self *closeCounter) Close() error {
	atomic.AddInt32(&self.closed, 1)
	return nil
}

func (self *closeCounter) Closed() int { return int(atomic.LoadInt32(&self.closed)) }

func stream(codes ...uint16) []byte {
	var b []byte
	for _, c := range codes {
		b = input.NativeCodec.Append(b, input.Event{Type: input.EvKey, Code: c, Value: 1})
	}
	return b
}

func newTestCoordinator(t *testing.T, sources map[string]func() (input.Source, error)) (*Coordinator, *recordLauncher) {
	bs, _, err := keybind.Parse(strings.NewReader("Ctrl+Alt+t\n  terminal\n"))
	require.NoError(t, err)
	rl := &recordLauncher{}
	open := func(h input.Handle) (input.Source, error) {
		f, ok := sources[h.Path]
		if !ok {
			return nil, errors.NotFoundf("device %s", h.Path)
		}
		return f()
	}
	return New(log2.NewTest(t, log2.LDebug), keybind.NewTable(bs), rl, open), rl
}

func readerSource(name string, b []byte) func() (input.Source, error) {
	return func() (input.Source, error) {
		return input.NewReaderSource(name, bytes.NewReader(b), input.NativeCodec), nil
	}
}

func TestDevicesIndependent(t *testing.T) {
	t.Parallel()
	// Ctrl+Alt on one keyboard and t on another never combine.
	c, rl := newTestCoordinator(t, map[string]func() (input.Source, error){
		"/dev/input/event1": readerSource("event1", stream(codeCtrl, codeAlt)),
		"/dev/input/event2": readerSource("event2", stream(codeT)),
	})
	reports := c.Run([]input.Handle{
		{Name: "kbd one", Path: "/dev/input/event1"},
		{Name: "kbd two", Path: "/dev/input/event2"},
	})
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.True(t, input.IsDeviceGone(r.Err), "%v", r.Err)
	}
	assert.Empty(t, rl.Commands())
}

func TestWorkerFailureIsolated(t *testing.T) {
	t.Parallel()
	c, rl := newTestCoordinator(t, map[string]func() (input.Source, error){
		"/dev/input/event1": func() (input.Source, error) { return panicSource{}, nil },
		"/dev/input/event3": readerSource("event3", stream(codeCtrl, codeAlt, codeT)),
	})
	reports := c.Run([]input.Handle{
		{Name: "broken", Path: "/dev/input/event1"},
		{Name: "missing", Path: "/dev/input/event2"},
		{Name: "good", Path: "/dev/input/event3"},
	})
	require.Len(t, reports, 3)
	assert.Contains(t, reports[0].Err.Error(), "panic: driver bug")
	assert.True(t, errors.IsNotFound(reports[1].Err), "%v", reports[1].Err)
	assert.Equal(t, "good", reports[2].Device.Name)
	assert.True(t, input.IsDeviceGone(reports[2].Err))
	assert.Equal(t, []string{"terminal"}, rl.Commands())
}

func TestStopUnblocksReads(t *testing.T) {
	t.Parallel()
	pr, pw := io.Pipe()
	defer pw.Close()
	c, rl := newTestCoordinator(t, map[string]func() (input.Source, error){
		"/dev/input/event1": func() (input.Source, error) {
			return input.NewReaderSource("pipe", pr, input.NativeCodec), nil
		},
	})
	done := make(chan []Report)
	go func() { done <- c.Run([]input.Handle{{Name: "pipe", Path: "/dev/input/event1"}}) }()

	_, err := pw.Write(stream(codeCtrl, codeAlt, codeT))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(rl.Commands()) == 1 }, 5*time.Second, time.Millisecond)

	c.Stop()
	select {
	case reports := <-done:
		require.Len(t, reports, 1)
		assert.Error(t, reports[0].Err)
	case <-time.After(5 * time.Second):
		t.Fatal("coordinator did not stop")
	}

	assert.Empty(t, c.Run([]input.Handle{}))
}

func TestRunAfterStop(t *testing.T) {
	t.Parallel()
	c, _ := newTestCoordinator(t, nil)
	c.Stop()
	reports := c.Run([]input.Handle{{Name: "late", Path: "/dev/input/event9"}})
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0].Err.Error(), "not started")
}

func TestEndedWorkerClosesSource(t *testing.T) {
	t.Parallel()
	lost := &closeCounter{Source: input.NewReaderSource("event1", bytes.NewReader(stream(codeCtrl)), input.NativeCodec)}
	broken := &closeCounter{Source: panicSource{}}
	c, _ := newTestCoordinator(t, map[string]func() (input.Source, error){
		"/dev/input/event1": func() (input.Source, error) { return lost, nil },
		"/dev/input/event2": func() (input.Source, error) { return broken, nil },
	})
	reports := c.Run([]input.Handle{
		{Name: "unplugged", Path: "/dev/input/event1"},
		{Name: "broken", Path: "/dev/input/event2"},
	})
	require.Len(t, reports, 2)
	assert.True(t, input.IsDeviceGone(reports[0].Err), "%v", reports[0].Err)
	assert.Contains(t, reports[1].Err.Error(), "panic: driver bug")
	assert.Equal(t, 1, lost.Closed())
	assert.Equal(t, 1, broken.Closed())

	// later Stop does not close again
	c.Stop()
	assert.Equal(t, 1, lost.Closed())
}

func TestStopClosesSourceOnce(t *testing.T) {
	t.Parallel()
	pr, pw := io.Pipe()
	defer pw.Close()
	src := &closeCounter{Source: input.NewReaderSource("pipe", pr, input.NativeCodec)}
	c, _ := newTestCoordinator(t, map[string]func() (input.Source, error){
		"/dev/input/event1": func() (input.Source, error) { return src, nil },
	})
	done := make(chan []Report)
	go func() { done <- c.Run([]input.Handle{{Name: "pipe", Path: "/dev/input/event1"}}) }()
	_, err := pw.Write(stream(codeCtrl))
	require.NoError(t, err)

	c.Stop()
	// closeCounter does not unblock the pipe
	require.NoError(t, pr.Close())
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("coordinator did not stop")
	}
	require.Eventually(t, func() bool { return src.Closed() != 0 }, 5*time.Second, time.Millisecond)
	assert.Equal(t, 1, src.Closed())
}
