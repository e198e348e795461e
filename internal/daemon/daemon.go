// Package daemon runs one listener per keyboard device over a shared bindings table.
package daemon

import (
	"io"
	"runtime/debug"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/hotkeyd/hardware/input"
	"github.com/temoto/hotkeyd/internal/keybind"
	"github.com/temoto/hotkeyd/internal/listen"
	"github.com/temoto/hotkeyd/log2"
)

type Opener func(input.Handle) (input.Source, error)

func DevInputEventOpener(codec input.Codec) Opener {
	return func(h input.Handle) (input.Source, error) {
		return input.NewDevInputEventSource(h.Path, codec)
	}
}

// Report is why a device worker ended.
type Report struct {
	Device input.Handle
	Err    error
}

type Coordinator struct {
	Log      *log2.Log
	Alive    *alive.Alive
	Table    *keybind.Table
	Launcher listen.Launcher
	Open     Opener

	mu      sync.Mutex
	closers []io.Closer
}

func New(log *log2.Log, table *keybind.Table, launcher listen.Launcher, open Opener) *Coordinator {
	return &Coordinator{
		Log:      log,
		Alive:    alive.NewAlive(),
		Table:    table,
		Launcher: launcher,
		Open:     open,
	}
}

// Stop closes device sources, so workers return from blocked reads.
func (self *Coordinator) Stop() { self.Alive.Stop() }

// Run starts one worker per device and returns after every worker ended.
// A worker failure, including panic, never affects other workers.
func (self *Coordinator) Run(devices []input.Handle) []Report {
	reports := make([]Report, len(devices))
	done := make(chan struct{})
	go self.closeOnStop(done)
	for i, h := range devices {
		reports[i].Device = h
		if !self.Alive.Add(1) {
			reports[i].Err = errors.Errorf("device=%s not started, stopping", h.Path)
			continue
		}
		go self.worker(&reports[i])
	}
	self.Log.Infof("listening devices=%d bindings=%d", len(devices), self.Table.Len())
	self.Alive.WaitTasks()
	close(done)
	return reports
}

func (self *Coordinator) worker(r *Report) {
	defer self.Alive.Done()
	defer func() {
		if x := recover(); x != nil {
			r.Err = errors.Errorf("device=%s panic: %v\n%s", r.Device.Path, x, debug.Stack())
			self.Log.Error(r.Err)
		}
	}()

	source, err := self.Open(r.Device)
	if err != nil {
		r.Err = errors.Annotatef(err, "device=%s name=%s", r.Device.Path, r.Device.Name)
		self.Log.Error(r.Err)
		return
	}
	if c, ok := source.(io.Closer); ok {
		self.track(c)
		defer self.release(c)
	}
	self.Log.Infof("device=%s name='%s' listening", r.Device.Path, r.Device.Name)

	l := listen.New(self.Log, source, self.Table, self.Launcher)
	err = l.Run()
	r.Err = errors.Annotatef(err, "device=%s name=%s", r.Device.Path, r.Device.Name)
	switch {
	case !self.Alive.IsRunning():
		self.Log.Debugf("device=%s stopped", r.Device.Path)
	case input.IsDeviceGone(err):
		self.Log.Errorf("device=%s name='%s' lost, last key event %v ago", r.Device.Path, r.Device.Name, l.SinceLastEvent())
	default:
		self.Log.Error(r.Err)
	}
}

// track registers c for closing on Stop. After Stop, c is closed at once.
func (self *Coordinator) track(c io.Closer) {
	self.mu.Lock()
	running := self.Alive.IsRunning()
	if running {
		self.closers = append(self.closers, c)
	}
	self.mu.Unlock()
	if !running {
		self.close(c)
	}
}

// release closes c of an ended worker, unless Stop already did.
func (self *Coordinator) release(c io.Closer) {
	found := false
	self.mu.Lock()
	for i, x := range self.closers {
		if x == c {
			self.closers = append(self.closers[:i], self.closers[i+1:]...)
			found = true
			break
		}
	}
	self.mu.Unlock()
	if found {
		self.close(c)
	}
}

func (self *Coordinator) closeOnStop(done <-chan struct{}) {
	select {
	case <-self.Alive.StopChan():
	case <-done:
		return
	}
	self.mu.Lock()
	cs := self.closers
	self.closers = nil
	self.mu.Unlock()
	for _, c := range cs {
		self.close(c)
	}
}

func (self *Coordinator) close(c io.Closer) {
	if err := c.Close(); err != nil {
		self.Log.Debugf("close err=%v", err)
	}
}
