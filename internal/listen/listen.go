// Package listen tracks held keys of one keyboard and launches bound commands.
package listen

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/atomic_clock"
	"github.com/temoto/hotkeyd/hardware/input"
	"github.com/temoto/hotkeyd/internal/key"
	"github.com/temoto/hotkeyd/internal/keybind"
	"github.com/temoto/hotkeyd/internal/launch"
	"github.com/temoto/hotkeyd/log2"
)

type Launcher interface {
	Launch(launch.Command) error
}

// Listener owns held key state of one device. Not safe for concurrent use,
// except SinceLastEvent.
type Listener struct {
	Log      *log2.Log
	source   input.Source
	table    *keybind.Table
	launcher Launcher
	held     key.Combination
	last     atomic_clock.Clock
}

func New(log *log2.Log, source input.Source, table *keybind.Table, launcher Launcher) *Listener {
	return &Listener{
		Log:      log,
		source:   source,
		table:    table,
		launcher: launcher,
	}
}

func (self *Listener) String() string { return self.source.String() }

func (self *Listener) Held() key.Combination { return self.held }

// SinceLastEvent is zero before first key event.
func (self *Listener) SinceLastEvent() time.Duration {
	if self.last.IsZero() {
		return 0
	}
	return atomic_clock.Since(&self.last)
}

// Run processes events in arrival order until the source fails.
// Malformed records are logged and skipped.
func (self *Listener) Run() error {
	for {
		e, err := self.source.ReadEvent()
		if err != nil {
			if errors.IsNotValid(err) {
				self.Log.Errorf("%s skip record: %v", self, err)
				continue
			}
			return err
		}
		self.Handle(e)
	}
}

// Handle applies one event and returns true when a binding matched.
// Only a press that changes the held set is matched, so a command fires once
// per transition into a bound combination. Repeats and releases never fire.
func (self *Listener) Handle(e input.Event) bool {
	if !e.IsKey() {
		return false
	}
	self.last.SetNow()
	k := e.Key()
	switch {
	case e.IsPress():
		if !self.held.Add(k) {
			self.Log.Debugf("%s press key=%s already held=%s", self, k, self.held)
			return false
		}
		self.Log.Debugf("%s press key=%s code=%d held=%s", self, k, e.Code, self.held)
		return self.dispatch()
	case e.IsRelease():
		self.held.Remove(k)
		self.Log.Debugf("%s release key=%s code=%d held=%s", self, k, e.Code, self.held)
	case e.IsRepeat():
		// autorepeat of a held key
	default:
		self.Log.Debugf("%s key=%s code=%d unexpected value=%d", self, k, e.Code, e.Value)
	}
	return false
}

func (self *Listener) dispatch() bool {
	cmd, ok := self.table.Lookup(self.held)
	if !ok {
		return false
	}
	self.Log.Infof("%s combination=%s launch=%s", self, self.held, cmd)
	if err := self.launcher.Launch(cmd); err != nil {
		self.Log.Errorf("%s combination=%s %v", self, self.held, err)
	}
	return true
}
