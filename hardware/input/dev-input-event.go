package input

import (
	"io"
	"os"

	"github.com/juju/errors"
)

const DevInputEventTag = "dev-input-event"

type DevInputEventSource struct {
	name  string
	f     io.Reader
	codec Codec
	buf   []byte
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return DevInputEventTag + ":" + self.name }

func NewDevInputEventSource(device string, codec Codec) (*DevInputEventSource, error) {
	if err := codec.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Annotatef(err, "%s open", DevInputEventTag)
	}
	return NewReaderSource(device, f, codec), nil
}

// NewReaderSource reads records from any stream, e.g. a pipe or synthesized bytes.
func NewReaderSource(name string, r io.Reader, codec Codec) *DevInputEventSource {
	return &DevInputEventSource{
		name:  name,
		f:     r,
		codec: codec,
		buf:   make([]byte, codec.Size()),
	}
}

// Close unblocks pending ReadEvent.
func (self *DevInputEventSource) Close() error {
	if c, ok := self.f.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ReadEvent expects one whole record per read, as evdev delivers them.
func (self *DevInputEventSource) ReadEvent() (Event, error) {
	n, err := self.f.Read(self.buf)
	if n == 0 && err == nil {
		err = io.ErrNoProgress
	}
	if n == 0 {
		return Event{}, errors.Annotatef(err, "%s read", self)
	}
	if n != len(self.buf) {
		return Event{}, errors.NotValidf("%s read n=%d expected=%d", self, n, len(self.buf))
	}
	return self.codec.Decode(self.buf)
}
