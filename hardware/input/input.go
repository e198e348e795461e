// Package input reads keyboard events from Linux event device files.
package input

import (
	"io"
	"os"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

// Source is one keyboard event stream.
// ReadEvent errors satisfying errors.IsNotValid concern a single record, the stream is still usable.
// Any other error means the stream is over.
type Source interface {
	ReadEvent() (Event, error)
	String() string
}

// IsDeviceGone reports whether err means the device was closed or unplugged.
func IsDeviceGone(err error) bool {
	cause := errors.Cause(err)
	if pe, ok := cause.(*os.PathError); ok {
		cause = pe.Err
	}
	switch cause {
	case io.EOF, os.ErrClosed, unix.ENODEV:
		return true
	}
	return false
}
