package input

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	evdev "github.com/holoplot/go-evdev"
	"github.com/juju/errors"
	"github.com/temoto/hotkeyd/internal/key"
	"github.com/temoto/inputevent-go"
)

const EvKey = uint16(evdev.EV_KEY)

// Event is one decoded struct input_event.
// Time is kept for logging only, matching never looks at it.
type Event struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

func (e Event) IsKey() bool     { return e.Type == EvKey }
func (e Event) IsPress() bool   { return e.Value == int32(inputevent.KeyStateDown) }
func (e Event) IsRelease() bool { return e.Value == int32(inputevent.KeyStateUp) }

// IsRepeat is autorepeat of a held key. Neither press nor release.
func (e Event) IsRepeat() bool { return e.Value == int32(inputevent.KeyStateHold) }

func (e Event) Key() key.Key { return key.FromCode(e.Code) }

func (e Event) String() string {
	return fmt.Sprintf("input_event(time=%d.%06d type=%d code=%d value=%d)", e.Sec, e.Usec, e.Type, e.Code, e.Value)
}

// Codec reads and writes the fixed size little endian record:
// two word sized time fields, uint16 type, uint16 code, int32 value.
type Codec struct {
	WordSize int
}

var NativeCodec = Codec{WordSize: bits.UintSize / 8}

func (c Codec) Size() int { return 2*c.WordSize + 8 }

func (c Codec) Validate() error {
	if c.WordSize != 4 && c.WordSize != 8 {
		return errors.NotValidf("input event word size=%d", c.WordSize)
	}
	return nil
}

// Decode fails with NotValid error when b is shorter than Size().
// Trailing bytes are ignored.
func (c Codec) Decode(b []byte) (Event, error) {
	if err := c.Validate(); err != nil {
		return Event{}, err
	}
	size := c.Size()
	if len(b) < size {
		return Event{}, errors.NotValidf("input event record length=%d expected=%d", len(b), size)
	}
	le := binary.LittleEndian
	var e Event
	switch c.WordSize {
	case 4:
		e.Sec = int64(int32(le.Uint32(b[0:])))
		e.Usec = int64(int32(le.Uint32(b[4:])))
	case 8:
		e.Sec = int64(le.Uint64(b[0:]))
		e.Usec = int64(le.Uint64(b[8:]))
	}
	tail := b[2*c.WordSize:]
	e.Type = le.Uint16(tail[0:])
	e.Code = le.Uint16(tail[2:])
	e.Value = int32(le.Uint32(tail[4:]))
	return e, nil
}

// Append encodes e onto b. Used to synthesize device streams.
func (c Codec) Append(b []byte, e Event) []byte {
	le := binary.LittleEndian
	var buf [24]byte
	switch c.WordSize {
	case 4:
		le.PutUint32(buf[0:], uint32(e.Sec))
		le.PutUint32(buf[4:], uint32(e.Usec))
	default:
		le.PutUint64(buf[0:], uint64(e.Sec))
		le.PutUint64(buf[8:], uint64(e.Usec))
	}
	tail := buf[2*c.wordSize():]
	le.PutUint16(tail[0:], e.Type)
	le.PutUint16(tail[2:], e.Code)
	le.PutUint32(tail[4:], uint32(e.Value))
	return append(b, buf[:2*c.wordSize()+8]...)
}

func (c Codec) wordSize() int {
	if c.WordSize == 4 {
		return 4
	}
	return 8
}
