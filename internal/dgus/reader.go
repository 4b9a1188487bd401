package dgus

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/juju/errors"
	"github.com/temoto/printpanel/internal/types"
)

// Reader extracts key commands from display output.
// Touch keys arrive as variable read frames: addr=action, first word=key.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader { return &Reader{r: bufio.NewReader(r)} }

// ReadEvent blocks until one valid key frame. Frames of other kinds are skipped.
func (self *Reader) ReadEvent() (types.InputEvent, error) {
	for {
		if err := self.sync(); err != nil {
			return types.InputEvent{}, err
		}
		length, err := self.r.ReadByte()
		if err != nil {
			return types.InputEvent{}, err
		}
		payload := make([]byte, length)
		if _, err = io.ReadFull(self.r, payload); err != nil {
			return types.InputEvent{}, errors.Annotate(err, "dgus read payload")
		}
		e, err := DecodePayload(payload)
		if errors.IsNotValid(err) {
			continue
		}
		return e, err
	}
}

func (self *Reader) sync() error {
	prev := byte(0)
	for {
		b, err := self.r.ReadByte()
		if err != nil {
			return err
		}
		if prev == header1 && b == header2 {
			return nil
		}
		prev = b
	}
}

// DecodePayload parses <cmd><data> of an incoming frame.
func DecodePayload(p []byte) (types.InputEvent, error) {
	if len(p) < 1 || p[0] != CmdVariableRead {
		return types.InputEvent{}, errors.NotValidf("dgus payload=%x not a key frame", p)
	}
	if len(p) < 6 {
		return types.InputEvent{}, errors.NotValidf("dgus payload=%x short", p)
	}
	count := int(p[3])
	if count < 1 || len(p) < 4+2*count {
		return types.InputEvent{}, errors.NotValidf("dgus payload=%x words=%d", p, count)
	}
	return types.InputEvent{
		Action: binary.BigEndian.Uint16(p[1:]),
		Key:    binary.BigEndian.Uint16(p[4:]),
	}, nil
}

// EncodeKey builds the frame a display sends on key press, used by simulators and tests.
func EncodeKey(e types.InputEvent) []byte {
	data := make([]byte, 5)
	binary.BigEndian.PutUint16(data, e.Action)
	data[2] = 1
	binary.BigEndian.PutUint16(data[3:], e.Key)
	b, _ := EncodeFrame(CmdVariableRead, data)
	return b
}
