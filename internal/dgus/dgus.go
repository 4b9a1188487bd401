// Package dgus talks to a DGUS touch display over a serial link.
//
// Frame: 5A A5 <len> <cmd> <data...>, len counts cmd and data, numbers are big-endian.
package dgus

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
	"github.com/temoto/printpanel/helpers"
	"github.com/temoto/printpanel/log2"
)

const (
	header1 byte = 0x5a
	header2 byte = 0xa5

	CmdRegisterWrite byte = 0x80
	CmdRegisterRead  byte = 0x81
	CmdVariableWrite byte = 0x82
	CmdVariableRead  byte = 0x83

	regBrightness byte = 0x01
	regPicture    byte = 0x03

	maxData = 0xff - 1
)

// Variable is a display VP address.
type Variable uint16

const (
	VarMessage           Variable = 0x2000
	VarWaitMessage       Variable = 0x2040
	VarFeatures          Variable = 0x0300
	VarZHeightMultiplier Variable = 0x0310
	VarZHeight           Variable = 0x0311
	VarPreheat           Variable = 0x0320
	VarFirmwareVersion   Variable = 0x0330
)

func (v Variable) String() string { return fmt.Sprintf("vp%04x", uint16(v)) }

// Displayer is the outbound side used by screens.
type Displayer interface {
	ShowPage(page uint8) error
	WriteWords(v Variable, words ...uint16) error
	WriteText(v Variable, s string) error
	SetBrightness(level uint8) error
}

func EncodeFrame(cmd byte, data []byte) ([]byte, error) {
	if len(data) > maxData {
		return nil, errors.NotValidf("dgus frame cmd=%02x data length=%d > max=%d", cmd, len(data), maxData)
	}
	b := make([]byte, 0, 4+len(data))
	b = append(b, header1, header2, byte(1+len(data)), cmd)
	return append(b, data...), nil
}

type Device struct {
	mu  sync.Mutex
	log *log2.Log
	w   io.Writer
	tr  atomic.Value // charset.Translator
}

var _ Displayer = &Device{}

func NewDevice(log *log2.Log, w io.Writer) *Device {
	return &Device{log: log, w: w}
}

func (self *Device) SetCodepage(cp string) error {
	if cp == "" {
		return nil
	}
	tr, err := charset.TranslatorTo(cp)
	if err != nil {
		return errors.Annotatef(err, "dgus codepage=%s", cp)
	}
	self.tr.Store(tr)
	return nil
}

func (self *Device) send(cmd byte, data []byte) error {
	b, err := EncodeFrame(cmd, data)
	if err != nil {
		return err
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	self.log.Debugf("dgus send %x", b)
	if err = helpers.WriteFull(self.w, b); err != nil {
		return errors.Annotatef(err, "dgus write cmd=%02x", cmd)
	}
	return nil
}

func (self *Device) ShowPage(page uint8) error {
	return self.send(CmdRegisterWrite, []byte{regPicture, 0x00, page})
}

func (self *Device) SetBrightness(level uint8) error {
	return self.send(CmdRegisterWrite, []byte{regBrightness, level})
}

func (self *Device) WriteWords(v Variable, words ...uint16) error {
	data := make([]byte, 2+2*len(words))
	binary.BigEndian.PutUint16(data, uint16(v))
	for i, w := range words {
		binary.BigEndian.PutUint16(data[2+2*i:], w)
	}
	return self.send(CmdVariableWrite, data)
}

// WriteText sends s translated to the display codepage, terminated with FF FF.
func (self *Device) WriteText(v Variable, s string) error {
	text := self.Translate(s)
	data := make([]byte, 2, 2+len(text)+2)
	binary.BigEndian.PutUint16(data, uint16(v))
	data = append(data, text...)
	data = append(data, 0xff, 0xff)
	return self.send(CmdVariableWrite, data)
}

func (self *Device) Translate(s string) []byte {
	result := []byte(s)
	tr, ok := self.tr.Load().(charset.Translator)
	if ok && tr != nil {
		self.mu.Lock()
		defer self.mu.Unlock()
		_, tb, err := tr.Translate(result, true)
		if err != nil {
			self.log.Errorf("dgus translate s=%q err=%v", s, err)
			return result
		}
		// translator reuses single internal buffer, make a copy
		result = append([]byte(nil), tb...)
	}
	return result
}
