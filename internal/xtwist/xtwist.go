// Package xtwist persists Z compensation offsets measured at fixed points along X.
package xtwist

import (
	"github.com/temoto/printpanel/internal/eeprom"
	"github.com/temoto/printpanel/log2"
)

const (
	NbPoints             = 3
	recordVersion uint16 = 0x0001
)

type Settings struct {
	log     *log2.Log
	offsets [NbPoints]float32
}

var _ eeprom.Record = &Settings{}

func New(log *log2.Log) *Settings {
	self := &Settings{log: log}
	self.Reset()
	return self
}

func (self *Settings) Offsets() [NbPoints]float32 { return self.offsets }

func (self *Settings) SetOffsets(o [NbPoints]float32) { self.offsets = o }

func (self *Settings) Write(w *eeprom.Writer) {
	w.Uint16(recordVersion)
	for _, o := range self.offsets {
		w.Float32(o)
	}
}

func (self *Settings) Read(r *eeprom.Reader) {
	var version uint16
	r.Uint16(&version)
	for i := range self.offsets {
		r.Float32(&self.offsets[i])
	}
}

func (self *Settings) Validate(r *eeprom.Reader) bool {
	var version uint16
	r.Uint16(&version)
	r.Skip(NbPoints * 4)
	if version != recordVersion {
		self.log.Errorf("xtwist record version=%04x expected=%04x", version, recordVersion)
		return false
	}
	return true
}

func (self *Settings) SizeOf() uint16 { return 2 + NbPoints*4 }

func (self *Settings) Reset() { self.offsets = [NbPoints]float32{} }
