// Package eeprom encodes typed values into a flat settings image.
//
// One persist or load pass threads a single Cursor through every call.
// Each pass starts its own Cursor at the record offset. Every value of declared size N
// moves the cursor by exactly N bytes, whatever the content, so a failed
// check in the middle of a pass never shifts the layout of what follows.
// The running CRC covers every byte written or read.
package eeprom

import (
	"encoding/binary"
	"math"

	"github.com/temoto/printpanel/crc"
)

// Image is the non-volatile area, pre-sized by the caller.
type Image []byte

// Cursor is owned by the caller of a pass.
type Cursor struct {
	Index int
	CRC   uint16
}

// Record is an independently versioned chunk of the settings image.
type Record interface {
	Write(*Writer)
	Read(*Reader)
	// Validate consumes exactly SizeOf() bytes and reports whether
	// the stored chunk matches the compiled layout.
	Validate(*Reader) bool
	SizeOf() uint16
	Reset()
}

type Writer struct {
	image    Image
	c        *Cursor
	overflow bool
}

func NewWriter(image Image, c *Cursor) *Writer { return &Writer{image: image, c: c} }

func (self *Writer) Cursor() *Cursor { return self.c }

// Overflow reports bytes dropped past the image end.
func (self *Writer) Overflow() bool { return self.overflow }

func (self *Writer) Bytes(b []byte) {
	for _, x := range b {
		if self.c.Index >= 0 && self.c.Index < len(self.image) {
			self.image[self.c.Index] = x
		} else {
			self.overflow = true
		}
		self.c.CRC = crc.CRC16_1021(self.c.CRC, x)
		self.c.Index++
	}
}

func (self *Writer) Uint8(v uint8) { self.Bytes([]byte{v}) }

func (self *Writer) Bool(v bool) {
	if v {
		self.Uint8(1)
	} else {
		self.Uint8(0)
	}
}

func (self *Writer) Uint16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	self.Bytes(buf[:])
}

func (self *Writer) Uint32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	self.Bytes(buf[:])
}

func (self *Writer) Float32(v float32) { self.Uint32(math.Float32bits(v)) }

type Reader struct {
	image Image
	c     *Cursor
	short bool
}

func NewReader(image Image, c *Cursor) *Reader { return &Reader{image: image, c: c} }

func (self *Reader) Cursor() *Cursor { return self.c }

// Short reports reads past the image end, those bytes read as zero.
func (self *Reader) Short() bool { return self.short }

func (self *Reader) Bytes(b []byte) {
	for i := range b {
		var x byte
		if self.c.Index >= 0 && self.c.Index < len(self.image) {
			x = self.image[self.c.Index]
		} else {
			self.short = true
		}
		b[i] = x
		self.c.CRC = crc.CRC16_1021(self.c.CRC, x)
		self.c.Index++
	}
}

func (self *Reader) Uint8(v *uint8) {
	var buf [1]byte
	self.Bytes(buf[:])
	*v = buf[0]
}

func (self *Reader) Bool(v *bool) {
	var x uint8
	self.Uint8(&x)
	*v = x != 0
}

func (self *Reader) Uint16(v *uint16) {
	var buf [2]byte
	self.Bytes(buf[:])
	*v = binary.LittleEndian.Uint16(buf[:])
}

func (self *Reader) Uint32(v *uint32) {
	var buf [4]byte
	self.Bytes(buf[:])
	*v = binary.LittleEndian.Uint32(buf[:])
}

func (self *Reader) Float32(v *float32) {
	var u uint32
	self.Uint32(&u)
	*v = math.Float32frombits(u)
}

// Skip consumes n bytes, keeping CRC in step.
func (self *Reader) Skip(n int) {
	if n <= 0 {
		return
	}
	self.Bytes(make([]byte, n))
}
