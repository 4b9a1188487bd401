// Package storage binds the settings store to persistent bytes.
//
// Image layout, little-endian:
//
//	[crc16 of payload u16][payload size u16][payload]
//
// File backend is extremofile: atomic write with backup copy.
package storage

import (
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/extremofile"
	"github.com/temoto/printpanel/internal/eeprom"
	"github.com/temoto/printpanel/internal/settings"
	"github.com/temoto/printpanel/log2"
)

const headerSize = 4

// Backend is satisfied by extremofile. Read returns nil, nil when nothing was stored yet.
type Backend interface {
	Read() ([]byte, error)
	io.Writer
}

type Storage struct {
	sync.Mutex
	log      *log2.Log
	settings *settings.Store
	backend  Backend
}

// New with nil backend keeps settings in memory only.
func New(log *log2.Log, s *settings.Store, backend Backend) *Storage {
	return &Storage{log: log, settings: s, backend: backend}
}

func NewFile(log *log2.Log, s *settings.Store, root string) (*Storage, error) {
	if root == "" {
		return nil, errors.NotValidf("storage root=empty")
	}
	backend := extremofile.New(extremofile.Config{
		Dir:      filepath.Join(root, "settings"),
		DirPerm:  0755,
		FilePerm: 0644,
	})
	return New(log, s, backend), nil
}

func (self *Storage) SizeOf() uint16 { return headerSize + self.settings.SizeOf() }

// Load reads stored image into settings.
// Nothing stored: defaults. Broken or foreign image: defaults and mismatch indicator,
// returned error satisfies errors.IsNotValid.
func (self *Storage) Load() error {
	self.Lock()
	defer self.Unlock()
	if self.backend == nil {
		self.settings.Reset()
		return nil
	}

	tbegin := time.Now()
	b, err := self.backend.Read()
	self.log.Debugf("storage read duration=%v size=%d", time.Since(tbegin), len(b))
	if b == nil {
		self.settings.Reset()
		if err != nil {
			self.settings.Mismatch().Set()
			return errors.Annotate(err, "storage load")
		}
		self.log.Infof("storage empty, using defaults")
		return nil
	}
	if err != nil {
		self.log.Errorf("storage ignore non-critical err=%v", err)
	}

	if err = self.validate(eeprom.Image(b)); err != nil {
		self.settings.Reset()
		self.settings.Mismatch().Set()
		return errors.Annotate(err, "storage load")
	}
	c := eeprom.Cursor{Index: headerSize}
	self.settings.Load(eeprom.NewReader(b, &c), false)
	self.log.Debugf("storage loaded features=%s", self.settings.Features().String())
	return nil
}

func (self *Storage) validate(image eeprom.Image) error {
	var hc eeprom.Cursor
	hr := eeprom.NewReader(image, &hc)
	var crc, size uint16
	hr.Uint16(&crc)
	hr.Uint16(&size)
	if hr.Short() {
		return errors.NotValidf("image length=%d", len(image))
	}
	expectSize := self.settings.SizeOf()
	if size != expectSize || len(image) != int(headerSize+size) {
		return errors.NotValidf("image size=%d length=%d expected=%d", size, len(image), expectSize)
	}

	c := eeprom.Cursor{Index: headerSize}
	r := eeprom.NewReader(image, &c)
	valid := self.settings.Load(r, true)
	if c.Index != headerSize+int(size) {
		return errors.NotValidf("image consumed=%d size=%d", c.Index-headerSize, size)
	}
	if c.CRC != crc {
		return errors.NotValidf("image crc=%04x expected=%04x", c.CRC, crc)
	}
	if !valid {
		return errors.NotValidf("image versions")
	}
	return nil
}

// Save writes settings, mismatch indicator is cleared on success.
func (self *Storage) Save() error {
	self.Lock()
	defer self.Unlock()
	image := make(eeprom.Image, self.SizeOf())
	c := eeprom.Cursor{Index: headerSize}
	w := eeprom.NewWriter(image, &c)
	self.settings.Persist(w)
	if w.Overflow() || c.Index != len(image) {
		self.settings.Mismatch().Set()
		return errors.Errorf("code error storage persist wrote=%d size=%d", c.Index, len(image))
	}
	var hc eeprom.Cursor
	hw := eeprom.NewWriter(image, &hc)
	hw.Uint16(c.CRC)
	hw.Uint16(self.settings.SizeOf())

	if self.backend == nil {
		return nil
	}
	tbegin := time.Now()
	_, err := self.backend.Write(image)
	self.log.Debugf("storage write duration=%v", time.Since(tbegin))
	if err != nil {
		self.settings.Mismatch().Set()
		return errors.Annotate(err, "storage save")
	}
	return nil
}
