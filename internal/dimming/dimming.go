// Package dimming lowers display brightness after a period without input.
package dimming

import (
	"time"

	"github.com/temoto/atomic_clock"
	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/log2"
	"go.uber.org/atomic"
)

const (
	DefaultTimeout    = 5 * time.Minute
	DefaultNormal     = 0x40
	DefaultBrightness = 0x05
)

type Config struct {
	TimeoutSec int
	Normal     uint8
	Dimmed     uint8
}

type Dimmer struct {
	log     *log2.Log
	display dgus.Displayer
	timeout time.Duration
	normal  atomic.Uint32
	dimmed  uint8
	enabled func() bool

	last  atomic_clock.Clock
	isDim atomic.Bool
}

// New starts in bright state, enabled is consulted on every Check.
func New(log *log2.Log, display dgus.Displayer, config Config, enabled func() bool) *Dimmer {
	self := &Dimmer{
		log:     log,
		display: display,
		timeout: time.Duration(config.TimeoutSec) * time.Second,
		dimmed:  config.Dimmed,
		enabled: enabled,
	}
	if self.timeout == 0 {
		self.timeout = DefaultTimeout
	}
	normal := config.Normal
	if normal == 0 {
		normal = DefaultNormal
	}
	if self.dimmed == 0 {
		self.dimmed = DefaultBrightness
	}
	self.normal.Store(uint32(normal))
	self.last.SetNow()
	return self
}

func (self *Dimmer) Brightness() uint8 { return uint8(self.normal.Load()) }
func (self *Dimmer) IsDimmed() bool    { return self.isDim.Load() }

// SetBrightness changes normal level and applies it unless dimmed.
func (self *Dimmer) SetBrightness(level uint8) {
	self.normal.Store(uint32(level))
	if !self.isDim.Load() {
		self.apply(level)
	}
}

// Input records user activity now.
func (self *Dimmer) Input() { self.InputAt(atomic_clock.Source()) }

func (self *Dimmer) InputAt(ns int64) {
	self.last.Set(ns)
	if self.isDim.CompareAndSwap(true, false) {
		self.log.Debugf("dimming restore brightness=%d", self.Brightness())
		self.apply(self.Brightness())
	}
}

func (self *Dimmer) Check() { self.CheckAt(atomic_clock.Source()) }

func (self *Dimmer) CheckAt(ns int64) {
	if self.enabled != nil && !self.enabled() {
		if self.isDim.CompareAndSwap(true, false) {
			self.apply(self.Brightness())
		}
		return
	}
	if self.isDim.Load() {
		return
	}
	var now atomic_clock.Clock
	now.Set(ns)
	idle := now.Sub(&self.last)
	if idle >= self.timeout && self.isDim.CompareAndSwap(false, true) {
		self.log.Debugf("dimming idle=%v brightness=%d", idle, self.dimmed)
		self.apply(self.dimmed)
	}
}

func (self *Dimmer) apply(level uint8) {
	if err := self.display.SetBrightness(level); err != nil {
		self.log.Errorf("dimming set brightness=%d err=%v", level, err)
	}
}
