// Package pid keeps heater tuning profiles, one small table per heater kind.
package pid

import (
	"fmt"

	"github.com/temoto/printpanel/internal/eeprom"
	"github.com/temoto/printpanel/internal/types"
	"github.com/temoto/printpanel/log2"
)

const (
	NbProfiles           = 5
	recordVersion uint16 = 0x0001

	entrySize = 2 + 3*4
)

type Profile struct {
	Temperature uint16
	Kp, Ki, Kd  float32
}

func (p Profile) String() string {
	return fmt.Sprintf("t=%d p=%.2f i=%.2f d=%.2f", p.Temperature, p.Kp, p.Ki, p.Kd)
}

var (
	DefaultHotend = Profile{Temperature: 200, Kp: 52.63, Ki: 4.98, Kd: 139.05}
	DefaultBed    = Profile{Temperature: 60, Kp: 234.88, Ki: 42.79, Kd: 322.28}
)

// Applier receives the chosen profile, normally the printer.
type Applier interface {
	SetPID(kind types.TemperatureKind, kp, ki, kd float32)
}

type Settings struct {
	log     *log2.Log
	applier Applier
	hotend  [NbProfiles]Profile
	bed     [NbProfiles]Profile
}

var _ eeprom.Record = &Settings{}

func New(log *log2.Log) *Settings {
	self := &Settings{log: log}
	self.Reset()
	return self
}

func (self *Settings) SetApplier(a Applier) { self.applier = a }

func (self *Settings) table(kind types.TemperatureKind) *[NbProfiles]Profile {
	if kind == types.TemperatureHotend {
		return &self.hotend
	}
	return &self.bed
}

func (self *Settings) Profiles(kind types.TemperatureKind) [NbProfiles]Profile {
	return *self.table(kind)
}

// Store replaces the profile tuned closest to p.Temperature.
func (self *Settings) Store(kind types.TemperatureKind, p Profile) {
	t := self.table(kind)
	t[closest(t, p.Temperature)] = p
}

// ChooseBest applies the profile tuned closest to temperature.
func (self *Settings) ChooseBest(kind types.TemperatureKind, temperature uint16) Profile {
	t := self.table(kind)
	best := closest(t, temperature)
	p := t[best]
	self.log.Debugf("pid choose kind=%s temperature=%d profile=%s", kind.String(), temperature, p.String())
	if self.applier != nil {
		self.applier.SetPID(kind, p.Kp, p.Ki, p.Kd)
	}
	return p
}

func (self *Settings) Write(w *eeprom.Writer) {
	w.Uint16(recordVersion)
	for _, t := range []*[NbProfiles]Profile{&self.hotend, &self.bed} {
		for _, p := range t {
			w.Uint16(p.Temperature)
			w.Float32(p.Kp)
			w.Float32(p.Ki)
			w.Float32(p.Kd)
		}
	}
}

func (self *Settings) Read(r *eeprom.Reader) {
	var version uint16
	r.Uint16(&version)
	for _, t := range []*[NbProfiles]Profile{&self.hotend, &self.bed} {
		for i := range t {
			r.Uint16(&t[i].Temperature)
			r.Float32(&t[i].Kp)
			r.Float32(&t[i].Ki)
			r.Float32(&t[i].Kd)
		}
	}
}

func (self *Settings) Validate(r *eeprom.Reader) bool {
	var version uint16
	r.Uint16(&version)
	r.Skip(int(self.SizeOf()) - 2)
	if version != recordVersion {
		self.log.Errorf("pid record version=%04x expected=%04x", version, recordVersion)
		return false
	}
	return true
}

func (self *Settings) SizeOf() uint16 { return 2 + 2*NbProfiles*entrySize }

func (self *Settings) Reset() {
	for i := 0; i < NbProfiles; i++ {
		self.hotend[i] = DefaultHotend
		self.bed[i] = DefaultBed
	}
}

func closest(t *[NbProfiles]Profile, temperature uint16) int {
	best, bestDiff := 0, int(^uint(0)>>1)
	for i, x := range t {
		if d := absDiff(x.Temperature, temperature); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

func absDiff(a, b uint16) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
