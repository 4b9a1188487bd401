// Package settings owns user configuration persisted in the settings image.
//
// Layout, little-endian:
//
//	[schema version u16][pid record][xtwist record][feature flags u16]
//
// Any change of record order, count or width requires SchemaVersion bump.
package settings

import (
	"fmt"
	"strings"

	"github.com/temoto/printpanel/internal/eeprom"
	"github.com/temoto/printpanel/internal/pid"
	"github.com/temoto/printpanel/internal/types"
	"github.com/temoto/printpanel/internal/xtwist"
	"github.com/temoto/printpanel/log2"
)

const SchemaVersion uint16 = 0x0001

type Feature uint16

const FeatureNone Feature = 0

const (
	FeatureThermalProtection Feature = 1 << iota
	FeatureHeadParking
	FeatureDimming
	FeatureBuzzOnAction
	FeatureBuzzOnPress
	FeatureRunoutSensor

	DefaultFeatures = FeatureThermalProtection | FeatureHeadParking | FeatureDimming | FeatureBuzzOnAction | FeatureRunoutSensor
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatureThermalProtection, "thermal_protection"},
	{FeatureHeadParking, "head_parking"},
	{FeatureDimming, "dimming"},
	{FeatureBuzzOnAction, "buzz_on_action"},
	{FeatureBuzzOnPress, "buzz_on_press"},
	{FeatureRunoutSensor, "runout_sensor"},
}

func (f Feature) String() string {
	if f == FeatureNone {
		return "none"
	}
	parts := make([]string, 0, len(featureNames))
	rest := f
	for _, x := range featureNames {
		if f&x.f != 0 {
			parts = append(parts, x.name)
			rest &^= x.f
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%04x", uint16(rest)))
	}
	return strings.Join(parts, "|")
}

// Mismatch is the user visible "stored settings are not trustworthy" state.
type Mismatch struct{ set bool }

func (self *Mismatch) Set()               { self.set = true }
func (self *Mismatch) Reset()             { self.set = false }
func (self *Mismatch) DoesMismatch() bool { return self.set }

// Store is mutated only from the panel tick.
type Store struct {
	log      *log2.Log
	pid      *pid.Settings
	xtwist   *xtwist.Settings
	records  []eeprom.Record
	features Feature
	mismatch Mismatch

	lastHotend uint16
	lastBed    uint16
}

func New(log *log2.Log) *Store {
	self := &Store{
		log:    log,
		pid:    pid.New(log),
		xtwist: xtwist.New(log),
	}
	// order is part of the image layout
	self.records = []eeprom.Record{self.pid, self.xtwist}
	self.Reset()
	return self
}

func (self *Store) PID() *pid.Settings       { return self.pid }
func (self *Store) XTwist() *xtwist.Settings { return self.xtwist }
func (self *Store) Mismatch() *Mismatch      { return &self.mismatch }
func (self *Store) Features() Feature        { return self.features }

// Persist writes the whole record and clears the mismatch indicator.
func (self *Store) Persist(w *eeprom.Writer) {
	w.Uint16(SchemaVersion)
	for _, r := range self.records {
		r.Write(w)
	}
	w.Uint16(uint16(self.features))
	self.mismatch.Reset()
}

// Load with validating=true is a dry pass: nothing is modified, every field is consumed
// and the result is AND of all version checks.
// Load with validating=false reads unconditionally.
func (self *Store) Load(r *eeprom.Reader, validating bool) bool {
	var version uint16
	r.Uint16(&version)
	if validating {
		valid := version == SchemaVersion
		if !valid {
			self.log.Errorf("settings schema version=%04x expected=%04x", version, SchemaVersion)
		}
		for _, rec := range self.records {
			valid = rec.Validate(r) && valid
		}
		var flags uint16
		r.Uint16(&flags)
		return valid
	}

	for _, rec := range self.records {
		rec.Read(r)
	}
	var flags uint16
	r.Uint16(&flags)
	self.features = Feature(flags)
	return true
}

func (self *Store) SizeOf() uint16 {
	size := uint16(2)
	for _, r := range self.records {
		size += r.SizeOf()
	}
	return size + 2
}

// Reset restores factory defaults, storage is not touched.
func (self *Store) Reset() {
	for _, r := range self.records {
		r.Reset()
	}
	self.features = DefaultFeatures
}

// ToggleFeatures flips mask bits and returns those now enabled.
func (self *Store) ToggleFeatures(mask Feature) Feature {
	self.features ^= mask
	return self.features & mask
}

// IsFeatureEnabled is true when all mask bits are set.
func (self *Store) IsFeatureEnabled(mask Feature) bool {
	return self.features&mask == mask
}

// RecordTargetTemperature remembers a new target and applies the closest PID profile.
// Zero means "heater off" and is ignored.
func (self *Store) RecordTargetTemperature(kind types.TemperatureKind, value uint16) {
	if value == 0 {
		return
	}
	if kind == types.TemperatureHotend {
		self.lastHotend = value
	} else {
		self.lastBed = value
	}
	self.pid.ChooseBest(kind, value)
}

func (self *Store) LastUsedTemperature(kind types.TemperatureKind) uint16 {
	if kind == types.TemperatureHotend {
		return self.lastHotend
	}
	return self.lastBed
}
