package screens

import (
	"context"

	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/nav"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/types"
)

const (
	DefaultPreheatHotend uint16 = 200
	DefaultPreheatBed    uint16 = 60
	preheatStep                 = 5
	preheatMaxHotend            = 275
	preheatMaxBed               = 120
)

type Preheat struct {
	Base
	hotend uint16
	bed    uint16
}

func (self *Preheat) Keys() KeyTable {
	return KeyTable{
		KeyHotendMinus: func(ctx context.Context) { self.adjust(ctx, &self.hotend, -preheatStep, preheatMaxHotend) },
		KeyHotendPlus:  func(ctx context.Context) { self.adjust(ctx, &self.hotend, +preheatStep, preheatMaxHotend) },
		KeyBedMinus:    func(ctx context.Context) { self.adjust(ctx, &self.bed, -preheatStep, preheatMaxBed) },
		KeyBedPlus:     func(ctx context.Context) { self.adjust(ctx, &self.bed, +preheatStep, preheatMaxBed) },
		KeyPreheat:     self.onPreheat,
	}
}

// PreparePage starts from last used temperatures.
func (self *Preheat) PreparePage(ctx context.Context) nav.Page {
	g := state.GetGlobal(ctx)
	self.hotend = g.Settings.LastUsedTemperature(types.TemperatureHotend)
	if self.hotend == 0 {
		self.hotend = DefaultPreheatHotend
	}
	self.bed = g.Settings.LastUsedTemperature(types.TemperatureBed)
	if self.bed == 0 {
		self.bed = DefaultPreheatBed
	}
	self.sendData(ctx)
	return self.page
}

func (self *Preheat) Values() (hotend, bed uint16) { return self.hotend, self.bed }

func (self *Preheat) adjust(ctx context.Context, v *uint16, delta int, limit int) {
	x := int(*v) + delta
	if x < 0 {
		x = 0
	}
	if x > limit {
		x = limit
	}
	*v = uint16(x)
	self.sendData(ctx)
}

func (self *Preheat) onPreheat(ctx context.Context) {
	g := state.GetGlobal(ctx)
	g.Printer.SetTargetTemperature(types.TemperatureHotend, self.hotend)
	g.Printer.SetTargetTemperature(types.TemperatureBed, self.bed)
	g.Settings.RecordTargetTemperature(types.TemperatureHotend, self.hotend)
	g.Settings.RecordTargetTemperature(types.TemperatureBed, self.bed)
	g.Pages.ShowBackPage()
}

func (self *Preheat) sendData(ctx context.Context) {
	g := state.GetGlobal(ctx)
	if err := g.Display.WriteWords(dgus.VarPreheat, self.hotend, self.bed); err != nil {
		g.Error(err, "preheat send")
	}
}
