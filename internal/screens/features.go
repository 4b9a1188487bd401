package screens

import (
	"context"

	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/nav"
	"github.com/temoto/printpanel/internal/settings"
	"github.com/temoto/printpanel/internal/state"
)

const (
	brightnessStep = 0x08
	brightnessMax  = 0x40
)

type Features struct {
	Base
}

func (self *Features) Keys() KeyTable {
	return KeyTable{
		KeyThermalProtection: self.toggle(settings.FeatureThermalProtection),
		KeyHeadParking:       self.toggle(settings.FeatureHeadParking),
		KeyDimming:           self.toggle(settings.FeatureDimming),
		KeyBuzzOnAction:      self.toggle(settings.FeatureBuzzOnAction),
		KeyBuzzOnPress:       self.toggle(settings.FeatureBuzzOnPress),
		KeyRunoutSensor:      self.toggle(settings.FeatureRunoutSensor),
		KeyBrightnessMinus:   func(ctx context.Context) { self.brightness(ctx, -brightnessStep) },
		KeyBrightnessPlus:    func(ctx context.Context) { self.brightness(ctx, +brightnessStep) },
	}
}

func (self *Features) PreparePage(ctx context.Context) nav.Page {
	self.sendData(ctx)
	return self.page
}

func (self *Features) toggle(f settings.Feature) func(context.Context) {
	return func(ctx context.Context) {
		g := state.GetGlobal(ctx)
		on := g.Settings.ToggleFeatures(f)
		g.Log.Debugf("features toggle %s enabled=%t", f.String(), on != settings.FeatureNone)
		self.sendData(ctx)
	}
}

func (self *Features) brightness(ctx context.Context, delta int) {
	g := state.GetGlobal(ctx)
	level := int(g.Dimmer.Brightness()) + delta
	if level < 0 {
		level = 0
	}
	if level > brightnessMax {
		level = brightnessMax
	}
	g.Dimmer.SetBrightness(uint8(level))
	self.sendData(ctx)
}

func (self *Features) sendData(ctx context.Context) {
	g := state.GetGlobal(ctx)
	err := g.Display.WriteWords(dgus.VarFeatures, uint16(g.Settings.Features()), uint16(g.Dimmer.Brightness()))
	if err != nil {
		g.Error(err, "features send")
	}
}
