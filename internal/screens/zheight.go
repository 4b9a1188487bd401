package screens

import (
	"context"
	"math"

	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/i18n"
	"github.com/temoto/printpanel/internal/nav"
	"github.com/temoto/printpanel/internal/printer"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/task"
	"github.com/temoto/printpanel/internal/types"
)

const (
	taskZHeightPostHome = "z_height_post_home"

	// ticks before first homed check, firmware needs time to report busy
	zHeightHomeDelay = 200
	zHeightFeedrate  = 4
	zHeightSafeZ     = 4
	zHeightCenterXY  = 100
)

type Multiplier uint16

const (
	Multiplier1 Multiplier = iota
	Multiplier2
	Multiplier3
)

var multiplierSteps = [...]float32{0.02, 0.10, 1.0}

func (m Multiplier) Step() (float32, bool) {
	if int(m) < len(multiplierSteps) {
		return multiplierSteps[m], true
	}
	return multiplierSteps[Multiplier1], false
}

// SensorZHeight measures probe Z offset: home, move nozzle to bed center,
// let user jog Z until paper drags, save position as offset.
type SensorZHeight struct {
	Base
	s          *Screens
	multiplier Multiplier
	oldOffset  float32
}

func (self *SensorZHeight) Keys() KeyTable {
	return KeyTable{
		KeyMultiplier1: func(ctx context.Context) { self.setMultiplier(ctx, Multiplier1) },
		KeyMultiplier2: func(ctx context.Context) { self.setMultiplier(ctx, Multiplier2) },
		KeyMultiplier3: func(ctx context.Context) { self.setMultiplier(ctx, Multiplier3) },
		KeyMinus:       func(ctx context.Context) { self.move(ctx, -1) },
		KeyPlus:        func(ctx context.Context) { self.move(ctx, +1) },
	}
}

func (self *SensorZHeight) Multiplier() Multiplier { return self.multiplier }

func (self *SensorZHeight) PreparePage(ctx context.Context) nav.Page {
	g := state.GetGlobal(ctx)
	if !g.Printer.HasProbe() {
		return nav.PageNoSensor
	}
	if !self.s.ensureNotPrinting(ctx) {
		return nav.PageNone
	}

	g.Pages.SaveForward(g.Pages.Current())
	self.oldOffset = g.Printer.ZOffset()
	g.Printer.SetZOffset(0)
	self.s.Wait.Show(ctx, g.T(i18n.Homing))
	g.Printer.InjectCommands(printer.HomeAllCommand)
	g.Tasks.Set(task.Task{
		Name:  taskZHeightPostHome,
		Ready: func() bool { return !g.Printer.IsBusy() && g.Printer.IsMachineHomed() },
		Run:   func() { self.postHome(ctx) },
	}, zHeightHomeDelay)
	return nav.PageNone
}

func (self *SensorZHeight) postHome(ctx context.Context) {
	g := state.GetGlobal(ctx)
	self.multiplier = Multiplier1
	g.Printer.SetFeedrate(zHeightFeedrate)
	g.Printer.SetAxisPosition(types.AxisX, zHeightCenterXY)
	g.Printer.SetAxisPosition(types.AxisY, zHeightCenterXY)
	g.Printer.SetAxisPosition(types.AxisZ, 0)
	g.Printer.SetSoftEndstops(false)
	self.sendData(ctx)
	g.Pages.Show(nav.PageZHeightTuning)
}

func (self *SensorZHeight) setMultiplier(ctx context.Context, m Multiplier) {
	self.multiplier = m
	self.sendData(ctx)
}

func (self *SensorZHeight) move(ctx context.Context, sign float32) {
	g := state.GetGlobal(ctx)
	step, ok := self.multiplier.Step()
	if !ok {
		g.Log.Errorf("z height invalid multiplier=%d", self.multiplier)
	}
	z := g.Printer.AxisPosition(types.AxisZ) + sign*step
	g.Printer.SetFeedrate(zHeightFeedrate)
	g.Printer.SetAxisPosition(types.AxisZ, z)
	self.sendData(ctx)
}

func (self *SensorZHeight) sendData(ctx context.Context) {
	g := state.GetGlobal(ctx)
	if err := g.Display.WriteWords(dgus.VarZHeightMultiplier, uint16(self.multiplier)); err != nil {
		g.Error(err, "z height send")
		return
	}
	// hundredths of mm, signed
	z := int16(math.Round(float64(g.Printer.AxisPosition(types.AxisZ)) * 100))
	if err := g.Display.WriteWords(dgus.VarZHeight, uint16(z)); err != nil {
		g.Error(err, "z height send")
	}
}

// OnBack drops measurement and restores previous offset.
func (self *SensorZHeight) OnBack(ctx context.Context) {
	g := state.GetGlobal(ctx)
	g.Printer.SetSoftEndstops(true)
	g.Printer.SetZOffset(self.oldOffset)
	g.Printer.InjectCommands(printer.RehomeCommand)
	self.leave(ctx)
}

// OnSave takes current Z as the new offset and persists settings.
func (self *SensorZHeight) OnSave(ctx context.Context) {
	g := state.GetGlobal(ctx)
	g.Printer.SetZOffset(g.Printer.AxisPosition(types.AxisZ))
	g.Printer.SetSoftEndstops(true)
	g.Printer.SetFeedrate(zHeightFeedrate)
	g.Printer.SetAxisPosition(types.AxisZ, zHeightSafeZ)
	g.Printer.InjectCommands(printer.RehomeCommand)
	self.save(ctx)
	self.leave(ctx)
}

// leave returns to the page tuning was started from.
// Back slot is unreliable here, prompts shown during tuning overwrite it.
func (self *SensorZHeight) leave(ctx context.Context) {
	g := state.GetGlobal(ctx)
	if g.Pages.Forward() == nav.PageNone {
		g.Pages.ShowBackPage()
		return
	}
	g.Pages.SaveBack(nav.PageNone)
	g.Pages.ShowForwardPage()
}
