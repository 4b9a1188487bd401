package screens

import (
	"context"

	"github.com/temoto/printpanel/internal/i18n"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/task"
)

const (
	taskShowSd  = "show_sd"
	taskSdReady = "sd_ready"
)

// Controls is the main menu. All its keys are navigation.
type Controls struct {
	Base
	s *Screens
}

func (self *Controls) isolated() {}

func (self *Controls) Keys() KeyTable {
	return KeyTable{
		KeyShow:          func(ctx context.Context) { self.s.Show(ctx, self) },
		KeyBack:          self.OnBack,
		KeyTemps:         self.onTemps,
		KeyPrint:         self.onPrint,
		KeyPrintSettings: self.onPrintSettings,
		KeyControls:      func(ctx context.Context) { self.s.Show(ctx, self) },
		KeyTuning:        func(ctx context.Context) { self.s.Show(ctx, self.s.Tuning) },
		KeySettings:      func(ctx context.Context) { self.s.Show(ctx, self.s.Settings) },
		KeyInfos:         func(ctx context.Context) { self.s.Show(ctx, self.s.Infos) },
		KeyMotors:        func(ctx context.Context) { self.s.Show(ctx, self.s.MotorsSettings) },
		KeyLeveling:      func(ctx context.Context) { self.s.Show(ctx, self.s.Leveling) },
	}
}

func printingOrPaused(g *state.Global) bool {
	return g.Printer.IsPrinting() || g.Printer.IsPrintingPaused()
}

func (self *Controls) onTemps(ctx context.Context) {
	if printingOrPaused(state.GetGlobal(ctx)) {
		self.s.Show(ctx, self.s.Print)
		return
	}
	self.s.Show(ctx, self.s.Temperatures)
}

func (self *Controls) onPrintSettings(ctx context.Context) {
	if !printingOrPaused(state.GetGlobal(ctx)) {
		self.s.Show(ctx, self.s.Temperatures)
		return
	}
	self.s.Show(ctx, self.s.PrintSettings)
}

// onPrint mounts media behind the wait page, then shows file list or an error.
func (self *Controls) onPrint(ctx context.Context) {
	g := state.GetGlobal(ctx)
	if printingOrPaused(g) {
		self.s.Show(ctx, self.s.Print)
		return
	}
	self.s.Wait.Show(ctx, g.T(i18n.AccessingSdCard))
	g.Tasks.Set(task.Task{
		Name: taskShowSd,
		Run:  func() { self.mountSd(ctx) },
	}, 0)
}

func (self *Controls) mountSd(ctx context.Context) {
	g := state.GetGlobal(ctx)
	g.Printer.MountMedia()
	g.Tasks.Set(task.Task{
		Name:  taskSdReady,
		Ready: func() bool { return !g.Printer.IsBusy() },
		Run:   func() { self.sdReady(ctx) },
	}, 0)
}

func (self *Controls) sdReady(ctx context.Context) {
	g := state.GetGlobal(ctx)
	self.s.Status.Reset(ctx)
	if !g.Printer.IsMediaInserted() {
		self.s.Status.Set(ctx, g.T(i18n.NoSdCard))
		g.Pages.ShowBackPage()
		return
	}
	self.s.Show(ctx, self.s.SdCard)
}
