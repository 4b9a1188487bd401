// Package screens routes display key presses to screen handlers.
//
// Resolution order for a Command: screen's own key table, then base keys
// (Show, Back, Save), then unhandled. Every handler runs on the panel tick.
package screens

import (
	"context"

	"github.com/temoto/printpanel/internal/i18n"
	"github.com/temoto/printpanel/internal/nav"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/log2"
)

type KeyTable map[KeyValue]func(context.Context)

type Screen interface {
	Keys() KeyTable
	// PreparePage runs before the page becomes visible.
	// PageNone means "do not show now", the screen navigates later itself.
	PreparePage(context.Context) nav.Page
	OnBack(context.Context)
	OnSave(context.Context)
}

// isolated screens handle every key themselves, base keys are not tried.
type isolated interface {
	isolated()
}

// Base is default behavior embedded into every screen.
type Base struct {
	page nav.Page
}

func (self *Base) Keys() KeyTable                           { return nil }
func (self *Base) PreparePage(ctx context.Context) nav.Page { return self.page }

func (self *Base) OnBack(ctx context.Context) {
	state.GetGlobal(ctx).Pages.ShowBackPage()
}

// OnSave persists settings and returns to back page.
func (self *Base) OnSave(ctx context.Context) {
	self.save(ctx)
	state.GetGlobal(ctx).Pages.ShowBackPage()
}

func (self *Base) save(ctx context.Context) {
	g := state.GetGlobal(ctx)
	if err := g.Storage.Save(); err != nil {
		g.Error(err, "screen save")
	}
	g.Report()
}

// Simple screen only shows its page.
type Simple struct{ Base }

func NewSimple(page nav.Page) *Simple { return &Simple{Base{page: page}} }

// Screens is the registry. Screens refer to each other through it.
type Screens struct {
	log      *log2.Log
	byAction map[Action]Screen

	Status       *Status
	Wait         *Wait
	Pause        *Pause
	Controls     *Controls
	ZHeight      *SensorZHeight
	PauseOptions *PauseOptions
	Features     *Features
	Preheat      *Preheat
	Mismatch     *Mismatch
	Settings     *SettingsScreen

	Temperatures   *Simple
	SdCard         *Simple
	Print          *Simple
	PrintSettings  *Simple
	Tuning         *Simple
	Infos          *Simple
	MotorsSettings *Simple
	Leveling       *Simple
	Setup          *Simple
	NoSensor       *Simple
}

func New(log *log2.Log) *Screens {
	self := &Screens{
		log:      log,
		byAction: make(map[Action]Screen, 32),

		Temperatures:   NewSimple(nav.PageTemperature),
		SdCard:         NewSimple(nav.PageSdCard),
		Print:          NewSimple(nav.PagePrint),
		PrintSettings:  NewSimple(nav.PagePrintSettings),
		Tuning:         NewSimple(nav.PageTuning),
		Infos:          NewSimple(nav.PageInfos),
		MotorsSettings: NewSimple(nav.PageMotorsSettings),
		Leveling:       NewSimple(nav.PageLeveling),
		Setup:          NewSimple(nav.PageSetup),
		NoSensor:       NewSimple(nav.PageNoSensor),
	}
	self.Status = &Status{}
	self.Wait = &Wait{Base: Base{page: nav.PageWait}, s: self}
	self.Pause = &Pause{s: self}
	self.Controls = &Controls{Base: Base{page: nav.PageControls}, s: self}
	self.ZHeight = &SensorZHeight{Base: Base{page: nav.PageZHeightTuning}, s: self}
	self.PauseOptions = &PauseOptions{Base: Base{page: nav.PagePauseOptions}}
	self.Features = &Features{Base: Base{page: nav.PageFeatures}}
	self.Preheat = &Preheat{Base: Base{page: nav.PagePreheat}}
	self.Mismatch = &Mismatch{Base: Base{page: nav.PageEepromMismatch}, s: self}
	self.Settings = &SettingsScreen{Base: Base{page: nav.PageSettings}, s: self}

	self.Register(ActionControls, self.Controls)
	self.Register(ActionTemperatures, self.Temperatures)
	self.Register(ActionSdCard, self.SdCard)
	self.Register(ActionPrint, self.Print)
	self.Register(ActionPrintSettings, self.PrintSettings)
	self.Register(ActionTuning, self.Tuning)
	self.Register(ActionSettings, self.Settings)
	self.Register(ActionInfos, self.Infos)
	self.Register(ActionMotorsSettings, self.MotorsSettings)
	self.Register(ActionLeveling, self.Leveling)
	self.Register(ActionSensorZHeight, self.ZHeight)
	self.Register(ActionWait, self.Wait)
	self.Register(ActionPauseOptions, self.PauseOptions)
	self.Register(ActionFeatures, self.Features)
	self.Register(ActionPreheat, self.Preheat)
	self.Register(ActionEepromMismatch, self.Mismatch)
	self.Register(ActionSetup, self.Setup)
	self.Register(ActionNoSensor, self.NoSensor)
	return self
}

func (self *Screens) Register(a Action, s Screen) { self.byAction[a] = s }

// Dispatch returns false for unhandled command, caller decides on feedback.
func (self *Screens) Dispatch(ctx context.Context, cmd Command) bool {
	g := state.GetGlobal(ctx)
	handled := self.dispatch(ctx, cmd)
	if handled {
		g.Tele.Stat().KeysDispatched.Inc()
	} else {
		g.Tele.Stat().KeysUnhandled.Inc()
		self.log.Errorf("screens unhandled command=%s page=%s", cmd.String(), g.Pages.Current().String())
	}
	return handled
}

func (self *Screens) dispatch(ctx context.Context, cmd Command) bool {
	screen, ok := self.byAction[cmd.Action]
	if !ok {
		return false
	}
	self.log.Debugf("screens dispatch command=%s", cmd.String())
	if fun, ok := screen.Keys()[cmd.Key]; ok {
		fun(ctx)
		return true
	}
	if _, ok := screen.(isolated); ok {
		return false
	}
	switch cmd.Key {
	case KeyShow:
		self.Show(ctx, screen)
	case KeyBack:
		screen.OnBack(ctx)
	case KeySave:
		screen.OnSave(ctx)
	default:
		return false
	}
	return true
}

// Show prepares screen and, unless it refused, remembers current page as back target.
// Transient pages are never remembered.
func (self *Screens) Show(ctx context.Context, screen Screen) {
	g := state.GetGlobal(ctx)
	page := screen.PreparePage(ctx)
	if page == nav.PageNone {
		return
	}
	if current := g.Pages.Current(); !isTransient(current) {
		g.Pages.SaveBack(current)
	}
	g.Pages.Show(page)
}

// FactoryReset restores default settings and starts over from setup page.
// While stored settings mismatch, navigation is left as is.
func (self *Screens) FactoryReset(ctx context.Context) {
	g := state.GetGlobal(ctx)
	g.Settings.Reset()
	if g.Settings.Mismatch().DoesMismatch() {
		return
	}
	g.Pages.Reset()
	self.Show(ctx, self.Setup)
}

// ensureNotPrinting shows status message and returns false while a print is running or paused.
func (self *Screens) ensureNotPrinting(ctx context.Context) bool {
	g := state.GetGlobal(ctx)
	if !g.Printer.IsPrinting() && !g.Printer.IsPrintingPaused() {
		return true
	}
	self.Status.Set(ctx, g.T(i18n.NotWhilePrinting))
	return false
}

func isTransient(p nav.Page) bool {
	switch p {
	case nav.PageNone, nav.PageBoot, nav.PageWait, nav.PageWaitContinue:
		return true
	}
	return false
}
