package screens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/i18n"
	"github.com/temoto/printpanel/internal/nav"
	"github.com/temoto/printpanel/internal/printer"
	"github.com/temoto/printpanel/internal/settings"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/tele"
	"github.com/temoto/printpanel/internal/types"
)

type env struct {
	ctx     context.Context
	g       *state.Global
	s       *Screens
	display *dgus.Mock
	printer *printer.Mock
}

func newEnv(t *testing.T) *env {
	ctx, g := state.NewTestContext(t, "")
	return &env{
		ctx:     ctx,
		g:       g,
		s:       New(g.Log),
		display: g.Display.(*dgus.Mock),
		printer: g.Printer.(*printer.Mock),
	}
}

func (self *env) press(a Action, k KeyValue) bool {
	return self.s.Dispatch(self.ctx, Command{Action: a, Key: k})
}

func (self *env) lastPage() nav.Page {
	pages := self.display.Pages()
	if len(pages) == 0 {
		return nav.PageNone
	}
	return nav.Page(pages[len(pages)-1])
}

func TestDispatchFallback(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	stat := e.g.Tele.(*tele.Noop).Stat()

	cases := []struct {
		name    string
		cmd     Command
		handled bool
		page    nav.Page
	}{
		{"unknown-action", Command{Action: 0x0999, Key: KeyShow}, false, nav.PageMain},
		{"base-show", Command{ActionTuning, KeyShow}, true, nav.PageTuning},
		{"local-key-missing", Command{ActionTuning, KeyFactoryReset}, false, nav.PageTuning},
		{"base-back", Command{ActionTuning, KeyBack}, true, nav.PageMain},
		{"isolated-show", Command{ActionControls, KeyShow}, true, nav.PageControls},
		{"isolated-no-save", Command{ActionControls, KeySave}, false, nav.PageControls},
		{"isolated-local", Command{ActionControls, KeyInfos}, true, nav.PageInfos},
	}
	for _, c := range cases {
		handled := e.s.Dispatch(e.ctx, c.cmd)
		assert.Equal(t, c.handled, handled, c.name)
		assert.Equal(t, c.page, e.g.Pages.Current(), c.name)
	}
	assert.Equal(t, uint32(4), stat.KeysDispatched.Load())
	assert.Equal(t, uint32(3), stat.KeysUnhandled.Load())
}

func TestZHeightFlow(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.printer.SetZOffset(-1.5)

	require.True(t, e.press(ActionControls, KeyShow))
	require.True(t, e.press(ActionControls, KeyLeveling))
	assert.Equal(t, nav.PageLeveling, e.g.Pages.Current())

	require.True(t, e.press(ActionSensorZHeight, KeyShow))
	assert.Equal(t, nav.PageWait, e.g.Pages.Current())
	assert.Equal(t, e.g.T(i18n.Homing), e.display.Text(dgus.VarWaitMessage))
	assert.Equal(t, []string{"G28 F6000"}, e.printer.Commands())
	assert.Equal(t, float32(0), e.printer.ZOffset())
	assert.Equal(t, nav.PageLeveling, e.g.Pages.Forward())
	assert.Equal(t, taskZHeightPostHome, e.g.Tasks.Name())

	for i := 1; i < zHeightHomeDelay; i++ {
		require.False(t, e.g.Tasks.Tick(), "tick=%d", i)
	}
	// delay elapsed but homing is not finished
	assert.False(t, e.g.Tasks.Tick())
	assert.False(t, e.g.Tasks.Tick())
	assert.Equal(t, nav.PageWait, e.g.Pages.Current())

	e.printer.FinishHoming()
	assert.True(t, e.g.Tasks.Tick())
	assert.Equal(t, nav.PageZHeightTuning, e.g.Pages.Current())
	assert.Equal(t, nav.PageZHeightTuning, e.lastPage())
	assert.False(t, e.printer.SoftEndstops())
	assert.Equal(t, float32(zHeightFeedrate), e.printer.Feedrate())
	assert.Equal(t, float32(zHeightCenterXY), e.printer.AxisPosition(types.AxisX))
	assert.Equal(t, []uint16{uint16(Multiplier1)}, e.display.Words(dgus.VarZHeightMultiplier))

	require.True(t, e.press(ActionSensorZHeight, KeyPlus))
	require.True(t, e.press(ActionSensorZHeight, KeyMultiplier3))
	assert.Equal(t, Multiplier3, e.s.ZHeight.Multiplier())
	require.True(t, e.press(ActionSensorZHeight, KeyPlus))
	require.True(t, e.press(ActionSensorZHeight, KeyMultiplier2))
	require.True(t, e.press(ActionSensorZHeight, KeyMinus))
	assert.InDelta(t, 0.92, e.printer.AxisPosition(types.AxisZ), 0.0001)
	assert.Equal(t, []uint16{92}, e.display.Words(dgus.VarZHeight))

	require.True(t, e.press(ActionSensorZHeight, KeySave))
	assert.InDelta(t, 0.92, e.printer.ZOffset(), 0.0001)
	assert.True(t, e.printer.SoftEndstops())
	assert.Equal(t, float32(zHeightSafeZ), e.printer.AxisPosition(types.AxisZ))
	assert.Equal(t, []string{"G28 Z F1200", "G28 X Y F6000"}, e.printer.Commands())
	assert.Equal(t, nav.PageLeveling, e.g.Pages.Current())
	assert.Equal(t, nav.PageNone, e.g.Pages.Forward())
	assert.Equal(t, nav.PageNone, e.g.Pages.Back())
}

func TestZHeightReturnAfterPrompt(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.printer.HomingPolls = 1

	require.True(t, e.press(ActionControls, KeyShow))
	require.True(t, e.press(ActionControls, KeyLeveling))
	require.True(t, e.press(ActionSensorZHeight, KeyShow))
	for i := 0; i < zHeightHomeDelay; i++ {
		e.g.Tasks.Tick()
	}
	require.Equal(t, nav.PageZHeightTuning, e.g.Pages.Current())

	// firmware prompt during tuning takes over back slot
	e.s.Wait.ShowContinue(e.ctx, "Heater timeout")
	require.True(t, e.press(ActionWait, KeyContinue))
	require.Equal(t, nav.PageZHeightTuning, e.g.Pages.Current())
	require.Equal(t, nav.PageNone, e.g.Pages.Back())

	require.True(t, e.press(ActionSensorZHeight, KeyBack))
	assert.Equal(t, nav.PageLeveling, e.g.Pages.Current())
	assert.Equal(t, nav.PageNone, e.g.Pages.Forward())
}

func TestZHeightBack(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.printer.HomingPolls = 1
	e.printer.SetZOffset(-1.5)

	require.True(t, e.press(ActionSensorZHeight, KeyShow))
	for i := 0; i < zHeightHomeDelay; i++ {
		e.g.Tasks.Tick()
	}
	require.Equal(t, nav.PageZHeightTuning, e.g.Pages.Current())
	e.printer.Commands()

	require.True(t, e.press(ActionSensorZHeight, KeyBack))
	assert.Equal(t, float32(-1.5), e.printer.ZOffset())
	assert.True(t, e.printer.SoftEndstops())
	assert.Equal(t, []string{"G28 Z F1200", "G28 X Y F6000"}, e.printer.Commands())
	assert.Equal(t, nav.PageMain, e.g.Pages.Current())
}

func TestZHeightRefused(t *testing.T) {
	t.Parallel()

	t.Run("no-probe", func(t *testing.T) {
		e := newEnv(t)
		e.printer.Probe = false
		require.True(t, e.press(ActionSensorZHeight, KeyShow))
		assert.Equal(t, nav.PageNoSensor, e.g.Pages.Current())
		assert.False(t, e.g.Tasks.Pending())
	})
	t.Run("printing", func(t *testing.T) {
		e := newEnv(t)
		e.printer.SetPrinting(true, false)
		require.True(t, e.press(ActionSensorZHeight, KeyShow))
		assert.Equal(t, nav.PageMain, e.g.Pages.Current())
		assert.Equal(t, e.g.T(i18n.NotWhilePrinting), e.display.Text(dgus.VarMessage))
		assert.Empty(t, e.printer.Commands())
		assert.False(t, e.g.Tasks.Pending())
	})
}

func TestControlsPrint(t *testing.T) {
	t.Parallel()

	t.Run("no-media", func(t *testing.T) {
		e := newEnv(t)
		require.True(t, e.press(ActionControls, KeyPrint))
		assert.Equal(t, nav.PageWait, e.g.Pages.Current())
		assert.Equal(t, e.g.T(i18n.AccessingSdCard), e.display.Text(dgus.VarWaitMessage))
		assert.Equal(t, 0, e.printer.Mounted())
		assert.True(t, e.g.Tasks.Tick())
		assert.Equal(t, 1, e.printer.Mounted())
		assert.True(t, e.g.Tasks.Tick())
		assert.Equal(t, e.g.T(i18n.NoSdCard), e.display.Text(dgus.VarMessage))
		assert.Equal(t, nav.PageMain, e.g.Pages.Current())
	})
	t.Run("media", func(t *testing.T) {
		e := newEnv(t)
		e.printer.Media = true
		require.True(t, e.press(ActionControls, KeyPrint))
		e.g.Tasks.Tick()
		e.g.Tasks.Tick()
		assert.Equal(t, "", e.display.Text(dgus.VarMessage))
		assert.Equal(t, nav.PageSdCard, e.g.Pages.Current())
		// wait page is not a back target
		assert.Equal(t, nav.PageMain, e.g.Pages.Back())
	})
	t.Run("printing", func(t *testing.T) {
		e := newEnv(t)
		e.printer.SetPrinting(false, true)
		require.True(t, e.press(ActionControls, KeyPrint))
		assert.Equal(t, nav.PagePrint, e.g.Pages.Current())
		assert.False(t, e.g.Tasks.Pending())
	})
}

func TestControlsTemps(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	require.True(t, e.press(ActionControls, KeyTemps))
	assert.Equal(t, nav.PageTemperature, e.g.Pages.Current())
	require.True(t, e.press(ActionControls, KeyPrintSettings))
	assert.Equal(t, nav.PageTemperature, e.g.Pages.Current())

	e.printer.SetPrinting(true, false)
	require.True(t, e.press(ActionControls, KeyTemps))
	assert.Equal(t, nav.PagePrint, e.g.Pages.Current())
	require.True(t, e.press(ActionControls, KeyPrintSettings))
	assert.Equal(t, nav.PagePrintSettings, e.g.Pages.Current())

	e.printer.SetPrinting(false, true)
	require.True(t, e.press(ActionControls, KeyPrintSettings))
	assert.Equal(t, nav.PagePrintSettings, e.g.Pages.Current())
	require.True(t, e.press(ActionControls, KeyTemps))
	assert.Equal(t, nav.PagePrint, e.g.Pages.Current())
}

func TestFactoryReset(t *testing.T) {
	t.Parallel()

	t.Run("normal", func(t *testing.T) {
		e := newEnv(t)
		e.g.Settings.ToggleFeatures(settings.FeatureDimming)
		require.True(t, e.press(ActionTuning, KeyShow))
		require.True(t, e.press(ActionSettings, KeyFactoryReset))
		assert.Equal(t, settings.DefaultFeatures, e.g.Settings.Features())
		assert.Equal(t, nav.PageSetup, e.g.Pages.Current())
		assert.Equal(t, nav.PageMain, e.g.Pages.Back())
	})
	t.Run("mismatch", func(t *testing.T) {
		e := newEnv(t)
		e.g.Settings.ToggleFeatures(settings.FeatureDimming)
		e.g.Settings.Mismatch().Set()
		require.True(t, e.press(ActionTuning, KeyShow))
		require.True(t, e.press(ActionSettings, KeyFactoryReset))
		assert.Equal(t, settings.DefaultFeatures, e.g.Settings.Features())
		assert.Equal(t, nav.PageTuning, e.g.Pages.Current())
	})
}

func TestMismatchSave(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.g.Settings.Mismatch().Set()
	require.True(t, e.press(ActionEepromMismatch, KeyShow))
	require.True(t, e.press(ActionEepromMismatch, KeySave))
	assert.False(t, e.g.Settings.Mismatch().DoesMismatch())
	assert.Equal(t, e.g.T(i18n.SettingsSaved), e.display.Text(dgus.VarMessage))
	assert.Equal(t, nav.PageControls, e.g.Pages.Current())
}

func TestPause(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.printer.SetPrinting(true, true)
	require.True(t, e.press(ActionControls, KeyTemps))
	require.Equal(t, nav.PagePrint, e.g.Pages.Current())

	e.s.Pause.ShowMessage(e.ctx, types.PauseMessageParking)
	assert.Equal(t, nav.PageWait, e.g.Pages.Current())
	assert.Equal(t, e.g.T(i18n.PauseParking), e.display.Text(dgus.VarWaitMessage))

	e.s.Pause.ShowMessage(e.ctx, types.PauseMessageInsert)
	assert.Equal(t, nav.PageWaitContinue, e.g.Pages.Current())
	assert.Equal(t, nav.PagePrint, e.g.Pages.Back())
	require.True(t, e.press(ActionWait, KeyContinue))
	assert.Equal(t, 1, e.printer.Confirmed())
	assert.Equal(t, nav.PagePrint, e.g.Pages.Current())

	e.s.Pause.ShowMessage(e.ctx, types.PauseMessageOption)
	assert.Equal(t, nav.PagePauseOptions, e.g.Pages.Current())
	require.True(t, e.press(ActionPauseOptions, KeyResume))
	assert.Equal(t, 2, e.printer.Confirmed())
	assert.Equal(t, nav.PagePrint, e.g.Pages.Current())

	e.s.Pause.ShowMessage(e.ctx, types.PauseMessage(99))
	assert.Equal(t, nav.PagePrint, e.g.Pages.Current())
	assert.Equal(t, "PauseMessage(99)", types.PauseMessage(99).String())
}

func TestFeatures(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	require.True(t, e.press(ActionFeatures, KeyShow))
	assert.Equal(t, []uint16{uint16(settings.DefaultFeatures), 0x40}, e.display.Words(dgus.VarFeatures))

	require.True(t, e.press(ActionFeatures, KeyDimming))
	assert.False(t, e.g.Settings.IsFeatureEnabled(settings.FeatureDimming))
	require.True(t, e.press(ActionFeatures, KeyBrightnessPlus))
	assert.Equal(t, uint8(0x40), e.g.Dimmer.Brightness())
	require.True(t, e.press(ActionFeatures, KeyBrightnessMinus))
	assert.Equal(t, uint8(0x38), e.g.Dimmer.Brightness())
	assert.Equal(t, uint8(0x38), e.display.Brightness())
	assert.Equal(t,
		[]uint16{uint16(settings.DefaultFeatures &^ settings.FeatureDimming), 0x38},
		e.display.Words(dgus.VarFeatures))
}

func TestPreheat(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	require.True(t, e.press(ActionPreheat, KeyShow))
	assert.Equal(t, []uint16{DefaultPreheatHotend, DefaultPreheatBed}, e.display.Words(dgus.VarPreheat))

	require.True(t, e.press(ActionPreheat, KeyHotendPlus))
	require.True(t, e.press(ActionPreheat, KeyBedMinus))
	require.True(t, e.press(ActionPreheat, KeyPreheat))
	assert.Equal(t, uint16(205), e.printer.TargetTemperature(types.TemperatureHotend))
	assert.Equal(t, uint16(55), e.printer.TargetTemperature(types.TemperatureBed))
	assert.Equal(t, uint16(205), e.g.Settings.LastUsedTemperature(types.TemperatureHotend))
	assert.Equal(t, nav.PageMain, e.g.Pages.Current())

	require.True(t, e.press(ActionPreheat, KeyShow))
	hotend, bed := e.s.Preheat.Values()
	assert.Equal(t, uint16(205), hotend)
	assert.Equal(t, uint16(55), bed)
}

func TestMultiplierStep(t *testing.T) {
	t.Parallel()
	step, ok := Multiplier3.Step()
	assert.True(t, ok)
	assert.Equal(t, float32(1.0), step)
	step, ok = Multiplier(7).Step()
	assert.False(t, ok)
	assert.Equal(t, float32(0.02), step)
}
