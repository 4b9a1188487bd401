package panel

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/i18n"
	"github.com/temoto/printpanel/internal/nav"
	"github.com/temoto/printpanel/internal/screens"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/storage"
	"github.com/temoto/printpanel/internal/task"
	"github.com/temoto/printpanel/internal/tele"
	"github.com/temoto/printpanel/internal/types"
	"github.com/temoto/printpanel/log2"
)

type garbageBackend struct{}

func (garbageBackend) Read() ([]byte, error)       { return []byte{1, 2, 3}, nil }
func (garbageBackend) Write(b []byte) (int, error) { return len(b), nil }

type scriptReader struct {
	events []types.InputEvent
	errs   []error
}

func (self *scriptReader) ReadEvent() (types.InputEvent, error) {
	if len(self.errs) != 0 {
		err := self.errs[0]
		self.errs = self.errs[1:]
		return types.InputEvent{}, err
	}
	if len(self.events) == 0 {
		return types.InputEvent{}, io.EOF
	}
	e := self.events[0]
	self.events = self.events[1:]
	return e, nil
}

func newTestPanel(t *testing.T, conf string) (context.Context, *state.Global, *Panel) {
	ctx, g := state.NewTestContext(t, conf)
	g.BuildVersion = "1.2.3"
	p := New()
	require.NoError(t, p.Init(ctx))
	return ctx, g, p
}

func TestBoot(t *testing.T) {
	t.Parallel()

	ctx, g, p := newTestPanel(t, "")
	assert.Equal(t, StateBoot, p.State())
	p.Boot(ctx)
	assert.Equal(t, StateRun, p.State())
	display := g.Display.(*dgus.Mock)
	assert.Equal(t, []uint8{uint8(nav.PageMain)}, display.Pages())
	assert.Equal(t, "1.2.3", display.Text(dgus.VarFirmwareVersion))
	assert.Equal(t, uint8(0x40), display.Brightness())
}

func TestBootMismatch(t *testing.T) {
	t.Parallel()

	ctx, g, p := newTestPanel(t, "")
	g.Storage = storage.New(g.Log, g.Settings, garbageBackend{})
	p.Boot(ctx)
	assert.True(t, g.Settings.Mismatch().DoesMismatch())
	assert.Equal(t, nav.PageEepromMismatch, g.Pages.Current())
	assert.Equal(t, g.T(i18n.SettingsMismatch), g.Display.(*dgus.Mock).Text(dgus.VarMessage))

	p.Handle(ctx, types.Event{Kind: types.EventInput, Input: types.InputEvent{
		Action: uint16(screens.ActionEepromMismatch),
		Key:    uint16(screens.KeySave),
	}})
	assert.False(t, g.Settings.Mismatch().DoesMismatch())
	assert.Equal(t, nav.PageControls, g.Pages.Current())
}

func TestHandle(t *testing.T) {
	t.Parallel()

	ctx, g, p := newTestPanel(t, "")
	stat := g.Tele.(*tele.Noop).Stat()
	p.Boot(ctx)

	p.Handle(ctx, types.Event{Kind: types.EventInput, Input: types.InputEvent{
		Action: uint16(screens.ActionControls),
		Key:    uint16(screens.KeyShow),
	}})
	assert.Equal(t, nav.PageControls, g.Pages.Current())
	assert.Equal(t, uint32(1), stat.KeysDispatched.Load())

	p.Handle(ctx, types.Event{Kind: types.EventTemperature, Temperature: types.TemperatureEvent{Kind: types.TemperatureHotend, Value: 215}})
	assert.Equal(t, uint16(215), g.Settings.LastUsedTemperature(types.TemperatureHotend))

	p.Handle(ctx, types.Event{Kind: types.EventPause, Pause: types.PauseMessageHeat})
	assert.Equal(t, nav.PageWaitContinue, g.Pages.Current())
	assert.Equal(t, nav.PageControls, g.Pages.Back())

	ran := 0
	g.Tasks.Set(task.Task{Name: "test", Run: func() { ran++ }}, 2)
	p.Handle(ctx, types.Event{Kind: types.EventTime})
	assert.Equal(t, 0, ran)
	p.Handle(ctx, types.Event{Kind: types.EventTime})
	assert.Equal(t, 1, ran)
	assert.Equal(t, uint32(1), stat.TasksRun.Load())
}

func TestLoop(t *testing.T) {
	t.Parallel()

	ctx, g, p := newTestPanel(t, `panel { tick_ms = 1 }`)
	inputs := make(chan types.Event, 8)
	p.XXX_testHook = func(e types.Event) {
		if e.Kind != types.EventTime {
			inputs <- e
		}
	}
	done := make(chan struct{})
	go func() {
		p.Loop(ctx)
		close(done)
	}()

	go p.ReadInput(&scriptReader{
		errs:   []error{errors.New("frame sync")},
		events: []types.InputEvent{{Action: uint16(screens.ActionPreheat), Key: uint16(screens.KeyShow)}},
	})
	printerEvents := make(chan types.Event, 4)
	go p.ForwardPrinterEvents(printerEvents)
	printerEvents <- types.Event{Kind: types.EventInput}
	printerEvents <- types.Event{Kind: types.EventTemperature, Temperature: types.TemperatureEvent{Kind: types.TemperatureBed, Value: 70}}
	printerEvents <- types.Event{Kind: types.EventPause, Pause: types.PauseMessageStatus}

	seen := map[types.EventKind]int{}
	for i := 0; i < 3; i++ {
		select {
		case e := <-inputs:
			seen[e.Kind]++
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for events")
		}
	}
	assert.Equal(t, map[types.EventKind]int{types.EventInput: 1, types.EventTemperature: 1, types.EventPause: 1}, seen)

	g.Alive.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, StateStop, p.State())
	assert.Equal(t, uint16(70), g.Settings.LastUsedTemperature(types.TemperatureBed))
}

func TestInitOrder(t *testing.T) {
	t.Parallel()

	ctx, _ := state.NewContext(log2.NewTest(t, log2.LDebug), &tele.Noop{})
	err := New().Init(ctx)
	assert.True(t, errors.IsNotValid(err))
}
