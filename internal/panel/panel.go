// Package panel runs the display event loop: key presses, firmware notices and the tick.
package panel

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/printpanel/helpers"
	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/i18n"
	"github.com/temoto/printpanel/internal/nav"
	"github.com/temoto/printpanel/internal/screens"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/tele"
	"github.com/temoto/printpanel/internal/types"
)

const DefaultTick = 10 * time.Millisecond

type State uint32

const (
	StateDefault State = iota
	StateBoot
	StateRun
	StateStop
)

var stateNames = [...]string{"Default", "Boot", "Run", "Stop"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(?)"
}

type InputReader interface {
	ReadEvent() (types.InputEvent, error)
}

type Panel struct {
	Screens *screens.Screens

	g       *state.Global
	state   State
	tick    time.Duration
	eventch chan types.Event
	retry   helpers.Backoff

	XXX_testHook func(types.Event)
}

func New() *Panel { return &Panel{} }

func (self *Panel) State() State       { return State(atomic.LoadUint32((*uint32)(&self.state))) }
func (self *Panel) setState(new State) { atomic.StoreUint32((*uint32)(&self.state), uint32(new)) }

func (self *Panel) Init(ctx context.Context) error {
	self.g = state.GetGlobal(ctx)
	if self.g.Tasks == nil || self.g.Pages == nil {
		return errors.NotValidf("code error panel.Init before state.Init")
	}
	self.Screens = screens.New(self.g.Log)
	self.tick = helpers.IntMillisecondDefault(self.g.Config.Panel.TickMs, DefaultTick)
	self.eventch = make(chan types.Event, 16)
	self.retry = helpers.Backoff{Min: 100 * time.Millisecond, Max: 10 * time.Second, K: 2}
	self.setState(StateBoot)
	return nil
}

// Boot loads stored settings and shows first page.
func (self *Panel) Boot(ctx context.Context) {
	g := self.g
	if err := g.Display.WriteText(dgus.VarFirmwareVersion, g.BuildVersion); err != nil {
		g.Error(err, "boot firmware version")
	}
	g.Dimmer.SetBrightness(g.Dimmer.Brightness())

	if err := g.Storage.Load(); err != nil {
		g.Error(err, "boot settings")
	}
	if g.Settings.Mismatch().DoesMismatch() {
		g.Tele.State(tele.State_Problem)
		self.Screens.Status.Set(ctx, g.T(i18n.SettingsMismatch))
		self.Screens.Show(ctx, self.Screens.Mismatch)
	} else {
		g.Tele.State(tele.State_Nominal)
		g.Pages.Show(nav.PageMain)
	}
	g.Report()
	self.setState(StateRun)
}

func (self *Panel) Loop(ctx context.Context) {
	if !self.g.Alive.Add(1) {
		return
	}
	defer self.g.Alive.Done()
	self.Boot(ctx)

	ticker := time.NewTicker(self.tick)
	defer ticker.Stop()
	for self.g.Alive.IsRunning() {
		e := self.wait(ticker.C)
		if e.Kind == types.EventStop {
			break
		}
		self.Handle(ctx, e)
	}
	self.setState(StateStop)
	self.g.Log.Debugf("panel loop end")
}

func (self *Panel) wait(tick <-chan time.Time) types.Event {
	select {
	case e := <-self.eventch:
		return e
	case <-tick:
		return types.Event{Kind: types.EventTime}
	case <-self.g.Alive.StopChan():
		return types.Event{Kind: types.EventStop}
	}
}

// Handle processes one event. Tick events advance scheduled task and dimming.
func (self *Panel) Handle(ctx context.Context, e types.Event) {
	g := self.g
	switch e.Kind {
	case types.EventInput:
		g.Dimmer.Input()
		self.Screens.Dispatch(ctx, screens.Command{
			Action: screens.Action(e.Input.Action),
			Key:    screens.KeyValue(e.Input.Key),
		})

	case types.EventTemperature:
		g.Settings.RecordTargetTemperature(e.Temperature.Kind, e.Temperature.Value)

	case types.EventPause:
		self.Screens.Pause.ShowMessage(ctx, e.Pause)

	case types.EventTime:
		if g.Tasks.Tick() {
			g.Tele.Stat().TasksRun.Inc()
		}
		g.Dimmer.Check()

	default:
		g.Log.Errorf("panel unexpected event=%s", e.String())
	}
	if self.XXX_testHook != nil {
		self.XXX_testHook(e)
	}
}

// Emit queues event for the loop. Safe for concurrent use.
func (self *Panel) Emit(e types.Event) {
	select {
	case self.eventch <- e:
	case <-self.g.Alive.StopChan():
	}
}

func (self *Panel) OnSetTemperature(kind types.TemperatureKind, value uint16) {
	self.Emit(types.Event{Kind: types.EventTemperature, Temperature: types.TemperatureEvent{Kind: kind, Value: value}})
}

func (self *Panel) OnPauseMessage(m types.PauseMessage) {
	self.Emit(types.Event{Kind: types.EventPause, Pause: m})
}

// ForwardPrinterEvents passes firmware notices from ch to the loop until Stop.
func (self *Panel) ForwardPrinterEvents(ch <-chan types.Event) {
	stopch := self.g.Alive.StopChan()
	for {
		select {
		case e := <-ch:
			switch e.Kind {
			case types.EventTemperature:
				self.OnSetTemperature(e.Temperature.Kind, e.Temperature.Value)
			case types.EventPause:
				self.OnPauseMessage(e.Pause)
			default:
				self.g.Log.Errorf("panel printer event unexpected %s", e.String())
			}
		case <-stopch:
			return
		}
	}
}

// ReadInput forwards display key frames to the loop.
// Returns on io.EOF or first read error after Stop, caller closes the reader to unblock it.
func (self *Panel) ReadInput(r InputReader) {
	stopch := self.g.Alive.StopChan()
	for {
		e, err := r.ReadEvent()
		if err != nil {
			if errors.Cause(err) == io.EOF || !self.g.Alive.IsRunning() {
				self.g.Log.Debugf("panel input end err=%v", err)
				return
			}
			self.g.Error(err, "panel input")
			self.g.Tele.Error(err)
			if !self.retry.Wait(stopch) {
				return
			}
			continue
		}
		self.retry.Reset()
		self.Emit(types.Event{Kind: types.EventInput, Input: e})
	}
}
