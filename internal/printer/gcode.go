package printer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/printpanel/helpers"
	"github.com/temoto/printpanel/internal/types"
	"github.com/temoto/printpanel/log2"
	"go.uber.org/atomic"
)

const (
	DefaultLineTimeout  = 2 * time.Minute
	DefaultPollInterval = 2 * time.Second
	queueSize           = 64
)

type GcodeConfig struct {
	HasProbe        bool
	LineTimeoutSec  int
	PollIntervalSec int
	// OnEvent receives target temperature and pause notices, called from reader goroutine.
	OnEvent         func(types.Event)
}

// Gcode drives firmware over a line protocol: one command line, then wait for "ok".
// Panel calls only queue lines, worker goroutine talks to the link.
type Gcode struct {
	log         *log2.Log
	alive       *alive.Alive
	w           io.Writer
	lines       chan string
	replies     chan string
	readDone    chan struct{}
	lineTimeout time.Duration
	pollEvery   time.Duration
	probe       bool
	onEvent     func(types.Event)
	targets     [2]uint16 // indexed by TemperatureKind, reader goroutine only
	// lines that timed out, their late replies are not acks for later lines. Writer goroutine only.
	stale       int

	pending  atomic.Int32
	homed    atomic.Bool
	printing atomic.Bool
	paused   atomic.Bool
	media    atomic.Bool
	zoffset  atomic.Float32
	feedrate atomic.Float32
	position [3]atomic.Float32

	mu sync.Mutex // serializes InjectCommands
}

var _ Printer = &Gcode{}

func NewGcode(log *log2.Log, rw io.ReadWriter, config GcodeConfig) *Gcode {
	self := &Gcode{
		log:         log,
		alive:       alive.NewAlive(),
		w:           rw,
		lines:       make(chan string, queueSize),
		replies:     make(chan string, queueSize),
		readDone:    make(chan struct{}),
		lineTimeout: helpers.IntSecondDefault(config.LineTimeoutSec, DefaultLineTimeout),
		pollEvery:   helpers.IntSecondDefault(config.PollIntervalSec, DefaultPollInterval),
		probe:       config.HasProbe,
		onEvent:     config.OnEvent,
	}
	self.feedrate.Store(50)
	go self.readLoop(rw)
	go self.writeLoop()
	return self
}

func (self *Gcode) Close() {
	self.alive.Stop()
	self.alive.Wait()
}

func (self *Gcode) IsPrinting() bool       { return self.printing.Load() }
func (self *Gcode) IsPrintingPaused() bool { return self.paused.Load() }
func (self *Gcode) IsMachineHomed() bool   { return self.homed.Load() }
func (self *Gcode) IsBusy() bool           { return self.pending.Load() > 0 }
func (self *Gcode) HasProbe() bool         { return self.probe }
func (self *Gcode) IsMediaInserted() bool  { return self.media.Load() }
func (self *Gcode) ZOffset() float32       { return self.zoffset.Load() }

func (self *Gcode) AxisPosition(a types.Axis) float32 { return self.position[a%3].Load() }

func (self *Gcode) SetAxisPosition(a types.Axis, v float32) {
	self.position[a%3].Store(v)
	feed := int(self.feedrate.Load() * 60)
	self.InjectCommands(fmt.Sprintf("G1 %s%.2f F%d", a.String(), v, feed))
}

func (self *Gcode) SetFeedrate(v float32) { self.feedrate.Store(v) }

func (self *Gcode) SetSoftEndstops(b bool) {
	s := 0
	if b {
		s = 1
	}
	self.InjectCommands(fmt.Sprintf("M211 S%d", s))
}

func (self *Gcode) SetZOffset(v float32) {
	self.zoffset.Store(v)
	self.InjectCommands(fmt.Sprintf("M851 Z%.2f", v))
}

func (self *Gcode) MountMedia()       { self.InjectCommands("M21") }
func (self *Gcode) SetUserConfirmed() { self.InjectCommands("M108") }

func (self *Gcode) SetPID(kind types.TemperatureKind, kp, ki, kd float32) {
	code := "M304"
	if kind == types.TemperatureHotend {
		code = "M301"
	}
	self.InjectCommands(fmt.Sprintf("%s P%.2f I%.2f D%.2f", code, kp, ki, kd))
}

func (self *Gcode) SetTargetTemperature(kind types.TemperatureKind, value uint16) {
	code := "M140"
	if kind == types.TemperatureHotend {
		code = "M104"
	}
	self.InjectCommands(fmt.Sprintf("%s S%d", code, value))
}

func (self *Gcode) InjectCommands(s string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "G28") {
			self.homed.Store(false)
		}
		self.pending.Inc()
		select {
		case self.lines <- line:
		default:
			self.pending.Dec()
			self.log.Errorf("gcode queue full, dropped line=%s", line)
		}
	}
}

func (self *Gcode) writeLoop() {
	if !self.alive.Add(1) {
		return
	}
	defer self.alive.Done()
	poll := time.NewTicker(self.pollEvery)
	defer poll.Stop()
	stopch := self.alive.StopChan()
	for {
		select {
		case line := <-self.lines:
			err := self.exec(line)
			self.pending.Dec()
			if err != nil {
				self.log.Error(errors.Annotatef(err, "gcode line=%s", line))
				continue
			}
			if strings.HasPrefix(line, "G28") {
				self.homed.Store(true)
			}
		case <-poll.C:
			if self.pending.Load() == 0 {
				for _, line := range pollCommands {
					if err := self.exec(line); err != nil {
						self.log.Debugf("gcode poll line=%s err=%v", line, err)
					}
				}
			}
		case <-stopch:
			return
		}
	}
}

func (self *Gcode) exec(line string) error {
	self.log.Debugf("gcode > %s", line)
	if err := helpers.WriteLine(self.w, line); err != nil {
		return errors.Trace(err)
	}
	tmr := time.NewTimer(self.lineTimeout)
	defer tmr.Stop()
	for {
		select {
		case reply, ok := <-self.replies:
			if !ok {
				return errors.Errorf("link closed")
			}
			if !isFinalReply(reply) {
				continue
			}
			if self.stale > 0 {
				self.stale--
				self.log.Debugf("gcode late reply=%s stale=%d", reply, self.stale)
				continue
			}
			if strings.HasPrefix(reply, "ok") {
				return nil
			}
			return errors.New(reply)
		case <-tmr.C:
			self.stale++
			return errors.Timeoutf("gcode ok")
		case <-self.alive.StopChan():
			return errors.Errorf("stopped")
		}
	}
}

// isFinalReply reports whether firmware is done with a line, successfully or not.
func isFinalReply(reply string) bool {
	return strings.HasPrefix(reply, "ok") || strings.HasPrefix(reply, "Error:") || strings.HasPrefix(reply, "error:")
}

func (self *Gcode) readLoop(r io.Reader) {
	defer close(self.readDone)
	defer close(self.replies)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		self.log.Debugf("gcode < %s", line)
		self.observe(line)
		select {
		case self.replies <- line:
		case <-self.alive.StopChan():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		self.log.Error(errors.Annotate(err, "gcode read"))
	}
}

// observe tracks state from unsolicited and status messages.
func (self *Gcode) observe(line string) {
	switch {
	case strings.HasPrefix(line, "SD card ok"), strings.HasPrefix(line, "echo:SD card ok"):
		self.media.Store(true)
	case strings.Contains(line, "SD init fail"), strings.Contains(line, "SD card released"), strings.Contains(line, "No SD card"):
		self.media.Store(false)
	case strings.HasPrefix(line, "SD printing byte"):
		// reported during pause too
		self.printing.Store(true)
	case strings.HasPrefix(line, "Not SD printing"):
		self.printing.Store(false)
		self.paused.Store(false)
	case strings.HasPrefix(line, "//action:paused"), strings.HasPrefix(line, "//action:pause"):
		self.paused.Store(true)
	case strings.HasPrefix(line, "//action:resumed"), strings.HasPrefix(line, "//action:resume"):
		self.paused.Store(false)
	case strings.HasPrefix(line, "//action:prompt_begin "):
		text := strings.TrimPrefix(line, "//action:prompt_begin ")
		if m, ok := promptPause[text]; ok {
			self.emit(types.Event{Kind: types.EventPause, Pause: m})
		}
	case strings.HasPrefix(line, "//action:prompt_end"):
		self.emit(types.Event{Kind: types.EventPause, Pause: types.PauseMessageStatus})
	case strings.Contains(line, "T:"):
		self.observeTargets(line)
	}
}

var pollCommands = []string{"M27", "M105"}

// host prompts sent by firmware during filament change
var promptPause = map[string]types.PauseMessage{
	"Paused":              types.PauseMessageParking,
	"Filament Change":     types.PauseMessageChanging,
	"Nozzle Parked":       types.PauseMessageWaiting,
	"Unloading":           types.PauseMessageUnload,
	"Load Filament":       types.PauseMessageInsert,
	"Loading":             types.PauseMessageLoad,
	"Filament Purging...": types.PauseMessagePurge,
	"Purge More":          types.PauseMessageOption,
	"Resuming":            types.PauseMessageResume,
	"HeaterTimeout":       types.PauseMessageHeat,
	"Reheating":           types.PauseMessageHeating,
}

// observeTargets parses temperature report "T:20.1 /200.0 B:21.0 /60.0 @:0 B@:0"
// and emits changed targets.
func (self *Gcode) observeTargets(line string) {
	fields := strings.Fields(line)
	for i := 0; i+1 < len(fields); i++ {
		var kind types.TemperatureKind
		switch {
		case strings.HasPrefix(fields[i], "T:"):
			kind = types.TemperatureHotend
		case strings.HasPrefix(fields[i], "B:"):
			kind = types.TemperatureBed
		default:
			continue
		}
		target, ok := parseTarget(fields[i+1])
		if !ok || self.targets[kind] == target {
			continue
		}
		self.targets[kind] = target
		self.emit(types.Event{Kind: types.EventTemperature, Temperature: types.TemperatureEvent{Kind: kind, Value: target}})
	}
}

func parseTarget(s string) (uint16, bool) {
	if !strings.HasPrefix(s, "/") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[1:], 32)
	if err != nil || f < 0 || f > 0xffff {
		return 0, false
	}
	return uint16(f + 0.5), true
}

func (self *Gcode) emit(e types.Event) {
	self.log.Debugf("gcode event %s", e.String())
	if self.onEvent != nil {
		self.onEvent(e)
	}
}
