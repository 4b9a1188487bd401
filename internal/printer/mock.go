package printer

import (
	"strings"
	"sync"

	"github.com/temoto/printpanel/internal/types"
)

// Mock simulates a printer. G28 starts homing which completes after
// HomingPolls calls of IsBusy, or on FinishHoming when HomingPolls=0.
type Mock struct {
	mu          sync.Mutex
	HomingPolls int
	Probe       bool
	Media       bool

	printing    bool
	paused      bool
	homed       bool
	busy        int
	homing      bool
	position    [3]float32
	feedrate    float32
	endstops    bool
	zoffset     float32
	commands    []string
	confirmed   int
	mounted     int
	pid         map[types.TemperatureKind][3]float32
	temperature map[types.TemperatureKind]uint16
}

var _ Printer = &Mock{}

func NewMock() *Mock {
	return &Mock{
		Probe:       true,
		endstops:    true,
		pid:         make(map[types.TemperatureKind][3]float32),
		temperature: make(map[types.TemperatureKind]uint16),
	}
}

func (self *Mock) IsPrinting() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.printing
}

func (self *Mock) IsPrintingPaused() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.paused
}

func (self *Mock) SetPrinting(printing, paused bool) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.printing, self.paused = printing, paused
}

func (self *Mock) IsMachineHomed() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.homed
}

func (self *Mock) IsBusy() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.homing && self.HomingPolls > 0 {
		self.busy--
		if self.busy <= 0 {
			self.finishHoming()
		}
	}
	return self.homing
}

func (self *Mock) FinishHoming() {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.finishHoming()
}

func (self *Mock) finishHoming() {
	self.homing = false
	self.busy = 0
	self.homed = true
	self.position = [3]float32{}
}

func (self *Mock) HasProbe() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.Probe
}

func (self *Mock) AxisPosition(a types.Axis) float32 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.position[a%3]
}

func (self *Mock) SetAxisPosition(a types.Axis, v float32) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.position[a%3] = v
}

func (self *Mock) Feedrate() float32 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.feedrate
}

func (self *Mock) SetFeedrate(v float32) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.feedrate = v
}

func (self *Mock) SoftEndstops() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.endstops
}

func (self *Mock) SetSoftEndstops(b bool) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.endstops = b
}

func (self *Mock) ZOffset() float32 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.zoffset
}

func (self *Mock) SetZOffset(v float32) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.zoffset = v
}

func (self *Mock) InjectCommands(s string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		self.commands = append(self.commands, line)
		if strings.HasPrefix(line, "G28") {
			self.homed = false
			self.homing = true
			self.busy = self.HomingPolls
		}
	}
}

// Commands returns and forgets injected command lines.
func (self *Mock) Commands() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	cs := self.commands
	self.commands = nil
	return cs
}

func (self *Mock) MountMedia() {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.mounted++
}

func (self *Mock) Mounted() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.mounted
}

func (self *Mock) IsMediaInserted() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.Media
}

func (self *Mock) SetUserConfirmed() {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.confirmed++
}

func (self *Mock) Confirmed() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.confirmed
}

func (self *Mock) SetPID(kind types.TemperatureKind, kp, ki, kd float32) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.pid[kind] = [3]float32{kp, ki, kd}
}

func (self *Mock) PID(kind types.TemperatureKind) [3]float32 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.pid[kind]
}

func (self *Mock) SetTargetTemperature(kind types.TemperatureKind, value uint16) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.temperature[kind] = value
}

func (self *Mock) TargetTemperature(kind types.TemperatureKind) uint16 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.temperature[kind]
}
