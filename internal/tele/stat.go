package tele

import (
	"go.uber.org/atomic"
)

// Low priority counters, sent together with every telemetry message.
type Stat struct {
	KeysDispatched atomic.Uint32
	KeysUnhandled  atomic.Uint32
	TasksRun       atomic.Uint32
	PageChanges    atomic.Uint32
}

// snapshot takes current values and resets counters.
func (self *Stat) snapshot() *Telemetry_Stat {
	return &Telemetry_Stat{
		KeysDispatched: self.KeysDispatched.Swap(0),
		KeysUnhandled:  self.KeysUnhandled.Swap(0),
		TasksRun:       self.TasksRun.Swap(0),
		PageChanges:    self.PageChanges.Swap(0),
	}
}
