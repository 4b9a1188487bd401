// Package task holds at most one deferred operation polled by the panel tick.
package task

import (
	"github.com/temoto/printpanel/log2"
)

type Task struct {
	Name string
	// Ready reports completion of the awaited hardware operation.
	// nil means ready as soon as delay elapsed.
	Ready func() bool
	// Run is called once, after the slot is cleared, so it may Set a new task.
	Run func()
}

// Scheduler is not safe for concurrent use, call from the panel tick only.
type Scheduler struct {
	log       *log2.Log
	task      *Task
	remaining uint
}

func New(log *log2.Log) *Scheduler { return &Scheduler{log: log} }

// Set puts t into the slot, replacing the pending task if any.
// First readiness check happens on tick number `delay` after Set, delay=0 means next tick.
func (self *Scheduler) Set(t Task, delay uint) (replaced bool) {
	if self.task != nil {
		replaced = true
		self.log.Debugf("task replace old=%s new=%s", self.task.Name, t.Name)
	} else {
		self.log.Debugf("task set name=%s delay=%d", t.Name, delay)
	}
	self.task = &t
	self.remaining = delay
	return replaced
}

// Clear drops the pending task without running it.
func (self *Scheduler) Clear() {
	if self.task != nil {
		self.log.Debugf("task clear name=%s", self.task.Name)
	}
	self.task = nil
	self.remaining = 0
}

func (self *Scheduler) Pending() bool { return self.task != nil }

func (self *Scheduler) Name() string {
	if self.task == nil {
		return ""
	}
	return self.task.Name
}

// Tick advances delay and polls readiness. Returns true when the task ran.
func (self *Scheduler) Tick() bool {
	t := self.task
	if t == nil {
		return false
	}
	if self.remaining > 0 {
		self.remaining--
	}
	if self.remaining > 0 {
		return false
	}
	if t.Ready != nil && !t.Ready() {
		return false
	}
	self.task = nil
	self.log.Debugf("task run name=%s", t.Name)
	if t.Run != nil {
		t.Run()
	}
	return true
}
