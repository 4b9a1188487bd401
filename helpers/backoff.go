package helpers

import (
	"sync/atomic"
	"time"

	"github.com/temoto/atomic_clock"
)

// Backoff is limited exponential retry delay for device links and telemetry.
// First delay is 0, each failure multiplies next delay by K within [Min, Max].
type Backoff struct {
	next int64 // atomic align
	last atomic_clock.Clock

	Min time.Duration
	Max time.Duration
	K   float32
	Res time.Duration // rounding, default 1ms
}

// DelayAfter records result of attempt just made and returns pause before next one.
func (self *Backoff) DelayAfter(success bool) time.Duration {
	atomic.CompareAndSwapInt64(&self.next, 0, int64(self.Min))
	self.Update(success)
	return self.DelayBefore()
}

// DelayBefore returns what is left of current delay since last recorded attempt.
func (self *Backoff) DelayBefore() time.Duration {
	next := time.Duration(atomic.LoadInt64(&self.next))
	if next == 0 {
		return 0
	}
	delay := self.limit(next)
	since := atomic_clock.Since(&self.last)
	if since >= delay {
		return 0
	}
	return self.round(delay - since)
}

// Wait records a failure and sleeps out the delay.
// Returns false if stop was closed first.
func (self *Backoff) Wait(stop <-chan struct{}) bool {
	tmr := time.NewTimer(self.DelayAfter(false))
	defer tmr.Stop()
	select {
	case <-tmr.C:
		return true
	case <-stop:
		return false
	}
}

func (self *Backoff) Failure() {
	next := time.Duration(atomic.LoadInt64(&self.next))
	next = self.limit(time.Duration(float32(next) * self.K))
	self.last.SetNow()
	atomic.StoreInt64(&self.next, int64(next))
}

func (self *Backoff) Reset() {
	self.last.SetNow()
	atomic.StoreInt64(&self.next, int64(self.Min))
}

func (self *Backoff) Update(success bool) {
	if success {
		self.Reset()
	} else {
		self.Failure()
	}
}

func (self *Backoff) limit(d time.Duration) time.Duration {
	if d < self.Min {
		d = self.Min
	}
	if d > self.Max {
		d = self.Max
	}
	return self.round(d)
}

func (self *Backoff) round(d time.Duration) time.Duration {
	res := self.Res
	if res == 0 {
		res = time.Millisecond
	}
	return d / res * res
}
