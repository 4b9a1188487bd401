package tele

import (
	"context"

	"github.com/temoto/printpanel/log2"
)

// Noop counts stats and sends nothing.
type Noop struct{ stat Stat }

var _ Teler = &Noop{} // compile-time interface test

func (*Noop) Init(context.Context, *log2.Log, Config) error { return nil }

func (*Noop) Close() {}

func (*Noop) Error(error) {}

func (*Noop) State(State) {}

func (self *Noop) Page(uint8, string) { self.stat.PageChanges.Inc() }

func (*Noop) Report(*Telemetry_Settings) error { return nil }

func (self *Noop) Stat() *Stat { return &self.stat }
