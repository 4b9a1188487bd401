package state

import (
	"context"
	"testing"

	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/printer"
	"github.com/temoto/printpanel/internal/tele"
	"github.com/temoto/printpanel/log2"
)

// NewTestContext gives Global with mock display, printer and telemetry.
// Access mocks with g.Display.(*dgus.Mock), g.Printer.(*printer.Mock).
func NewTestContext(t testing.TB, confString string) (context.Context, *Global) {
	fs := NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	log := log2.NewTest(t, log2.LDebug)
	// log := log2.NewStderr(log2.LDebug) // useful with panics
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log, &tele.Noop{})
	g.Display = dgus.NewMock()
	g.Printer = printer.NewMock()
	g.MustInit(ctx, MustReadConfig(log, fs, "test-inline"))
	return ctx, g
}
