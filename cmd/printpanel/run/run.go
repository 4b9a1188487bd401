// Main, user facing mode of operation.
package run

import (
	"context"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/printpanel/cmd/printpanel/subcmd"
	"github.com/temoto/printpanel/hardware/uart"
	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/panel"
	"github.com/temoto/printpanel/internal/printer"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/types"
	"github.com/temoto/printpanel/log2"
)

var Mod = subcmd.Mod{Name: "run", Usage: "drive display and printer (default)", Main: Main}

func deviceLog(g *state.Global, debug bool) *log2.Log {
	if debug {
		return g.Log.Clone(log2.LDebug)
	}
	return g.Log.Clone(log2.LInfo)
}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)

	displayPort, err := uart.Open(config.Display.Device, config.Display.Baud)
	if err != nil {
		return errors.Annotate(err, "display")
	}
	defer displayPort.Close()
	device := dgus.NewDevice(deviceLog(g, config.Display.LogDebug), displayPort)
	if err = device.SetCodepage(config.Display.Codepage); err != nil {
		return errors.Annotate(err, "display")
	}
	g.Display = device

	printerPort, err := uart.Open(config.Printer.Device, config.Printer.Baud)
	if err != nil {
		return errors.Annotate(err, "printer")
	}
	defer printerPort.Close()
	// firmware may report before panel is ready
	printerEvents := make(chan types.Event, 32)
	gcode := printer.NewGcode(deviceLog(g, config.Printer.LogDebug), printerPort, printer.GcodeConfig{
		HasProbe:        config.Printer.HasProbe,
		LineTimeoutSec:  config.Printer.LineTimeoutSec,
		PollIntervalSec: config.Printer.PollIntervalSec,
		OnEvent: func(e types.Event) {
			select {
			case printerEvents <- e:
			default:
				g.Log.Errorf("printer event dropped %s", e.String())
			}
		},
	})
	defer gcode.Close()
	g.Printer = gcode

	if err = g.Init(ctx, config); err != nil {
		return errors.Annotate(err, "state init")
	}
	defer g.Tele.Close()
	g.Log.SetErrorFunc(g.Tele.Error)

	p := panel.New()
	if err = p.Init(ctx); err != nil {
		return errors.Annotate(err, "panel init")
	}
	go p.ForwardPrinterEvents(printerEvents)
	go p.ReadInput(dgus.NewReader(displayPort))

	subcmd.SdNotify(g.Log, daemon.SdNotifyReady)
	g.Log.Debugf("panel init complete")
	p.Loop(ctx)
	return nil
}
