// Interactive panel with mock display and printer, for developing screens.
package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/printpanel/helpers/cli"
	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/panel"
	"github.com/temoto/printpanel/internal/printer"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/tele"
	"github.com/temoto/printpanel/internal/types"
	"github.com/temoto/printpanel/log2"
)

const usage = `syntax: commands separated by whitespace
- AAAA/KKKK  press key KKKK on action AAAA (hex)
- tN         run N ticks
- home       finish homing
- media=yes  insert media
- media=no   remove media
- hotend=N   firmware reports hotend target
- bed=N      firmware reports bed target
- pause=N    firmware pause message N
- page       show current page and slots
- log=yes    enable debug logging
- log=no     disable debug logging
`

var log = log2.NewStderr(log2.LDebug)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := cmdline.String("config", "", "optional config file")
	_ = cmdline.Parse(os.Args[1:])

	log.SetFlags(log2.LInteractiveFlags)

	config := &state.Config{}
	if *configPath != "" {
		config = state.MustReadConfig(log, state.NewOsFullReader(), *configPath)
	}
	config.Persist.Root = ""
	config.Tele.Enabled = false

	ctx, g := state.NewContext(log, &tele.Noop{})
	g.BuildVersion = "panel-cli"
	g.Display = dgus.NewMock()
	g.Printer = printer.NewMock()
	g.MustInit(ctx, config)

	p := panel.New()
	if err := p.Init(ctx); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	p.Boot(ctx)

	err := cli.MainLoop(cli.Config{
		Title:    "panel-cli",
		Prefix:   "panel> ",
		History:  []string{"page", "0400/0000"},
		Exec:     newExecutor(ctx, p),
		Complete: newCompleter(),
	})
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}

func newCompleter() func(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "0400/0000", Description: "show controls"},
		{Text: "tN", Description: "run N ticks"},
		{Text: "home", Description: "finish homing"},
		{Text: "media=yes", Description: "insert media"},
		{Text: "hotend=N", Description: "hotend target reported"},
		{Text: "pause=N", Description: "pause message"},
		{Text: "page", Description: "show navigation state"},
	}

	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterFuzzy(suggests, d.GetWordBeforeCursor(), true)
	}
}

func newExecutor(ctx context.Context, p *panel.Panel) func(string) {
	g := state.GetGlobal(ctx)
	return func(line string) {
		for _, word := range strings.Fields(line) {
			if err := execWord(ctx, p, word); err != nil {
				g.Log.Error(errors.ErrorStack(err))
				return
			}
		}
	}
}

func execWord(ctx context.Context, p *panel.Panel, word string) error {
	g := state.GetGlobal(ctx)
	mock := g.Printer.(*printer.Mock)
	switch {
	case word == "help":
		g.Log.Info(usage)
	case word == "home":
		mock.FinishHoming()
	case word == "media=yes", word == "media=no":
		mock.Media = word == "media=yes"
	case word == "log=yes":
		g.Log.SetLevel(log2.LDebug)
	case word == "log=no":
		g.Log.SetLevel(log2.LError)
	case word == "page":
		g.Log.Infof("page=%s back=%s forward=%s task=%s",
			g.Pages.Current().String(), g.Pages.Back().String(), g.Pages.Forward().String(), g.Tasks.Name())
	case word[0] == 't':
		n, err := strconv.ParseUint(word[1:], 10, 32)
		if err != nil {
			return errors.Annotatef(err, "word=%s", word)
		}
		for i := uint64(0); i < n; i++ {
			p.Handle(ctx, types.Event{Kind: types.EventTime})
		}
	case strings.Contains(word, "="):
		parts := strings.SplitN(word, "=", 2)
		n, err := strconv.ParseUint(parts[1], 10, 16)
		if err != nil {
			return errors.Annotatef(err, "word=%s", word)
		}
		switch parts[0] {
		case "hotend":
			p.Handle(ctx, types.Event{Kind: types.EventTemperature, Temperature: types.TemperatureEvent{Kind: types.TemperatureHotend, Value: uint16(n)}})
		case "bed":
			p.Handle(ctx, types.Event{Kind: types.EventTemperature, Temperature: types.TemperatureEvent{Kind: types.TemperatureBed, Value: uint16(n)}})
		case "pause":
			p.Handle(ctx, types.Event{Kind: types.EventPause, Pause: types.PauseMessage(n)})
		default:
			return errors.NotValidf("word=%s", word)
		}
	case strings.Contains(word, "/"):
		e, err := parseKey(word)
		if err != nil {
			return err
		}
		p.Handle(ctx, types.Event{Kind: types.EventInput, Input: e})
	default:
		return errors.NotValidf("word=%s", word)
	}
	return nil
}

func parseKey(word string) (types.InputEvent, error) {
	parts := strings.SplitN(word, "/", 2)
	action, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return types.InputEvent{}, errors.Annotatef(err, "action word=%s", word)
	}
	key, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return types.InputEvent{}, errors.Annotatef(err, "key word=%s", word)
	}
	return types.InputEvent{Action: uint16(action), Key: uint16(key)}, nil
}
