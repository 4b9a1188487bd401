// Package state wires panel components together and carries them in context.
package state

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/printpanel/helpers"
	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/dimming"
	"github.com/temoto/printpanel/internal/i18n"
	"github.com/temoto/printpanel/internal/nav"
	"github.com/temoto/printpanel/internal/printer"
	"github.com/temoto/printpanel/internal/settings"
	"github.com/temoto/printpanel/internal/storage"
	"github.com/temoto/printpanel/internal/task"
	"github.com/temoto/printpanel/internal/tele"
	"github.com/temoto/printpanel/log2"
)

// Global is touched from the panel tick only, except Alive, Log and Tele.
type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Config       *Config
	Log          *log2.Log

	// set by caller before Init
	Display dgus.Displayer
	Printer printer.Printer
	Tele    tele.Teler

	Settings *settings.Store
	Storage  *storage.Storage
	Pages    *nav.Pages
	Tasks    *task.Scheduler
	Messages *i18n.Catalog
	Dimmer   *dimming.Dimmer
}

const ContextKey = "run/state-global"

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

func NewContext(log *log2.Log, teler tele.Teler) (context.Context, *Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}

	g := &Global{
		Alive: alive.NewAlive(),
		Log:   log,
		Tele:  teler,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, ContextKey, g)

	return ctx, g
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg
	if g.Display == nil || g.Printer == nil {
		return errors.NotValidf("code error state.Init display=%v printer=%v", g.Display, g.Printer)
	}

	// tele is remote error reporting, init before anything else
	if g.Tele == nil {
		g.Tele = &tele.Noop{}
	}
	g.Config.Tele.BuildVersion = g.BuildVersion
	if g.Config.Tele.PersistPath == "" && g.Config.Persist.Root != "" {
		g.Config.Tele.PersistPath = filepath.Join(g.Config.Persist.Root, "tele")
	}
	if err := g.Tele.Init(ctx, g.Log.Clone(log2.LInfo), g.Config.Tele); err != nil {
		return errors.Annotate(err, "tele init")
	}

	var errs helpers.ErrorList
	var err error
	g.Messages, err = i18n.New(g.Log, g.Config.Panel.Language)
	errs.Add(err)

	g.Settings = settings.New(g.Log)
	g.Settings.PID().SetApplier(g.Printer)
	if g.Config.Persist.Root == "" {
		g.Log.Infof("config: persist.root=empty, settings will not survive restart")
		g.Storage = storage.New(g.Log, g.Settings, nil)
	} else {
		g.Log.Debugf("config: persist.root=%s", g.Config.Persist.Root)
		g.Storage, err = storage.NewFile(g.Log, g.Settings, g.Config.Persist.Root)
		errs.Addf(err, "persist.root=%s", g.Config.Persist.Root)
	}

	g.Tasks = task.New(g.Log)
	g.Pages = nav.New(g.Log, nav.PageMain, g.showPage)
	g.Dimmer = dimming.New(g.Log, g.Display, dimming.Config{
		TimeoutSec: g.Config.Display.DimSec,
		Normal:     uint8(g.Config.Display.Brightness),
		Dimmed:     uint8(g.Config.Display.DimBrightness),
	}, func() bool { return g.Settings.IsFeatureEnabled(settings.FeatureDimming) })

	return errs.Fold()
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Error(errors.ErrorStack(err))
	}
}

// T is shortcut for localized message text.
func (g *Global) T(id i18n.MessageID) string { return g.Messages.T(id) }

// Report sends settings snapshot to telemetry.
func (g *Global) Report() {
	err := g.Tele.Report(&tele.Telemetry_Settings{
		Features: uint32(g.Settings.Features()),
		Mismatch: g.Settings.Mismatch().DoesMismatch(),
		ZOffset:  g.Printer.ZOffset(),
	})
	if err != nil {
		g.Error(err)
	}
}

func (g *Global) showPage(p nav.Page) {
	if err := g.Display.ShowPage(uint8(p)); err != nil {
		g.Error(err, "show page=%s", p.String())
	}
	g.Tele.Page(uint8(p), p.String())
}
