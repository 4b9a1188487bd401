package screens

import (
	"context"

	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/nav"
	"github.com/temoto/printpanel/internal/state"
)

// Wait is a transient page with a message, shown while printer is busy.
type Wait struct {
	Base
	s *Screens
}

func (self *Wait) Keys() KeyTable {
	return KeyTable{KeyContinue: self.onContinue}
}

// Show displays message on the plain wait page.
func (self *Wait) Show(ctx context.Context, msg string) { self.show(ctx, msg, nav.PageWait) }

// ShowContinue displays message with a button confirming to the firmware.
func (self *Wait) ShowContinue(ctx context.Context, msg string) {
	self.show(ctx, msg, nav.PageWaitContinue)
}

func (self *Wait) show(ctx context.Context, msg string, page nav.Page) {
	g := state.GetGlobal(ctx)
	if err := g.Display.WriteText(dgus.VarWaitMessage, msg); err != nil {
		g.Error(err, "wait message")
	}
	if current := g.Pages.Current(); !isTransient(current) {
		g.Pages.SaveBack(current)
	}
	g.Pages.Show(page)
}

func (self *Wait) onContinue(ctx context.Context) {
	g := state.GetGlobal(ctx)
	g.Printer.SetUserConfirmed()
	g.Pages.ShowBackPage()
}
