package screens

import (
	"context"

	"github.com/temoto/printpanel/internal/dgus"
	"github.com/temoto/printpanel/internal/state"
)

// Status is the one-line message area shared by all pages.
type Status struct{}

func (self *Status) Set(ctx context.Context, msg string) {
	g := state.GetGlobal(ctx)
	if err := g.Display.WriteText(dgus.VarMessage, msg); err != nil {
		g.Error(err, "status set")
	}
}

func (self *Status) Reset(ctx context.Context) { self.Set(ctx, "") }
