package screens

import (
	"context"

	"github.com/temoto/printpanel/internal/i18n"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/types"
)

// Pause has no page of its own, it drives Wait and PauseOptions.
type Pause struct {
	s *Screens
}

type pauseText struct {
	id   i18n.MessageID
	cont bool // needs user confirmation
}

var pauseTexts = map[types.PauseMessage]pauseText{
	types.PauseMessageParking:  {i18n.PauseParking, false},
	types.PauseMessageChanging: {i18n.PauseChanging, false},
	types.PauseMessageWaiting:  {i18n.PauseWaiting, true},
	types.PauseMessageUnload:   {i18n.PauseUnload, false},
	types.PauseMessageInsert:   {i18n.PauseInsert, true},
	types.PauseMessageLoad:     {i18n.PauseLoad, false},
	types.PauseMessagePurge:    {i18n.PausePurge, true},
	types.PauseMessageResume:   {i18n.PauseResume, false},
	types.PauseMessageHeat:     {i18n.PauseHeat, true},
	types.PauseMessageHeating:  {i18n.PauseHeating, false},
}

func (self *Pause) ShowMessage(ctx context.Context, m types.PauseMessage) {
	g := state.GetGlobal(ctx)
	switch m {
	case types.PauseMessageOption:
		self.s.Show(ctx, self.s.PauseOptions)
		return
	case types.PauseMessageStatus:
		self.s.Status.Reset(ctx)
		g.Pages.ShowBackPage()
		return
	}
	text, ok := pauseTexts[m]
	if !ok {
		g.Log.Errorf("pause unknown message=%s", m.String())
		return
	}
	if text.cont {
		self.s.Wait.ShowContinue(ctx, g.T(text.id))
	} else {
		self.s.Wait.Show(ctx, g.T(text.id))
	}
}

// PauseOptions is asked after filament change: purge more or resume.
type PauseOptions struct {
	Base
}

func (self *PauseOptions) Keys() KeyTable {
	return KeyTable{KeyResume: self.onResume}
}

func (self *PauseOptions) onResume(ctx context.Context) {
	g := state.GetGlobal(ctx)
	g.Printer.SetUserConfirmed()
	g.Pages.ShowBackPage()
}
