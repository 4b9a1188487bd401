package screens

import (
	"context"

	"github.com/temoto/printpanel/internal/i18n"
	"github.com/temoto/printpanel/internal/state"
)

// Mismatch is shown at boot when stored settings could not be loaded.
type Mismatch struct {
	Base
	s *Screens
}

// OnSave overwrites storage with current (default) settings.
func (self *Mismatch) OnSave(ctx context.Context) {
	g := state.GetGlobal(ctx)
	if err := g.Storage.Save(); err != nil {
		g.Error(err, "mismatch save")
		return
	}
	self.s.Status.Set(ctx, g.T(i18n.SettingsSaved))
	g.Report()
	self.s.Show(ctx, self.s.Controls)
}

type SettingsScreen struct {
	Base
	s *Screens
}

func (self *SettingsScreen) Keys() KeyTable {
	return KeyTable{
		KeyFactoryReset: self.s.FactoryReset,
	}
}
