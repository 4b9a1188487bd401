// Package i18n holds panel messages shown on the display.
// English is the source language, other languages come from embedded TOML catalogs.
package i18n

import (
	_ "embed"

	"github.com/BurntSushi/toml"
	"github.com/juju/errors"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/temoto/printpanel/log2"
	"golang.org/x/text/language"
)

//go:embed active.fr.toml
var activeFR []byte

type MessageID string

const (
	Homing           MessageID = "Homing"
	AccessingSdCard  MessageID = "AccessingSdCard"
	NoSdCard         MessageID = "NoSdCard"
	NotWhilePrinting MessageID = "NotWhilePrinting"
	SettingsSaved    MessageID = "SettingsSaved"
	SettingsMismatch MessageID = "SettingsMismatch"
	PauseParking     MessageID = "PauseParking"
	PauseChanging    MessageID = "PauseChanging"
	PauseWaiting     MessageID = "PauseWaiting"
	PauseUnload      MessageID = "PauseUnload"
	PauseInsert      MessageID = "PauseInsert"
	PauseLoad        MessageID = "PauseLoad"
	PausePurge       MessageID = "PausePurge"
	PauseResume      MessageID = "PauseResume"
	PauseHeat        MessageID = "PauseHeat"
	PauseHeating     MessageID = "PauseHeating"
)

var english = map[MessageID]string{
	Homing:           "Homing...",
	AccessingSdCard:  "Accessing the SD card...",
	NoSdCard:         "No SD card detected.",
	NotWhilePrinting: "Not available while printing",
	SettingsSaved:    "Settings saved",
	SettingsMismatch: "Invalid settings, defaults loaded",
	PauseParking:     "Parking...",
	PauseChanging:    "Wait for start of the filament change",
	PauseWaiting:     "Press button to resume print",
	PauseUnload:      "Wait for filament unload",
	PauseInsert:      "Insert filament and press button to continue",
	PauseLoad:        "Wait for filament load",
	PausePurge:       "Wait for filament purge",
	PauseResume:      "Wait for print to resume...",
	PauseHeat:        "Press button to heat nozzle",
	PauseHeating:     "Nozzle heating Please wait...",
}

type Catalog struct {
	log       *log2.Log
	lang      language.Tag
	localizer *goi18n.Localizer
}

// New parses embedded catalogs and selects lang (BCP 47, empty means English).
func New(log *log2.Log, lang string) (*Catalog, error) {
	tag := language.English
	if lang != "" {
		var err error
		if tag, err = language.Parse(lang); err != nil {
			return nil, errors.Annotatef(err, "i18n language=%s", lang)
		}
	}
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	if _, err := bundle.ParseMessageFileBytes(activeFR, "active.fr.toml"); err != nil {
		return nil, errors.Annotate(err, "i18n parse active.fr.toml")
	}
	self := &Catalog{
		log:       log,
		lang:      tag,
		localizer: goi18n.NewLocalizer(bundle, tag.String()),
	}
	return self, nil
}

func (self *Catalog) Language() language.Tag { return self.lang }

// T returns text for id. Missing translations fall back to English.
func (self *Catalog) T(id MessageID) string {
	if self == nil {
		return english[id]
	}
	def, ok := english[id]
	if !ok {
		self.log.Errorf("i18n unknown message id=%s", id)
		return string(id)
	}
	s, err := self.localizer.Localize(&goi18n.LocalizeConfig{
		DefaultMessage: &goi18n.Message{ID: string(id), Other: def},
	})
	if err != nil {
		// MessageNotFoundErr still carries default text
		if s != "" {
			return s
		}
		self.log.Errorf("i18n localize id=%s err=%v", id, err)
		return def
	}
	return s
}
