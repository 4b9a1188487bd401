// Package nav tracks the displayed page with one forward and one back slot.
// Slots are scratch registers, not a stack: saving twice keeps the last one.
package nav

import (
	"fmt"

	"github.com/temoto/printpanel/log2"
)

// Page is a display page id.
type Page uint8

const (
	PageNone Page = iota
	PageBoot
	PageMain
	PageControls
	PageTemperature
	PageSdCard
	PagePrint
	PagePrintSettings
	PageTuning
	PageSettings
	PageInfos
	PageMotorsSettings
	PageLeveling
	PageZHeightTuning
	PageWait
	PageWaitContinue
	PagePauseOptions
	PageFeatures
	PagePreheat
	PageEepromMismatch
	PageSetup
	PageNoSensor
	pageCount
)

var pageNames = [pageCount]string{
	"None", "Boot", "Main", "Controls", "Temperature", "SdCard", "Print", "PrintSettings",
	"Tuning", "Settings", "Infos", "MotorsSettings", "Leveling", "ZHeightTuning", "Wait",
	"WaitContinue", "PauseOptions", "Features", "Preheat", "EepromMismatch", "Setup", "NoSensor",
}

func (p Page) String() string {
	if p < pageCount {
		return pageNames[p]
	}
	return fmt.Sprintf("Page(%d)", uint8(p))
}

func (p Page) Valid() bool { return p != PageNone && p < pageCount }

type ShowFunc func(Page)

type Pages struct {
	log     *log2.Log
	home    Page
	show    ShowFunc
	current Page
	forward Page
	back    Page
}

// New starts on home without touching the display.
func New(log *log2.Log, home Page, show ShowFunc) *Pages {
	return &Pages{log: log, home: home, show: show, current: home}
}

func (self *Pages) Current() Page { return self.current }
func (self *Pages) Forward() Page { return self.forward }
func (self *Pages) Back() Page    { return self.back }

// Show switches current page regardless of forward/back slots.
func (self *Pages) Show(p Page) {
	if !p.Valid() {
		self.log.Errorf("nav show page=%s ignored", p.String())
		return
	}
	self.log.Debugf("nav show page=%s from=%s", p.String(), self.current.String())
	self.current = p
	if self.show != nil {
		self.show(p)
	}
}

// SaveForward remembers the page to continue to after an intermediate one.
func (self *Pages) SaveForward(p Page) { self.forward = p }

// SaveBack remembers the page to return to.
func (self *Pages) SaveBack(p Page) { self.back = p }

// ShowBackPage does nothing when back slot is empty.
func (self *Pages) ShowBackPage() {
	p := self.back
	if p == PageNone {
		self.log.Debugf("nav back page=None current=%s", self.current.String())
		return
	}
	self.back = PageNone
	self.Show(p)
}

// ShowForwardPage does nothing when forward slot is empty.
func (self *Pages) ShowForwardPage() {
	p := self.forward
	if p == PageNone {
		self.log.Debugf("nav forward page=None current=%s", self.current.String())
		return
	}
	self.forward = PageNone
	self.Show(p)
}

// Reset shows home and clears both slots.
func (self *Pages) Reset() {
	self.forward = PageNone
	self.back = PageNone
	self.Show(self.home)
}
