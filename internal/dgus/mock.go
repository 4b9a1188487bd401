package dgus

import (
	"sync"
)

// Mock records what screens sent to the display.
type Mock struct {
	mu         sync.Mutex
	pages      []uint8
	words      map[Variable][]uint16
	texts      map[Variable]string
	brightness uint8
}

var _ Displayer = &Mock{}

func NewMock() *Mock {
	return &Mock{
		words: make(map[Variable][]uint16),
		texts: make(map[Variable]string),
	}
}

func (self *Mock) ShowPage(page uint8) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.pages = append(self.pages, page)
	return nil
}

func (self *Mock) WriteWords(v Variable, words ...uint16) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.words[v] = append([]uint16(nil), words...)
	return nil
}

func (self *Mock) WriteText(v Variable, s string) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.texts[v] = s
	return nil
}

func (self *Mock) SetBrightness(level uint8) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.brightness = level
	return nil
}

func (self *Mock) Pages() []uint8 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]uint8(nil), self.pages...)
}

func (self *Mock) Words(v Variable) []uint16 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.words[v]
}

func (self *Mock) Text(v Variable) string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.texts[v]
}

func (self *Mock) Brightness() uint8 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.brightness
}
