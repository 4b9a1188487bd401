package xtwist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/temoto/printpanel/internal/eeprom"
	"github.com/temoto/printpanel/log2"
)

func TestRecord(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	s := New(log)
	s.SetOffsets([NbPoints]float32{0.1, 0.2, 0.3})
	image := make(eeprom.Image, s.SizeOf())
	s.Write(eeprom.NewWriter(image, &eeprom.Cursor{}))

	s2 := New(log)
	assert.True(t, s2.Validate(eeprom.NewReader(image, &eeprom.Cursor{})))
	s2.Read(eeprom.NewReader(image, &eeprom.Cursor{}))
	assert.Equal(t, s.Offsets(), s2.Offsets())

	s2.Reset()
	assert.Equal(t, [NbPoints]float32{}, s2.Offsets())
}
