package settings

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/printpanel/internal/eeprom"
	"github.com/temoto/printpanel/internal/pid"
	"github.com/temoto/printpanel/internal/types"
	"github.com/temoto/printpanel/internal/xtwist"
	"github.com/temoto/printpanel/log2"
)

func persist(t testing.TB, s *Store) (eeprom.Image, eeprom.Cursor) {
	image := make(eeprom.Image, s.SizeOf())
	c := eeprom.Cursor{}
	w := eeprom.NewWriter(image, &c)
	s.Persist(w)
	require.False(t, w.Overflow())
	return image, c
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	s := New(log)
	s.ToggleFeatures(FeatureDimming | FeatureBuzzOnPress)
	s.PID().Store(types.TemperatureHotend, pid.Profile{Temperature: 215, Kp: 20.5, Ki: 1.25, Kd: 80})
	s.XTwist().SetOffsets([xtwist.NbPoints]float32{0.05, -0.1, 0.15})
	image, wc := persist(t, s)
	assert.Equal(t, int(s.SizeOf()), wc.Index)

	s2 := New(log)
	vc := eeprom.Cursor{}
	require.True(t, s2.Load(eeprom.NewReader(image, &vc), true))
	assert.Equal(t, wc, vc)
	assert.Equal(t, DefaultFeatures, s2.Features(), "validating pass must not modify")

	rc := eeprom.Cursor{}
	require.True(t, s2.Load(eeprom.NewReader(image, &rc), false))
	assert.Equal(t, wc, rc)
	assert.Equal(t, s.Features(), s2.Features())
	assert.Equal(t, s.PID().Profiles(types.TemperatureHotend), s2.PID().Profiles(types.TemperatureHotend))
	assert.Equal(t, s.PID().Profiles(types.TemperatureBed), s2.PID().Profiles(types.TemperatureBed))
	assert.Equal(t, s.XTwist().Offsets(), s2.XTwist().Offsets())

	image2, _ := persist(t, s2)
	assert.Equal(t, image, image2)
}

func TestVersionGate(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	s := New(log)
	size := int(s.SizeOf())
	// two images back to back, the first one with a stale schema version
	image := make(eeprom.Image, 2*size)
	s.Persist(eeprom.NewWriter(image, &eeprom.Cursor{}))
	s.ToggleFeatures(FeatureRunoutSensor)
	s.Persist(eeprom.NewWriter(image, &eeprom.Cursor{Index: size}))
	binary.LittleEndian.PutUint16(image[0:], SchemaVersion+1)

	c := eeprom.Cursor{}
	r := eeprom.NewReader(image, &c)
	assert.False(t, s.Load(r, true))
	assert.Equal(t, size, c.Index)

	s2 := New(log)
	assert.True(t, s2.Load(r, true))
	assert.Equal(t, 2*size, c.Index)
	c2 := eeprom.Cursor{Index: size}
	s2.Load(eeprom.NewReader(image, &c2), false)
	assert.False(t, s2.IsFeatureEnabled(FeatureRunoutSensor))
}

func TestSubRecordMismatch(t *testing.T) {
	t.Parallel()

	s := New(log2.NewTest(t, log2.LDebug))
	image, _ := persist(t, s)
	// xtwist version sits right after schema version and pid record
	at := 2 + int(s.PID().SizeOf())
	image[at] ^= 0x55
	c := eeprom.Cursor{}
	assert.False(t, s.Load(eeprom.NewReader(image, &c), true))
	assert.Equal(t, int(s.SizeOf()), c.Index)
}

func TestReset(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	s := New(log)
	s.ToggleFeatures(FeatureHeadParking)
	s.XTwist().SetOffsets([xtwist.NbPoints]float32{1, 2, 3})
	s.Reset()
	once, _ := persist(t, s)
	s.Reset()
	twice, _ := persist(t, s)
	assert.Equal(t, once, twice)
	fresh, _ := persist(t, New(log))
	assert.Equal(t, fresh, once)
}

func TestToggleFeatures(t *testing.T) {
	t.Parallel()

	s := New(log2.NewTest(t, log2.LDebug))
	mask := FeatureDimming | FeatureBuzzOnPress
	original := s.Features() & mask
	assert.Equal(t, FeatureDimming, original)
	assert.Equal(t, FeatureBuzzOnPress, s.ToggleFeatures(mask))
	assert.False(t, s.IsFeatureEnabled(mask))
	assert.Equal(t, original, s.ToggleFeatures(mask))
	assert.True(t, s.IsFeatureEnabled(FeatureDimming))
	assert.False(t, s.IsFeatureEnabled(mask))
	assert.Equal(t, "dimming|buzz_on_press", mask.String())
}

func TestRecordTargetTemperature(t *testing.T) {
	t.Parallel()

	s := New(log2.NewTest(t, log2.LDebug))
	s.RecordTargetTemperature(types.TemperatureHotend, 0)
	assert.Equal(t, uint16(0), s.LastUsedTemperature(types.TemperatureHotend))
	s.RecordTargetTemperature(types.TemperatureHotend, 200)
	assert.Equal(t, uint16(200), s.LastUsedTemperature(types.TemperatureHotend))
	s.RecordTargetTemperature(types.TemperatureHotend, 0)
	assert.Equal(t, uint16(200), s.LastUsedTemperature(types.TemperatureHotend))
	assert.Equal(t, uint16(0), s.LastUsedTemperature(types.TemperatureBed))
}

func TestPersistClearsMismatch(t *testing.T) {
	t.Parallel()

	s := New(log2.NewTest(t, log2.LDebug))
	s.Mismatch().Set()
	require.True(t, s.Mismatch().DoesMismatch())
	persist(t, s)
	assert.False(t, s.Mismatch().DoesMismatch())
	assert.Equal(t, uint16(160), s.SizeOf())
}
