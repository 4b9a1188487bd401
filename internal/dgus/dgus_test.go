package dgus

import (
	"bytes"
	"io"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/printpanel/internal/types"
	"github.com/temoto/printpanel/log2"
)

func TestDeviceFrames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		fun    func(d *Device) error
		expect []byte
	}{
		{"page", func(d *Device) error { return d.ShowPage(12) },
			[]byte{0x5a, 0xa5, 0x04, 0x80, 0x03, 0x00, 0x0c}},
		{"brightness", func(d *Device) error { return d.SetBrightness(0x40) },
			[]byte{0x5a, 0xa5, 0x03, 0x80, 0x01, 0x40}},
		{"words", func(d *Device) error { return d.WriteWords(VarFeatures, 0x003d, 0x0040) },
			[]byte{0x5a, 0xa5, 0x07, 0x82, 0x03, 0x00, 0x00, 0x3d, 0x00, 0x40}},
		{"text", func(d *Device) error { return d.WriteText(VarMessage, "ok") },
			[]byte{0x5a, 0xa5, 0x07, 0x82, 0x20, 0x00, 'o', 'k', 0xff, 0xff}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			d := NewDevice(log2.NewTest(t, log2.LDebug), buf)
			require.NoError(t, c.fun(d))
			assert.Equal(t, c.expect, buf.Bytes())
		})
	}
}

func TestFrameTooLong(t *testing.T) {
	t.Parallel()

	d := NewDevice(log2.NewTest(t, log2.LDebug), io.Discard)
	err := d.WriteText(VarMessage, string(make([]byte, 300)))
	require.Error(t, err)
	assert.True(t, errors.IsNotValid(err))
}

func TestCodepage(t *testing.T) {
	t.Parallel()

	d := NewDevice(log2.NewTest(t, log2.LDebug), io.Discard)
	require.NoError(t, d.SetCodepage("windows-1251"))
	assert.Equal(t, []byte{'o', 'k', 0xc4, 0xe0}, d.Translate("okДа"))
	require.Error(t, d.SetCodepage("no-such-codepage"))
}

func TestReader(t *testing.T) {
	t.Parallel()

	stream := bytes.NewBuffer(nil)
	// noise, ack to skip, then two keys
	stream.Write([]byte{0x00, 0x5a})
	stream.Write([]byte{0x5a, 0xa5, 0x03, 0x82, 0x4f, 0x4b})
	stream.Write(EncodeKey(types.InputEvent{Action: 0x0400, Key: 0x000c}))
	stream.Write([]byte{0x5a, 0xa5, 0x06, 0x83, 0x04, 0x01, 0x01, 0x00, 0x98})
	r := NewReader(stream)

	e, err := r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, types.InputEvent{Action: 0x0400, Key: 0x000c}, e)
	e, err = r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, types.InputEvent{Action: 0x0401, Key: 0x0098}, e)
	_, err = r.ReadEvent()
	assert.Equal(t, io.EOF, err)
}

func TestMock(t *testing.T) {
	t.Parallel()

	m := NewMock()
	var d Displayer = m
	require.NoError(t, d.ShowPage(3))
	require.NoError(t, d.WriteWords(VarPreheat, 200, 60))
	require.NoError(t, d.WriteText(VarWaitMessage, "Homing..."))
	require.NoError(t, d.SetBrightness(10))
	assert.Equal(t, []uint8{3}, m.Pages())
	assert.Equal(t, []uint16{200, 60}, m.Words(VarPreheat))
	assert.Equal(t, "Homing...", m.Text(VarWaitMessage))
	assert.Equal(t, uint8(10), m.Brightness())
}
