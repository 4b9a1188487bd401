package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/printpanel/internal/nav"
	"github.com/temoto/printpanel/internal/panel"
	"github.com/temoto/printpanel/internal/printer"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/types"
)

func TestParseKey(t *testing.T) {
	t.Parallel()

	e, err := parseKey("0400/0098")
	require.NoError(t, err)
	assert.Equal(t, types.InputEvent{Action: 0x0400, Key: 0x0098}, e)
	_, err = parseKey("zz/01")
	assert.Error(t, err)
	_, err = parseKey("0400/")
	assert.Error(t, err)
}

func TestExecWord(t *testing.T) {
	t.Parallel()

	ctx, g := state.NewTestContext(t, "")
	p := panel.New()
	require.NoError(t, p.Init(ctx))
	p.Boot(ctx)

	for _, word := range []string{"0400/0000", "040a/0000", "t200", "home", "t1", "hotend=210"} {
		require.NoError(t, execWord(ctx, p, word), word)
	}
	assert.Equal(t, nav.PageZHeightTuning, g.Pages.Current())
	assert.Equal(t, uint16(210), g.Settings.LastUsedTemperature(types.TemperatureHotend))
	assert.True(t, g.Printer.(*printer.Mock).IsMachineHomed())

	assert.Error(t, execWord(ctx, p, "tx"))
	assert.Error(t, execWord(ctx, p, "fan=1"))
	assert.Error(t, execWord(ctx, p, "nonsense"))
}
