package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/temoto/printpanel/log2"
)

func newTest(t testing.TB) (*Pages, *[]Page) {
	shown := make([]Page, 0, 8)
	p := New(log2.NewTest(t, log2.LDebug), PageMain, func(x Page) { shown = append(shown, x) })
	return p, &shown
}

func TestShow(t *testing.T) {
	t.Parallel()

	p, shown := newTest(t)
	assert.Equal(t, PageMain, p.Current())
	p.SaveBack(PageSettings)
	p.Show(PageControls)
	p.Show(PageNone)
	p.Show(Page(200))
	assert.Equal(t, PageControls, p.Current())
	assert.Equal(t, PageSettings, p.Back(), "show must not touch slots")
	assert.Equal(t, []Page{PageControls}, *shown)
}

func TestSlotsIndependent(t *testing.T) {
	t.Parallel()

	p, shown := newTest(t)
	p.SaveBack(PageControls)
	p.SaveForward(PageTuning)
	p.SaveForward(PageLeveling)
	p.Show(PageWait)
	p.ShowBackPage()
	assert.Equal(t, PageControls, p.Current())
	assert.Equal(t, PageNone, p.Back())
	assert.Equal(t, PageLeveling, p.Forward())

	p.ShowForwardPage()
	assert.Equal(t, PageLeveling, p.Current())
	assert.Equal(t, PageNone, p.Forward())
	assert.Equal(t, []Page{PageWait, PageControls, PageLeveling}, *shown)
}

func TestEmptySlots(t *testing.T) {
	t.Parallel()

	p, shown := newTest(t)
	p.Show(PageInfos)
	p.ShowBackPage()
	p.ShowForwardPage()
	assert.Equal(t, PageInfos, p.Current())
	assert.Len(t, *shown, 1)
}

func TestReset(t *testing.T) {
	t.Parallel()

	p, _ := newTest(t)
	p.Show(PageInfos)
	p.SaveBack(PageSettings)
	p.SaveForward(PageTuning)
	p.Reset()
	assert.Equal(t, PageMain, p.Current())
	assert.Equal(t, PageNone, p.Back())
	assert.Equal(t, PageNone, p.Forward())
}

func TestPageString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ZHeightTuning", PageZHeightTuning.String())
	assert.Equal(t, "Page(200)", Page(200).String())
	assert.False(t, PageNone.Valid())
	assert.True(t, PageNoSensor.Valid())
}
