package clock

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestProfilerAggregatesPerName(t *testing.T) {
	c := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfilerWithClock(c.now)

	for _, d := range []time.Duration{2 * time.Millisecond, 4 * time.Millisecond} {
		p.Start("collision")
		c.advance(d)
		p.End("collision")
	}
	p.Start("movement")
	c.advance(time.Millisecond)
	p.End("movement")
	p.End("never_started")

	snap := p.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "collision", snap[0].Name)
	assert.Equal(t, int64(2), snap[0].Count)
	assert.Equal(t, 6*time.Millisecond, snap[0].Total)
	assert.Equal(t, 4*time.Millisecond, snap[0].Max)
	assert.Equal(t, 3*time.Millisecond, snap[0].Mean())
	assert.Equal(t, "movement", snap[1].Name)

	p.Reset()
	assert.Empty(t, p.Snapshot())
	assert.Zero(t, Sample{}.Mean())
}

func TestWriteReportSortsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReport(&buf, []Sample{
		{Name: "movement", Count: 10, Total: 10 * time.Millisecond, Max: 2 * time.Millisecond},
		{Name: "collision", Count: 1000, Total: 1500 * time.Millisecond, Max: 9 * time.Millisecond},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "system"))
	assert.True(t, strings.HasPrefix(lines[1], "collision"))
	assert.Contains(t, lines[1], "1,500,000")
	assert.Contains(t, lines[1], "1,000")
	assert.True(t, strings.HasPrefix(lines[2], "movement"))
}

func TestTimeScaleClampAndFreeze(t *testing.T) {
	ts := NewTimeScale()
	d, frozen := ts.Effective(16*time.Millisecond, 16*time.Millisecond)
	assert.Equal(t, 16*time.Millisecond, d)
	assert.False(t, frozen)

	ts.SetScale(2)
	assert.Equal(t, 1.0, ts.Scale())
	ts.SetScale(-1)
	assert.Equal(t, 0.0, ts.Scale())
	d, _ = ts.Effective(16*time.Millisecond, 16*time.Millisecond)
	assert.Zero(t, d)

	ts.SetScale(0.5)
	ts.Freeze()
	d, frozen = ts.Effective(20*time.Millisecond, 40*time.Millisecond)
	assert.True(t, frozen)
	assert.Equal(t, 20*time.Millisecond, d)

	ts.Unfreeze()
	d, frozen = ts.Effective(20*time.Millisecond, 40*time.Millisecond)
	assert.False(t, frozen)
	assert.Equal(t, 20*time.Millisecond, d)
}

func TestSlowMotionRecoversLinearly(t *testing.T) {
	ts := NewTimeScale()
	ts.SlowMotion(0.5, 100*time.Millisecond)
	assert.Equal(t, 0.5, ts.Scale())

	d, _ := ts.Effective(50*time.Millisecond, 16*time.Millisecond)
	assert.Equal(t, 8*time.Millisecond, d)
	assert.InDelta(t, 0.75, ts.Scale(), 1e-9)

	d, _ = ts.Effective(50*time.Millisecond, 16*time.Millisecond)
	assert.Equal(t, 12*time.Millisecond, d)
	assert.Equal(t, 1.0, ts.Scale())

	ts.SlowMotion(0.1, 0)
	assert.Equal(t, 1.0, ts.Scale())
}

func TestNopTower(t *testing.T) {
	var tw Tower = Nop{}
	tw.Start("x")
	tw.End("x")
}
