package timer

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced manually; sleeping advances it as well.
type fakeClock struct {
	t     time.Time
	slept []time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d)
}

func newFakeTimer() (*Timer, *fakeClock) {
	c := &fakeClock{t: time.Unix(1700000000, 0)}
	t := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.now = c.now
	t.sleep = c.sleep
	t.frame = startTracker(c.now())
	return t, c
}

func TestSetTargetFPS(t *testing.T) {
	tm, _ := newFakeTimer()
	tm.SetTargetFPS(60)
	assert.Equal(t, 16*time.Millisecond, tm.TargetFrameTime())
	tm.SetTargetFPS(144)
	assert.Equal(t, 6*time.Millisecond, tm.TargetFrameTime())
	tm.SetTargetFPS(0)
	assert.Zero(t, tm.TargetFrameTime())
}

func TestDeltaTime(t *testing.T) {
	tm, c := newFakeTimer()
	assert.Zero(t, tm.DeltaTime())

	tm.StartFrameTracker()
	c.t = c.t.Add(7 * time.Millisecond)
	assert.Equal(t, 7*time.Millisecond, tm.CurrentFrameTime())
	tm.EndFrameTracker()
	c.t = c.t.Add(time.Second)
	assert.Equal(t, 7*time.Millisecond, tm.DeltaTime())

	// FrameBegin closes the running frame and opens the next one.
	require.NoError(t, tm.FrameBegin())
	c.t = c.t.Add(3 * time.Millisecond)
	require.NoError(t, tm.FrameBegin())
	assert.Equal(t, 3*time.Millisecond, tm.DeltaTime())
}

func TestPadFrameTimeFake(t *testing.T) {
	tm, c := newFakeTimer()
	tm.SetTargetFPS(60)
	tm.StartFrameTracker()
	c.t = c.t.Add(5 * time.Millisecond)

	assert.Equal(t, 11*time.Millisecond, tm.PadFrameTime())
	assert.Equal(t, []time.Duration{11 * time.Millisecond}, c.slept)

	// Already over budget.
	tm.StartFrameTracker()
	c.t = c.t.Add(20 * time.Millisecond)
	assert.Zero(t, tm.PadFrameTime())

	tm.SetTargetFPS(0)
	tm.StartFrameTracker()
	assert.Zero(t, tm.PadFrameTime())
	assert.Len(t, c.slept, 1)
}

func TestPadFrameTimeWallClock(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps")
	}
	tm := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	tm.SetTargetFPS(60)
	tm.StartFrameTracker()
	time.Sleep(5 * time.Millisecond)

	start := time.Now()
	tm.PadFrameTime()
	blocked := time.Since(start)

	// 1000/60 - 5 = 11.67ms, minus the floor to whole milliseconds.
	assert.InDelta(t, float64(11*time.Millisecond), float64(blocked), float64(8*time.Millisecond))
}

func TestFixedSteps(t *testing.T) {
	tm, c := newFakeTimer()
	n, _ := tm.FixedSteps()
	assert.Zero(t, n)

	tm.SetFixedStep(10 * time.Millisecond)
	tm.StartFrameTracker()
	c.t = c.t.Add(25 * time.Millisecond)
	tm.EndFrameTracker()
	n, step := tm.FixedSteps()
	assert.Equal(t, 2, n)
	assert.Equal(t, 10*time.Millisecond, step)

	tm.StartFrameTracker()
	c.t = c.t.Add(5 * time.Millisecond)
	tm.EndFrameTracker()
	n, _ = tm.FixedSteps()
	assert.Equal(t, 1, n, "5ms carried over from the previous frame")
}
