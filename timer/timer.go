/*
Package timer measures frame durations and paces the frame rate.
*/
package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/v39engine/v39/event"
)

// tracker is a stopwatch bounding one frame.
type tracker struct {
	begin   time.Time
	end     time.Time
	stopped bool
}

func startTracker(now time.Time) tracker { return tracker{begin: now} }

// stop stops the tracker if it is running and returns the tracked duration.
func (t *tracker) stop(now time.Time) time.Duration {
	if !t.stopped {
		t.end = now
		t.stopped = true
	}
	return t.end.Sub(t.begin)
}

func (t *tracker) peek(now time.Time) time.Duration { return now.Sub(t.begin) }

// Timer tracks the duration of frames and optionally caps the frame rate.
//
// As an event.Receiver, Timer closes the previous frame and starts a new one
// on every FrameBegin.
type Timer struct {
	event.Nop
	mu        sync.Mutex
	frame     tracker
	delta     time.Duration
	target    time.Duration
	fixedStep time.Duration
	fixedAcc  time.Duration
	now       func() time.Time
	sleep     func(time.Duration)
	log       *slog.Logger
}

// New creates a Timer whose first frame starts now. If log is nil,
// slog.Default() is used.
func New(log *slog.Logger) *Timer {
	if log == nil {
		log = slog.Default()
	}
	t := &Timer{now: time.Now, sleep: time.Sleep, log: log.With("component", "timer")}
	t.frame = startTracker(t.now())
	t.log.Info("timer initialized")
	return t
}

// StartFrameTracker starts tracking a new frame.
func (t *Timer) StartFrameTracker() {
	t.mu.Lock()
	t.frame = startTracker(t.now())
	t.mu.Unlock()
}

// EndFrameTracker stops tracking the current frame and records its duration
// as the delta time.
func (t *Timer) EndFrameTracker() {
	t.mu.Lock()
	t.delta = t.frame.stop(t.now())
	if t.fixedStep > 0 {
		t.fixedAcc += t.delta
	}
	t.mu.Unlock()
}

// DeltaTime returns the duration of the last completed frame. It is zero
// until a frame has been completed.
func (t *Timer) DeltaTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delta
}

// CurrentFrameTime returns the time elapsed since the current frame started.
func (t *Timer) CurrentFrameTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frame.peek(t.now())
}

// SetTargetFPS sets the frame rate cap. A target frame lasts floor(1000/fps)
// milliseconds. fps <= 0 disables the cap.
func (t *Timer) SetTargetFPS(fps int) {
	var target time.Duration
	if fps > 0 {
		target = time.Duration(1000/fps) * time.Millisecond
	}
	t.mu.Lock()
	t.target = target
	t.mu.Unlock()
	t.log.Debug("target frame time set", "fps", fps, "frameTime", target)
}

// TargetFrameTime returns the target frame duration, or zero if uncapped.
func (t *Timer) TargetFrameTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// PadFrameTime blocks the calling goroutine until the current frame has
// lasted the target frame time. It returns immediately if no target is set or
// the frame already took longer.
func (t *Timer) PadFrameTime() time.Duration {
	t.mu.Lock()
	target := t.target
	elapsed := t.frame.peek(t.now())
	t.mu.Unlock()
	if target == 0 || elapsed >= target {
		return 0
	}
	rest := target - elapsed
	t.sleep(rest)
	return rest
}

// SetFixedStep sets the step of the fixed-rate tick. Zero disables it.
func (t *Timer) SetFixedStep(step time.Duration) {
	t.mu.Lock()
	t.fixedStep = step
	t.fixedAcc = 0
	t.mu.Unlock()
}

// FixedSteps consumes the time accumulated over completed frames in units of
// the fixed step and returns how many steps are due.
func (t *Timer) FixedSteps() (n int, step time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fixedStep <= 0 {
		return 0, 0
	}
	n = int(t.fixedAcc / t.fixedStep)
	t.fixedAcc -= time.Duration(n) * t.fixedStep
	return n, t.fixedStep
}

// FrameBegin implements event.Receiver.
func (t *Timer) FrameBegin() error {
	t.EndFrameTracker()
	t.StartFrameTracker()
	return nil
}
