package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v39engine/v39/config"
	"github.com/v39engine/v39/event"
	"github.com/v39engine/v39/keys"
	"github.com/v39engine/v39/renderer"
	"github.com/v39engine/v39/renderer/gltest"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func props() config.Props {
	p := config.Default()
	p.TargetFPS = 0
	return p
}

// fakeWindow queues its script on Run and then waits for the loop to end.
type fakeWindow struct {
	script    []event.EngineEvent
	err       error
	destroyed bool
}

func (w *fakeWindow) Run(sink EventSink, done <-chan struct{}) error {
	if w.err != nil {
		return w.err
	}
	for _, e := range w.script {
		sink.QueueEngineEvent(e)
	}
	<-done
	return nil
}

func (w *fakeWindow) Destroy() { w.destroyed = true }

// recorder logs lifecycle callbacks and quits after a number of frames.
type recorder struct {
	event.Nop
	app       *App
	mu        sync.Mutex
	log       []string
	frames    int
	quitAfter int
	fixed     int
	onTick    func(frame int)
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.log = append(r.log, s)
	r.mu.Unlock()
}

func (r *recorder) Reset() error      { r.add("reset"); return nil }
func (r *recorder) FrameBegin() error { r.add("begin"); return nil }
func (r *recorder) FrameEnd() error   { r.add("end"); return nil }
func (r *recorder) WindowClose() error {
	r.add("close")
	return nil
}

func (r *recorder) Quit(reason uint32) error {
	r.add(fmt.Sprintf("quit(%d)", reason))
	return nil
}

func (r *recorder) FixedTick(float32) error {
	r.fixed++
	return nil
}

func (r *recorder) Tick(delta float32) error {
	r.frames++
	r.add("tick")
	if r.onTick != nil {
		r.onTick(r.frames)
	}
	if r.quitAfter > 0 && r.frames == r.quitAfter {
		r.app.QuitWith(7)
	}
	return nil
}

func (r *recorder) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

func run(t *testing.T, a *App) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.Run(ctx)
	require.NoError(t, ctx.Err(), "loop did not terminate")
	return err
}

func TestLoopOrder(t *testing.T) {
	w := &fakeWindow{}
	a := New(props(), w, nil, quiet())
	rec := &recorder{app: a, quitAfter: 2}
	a.AddReceiver(rec)

	require.NoError(t, run(t, a))
	assert.Equal(t, []string{
		"reset",
		"begin", "tick", "end",
		"begin", "tick", "end",
		"quit(7)",
	}, rec.entries())
	assert.True(t, w.destroyed)
}

func TestQuitFirstReasonWins(t *testing.T) {
	a := New(props(), nil, nil, quiet())
	a.QuitWith(3)
	a.QuitWith(4)
	a.Quit()
	rec := &recorder{app: a}
	a.AddReceiver(rec)

	require.NoError(t, run(t, a))
	assert.Equal(t, []string{"reset", "quit(3)"}, rec.entries())
}

func TestWindowCloseQuits(t *testing.T) {
	w := &fakeWindow{script: []event.EngineEvent{event.Signal(event.WindowClose)}}
	a := New(props(), w, nil, quiet())
	rec := &recorder{app: a}
	a.AddReceiver(rec)

	require.NoError(t, run(t, a))
	entries := rec.entries()
	require.GreaterOrEqual(t, len(entries), 3)
	assert.Equal(t, []string{"close", "end", "quit(0)"}, entries[len(entries)-3:])
}

func TestQuitKey(t *testing.T) {
	p := props()
	p.QuitKeys = []keys.Key{keys.Esc}
	w := &fakeWindow{script: []event.EngineEvent{
		event.KeyDownEvent(keys.Space),
		event.KeyDownEvent(keys.Esc),
	}}
	a := New(p, w, nil, quiet())
	rec := &recorder{app: a}
	a.AddReceiver(rec)

	require.NoError(t, run(t, a))
	assert.Equal(t, "quit(0)", rec.entries()[len(rec.entries())-1])
}

func TestInputThroughLoop(t *testing.T) {
	w := &fakeWindow{script: []event.EngineEvent{event.KeyDownEvent(keys.A)}}
	a := New(props(), w, nil, quiet())
	var down, held []int
	rec := &recorder{app: a}
	rec.onTick = func(frame int) {
		if a.Input().IsDown(keys.A) {
			down = append(down, frame)
		}
		if a.Input().IsHeld(keys.A) {
			held = append(held, frame)
			if len(held) == 3 {
				a.Quit()
			}
		}
	}
	a.AddReceiver(rec)

	require.NoError(t, run(t, a))
	require.Len(t, down, 1)
	require.Len(t, held, 3)
	assert.Equal(t, down[0], held[0])
	assert.Equal(t, []int{held[0], held[0] + 1, held[0] + 2}, held)
}

func TestKeyReleasedAndPressedBetweenFrames(t *testing.T) {
	a := New(props(), nil, nil, quiet())
	a.Events().QueueEngineEvent(event.KeyDownEvent(keys.A))
	held := map[int]bool{}
	rec := &recorder{app: a, quitAfter: 6}
	rec.onTick = func(frame int) {
		held[frame] = a.Input().IsHeld(keys.A)
		if frame == 3 {
			a.Events().QueueEngineEvent(event.KeyUpEvent(keys.A))
			a.Events().QueueEngineEvent(event.KeyDownEvent(keys.A))
		}
	}
	a.AddReceiver(rec)

	require.NoError(t, run(t, a))
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}, held)
}

func TestQueuedLoopEventsAreDropped(t *testing.T) {
	a := New(props(), nil, nil, quiet())
	a.Events().QueueEngineEvent(event.TickEvent(1))
	a.Events().QueueEngineEvent(event.QuitEvent(9))
	rec := &recorder{app: a, quitAfter: 3}
	a.AddReceiver(rec)

	require.NoError(t, run(t, a))
	assert.Equal(t, 3, rec.frames)
	assert.Equal(t, "quit(7)", rec.entries()[len(rec.entries())-1])
	_, engineEvents, _ := a.Events().Pending()
	assert.Zero(t, engineEvents)
}

type eventID uint16

const (
	pingID eventID = iota + 1
	pongID
)

type pinger struct {
	event.Nop
	app  *App
	seen []string
}

func (p *pinger) Reset() error {
	p.app.Events().QueueEvent(event.New(pingID, event.String("ping")))
	return nil
}

func (p *pinger) DispatchEvent(e event.Event) error {
	p.seen = append(p.seen, e.Data[0].(event.String).String())
	if e.ID == uint32(pingID) {
		p.app.Events().QueueEvent(event.New(pongID, event.String("pong")))
	} else {
		p.app.Quit()
	}
	return nil
}

func TestUserEventsPerFrame(t *testing.T) {
	a := New(props(), nil, nil, quiet())
	p := &pinger{app: a}
	a.AddReceiver(p)
	require.NoError(t, run(t, a))
	assert.Equal(t, []string{`Str("ping")`, `Str("pong")`}, p.seen)
}

func TestFixedTick(t *testing.T) {
	p := props()
	p.FixedStep = time.Millisecond
	a := New(p, nil, nil, quiet())
	rec := &recorder{app: a, quitAfter: 3}
	rec.onTick = func(frame int) {
		if frame == 1 {
			time.Sleep(5 * time.Millisecond)
		}
	}
	a.AddReceiver(rec)

	require.NoError(t, run(t, a))
	assert.GreaterOrEqual(t, rec.fixed, 4)
}

func TestRunTwice(t *testing.T) {
	a := New(props(), nil, nil, quiet())
	a.Quit()
	require.NoError(t, run(t, a))

	var re *ReinitError
	require.ErrorAs(t, a.Run(context.Background()), &re)
	assert.Equal(t, "app loop initialized twice", re.Error())
}

func TestContextCancel(t *testing.T) {
	a := New(props(), nil, nil, quiet())
	rec := &recorder{app: a}
	a.AddReceiver(rec)
	ctx, cancel := context.WithCancel(context.Background())
	rec.onTick = func(frame int) {
		if frame == 5 {
			cancel()
		}
	}
	require.NoError(t, a.Run(ctx))
	assert.Equal(t, 5, rec.frames)
}

func TestWindowFailure(t *testing.T) {
	boom := errors.New("no display")
	a := New(props(), &fakeWindow{err: boom}, nil, quiet())
	assert.ErrorIs(t, run(t, a), boom)
}

func TestRendererReceivesFrames(t *testing.T) {
	ctx := &gltest.Context{}
	gl := gltest.New(ctx)
	r, err := renderer.New(ctx, gl, renderer.Options{Logger: quiet(), Width: 640, Height: 480})
	require.NoError(t, err)

	w := &fakeWindow{script: []event.EngineEvent{event.ResizeEvent(1280, 720)}}
	a := New(props(), w, r, quiet())
	rec := &recorder{app: a}
	rec.onTick = func(int) {
		if width, _ := r.Size(); width == 1280 {
			a.Quit()
		}
	}
	a.AddReceiver(rec)

	require.NoError(t, run(t, a))
	assert.Equal(t, int32(rec.frames), ctx.Swaps.Load())
	assert.Len(t, gl.Cleared, rec.frames)
	assert.Equal(t, [4]int32{0, 0, 1280, 720}, gl.ViewportRect)
	assert.Zero(t, gl.Live())
}
