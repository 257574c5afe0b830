// Package app runs an application: it owns the event handler, input,
// timer and renderer, drives the frame loop on one goroutine and the window
// system on the calling one.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/v39engine/v39/config"
	"github.com/v39engine/v39/event"
	"github.com/v39engine/v39/input"
	"github.com/v39engine/v39/keys"
	"github.com/v39engine/v39/renderer"
	"github.com/v39engine/v39/timer"
)

// EventSink receives the engine events produced by a Window.
type EventSink interface {
	QueueEngineEvent(e event.EngineEvent)
}

// Window is the window system an App runs on.
type Window interface {
	// Run translates window system events into engine events until done is
	// closed. It is called on the goroutine that called App.Run, which must
	// be the main thread for most window systems.
	Run(sink EventSink, done <-chan struct{}) error
	Destroy()
}

// App is the root of an application. It is logically a singleton; v39.Init
// refuses to create a second one.
type App struct {
	props    config.Props
	events   *event.Handler
	input    *input.Manager
	timer    *timer.Timer
	renderer *renderer.Renderer
	window   Window
	log      *slog.Logger

	quitMu  sync.Mutex
	quit    bool
	reason  uint32
	running atomic.Bool
}

// New creates an App. window and r may be nil for headless use. The
// built-in receivers are registered in the order input, timer, renderer,
// followed by the handler for window close and quit keys.
func New(props config.Props, window Window, r *renderer.Renderer, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	a := &App{
		props:    props,
		events:   event.NewHandler(log),
		input:    input.NewManager(log),
		timer:    timer.New(log),
		renderer: r,
		window:   window,
		log:      log.With("component", "app"),
	}
	a.timer.SetTargetFPS(props.TargetFPS)
	a.timer.SetFixedStep(props.FixedStep)

	a.events.AddReceiver(a.input)
	a.events.AddReceiver(a.timer)
	if r != nil {
		a.events.AddReceiver(r)
	}
	a.events.AddReceiver(&lifecycle{app: a, quitKeys: props.QuitKeys})
	a.log.Info("app initialized", "title", props.Title)
	return a
}

// Props returns the properties the App was created with.
func (a *App) Props() config.Props { return a.props }

// Events returns the event handler.
func (a *App) Events() *event.Handler { return a.events }

// Input returns the input manager.
func (a *App) Input() *input.Manager { return a.input }

// Timer returns the frame timer.
func (a *App) Timer() *timer.Timer { return a.timer }

// Renderer returns the renderer, or nil for a headless App.
func (a *App) Renderer() *renderer.Renderer { return a.renderer }

// AddReceiver registers r for all events. Receivers are notified in the
// order they were added.
func (a *App) AddReceiver(r event.Receiver) { a.events.AddReceiver(r) }

// Quit ends the frame loop after the current frame with reason 0.
func (a *App) Quit() { a.QuitWith(0) }

// QuitWith ends the frame loop after the current frame. The reason is passed
// to the Quit receivers; the first reason given wins.
func (a *App) QuitWith(reason uint32) {
	a.quitMu.Lock()
	defer a.quitMu.Unlock()
	if !a.quit {
		a.quit, a.reason = true, reason
	}
}

// Quitting reports whether quitting has been requested.
func (a *App) Quitting() bool {
	a.quitMu.Lock()
	defer a.quitMu.Unlock()
	return a.quit
}

// Run runs the frame loop until quit is requested or ctx is done, pumping
// window events on the calling goroutine meanwhile. It fires Quit once,
// destroys the renderer and the window, and returns.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return &ReinitError{Item: "app loop"}
	}
	done := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		return a.loop(ctx)
	})

	var werr error
	if a.window != nil {
		werr = a.window.Run(a.events, done)
		if werr != nil {
			a.log.Error("window event pump failed", "err", werr)
			a.Quit()
		}
	}
	err := g.Wait()
	if a.window != nil {
		a.window.Destroy()
	}
	return errors.Join(err, werr)
}

func (a *App) stopping(ctx context.Context) bool {
	if ctx.Err() != nil {
		a.Quit()
	}
	return a.Quitting()
}

func (a *App) loop(ctx context.Context) error {
	a.events.FireSingleEngineEvent(event.Signal(event.Reset))
	frames := 0
	for !a.stopping(ctx) {
		a.frame(ctx)
		frames++
	}
	a.quitMu.Lock()
	reason := a.reason
	a.quitMu.Unlock()
	a.log.Info("quitting", "reason", reason, "frames", frames)
	a.events.FireSingleEngineEvent(event.QuitEvent(reason))
	if a.renderer != nil {
		a.renderer.Destroy()
	}
	return nil
}

// frame runs one iteration of the frame loop.
func (a *App) frame(ctx context.Context) {
	h := a.events
	// Presses and releases in one pass, so their order survives.
	h.FireEngineEvent(event.KeyDown, event.KeyUp)
	h.FireEngineEvent(event.WindowResize, event.WindowFocus, event.WindowUnfocus)
	if a.stopping(ctx) {
		return
	}

	h.FireSingleEngineEvent(event.Signal(event.FrameBegin))
	h.FireSingleEngineEvent(event.TickEvent(seconds(a.timer.DeltaTime())))
	n, step := a.timer.FixedSteps()
	for i := 0; i < n; i++ {
		h.FireSingleEngineEvent(event.FixedTickEvent(seconds(step)))
	}
	h.FireEvents()
	h.FireEngineEvent(event.WindowClose)
	h.FireSingleEngineEvent(event.Signal(event.FrameEnd))
	if n := h.DiscardEngineEvents(loopOnly[:]...); n > 0 {
		a.log.Warn("dropped queued engine events the loop fires itself", "count", n)
	}
	a.timer.PadFrameTime()
}

// loopOnly are the engine event kinds only the frame loop fires.
var loopOnly = [...]event.Kind{
	event.Reset, event.FrameBegin, event.FrameEnd,
	event.Tick, event.FixedTick, event.Quit,
}

func seconds(d time.Duration) float32 { return float32(d.Seconds()) }

// lifecycle quits the App on window close and on quit keys.
type lifecycle struct {
	event.Nop
	app      *App
	quitKeys []keys.Key
}

func (l *lifecycle) WindowClose() error {
	l.app.log.Info("window closed")
	l.app.Quit()
	return nil
}

func (l *lifecycle) KeyDown(k keys.Key) error {
	for _, q := range l.quitKeys {
		if q == k {
			l.app.log.Info("quit key pressed", "key", k)
			l.app.Quit()
		}
	}
	return nil
}
