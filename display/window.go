// Package display implements the window system of an application on SDL2:
// the window with its OpenGL context, the event pump and the image and text
// decoding used for textures.
package display

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"

	"github.com/v39engine/v39/app"
	"github.com/v39engine/v39/config"
	"github.com/v39engine/v39/event"
	"github.com/v39engine/v39/renderer"
)

// ErrNoDevice is returned when no window or graphics context could be
// created.
var ErrNoDevice = errors.New("no graphics device")

// pumpTimeout is how long Run waits for an event, in milliseconds, before
// it checks whether it should return.
const pumpTimeout = 10

// Window is an SDL window with an OpenGL context. It implements
// renderer.Context and app.Window.
type Window struct {
	win    *sdl.Window
	ctx    sdl.GLContext
	images *Images
	log    *slog.Logger
}

var (
	_ renderer.Context = (*Window)(nil)
	_ app.Window       = (*Window)(nil)
)

// Open initializes SDL and opens a window as described by props. It must be
// called on the main thread. The GL context is not current when Open
// returns.
func Open(props config.Props, log *slog.Logger) (*Window, error) {
	var flags uint32 = sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI
	if props.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	return open(props, flags, log)
}

// OpenHidden is like Open, but the window is never shown. It is useful for
// tools that need a GL context only.
func OpenHidden(props config.Props, log *slog.Logger) (*Window, error) {
	return open(props, sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN, log)
}

func open(props config.Props, flags uint32, log *slog.Logger) (w *Window, err error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "display")

	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	defer func() {
		if err != nil {
			sdl.Quit()
		}
	}()
	if err = ttf.Init(); err != nil {
		return nil, fmt.Errorf("init fonts: %w", err)
	}
	if ierr := img.Init(img.INIT_PNG | img.INIT_JPG); ierr != nil {
		log.Warn("image formats not fully available", "err", ierr)
	}

	setGLAttributes(log)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	win, err := sdl.CreateWindow(props.Title, sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED, props.ScreenWidth, props.ScreenHeight, flags)
	if err != nil {
		ttf.Quit()
		img.Quit()
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	ctx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		ttf.Quit()
		img.Quit()
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	interval := 0
	if props.VSync {
		// adaptive vsync, falling back to regular vsync
		interval = -1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil && interval == -1 {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			log.Warn("could not enable vsync", "err", err)
		}
	}
	if err := win.GLMakeCurrent(nil); err != nil {
		log.Warn("could not release GL context", "err", err)
	}

	w = &Window{win: win, ctx: ctx, images: newImages(log), log: log}
	width, height := w.Size()
	log.Info("window opened", "title", props.Title, "width", width, "height", height)
	return w, nil
}

// Size returns the size of the drawable in pixels, which differs from the
// window size on high-DPI displays.
func (w *Window) Size() (width, height int32) {
	return w.win.GLGetDrawableSize()
}

// Images returns the decoder for images and text of this window.
func (w *Window) Images() *Images { return w.images }

// MakeCurrent makes the GL context current on the calling thread.
func (w *Window) MakeCurrent() error { return w.win.GLMakeCurrent(w.ctx) }

// MakeNotCurrent releases the GL context from the calling thread.
func (w *Window) MakeNotCurrent() error { return w.win.GLMakeCurrent(nil) }

// SwapBuffers presents the back buffer.
func (w *Window) SwapBuffers() { w.win.GLSwap() }

// Run pumps SDL events into sink until done is closed. It must be called on
// the main thread.
func (w *Window) Run(sink app.EventSink, done <-chan struct{}) error {
	for {
		select {
		case <-done:
			return nil
		default:
		}
		for ev := sdl.WaitEventTimeout(pumpTimeout); ev != nil; ev = sdl.PollEvent() {
			if e, ok := w.translate(ev); ok {
				sink.QueueEngineEvent(e)
			}
		}
	}
}

// translate converts an SDL event into an engine event.
func (w *Window) translate(ev sdl.Event) (event.EngineEvent, bool) {
	switch e := ev.(type) {
	case *sdl.KeyboardEvent:
		return translateKey(e)
	case *sdl.QuitEvent:
		return event.Signal(event.WindowClose), true
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return event.Signal(event.WindowClose), true
		case sdl.WINDOWEVENT_FOCUS_GAINED:
			return event.Signal(event.WindowFocus), true
		case sdl.WINDOWEVENT_FOCUS_LOST:
			return event.Signal(event.WindowUnfocus), true
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			width, height := e.Data1, e.Data2
			if w != nil {
				width, height = w.Size()
			}
			return event.ResizeEvent(uint32(width), uint32(height)), true
		}
	}
	return event.EngineEvent{}, false
}

// translateKey converts key presses and releases. Key repeats are dropped;
// a held key is reported by the input manager.
func translateKey(e *sdl.KeyboardEvent) (event.EngineEvent, bool) {
	if e.Repeat != 0 {
		return event.EngineEvent{}, false
	}
	k := Key(e.Keysym.Sym)
	switch e.Type {
	case sdl.KEYDOWN:
		return event.KeyDownEvent(k), true
	case sdl.KEYUP:
		return event.KeyUpEvent(k), true
	}
	return event.EngineEvent{}, false
}

// Destroy closes fonts, context and window, and shuts SDL down.
func (w *Window) Destroy() {
	w.images.Close()
	sdl.GLDeleteContext(w.ctx)
	w.win.Destroy()
	ttf.Quit()
	img.Quit()
	sdl.Quit()
	w.log.Info("window destroyed")
}
