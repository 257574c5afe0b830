// Package v39 sets up an application: an SDL window with an OpenGL context,
// the renderer drawing into it and the App running the frame loop.
//
// A minimal program:
//
//	a, err := v39.Init(config.Default())
//	if err != nil {
//		log.Fatal(err)
//	}
//	a.AddReceiver(myGame)
//	if err := a.Run(context.Background()); err != nil {
//		log.Fatal(err)
//	}
package v39

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/v39engine/v39/app"
	"github.com/v39engine/v39/config"
	"github.com/v39engine/v39/display"
	"github.com/v39engine/v39/glcore"
	"github.com/v39engine/v39/internal/logging"
	"github.com/v39engine/v39/renderer"
)

var initialized atomic.Bool

func init() {
	// SDL requires window and event handling on the main thread.
	runtime.LockOSThread()
}

// Init creates the application described by props. It must be called from
// the main goroutine, at most once per process; further calls return an
// *app.ReinitError. The returned App's Run must be called from the main
// goroutine as well.
func Init(props config.Props) (*app.App, error) {
	if !initialized.CompareAndSwap(false, true) {
		return nil, &app.ReinitError{Item: "v39"}
	}
	a, err := setup(props)
	if err != nil {
		initialized.Store(false)
		return nil, err
	}
	return a, nil
}

func setup(props config.Props) (*app.App, error) {
	log := logging.Setup()
	if err := props.Validate(); err != nil {
		return nil, fmt.Errorf("props: %w", err)
	}

	w, err := display.Open(props, log)
	if err != nil {
		return nil, err
	}
	gl, err := loadGL(w, log)
	if err != nil {
		w.Destroy()
		return nil, err
	}
	width, height := w.Size()
	r, err := renderer.New(w, gl, renderer.Options{
		Decoder: w.Images(),
		Logger:  log,
		Width:   width,
		Height:  height,
	})
	if err != nil {
		w.Destroy()
		return nil, err
	}
	return app.New(props, w, r, log), nil
}

// loadGL loads the OpenGL functions with the window's context current.
func loadGL(w *display.Window, log *slog.Logger) (glcore.GL, error) {
	if err := w.MakeCurrent(); err != nil {
		return glcore.GL{}, fmt.Errorf("%w: %v", display.ErrNoDevice, err)
	}
	defer w.MakeNotCurrent()
	gl, err := glcore.Init()
	if err != nil {
		return glcore.GL{}, fmt.Errorf("%w: %v", display.ErrNoDevice, err)
	}
	log.Info("OpenGL loaded", "version", glcore.Version())
	return gl, nil
}
