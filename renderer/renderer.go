// Package renderer owns the GPU resources of an application and serializes
// every call into the graphics API.
//
// Resources are loaded into registries under integer ids. Lookups hand out
// counted references (Ref), so a resource stays alive until both its registry
// entry and every outstanding reference are gone.
package renderer

import (
	"image/color"
	"log/slog"
	"runtime"
	"sync"

	"github.com/v39engine/v39/event"
)

// Image is decoded RGBA8 pixel data, row by row, without padding.
type Image struct {
	Pix           []byte
	Width, Height int
}

// Decoder turns encoded images into RGBA8 pixels.
type Decoder interface {
	Decode(data []byte) (Image, error)
	DecodeFile(path string) (Image, error)
}

// TextRasterizer is optionally implemented by a Decoder that can render text.
type TextRasterizer interface {
	RasterizeText(font string, size int, text string, c color.RGBA) (Image, error)
}

// Options configures a Renderer.
type Options struct {
	// Decoder is used by the texture constructors that take encoded data.
	Decoder Decoder
	Logger  *slog.Logger
	// Width and Height are the initial drawable size.
	Width, Height int32
}

// Renderer owns the resource registries and the graphics context.
type Renderer struct {
	event.Nop

	glMu sync.Mutex
	ctx  Context
	gl   GL

	decoder Decoder
	log     *slog.Logger

	shaders  registry[ShaderID, *Shader]
	vbos     registry[ModelID, *Vbo]
	ebos     registry[ModelID, *Ebo]
	vaos     registry[ModelID, *Vao]
	textures registry[TextureID, *Texture]
	models   registry[ModelID, *Model]

	camMu         sync.RWMutex
	camera        *Camera
	width, height int32
	clear         [4]float32
}

// DefaultClearColor is the color the frame is cleared to.
var DefaultClearColor = [4]float32{0.5 / 6, 0.5 / 6, 1.0 / 6, 1}

// New creates a renderer drawing through gl into ctx. The depth test is
// enabled and the viewport set to the initial size.
func New(ctx Context, gl GL, opts Options) (*Renderer, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	r := &Renderer{
		ctx:     ctx,
		gl:      gl,
		decoder: opts.Decoder,
		log:     log.With("component", "renderer"),
		camera:  NewCamera(),
		width:   opts.Width,
		height:  opts.Height,
		clear:   DefaultClearColor,
	}
	if r.width > 0 && r.height > 0 {
		r.camera.SetAspect(float32(r.width) / float32(r.height))
	}
	err := r.ExecGL(func(gl GL) error {
		gl.Enable(DepthTest)
		if r.width > 0 && r.height > 0 {
			gl.Viewport(0, 0, r.width, r.height)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("renderer initialized", "width", r.width, "height", r.height)
	return r, nil
}

// ExecGL makes the context current, runs fn and releases the context again.
// Calls are serialized and pinned to one OS thread while the context is
// current. fn must not call back into the renderer.
func (r *Renderer) ExecGL(fn func(gl GL) error) (err error) {
	r.glMu.Lock()
	defer r.glMu.Unlock()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := r.ctx.MakeCurrent(); err != nil {
		return glErr("make current", err)
	}
	defer func() {
		if rerr := r.ctx.MakeNotCurrent(); rerr != nil && err == nil {
			err = glErr("make not current", rerr)
		}
	}()
	return fn(r.gl)
}

// SetClearColor sets the color FrameBegin clears to.
func (r *Renderer) SetClearColor(c [4]float32) {
	r.camMu.Lock()
	r.clear = c
	r.camMu.Unlock()
}

// Camera returns the camera used for drawing models.
func (r *Renderer) Camera() *Camera {
	r.camMu.RLock()
	defer r.camMu.RUnlock()
	return r.camera
}

// SetCamera replaces the camera used for drawing models. The camera's aspect
// is set to match the drawable.
func (r *Renderer) SetCamera(c *Camera) {
	r.camMu.Lock()
	defer r.camMu.Unlock()
	if r.width > 0 && r.height > 0 {
		c.SetAspect(float32(r.width) / float32(r.height))
	}
	r.camera = c
}

// Size returns the current drawable size.
func (r *Renderer) Size() (width, height int32) {
	r.camMu.RLock()
	defer r.camMu.RUnlock()
	return r.width, r.height
}

// FrameBegin clears color and depth buffers.
func (r *Renderer) FrameBegin() error {
	r.camMu.RLock()
	c := r.clear
	r.camMu.RUnlock()
	return r.ExecGL(func(gl GL) error {
		gl.ClearColor(c[0], c[1], c[2], c[3])
		gl.Clear(ColorBufferBit | DepthBufferBit)
		return nil
	})
}

// FrameEnd presents the frame.
func (r *Renderer) FrameEnd() error {
	return r.ExecGL(func(GL) error {
		r.ctx.SwapBuffers()
		return nil
	})
}

// WindowResize updates the viewport and the camera's aspect ratio.
func (r *Renderer) WindowResize(width, height uint32) error {
	r.camMu.Lock()
	r.width, r.height = int32(width), int32(height)
	if width > 0 && height > 0 {
		r.camera.SetAspect(float32(width) / float32(height))
	}
	r.camMu.Unlock()
	return r.ExecGL(func(gl GL) error {
		gl.Viewport(0, 0, int32(width), int32(height))
		return nil
	})
}

// Destroy unbinds everything and unloads all resources. Resources still
// referenced elsewhere are destroyed when those references are released.
func (r *Renderer) Destroy() {
	r.ClearVao()
	r.ClearVbo()
	r.ClearEbo()
	r.ClearTexture()
	r.ClearShader()
	r.models.clear()
	r.vaos.clear()
	r.vbos.clear()
	r.ebos.clear()
	r.textures.clear()
	r.shaders.clear()
	r.log.Info("renderer destroyed")
}
