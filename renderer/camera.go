package renderer

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds the view matrix and the parameters of the perspective
// projection. It is safe for concurrent use.
type Camera struct {
	mu     sync.RWMutex
	view   mgl32.Mat4
	aspect float32
	fov    float32
	near   float32
	far    float32
}

// Camera defaults.
const (
	DefaultFov  = 1.57
	DefaultNear = 0.001
	DefaultFar  = 100
)

// NewCamera returns a camera slightly above and behind the origin with a
// square aspect.
func NewCamera() *Camera {
	return &Camera{
		view:   mgl32.Translate3D(0, -0.5, -2),
		aspect: 1,
		fov:    DefaultFov,
		near:   DefaultNear,
		far:    DefaultFar,
	}
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// TransformView replaces the view matrix with f(view).
func (c *Camera) TransformView(f func(mgl32.Mat4) mgl32.Mat4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = f(c.view)
}

// Proj computes the perspective projection from the current parameters.
func (c *Camera) Proj() mgl32.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
}

// Aspect returns width / height.
func (c *Camera) Aspect() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.aspect
}

// SetAspect sets the aspect ratio. Non-positive values reset it to 1.
func (c *Camera) SetAspect(aspect float32) {
	if aspect <= 0 {
		aspect = 1
	}
	c.mu.Lock()
	c.aspect = aspect
	c.mu.Unlock()
}

// SetPerspective sets the vertical field of view in radians and the clip
// planes.
func (c *Camera) SetPerspective(fov, near, far float32) {
	c.mu.Lock()
	c.fov, c.near, c.far = fov, near, far
	c.mu.Unlock()
}
