package renderer

import (
	"errors"
	"fmt"
)

// ErrRenderer is the root of all renderer failures: GPU resource creation
// failed or an invalid handle was referenced. Test with errors.Is.
var ErrRenderer = errors.New("renderer error")

// ErrNotLoaded means that a handle does not refer to a loaded resource.
var ErrNotLoaded = fmt.Errorf("%w: resource not loaded", ErrRenderer)

// ErrNoDecoder means that an image was to be decoded but the renderer has
// no Decoder.
var ErrNoDecoder = fmt.Errorf("%w: no image decoder configured", ErrRenderer)

// ShaderError reports a shader that failed to compile, or a program that
// failed to link, together with the compiler's log.
type ShaderError struct {
	Name string
	Log  string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("shader %s failed to compile: %s", e.Name, e.Log)
}

// Is makes ShaderError match ErrRenderer.
func (e *ShaderError) Is(target error) bool { return target == ErrRenderer }

// GLError wraps the failure of a graphics API call.
type GLError struct {
	Op  string
	Err error
}

func (e *GLError) Error() string { return fmt.Sprintf("gl: %s: %v", e.Op, e.Err) }

func (e *GLError) Unwrap() error { return e.Err }

// Is makes GLError match ErrRenderer.
func (e *GLError) Is(target error) bool { return target == ErrRenderer }

func glErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &GLError{Op: op, Err: err}
}
