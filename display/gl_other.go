//go:build !darwin

package display

import (
	"log/slog"

	"github.com/veandco/go-sdl2/sdl"
)

func setGLAttributes(log *slog.Logger) {
	log.Debug("using OpenGL 3.3 core profile")
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
}
