// Package assets embeds the built-in shaders.
//
// Each shader is a pair of files under shaders/, <name>.vert and
// <name>.frag. Both take the model, view and proj matrices set by
// Renderer.UseModel.
package assets

import (
	"embed"
	"fmt"
	"path"

	"github.com/v39engine/v39/renderer"
)

// Built-in shader names.
const (
	// Colored expects vertices in the PositionColor(3, 3) format.
	Colored = "colored"
	// Textured expects vertices in the PositionCoords(3, 2) format and
	// samples the texture bound to the sampler "tex".
	Textured = "textured"
)

// ShaderDir is the directory of Data holding the shaders.
const ShaderDir = "shaders"

// Data holds the embedded files.
//
//go:embed shaders
var Data embed.FS

// MustRead returns the content of the embedded file name and panics if it
// does not exist.
func MustRead(name string) []byte {
	ret, err := Data.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return ret
}

// Sources returns the sources of the built-in shader name.
func Sources(name string) ([]renderer.ShaderSource, error) {
	var srcs []renderer.ShaderSource
	for _, kind := range [...]renderer.ShaderKind{renderer.VertexShader, renderer.FragmentShader} {
		file := name + "." + ext(kind)
		content, err := Data.ReadFile(path.Join(ShaderDir, file))
		if err != nil {
			return nil, fmt.Errorf("unknown shader %q: %w", name, err)
		}
		srcs = append(srcs, renderer.ShaderSource{Name: file, Source: string(content), Kind: kind})
	}
	return srcs, nil
}

func ext(kind renderer.ShaderKind) string {
	if kind == renderer.VertexShader {
		return "vert"
	}
	return "frag"
}

// LoadShader compiles the built-in shader name and adds it to r.
func LoadShader(r *renderer.Renderer, name string) (renderer.ShaderID, error) {
	srcs, err := Sources(name)
	if err != nil {
		return 0, err
	}
	s, err := r.NewShader(srcs...)
	if err != nil {
		return 0, err
	}
	return r.AddShader(s), nil
}
