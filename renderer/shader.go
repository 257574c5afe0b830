package renderer

import (
	"errors"
	"path/filepath"
	"strings"
)

// ShaderKind is the pipeline stage of a shader source.
type ShaderKind uint32

const (
	VertexShader   ShaderKind = VertexShaderKind
	FragmentShader ShaderKind = FragmentShaderKind
)

func (k ShaderKind) String() string {
	switch k {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	}
	return "unknown"
}

// ShaderKindOf derives the kind from a file extension: .vert or .frag.
func ShaderKindOf(path string) (ShaderKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert":
		return VertexShader, true
	case ".frag":
		return FragmentShader, true
	}
	return 0, false
}

// ShaderSource is one stage of a shader program. Name identifies the source
// in error messages, usually its file name.
type ShaderSource struct {
	Name   string
	Source string
	Kind   ShaderKind
}

// Shader is a linked shader program.
type Shader struct {
	r       *Renderer
	program uint32
}

// NewShader compiles the given sources and links them into a program. A
// source failing to compile yields a *ShaderError naming it.
func (r *Renderer) NewShader(sources ...ShaderSource) (*Shader, error) {
	if len(sources) == 0 {
		return nil, errors.New("shader needs at least one source")
	}
	s := &Shader{r: r}
	err := r.ExecGL(func(gl GL) error {
		program, err := gl.CreateProgram()
		if err != nil {
			return glErr("create program", err)
		}
		var stages []uint32
		cleanup := func() {
			for _, st := range stages {
				gl.DetachShader(program, st)
				gl.DeleteShader(st)
			}
		}
		for _, src := range sources {
			st, err := compile(gl, src)
			if err != nil {
				cleanup()
				gl.DeleteProgram(program)
				return err
			}
			gl.AttachShader(program, st)
			stages = append(stages, st)
		}
		gl.LinkProgram(program)
		cleanup()
		if !gl.ProgramLinkStatus(program) {
			log := gl.ProgramInfoLog(program)
			gl.DeleteProgram(program)
			return &ShaderError{Name: sources[0].Name, Log: log}
		}
		s.program = program
		return nil
	})
	if err != nil {
		var se *ShaderError
		if errors.As(err, &se) {
			r.log.Error("shader compilation failed", "name", se.Name, "log", se.Log)
		}
		return nil, err
	}
	return s, nil
}

func compile(gl GL, src ShaderSource) (uint32, error) {
	st, err := gl.CreateShader(uint32(src.Kind))
	if err != nil {
		return 0, glErr("create "+src.Kind.String()+" shader", err)
	}
	gl.ShaderSource(st, src.Source)
	gl.CompileShader(st)
	if !gl.ShaderCompileStatus(st) {
		log := gl.ShaderInfoLog(st)
		gl.DeleteShader(st)
		return 0, &ShaderError{Name: src.Name, Log: log}
	}
	return st, nil
}

// Program returns the program's GL name.
func (s *Shader) Program() uint32 { return s.program }

// SetUniform assigns v to the named uniform of the program. An unknown name
// is logged as a warning and yields false.
func (s *Shader) SetUniform(name string, v UniformValue) bool {
	var found bool
	err := s.r.ExecGL(func(gl GL) error {
		found = s.setUniform(gl, name, v)
		return nil
	})
	if err != nil {
		s.r.log.Error("set uniform", "name", name, "err", err)
		return false
	}
	return found
}

func (s *Shader) setUniform(gl GL, name string, v UniformValue) bool {
	gl.UseProgram(s.program)
	loc, ok := gl.UniformLocation(s.program, name)
	if !ok {
		s.r.log.Warn("uniform not found", "name", name, "program", s.program)
		return false
	}
	v.upload(gl, loc)
	return true
}

func (s *Shader) destroy() {
	s.r.use("delete program", func(gl GL) { gl.DeleteProgram(s.program) })
}
