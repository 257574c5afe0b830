// Package glcore implements renderer.GL on an OpenGL 3.3 core profile
// context, using the go-gl bindings.
package glcore

import (
	"errors"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/v39engine/v39/renderer"
)

var errZeroName = errors.New("driver returned no object")

// GL calls straight into the OpenGL function pointers loaded by Init.
type GL struct{}

var _ renderer.GL = GL{}

// Init loads the OpenGL function pointers. The context must be current.
func Init() (GL, error) {
	if err := gl.Init(); err != nil {
		return GL{}, err
	}
	return GL{}, nil
}

// Version returns the GL version string of the current context.
func Version() string { return gl.GoStr(gl.GetString(gl.VERSION)) }

func named(id uint32) (uint32, error) {
	if id == 0 {
		return 0, errZeroName
	}
	return id, nil
}

func (GL) CreateBuffer() (uint32, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	return named(id)
}

func (GL) DeleteBuffer(buf uint32) { gl.DeleteBuffers(1, &buf) }

func (GL) BindBuffer(target, buf uint32) { gl.BindBuffer(target, buf) }

func (GL) BufferData(target uint32, data []byte, usage uint32) {
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data), gl.Ptr(data), usage)
}

func (GL) CreateVertexArray() (uint32, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return named(id)
}

func (GL) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (GL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (GL) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (GL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, uintptr(offset))
}

func (GL) CreateTexture() (uint32, error) {
	var id uint32
	gl.GenTextures(1, &id)
	return named(id)
}

func (GL) DeleteTexture(tex uint32) { gl.DeleteTextures(1, &tex) }

func (GL) BindTexture(target, tex uint32) { gl.BindTexture(target, tex) }

func (GL) ActiveTexture(unit uint32) { gl.ActiveTexture(unit) }

func (GL) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, gl.Ptr(pixels))
}

func (GL) GenerateMipmap(target uint32) { gl.GenerateMipmap(target) }

func (GL) TexParameteri(target, pname uint32, param int32) { gl.TexParameteri(target, pname, param) }

func (GL) TexParameterf(target, pname uint32, param float32) { gl.TexParameterf(target, pname, param) }

func (GL) TexParameteriv(target, pname uint32, params []int32) {
	if len(params) > 0 {
		gl.TexParameteriv(target, pname, &params[0])
	}
}

func (GL) TexParameterfv(target, pname uint32, params []float32) {
	if len(params) > 0 {
		gl.TexParameterfv(target, pname, &params[0])
	}
}

func (GL) CreateShader(kind uint32) (uint32, error) { return named(gl.CreateShader(kind)) }

func (GL) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csources, nil)
}

func (GL) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (GL) ShaderCompileStatus(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (GL) ShaderInfoLog(shader uint32) string {
	var n int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	gl.GetShaderInfoLog(shader, n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00\n")
}

func (GL) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (GL) CreateProgram() (uint32, error) { return named(gl.CreateProgram()) }

func (GL) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (GL) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }

func (GL) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (GL) ProgramLinkStatus(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (GL) ProgramInfoLog(program uint32) string {
	var n int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(program, n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00\n")
}

func (GL) UseProgram(program uint32) { gl.UseProgram(program) }

func (GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (GL) UniformLocation(program uint32, name string) (int32, bool) {
	loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	return loc, loc >= 0
}

func (GL) Uniformf(loc int32, v ...float32) {
	switch len(v) {
	case 1:
		gl.Uniform1f(loc, v[0])
	case 2:
		gl.Uniform2f(loc, v[0], v[1])
	case 3:
		gl.Uniform3f(loc, v[0], v[1], v[2])
	case 4:
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

func (GL) Uniformui(loc int32, v ...uint32) {
	switch len(v) {
	case 1:
		gl.Uniform1ui(loc, v[0])
	case 2:
		gl.Uniform2ui(loc, v[0], v[1])
	case 3:
		gl.Uniform3ui(loc, v[0], v[1], v[2])
	case 4:
		gl.Uniform4ui(loc, v[0], v[1], v[2], v[3])
	}
}

func (GL) Uniformi(loc int32, v ...int32) {
	switch len(v) {
	case 1:
		gl.Uniform1i(loc, v[0])
	case 2:
		gl.Uniform2i(loc, v[0], v[1])
	case 3:
		gl.Uniform3i(loc, v[0], v[1], v[2])
	case 4:
		gl.Uniform4i(loc, v[0], v[1], v[2], v[3])
	}
}

func (GL) UniformMatrix4f(loc int32, m *[16]float32) { gl.UniformMatrix4fv(loc, 1, false, &m[0]) }

func (GL) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (GL) Clear(mask uint32) { gl.Clear(mask) }

func (GL) Enable(capability uint32) { gl.Enable(capability) }

func (GL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (GL) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	gl.DrawElementsWithOffset(mode, count, xtype, uintptr(offset))
}
