// Package gltest provides in-memory stand-ins for the collaborators of the
// renderer: a GL that records the objects and state it is asked to create,
// a Context that detects overlapping use, and a Decoder.
//
// The fakes are not safe for concurrent use on their own; the renderer
// serializes all calls. Inspect their state after the renderer calls return.
package gltest

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"sync/atomic"

	"github.com/v39engine/v39/renderer"
)

// Context is a fake renderer.Context.
type Context struct {
	current  atomic.Bool
	Acquired atomic.Int32
	Released atomic.Int32
	Swaps    atomic.Int32
	// Overlaps counts MakeCurrent calls while the context was current.
	Overlaps atomic.Int32
	// Fail makes MakeCurrent return it.
	Fail error
}

var _ renderer.Context = (*Context)(nil)

func (c *Context) MakeCurrent() error {
	if c.Fail != nil {
		return c.Fail
	}
	if c.current.Swap(true) {
		c.Overlaps.Add(1)
	}
	c.Acquired.Add(1)
	return nil
}

func (c *Context) MakeNotCurrent() error {
	c.current.Store(false)
	c.Released.Add(1)
	return nil
}

func (c *Context) SwapBuffers() { c.Swaps.Add(1) }

// Current reports whether the context is current.
func (c *Context) Current() bool { return c.current.Load() }

// VertexArray is the recorded state of a vertex array object.
type VertexArray struct {
	ArrayBuffer   uint32
	ElementBuffer uint32
	Attribs       map[uint32]Attrib
}

// Attrib is a recorded vertex attribute pointer.
type Attrib struct {
	Enabled bool
	Size    int32
	Type    uint32
	Stride  int32
	Offset  int
}

// Texture is the recorded state of a texture object.
type Texture struct {
	Width, Height int32
	Pixels        []byte
	Mipmaps       bool
	Params        map[uint32]any
}

// Shader is a recorded shader object.
type Shader struct {
	Kind     uint32
	Source   string
	Compiled bool
}

// Program is a recorded program object.
type Program struct {
	Sources []string
	Linked  bool
}

// Uniform identifies a uniform of a program.
type Uniform struct {
	Program uint32
	Name    string
}

// Draw is a recorded DrawElements call with the state it was issued in.
type Draw struct {
	Mode        uint32
	Count       int32
	Program     uint32
	VertexArray uint32
}

// GL is a fake renderer.GL. A shader compiles unless its source contains
// "#error". A uniform exists if a line of an attached source declares it,
// like "uniform mat4 model;".
type GL struct {
	// Ctx, if set, is checked to be current on every call.
	Ctx *Context
	// CreateErr makes all Create* calls fail.
	CreateErr error

	next uint32

	Buffers      map[uint32][]byte
	VertexArrays map[uint32]*VertexArray
	Textures     map[uint32]*Texture
	Shaders      map[uint32]*Shader
	Programs     map[uint32]*Program

	// Bound state.
	Bound       map[uint32]uint32
	VertexArray uint32
	Texture     map[uint32]uint32
	ActiveUnit  uint32
	Program     uint32

	locs     map[int32]Uniform
	Uniforms map[Uniform]any

	Enabled      map[uint32]bool
	ClearValue   [4]float32
	Cleared      []uint32
	ViewportRect [4]int32
	Draws        []Draw
	Deleted      int
	// NotCurrent counts calls made without the context being current.
	NotCurrent int
}

var _ renderer.GL = (*GL)(nil)

// New returns a GL checking ctx, which may be nil.
func New(ctx *Context) *GL {
	return &GL{
		Ctx:          ctx,
		Buffers:      map[uint32][]byte{},
		VertexArrays: map[uint32]*VertexArray{},
		Textures:     map[uint32]*Texture{},
		Shaders:      map[uint32]*Shader{},
		Programs:     map[uint32]*Program{},
		Bound:        map[uint32]uint32{},
		Texture:      map[uint32]uint32{},
		ActiveUnit:   renderer.Texture0,
		locs:         map[int32]Uniform{},
		Uniforms:     map[Uniform]any{},
		Enabled:      map[uint32]bool{},
	}
}

func (g *GL) check() {
	if g.Ctx != nil && !g.Ctx.Current() {
		g.NotCurrent++
	}
}

func (g *GL) create() (uint32, error) {
	g.check()
	if g.CreateErr != nil {
		return 0, g.CreateErr
	}
	g.next++
	return g.next, nil
}

// Live returns the number of GL objects not yet deleted.
func (g *GL) Live() int {
	return len(g.Buffers) + len(g.VertexArrays) + len(g.Textures) + len(g.Shaders) + len(g.Programs)
}

func (g *GL) CreateBuffer() (uint32, error) {
	id, err := g.create()
	if err == nil {
		g.Buffers[id] = nil
	}
	return id, err
}

func (g *GL) DeleteBuffer(buf uint32) {
	g.check()
	if _, ok := g.Buffers[buf]; ok {
		delete(g.Buffers, buf)
		g.Deleted++
	}
}

func (g *GL) BindBuffer(target, buf uint32) {
	g.check()
	g.Bound[target] = buf
	if va := g.VertexArrays[g.VertexArray]; va != nil && target == renderer.ElementArrayBuffer {
		va.ElementBuffer = buf
	}
}

func (g *GL) BufferData(target uint32, data []byte, usage uint32) {
	g.check()
	g.Buffers[g.Bound[target]] = append([]byte(nil), data...)
}

func (g *GL) CreateVertexArray() (uint32, error) {
	id, err := g.create()
	if err == nil {
		g.VertexArrays[id] = &VertexArray{Attribs: map[uint32]Attrib{}}
	}
	return id, err
}

func (g *GL) DeleteVertexArray(vao uint32) {
	g.check()
	if _, ok := g.VertexArrays[vao]; ok {
		delete(g.VertexArrays, vao)
		g.Deleted++
	}
}

func (g *GL) BindVertexArray(vao uint32) {
	g.check()
	g.VertexArray = vao
}

func (g *GL) EnableVertexAttribArray(index uint32) {
	g.check()
	va := g.VertexArrays[g.VertexArray]
	a := va.Attribs[index]
	a.Enabled = true
	va.Attribs[index] = a
}

func (g *GL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	g.check()
	va := g.VertexArrays[g.VertexArray]
	va.ArrayBuffer = g.Bound[renderer.ArrayBuffer]
	a := va.Attribs[index]
	a.Size, a.Type, a.Stride, a.Offset = size, xtype, stride, offset
	va.Attribs[index] = a
}

func (g *GL) CreateTexture() (uint32, error) {
	id, err := g.create()
	if err == nil {
		g.Textures[id] = &Texture{Params: map[uint32]any{}}
	}
	return id, err
}

func (g *GL) DeleteTexture(tex uint32) {
	g.check()
	if _, ok := g.Textures[tex]; ok {
		delete(g.Textures, tex)
		g.Deleted++
	}
}

func (g *GL) BindTexture(target, tex uint32) {
	g.check()
	g.Texture[g.ActiveUnit] = tex
}

func (g *GL) ActiveTexture(unit uint32) {
	g.check()
	g.ActiveUnit = unit
}

func (g *GL) bound() *Texture { return g.Textures[g.Texture[g.ActiveUnit]] }

func (g *GL) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	g.check()
	t := g.bound()
	t.Width, t.Height = width, height
	t.Pixels = append([]byte(nil), pixels...)
}

func (g *GL) GenerateMipmap(target uint32) {
	g.check()
	g.bound().Mipmaps = true
}

func (g *GL) TexParameteri(target, pname uint32, param int32) {
	g.check()
	g.bound().Params[pname] = param
}

func (g *GL) TexParameterf(target, pname uint32, param float32) {
	g.check()
	g.bound().Params[pname] = param
}

func (g *GL) TexParameteriv(target, pname uint32, params []int32) {
	g.check()
	g.bound().Params[pname] = append([]int32(nil), params...)
}

func (g *GL) TexParameterfv(target, pname uint32, params []float32) {
	g.check()
	g.bound().Params[pname] = append([]float32(nil), params...)
}

func (g *GL) CreateShader(kind uint32) (uint32, error) {
	id, err := g.create()
	if err == nil {
		g.Shaders[id] = &Shader{Kind: kind}
	}
	return id, err
}

func (g *GL) ShaderSource(shader uint32, source string) {
	g.check()
	g.Shaders[shader].Source = source
}

func (g *GL) CompileShader(shader uint32) {
	g.check()
	s := g.Shaders[shader]
	s.Compiled = !strings.Contains(s.Source, "#error")
}

func (g *GL) ShaderCompileStatus(shader uint32) bool {
	g.check()
	return g.Shaders[shader].Compiled
}

func (g *GL) ShaderInfoLog(shader uint32) string {
	g.check()
	s := g.Shaders[shader]
	if s.Compiled {
		return ""
	}
	for i, line := range strings.Split(s.Source, "\n") {
		if strings.Contains(line, "#error") {
			return fmt.Sprintf("ERROR: 0:%d: %s", i+1, strings.TrimSpace(line))
		}
	}
	return "ERROR"
}

func (g *GL) DeleteShader(shader uint32) {
	g.check()
	if _, ok := g.Shaders[shader]; ok {
		delete(g.Shaders, shader)
		g.Deleted++
	}
}

func (g *GL) CreateProgram() (uint32, error) {
	id, err := g.create()
	if err == nil {
		g.Programs[id] = &Program{}
	}
	return id, err
}

func (g *GL) AttachShader(program, shader uint32) {
	g.check()
	p := g.Programs[program]
	p.Sources = append(p.Sources, g.Shaders[shader].Source)
}

func (g *GL) DetachShader(program, shader uint32) { g.check() }

func (g *GL) LinkProgram(program uint32) {
	g.check()
	p := g.Programs[program]
	p.Linked = len(p.Sources) > 0
}

func (g *GL) ProgramLinkStatus(program uint32) bool {
	g.check()
	return g.Programs[program].Linked
}

func (g *GL) ProgramInfoLog(program uint32) string {
	g.check()
	if g.Programs[program].Linked {
		return ""
	}
	return "no shaders attached"
}

func (g *GL) UseProgram(program uint32) {
	g.check()
	g.Program = program
}

func (g *GL) DeleteProgram(program uint32) {
	g.check()
	if _, ok := g.Programs[program]; ok {
		delete(g.Programs, program)
		g.Deleted++
	}
}

func (g *GL) UniformLocation(program uint32, name string) (int32, bool) {
	g.check()
	p, ok := g.Programs[program]
	if !ok {
		return 0, false
	}
	for _, src := range p.Sources {
		if declares(src, name) {
			loc := int32(len(g.locs))
			for l, u := range g.locs {
				if u == (Uniform{program, name}) {
					return l, true
				}
			}
			g.locs[loc] = Uniform{program, name}
			return loc, true
		}
	}
	return 0, false
}

func declares(src, name string) bool {
	for _, line := range strings.Split(src, "\n") {
		f := strings.Fields(strings.TrimSpace(line))
		if len(f) >= 3 && f[0] == "uniform" && strings.TrimSuffix(f[len(f)-1], ";") == name {
			return true
		}
	}
	return false
}

func (g *GL) Uniformf(loc int32, v ...float32) {
	g.check()
	g.Uniforms[g.locs[loc]] = append([]float32(nil), v...)
}

func (g *GL) Uniformui(loc int32, v ...uint32) {
	g.check()
	g.Uniforms[g.locs[loc]] = append([]uint32(nil), v...)
}

func (g *GL) Uniformi(loc int32, v ...int32) {
	g.check()
	g.Uniforms[g.locs[loc]] = append([]int32(nil), v...)
}

func (g *GL) UniformMatrix4f(loc int32, m *[16]float32) {
	g.check()
	g.Uniforms[g.locs[loc]] = *m
}

// Uniform returns the last value uploaded to the named uniform of program.
func (g *GL) Uniform(program uint32, name string) (any, bool) {
	v, ok := g.Uniforms[Uniform{program, name}]
	return v, ok
}

func (g *GL) ClearColor(r, gr, b, a float32) {
	g.check()
	g.ClearValue = [4]float32{r, gr, b, a}
}

func (g *GL) Clear(mask uint32) {
	g.check()
	g.Cleared = append(g.Cleared, mask)
}

func (g *GL) Enable(capability uint32) {
	g.check()
	g.Enabled[capability] = true
}

func (g *GL) Viewport(x, y, width, height int32) {
	g.check()
	g.ViewportRect = [4]int32{x, y, width, height}
}

func (g *GL) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	g.check()
	g.Draws = append(g.Draws, Draw{Mode: mode, Count: count, Program: g.Program, VertexArray: g.VertexArray})
}

// ErrDecode is returned by Decoder for input it does not know.
var ErrDecode = errors.New("gltest: cannot decode")

// Decoder is a fake renderer.Decoder serving fixed images by content or path.
// It also implements renderer.TextRasterizer, rendering each rune as a
// 1x1 pixel of the requested color.
type Decoder struct {
	Images map[string]renderer.Image
}

var (
	_ renderer.Decoder        = (*Decoder)(nil)
	_ renderer.TextRasterizer = (*Decoder)(nil)
)

func (d *Decoder) Decode(data []byte) (renderer.Image, error) {
	return d.DecodeFile(string(data))
}

func (d *Decoder) DecodeFile(path string) (renderer.Image, error) {
	img, ok := d.Images[path]
	if !ok {
		return renderer.Image{}, fmt.Errorf("%w: %q", ErrDecode, path)
	}
	return img, nil
}

func (d *Decoder) RasterizeText(font string, size int, text string, c color.RGBA) (renderer.Image, error) {
	n := len([]rune(text))
	if n == 0 {
		return renderer.Image{}, fmt.Errorf("%w: empty text", ErrDecode)
	}
	pix := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		pix = append(pix, c.R, c.G, c.B, c.A)
	}
	return renderer.Image{Pix: pix, Width: n, Height: 1}, nil
}
