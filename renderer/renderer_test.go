package renderer_test

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v39engine/v39/renderer"
	"github.com/v39engine/v39/renderer/gltest"
)

const vertSrc = `#version 330 core
layout (location = 0) in vec3 pos;
uniform mat4 model;
uniform mat4 view;
uniform mat4 proj;
void main() { gl_Position = proj * view * model * vec4(pos, 1.0); }
`

const fragSrc = `#version 330 core
out vec4 color;
uniform sampler2D tex;
uniform float time;
void main() { color = texture(tex, vec2(time)); }
`

type fixture struct {
	r   *renderer.Renderer
	gl  *gltest.GL
	ctx *gltest.Context
	dec *gltest.Decoder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := &gltest.Context{}
	gl := gltest.New(ctx)
	dec := &gltest.Decoder{Images: map[string]renderer.Image{}}
	r, err := renderer.New(ctx, gl, renderer.Options{
		Decoder: dec,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Width:   800,
		Height:  600,
	})
	require.NoError(t, err)
	return &fixture{r: r, gl: gl, ctx: ctx, dec: dec}
}

// quad is four position+color vertices and the six indices of two triangles.
func quad() ([]float32, []uint32) {
	vertices := []float32{
		-1, -1, 0, 1, 0, 0,
		1, -1, 0, 0, 1, 0,
		1, 1, 0, 0, 0, 1,
		-1, 1, 0, 1, 1, 1,
	}
	indices := []uint32{
		0, 1, 2,
		2, 3, 0,
	}
	return vertices, indices
}

func (f *fixture) shader(t *testing.T) (renderer.ShaderID, *renderer.Shader) {
	t.Helper()
	s, err := f.r.NewShader(
		renderer.ShaderSource{Name: "basic.vert", Source: vertSrc, Kind: renderer.VertexShader},
		renderer.ShaderSource{Name: "basic.frag", Source: fragSrc, Kind: renderer.FragmentShader},
	)
	require.NoError(t, err)
	return f.r.AddShader(s), s
}

func TestNew(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.gl.Enabled[renderer.DepthTest])
	assert.Equal(t, [4]int32{0, 0, 800, 600}, f.gl.ViewportRect)
	assert.InDelta(t, 800.0/600.0, f.r.Camera().Aspect(), 1e-6)
}

func TestLoadDoesNotReplace(t *testing.T) {
	f := newFixture(t)
	data, _ := quad()
	first, err := f.r.NewVbo(data, renderer.StaticDraw, renderer.PositionColor(3, 3))
	require.NoError(t, err)
	second, err := f.r.NewVbo(data, renderer.StaticDraw, renderer.PositionColor(3, 3))
	require.NoError(t, err)

	assert.True(t, f.r.LoadVbo(5, first))
	assert.False(t, f.r.LoadVbo(5, second))

	ref := f.r.GetVbo(5)
	require.NotNil(t, ref)
	defer ref.Release()
	assert.Same(t, first, ref.Value())
	// The rejected buffer is untouched and still belongs to the caller.
	assert.Contains(t, f.gl.Buffers, second.Buffer())
}

func TestUnload(t *testing.T) {
	f := newFixture(t)
	_, indices := quad()
	ebo, err := f.r.NewEbo(indices, renderer.StaticDraw)
	require.NoError(t, err)

	require.True(t, f.r.LoadEbo(3, ebo))
	assert.True(t, f.r.IsEboLoaded(3))
	assert.True(t, f.r.UnloadEbo(3))
	assert.False(t, f.r.IsEboLoaded(3))
	assert.False(t, f.r.UnloadEbo(3))
	assert.NotContains(t, f.gl.Buffers, ebo.Buffer())
	assert.Nil(t, f.r.GetEbo(3))
	assert.False(t, f.r.UseEbo(3))
}

func TestRefOutlivesRegistryEntry(t *testing.T) {
	f := newFixture(t)
	data, _ := quad()
	vbo, err := f.r.NewVbo(data, renderer.StaticDraw, renderer.PositionColor(3, 3))
	require.NoError(t, err)
	require.True(t, f.r.LoadVbo(1, vbo))

	a := f.r.GetVbo(1)
	b := a.Clone()
	assert.Equal(t, 3, a.Count())

	require.True(t, f.r.UnloadVbo(1))
	assert.Contains(t, f.gl.Buffers, vbo.Buffer())

	a.Release()
	a.Release()
	assert.Contains(t, f.gl.Buffers, vbo.Buffer(), "double release counts once")

	b.Release()
	assert.NotContains(t, f.gl.Buffers, vbo.Buffer())
}

func TestVaoBindsBuffers(t *testing.T) {
	f := newFixture(t)
	data, indices := quad()
	vbo, err := f.r.NewVbo(data, renderer.StaticDraw, renderer.PositionColor(3, 3))
	require.NoError(t, err)
	assert.Equal(t, 4, vbo.Vertices())
	ebo, err := f.r.NewEbo(indices, renderer.StaticDraw)
	require.NoError(t, err)
	require.True(t, f.r.LoadVbo(5, vbo))
	require.True(t, f.r.LoadEbo(5, ebo))

	vao, err := f.r.NewVao(5, 5)
	require.NoError(t, err)
	require.True(t, f.r.LoadVao(5, vao))

	count, ok := f.r.UseVao(5)
	require.True(t, ok)
	assert.Equal(t, uint32(6), count)
	assert.Equal(t, vao.Array(), f.gl.VertexArray)
	assert.Equal(t, vbo.Buffer(), f.gl.Bound[renderer.ArrayBuffer])
	assert.Equal(t, ebo.Buffer(), f.gl.Bound[renderer.ElementArrayBuffer])

	va := f.gl.VertexArrays[vao.Array()]
	require.NotNil(t, va)
	assert.Equal(t, vbo.Buffer(), va.ArrayBuffer)
	assert.Equal(t, ebo.Buffer(), va.ElementBuffer)
	assert.Equal(t, map[uint32]gltest.Attrib{
		0: {Enabled: true, Size: 3, Type: renderer.TypeFloat, Stride: 24, Offset: 0},
		1: {Enabled: true, Size: 3, Type: renderer.TypeFloat, Stride: 24, Offset: 12},
	}, va.Attribs)

	f.r.ClearVao()
	assert.Zero(t, f.gl.VertexArray)
}

func TestVaoMissingBuffers(t *testing.T) {
	f := newFixture(t)
	_, err := f.r.NewVao(42, 42)
	assert.ErrorIs(t, err, renderer.ErrNotLoaded)
	assert.ErrorIs(t, err, renderer.ErrRenderer)

	_, ok := f.r.UseVao(42)
	assert.False(t, ok)
}

func TestVaoKeepsBuffersAlive(t *testing.T) {
	f := newFixture(t)
	data, indices := quad()
	vbo, err := f.r.NewVbo(data, renderer.StaticDraw, renderer.PositionColor(3, 3))
	require.NoError(t, err)
	ebo, err := f.r.NewEbo(indices, renderer.StaticDraw)
	require.NoError(t, err)
	require.True(t, f.r.LoadVbo(7, vbo))
	require.True(t, f.r.LoadEbo(7, ebo))
	vao, err := f.r.NewVao(7, 7)
	require.NoError(t, err)
	require.True(t, f.r.LoadVao(7, vao))

	f.r.UnloadVbo(7)
	f.r.UnloadEbo(7)
	assert.Contains(t, f.gl.Buffers, vbo.Buffer())
	assert.Contains(t, f.gl.Buffers, ebo.Buffer())

	f.r.UnloadVao(7)
	assert.Zero(t, f.gl.Live())
}

func TestFormatAttributes(t *testing.T) {
	tests := []struct {
		name   string
		format renderer.VboFormat
		want   []renderer.Attribute
	}{
		{"position", renderer.Position(3), []renderer.Attribute{
			{Index: 0, Size: 3, Stride: 12, Offset: 0},
		}},
		{"position color", renderer.PositionColor(3, 4), []renderer.Attribute{
			{Index: 0, Size: 3, Stride: 28, Offset: 0},
			{Index: 1, Size: 4, Stride: 28, Offset: 12},
		}},
		{"position coords", renderer.PositionCoords(3, 2), []renderer.Attribute{
			{Index: 0, Size: 3, Stride: 20, Offset: 0},
			{Index: 1, Size: 2, Stride: 20, Offset: 12},
		}},
		{"position color coords", renderer.PositionColorCoords(3, 3, 2), []renderer.Attribute{
			{Index: 0, Size: 3, Stride: 32, Offset: 0},
			{Index: 1, Size: 3, Stride: 32, Offset: 12},
			{Index: 2, Size: 2, Stride: 32, Offset: 24},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.Attributes())
		})
	}
}

func TestVboRejectsBadData(t *testing.T) {
	f := newFixture(t)
	_, err := f.r.NewVbo([]float32{1, 2, 3, 4}, renderer.StaticDraw, renderer.PositionColor(3, 3))
	assert.ErrorIs(t, err, renderer.ErrRenderer)
	_, err = f.r.NewVbo(nil, renderer.StaticDraw, renderer.VboFormat{Color: 3})
	assert.ErrorIs(t, err, renderer.ErrRenderer)
	assert.Zero(t, f.gl.Live())
}

func TestCreateFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("out of memory")
	f.gl.CreateErr = boom
	_, err := f.r.NewEbo([]uint32{0, 1, 2}, renderer.StaticDraw)
	var glErr *renderer.GLError
	require.ErrorAs(t, err, &glErr)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, renderer.ErrRenderer)
}

func TestMakeCurrentFailure(t *testing.T) {
	f := newFixture(t)
	f.ctx.Fail = errors.New("context lost")
	_, err := f.r.NewTexture(make([]byte, 4), 1, 1)
	assert.ErrorIs(t, err, renderer.ErrRenderer)
	assert.ErrorIs(t, err, f.ctx.Fail)
}

func TestConcurrentIDs(t *testing.T) {
	const n = 1000
	var (
		wg       sync.WaitGroup
		models   = make([]renderer.ModelID, n)
		shaders  = make([]renderer.ShaderID, n)
		textures = make([]renderer.TextureID, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			models[i] = renderer.NewModelID()
			shaders[i] = renderer.NewShaderID()
			textures[i] = renderer.NewTextureID()
		}(i)
	}
	wg.Wait()

	assertDistinct(t, models)
	assertDistinct(t, shaders)
	assertDistinct(t, textures)
}

func assertDistinct[T comparable](t *testing.T, ids []T) {
	t.Helper()
	seen := make(map[T]bool, len(ids))
	var zero T
	for _, id := range ids {
		assert.NotEqual(t, zero, id)
		assert.False(t, seen[id], "id %v handed out twice", id)
		seen[id] = true
	}
}

func TestShaderCompileError(t *testing.T) {
	f := newFixture(t)
	_, err := f.r.NewShader(
		renderer.ShaderSource{Name: "basic.vert", Source: vertSrc, Kind: renderer.VertexShader},
		renderer.ShaderSource{Name: "broken.frag", Source: "void main() {\n#error nope\n}", Kind: renderer.FragmentShader},
	)
	var se *renderer.ShaderError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "broken.frag", se.Name)
	assert.Contains(t, se.Log, "0:2")
	assert.ErrorIs(t, err, renderer.ErrRenderer)
	assert.Zero(t, f.gl.Live(), "program and stages are deleted")
}

func TestSetUniform(t *testing.T) {
	f := newFixture(t)
	id, s := f.shader(t)

	assert.True(t, s.SetUniform("time", renderer.Float(1.5)))
	v, ok := f.gl.Uniform(s.Program(), "time")
	require.True(t, ok)
	assert.Equal(t, []float32{1.5}, v)

	assert.True(t, f.r.SetUniform(id, "model", renderer.Mat4(mgl32.Ident4())))
	v, _ = f.gl.Uniform(s.Program(), "model")
	assert.Equal(t, [16]float32(mgl32.Ident4()), v)

	assert.False(t, s.SetUniform("missing", renderer.IVec2{1, 2}))
	assert.False(t, f.r.SetUniform(renderer.NewShaderID(), "time", renderer.Float(0)))

	assert.True(t, f.r.UseShader(id))
	assert.Equal(t, s.Program(), f.gl.Program)
	f.r.ClearShader()
	assert.Zero(t, f.gl.Program)
}

func TestTextures(t *testing.T) {
	f := newFixture(t)
	sid, s := f.shader(t)

	f.dec.Images["dog.png"] = renderer.Image{Pix: make([]byte, 2*3*4), Width: 2, Height: 3}
	tex, err := f.r.TextureFromFile("dog.png")
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Width())
	assert.Equal(t, 3, tex.Height())
	rec := f.gl.Textures[tex.Name()]
	assert.Equal(t, int32(2), rec.Width)
	assert.True(t, rec.Mipmaps)

	require.NoError(t, tex.SetParams(
		renderer.TexParam{Name: renderer.TextureMinFilter, Value: renderer.TexInt(renderer.Nearest)},
		renderer.TexParam{Name: renderer.TextureBorderColor, Value: renderer.TexFloats{1, 0, 0, 1}},
	))
	assert.Equal(t, int32(renderer.Nearest), rec.Params[renderer.TextureMinFilter])
	assert.Equal(t, []float32{1, 0, 0, 1}, rec.Params[renderer.TextureBorderColor])

	id := f.r.AddTexture(tex)
	assert.True(t, f.r.IsTextureLoaded(id))
	assert.True(t, f.r.UseTexture(id, renderer.Texture0+2, sid, "tex"))
	assert.Equal(t, tex.Name(), f.gl.Texture[renderer.Texture0+2])
	v, _ := f.gl.Uniform(s.Program(), "tex")
	assert.Equal(t, []int32{2}, v)

	assert.False(t, f.r.UseTexture(id, renderer.Texture0, sid, "nosuchsampler"))
	assert.False(t, f.r.UseTexture(renderer.NewTextureID(), renderer.Texture0, sid, "tex"))

	_, err = f.r.TextureFromFile("cat.png")
	assert.ErrorIs(t, err, gltest.ErrDecode)
	_, err = f.r.NewTexture(make([]byte, 3), 1, 1)
	assert.ErrorIs(t, err, renderer.ErrRenderer)
}

func TestTextureUnitOutOfRange(t *testing.T) {
	f := newFixture(t)
	sid, s := f.shader(t)
	tex, err := f.r.NewTexture(make([]byte, 4), 1, 1)
	require.NoError(t, err)
	id := f.r.AddTexture(tex)
	bound := map[uint32]uint32{}
	for unit, name := range f.gl.Texture {
		bound[unit] = name
	}

	for _, unit := range []uint32{0, 2, renderer.Texture0 + renderer.MaxTextureUnits} {
		assert.False(t, f.r.UseTexture(id, unit, sid, "tex"), "unit %#x", unit)
	}
	_, set := f.gl.Uniform(s.Program(), "tex")
	assert.False(t, set, "no sampler value may be uploaded for a bad unit")
	assert.Equal(t, bound, f.gl.Texture)

	data, indices := quad()
	_, err = f.r.NewModel(renderer.ModelDesc{
		Vertices: data,
		Format:   renderer.PositionColor(3, 3),
		Indices:  indices,
		Shader:   sid,
		Textures: []renderer.TextureBinding{{Texture: id, Unit: 1, Sampler: "tex"}},
	})
	assert.ErrorIs(t, err, renderer.ErrRenderer)
	// Only the shader program and the texture exist; no buffers leaked.
	assert.Equal(t, 2, f.gl.Live())
}

func TestTextureWithoutDecoder(t *testing.T) {
	ctx := &gltest.Context{}
	r, err := renderer.New(ctx, gltest.New(ctx), renderer.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	_, err = r.TextureFromBytes([]byte("png"))
	assert.ErrorIs(t, err, renderer.ErrNoDecoder)
}

func TestModelDraw(t *testing.T) {
	f := newFixture(t)
	sid, s := f.shader(t)
	tex, err := f.r.NewTexture(make([]byte, 4), 1, 1)
	require.NoError(t, err)
	tid := f.r.AddTexture(tex)

	data, indices := quad()
	m, err := f.r.NewModel(renderer.ModelDesc{
		Vertices: data,
		Format:   renderer.PositionColor(3, 3),
		Indices:  indices,
		Shader:   sid,
		Textures: []renderer.TextureBinding{{Texture: tid, Unit: renderer.Texture0 + 1, Sampler: "tex"}},
	})
	require.NoError(t, err)
	require.True(t, f.r.LoadModel(m))
	assert.False(t, f.r.LoadModel(m))
	assert.Equal(t, mgl32.Ident4(), m.GetTransform())

	m.Transform(func(cur mgl32.Mat4) mgl32.Mat4 { return cur.Mul4(mgl32.Translate3D(1, 2, 3)) })
	require.True(t, f.r.DrawModel(m.ID()))

	require.Len(t, f.gl.Draws, 1)
	d := f.gl.Draws[0]
	assert.Equal(t, int32(6), d.Count)
	assert.Equal(t, uint32(renderer.Triangles), d.Mode)
	assert.Equal(t, s.Program(), d.Program)

	v, _ := f.gl.Uniform(s.Program(), "model")
	assert.Equal(t, [16]float32(mgl32.Translate3D(1, 2, 3)), v)
	v, _ = f.gl.Uniform(s.Program(), "proj")
	assert.Equal(t, [16]float32(f.r.Camera().Proj()), v)
	v, _ = f.gl.Uniform(s.Program(), "tex")
	assert.Equal(t, []int32{1}, v)
	assert.Equal(t, tex.Name(), f.gl.Texture[renderer.Texture0+1])

	require.True(t, f.r.UnloadModel(m.ID()))
	assert.False(t, f.r.DrawModel(m.ID()))
	// Only the shader program and the texture remain.
	assert.Equal(t, 2, f.gl.Live())
}

func TestModelWithoutShader(t *testing.T) {
	f := newFixture(t)
	data, indices := quad()
	m, err := f.r.NewModel(renderer.ModelDesc{
		Vertices: data,
		Format:   renderer.PositionColor(3, 3),
		Indices:  indices,
		Shader:   renderer.NewShaderID(),
	})
	require.NoError(t, err)
	require.True(t, f.r.LoadModel(m))
	assert.False(t, f.r.DrawModel(m.ID()))
	assert.Empty(t, f.gl.Draws)
}

func TestCamera(t *testing.T) {
	c := renderer.NewCamera()
	assert.Equal(t, mgl32.Perspective(renderer.DefaultFov, 1, renderer.DefaultNear, renderer.DefaultFar), c.Proj())

	c.SetAspect(0)
	assert.Equal(t, float32(1), c.Aspect())

	c.TransformView(func(v mgl32.Mat4) mgl32.Mat4 { return mgl32.Ident4() })
	assert.Equal(t, mgl32.Ident4(), c.View())

	f := newFixture(t)
	f.r.SetCamera(c)
	assert.InDelta(t, 800.0/600.0, c.Aspect(), 1e-6)
	require.NoError(t, f.r.WindowResize(1600, 900))
	assert.InDelta(t, 16.0/9.0, c.Aspect(), 1e-6)
	assert.Equal(t, [4]int32{0, 0, 1600, 900}, f.gl.ViewportRect)
	assert.Equal(t, mgl32.Perspective(renderer.DefaultFov, 16.0/9.0, renderer.DefaultNear, renderer.DefaultFar), c.Proj())
}

func TestFrame(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.FrameBegin())
	assert.Equal(t, renderer.DefaultClearColor, f.gl.ClearValue)
	assert.Equal(t, []uint32{renderer.ColorBufferBit | renderer.DepthBufferBit}, f.gl.Cleared)
	require.NoError(t, f.r.FrameEnd())
	assert.Equal(t, int32(1), f.ctx.Swaps.Load())
}

func TestExecGLSerialized(t *testing.T) {
	f := newFixture(t)
	data, indices := quad()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := renderer.ModelID(100 + i)
			vbo, err := f.r.NewVbo(data, renderer.DynamicDraw, renderer.PositionColor(3, 3))
			if !assert.NoError(t, err) {
				return
			}
			ebo, err := f.r.NewEbo(indices, renderer.DynamicDraw)
			if !assert.NoError(t, err) {
				return
			}
			f.r.LoadVbo(id, vbo)
			f.r.LoadEbo(id, ebo)
			vao, err := f.r.NewVao(id, id)
			if !assert.NoError(t, err) {
				return
			}
			f.r.LoadVao(id, vao)
			f.r.UseVao(id)
			f.r.UnloadVao(id)
			f.r.UnloadVbo(id)
			f.r.UnloadEbo(id)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, f.ctx.Overlaps.Load())
	assert.Zero(t, f.gl.NotCurrent)
	assert.Equal(t, f.ctx.Acquired.Load(), f.ctx.Released.Load())
	assert.Zero(t, f.gl.Live())
}

func TestDestroy(t *testing.T) {
	f := newFixture(t)
	f.shader(t)
	data, indices := quad()
	m, err := f.r.NewModel(renderer.ModelDesc{Vertices: data, Format: renderer.PositionColor(3, 3), Indices: indices})
	require.NoError(t, err)
	f.r.LoadModel(m)
	tex, err := f.r.NewTexture(make([]byte, 4), 1, 1)
	require.NoError(t, err)
	f.r.AddTexture(tex)

	f.r.Destroy()
	assert.Zero(t, f.gl.Live())
	assert.False(t, f.r.IsModelLoaded(m.ID()))
}

func TestTextTexture(t *testing.T) {
	f := newFixture(t)
	tex, err := f.r.NewTextTexture("font.ttf", 12, "hello", color.RGBA{R: 255, A: 255})
	require.NoError(t, err)
	assert.Equal(t, 5, tex.Width())
	assert.Equal(t, 1, tex.Height())
}

func TestCheckShaderDir(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("basic.vert", vertSrc)
	write("basic.frag", fragSrc)
	write("broken.frag", "#error missing semicolon")
	write("notes.txt", "#error not a shader")

	failures, err := f.r.CheckShaderDir(dir)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "broken.frag", failures[0].Name)
	assert.Zero(t, f.gl.Live())

	_, err = f.r.CheckShaderDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
