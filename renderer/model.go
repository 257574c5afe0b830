package renderer

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// TextureBinding attaches a texture to a model: it is bound to Unit
// (Texture0 + n) and the shader's Sampler uniform set accordingly.
type TextureBinding struct {
	Texture TextureID
	Unit    uint32
	Sampler string
}

// ModelDesc describes the geometry and material of a new model.
type ModelDesc struct {
	Vertices []float32
	Format   VboFormat
	Indices  []uint32
	// Usage defaults to StaticDraw.
	Usage    uint32
	Shader   ShaderID
	Textures []TextureBinding
}

// Model is an indexed mesh drawn with a shader and textures. It owns its
// vertex, element and vertex array buffers.
type Model struct {
	id       ModelID
	vao      *Vao
	shader   ShaderID
	textures []TextureBinding

	mu        sync.RWMutex
	transform mgl32.Mat4
}

// NewModel uploads the geometry of d and assigns the model a fresh id. The
// transform starts as identity.
func (r *Renderer) NewModel(d ModelDesc) (*Model, error) {
	for _, b := range d.Textures {
		if _, ok := samplerValue(b.Unit); !ok {
			return nil, fmt.Errorf("%w: texture unit %#x of sampler %q is not Texture0 + n", ErrRenderer, b.Unit, b.Sampler)
		}
	}
	usage := d.Usage
	if usage == 0 {
		usage = StaticDraw
	}
	vbo, err := r.NewVbo(d.Vertices, usage, d.Format)
	if err != nil {
		return nil, err
	}
	ebo, err := r.NewEbo(d.Indices, usage)
	if err != nil {
		vbo.destroy()
		return nil, err
	}
	vref, eref := newRef(vbo), newRef(ebo)
	vao, err := r.newVao(vref, eref)
	if err != nil {
		vref.Release()
		eref.Release()
		return nil, err
	}
	return &Model{
		id:        NewModelID(),
		vao:       vao,
		shader:    d.Shader,
		textures:  append([]TextureBinding(nil), d.Textures...),
		transform: mgl32.Ident4(),
	}, nil
}

// ID returns the id the model is loaded under.
func (m *Model) ID() ModelID { return m.id }

// Shader returns the id of the model's shader.
func (m *Model) Shader() ShaderID { return m.shader }

// Textures returns the model's texture bindings.
func (m *Model) Textures() []TextureBinding {
	return append([]TextureBinding(nil), m.textures...)
}

// Count returns the number of elements drawn.
func (m *Model) Count() uint32 { return m.vao.Count() }

// Transform replaces the model matrix with f(current).
func (m *Model) Transform(f func(mgl32.Mat4) mgl32.Mat4) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transform = f(m.transform)
}

// GetTransform returns the model matrix.
func (m *Model) GetTransform() mgl32.Mat4 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transform
}

func (m *Model) destroy() { m.vao.destroy() }

// LoadModel registers m under m.ID(). It returns false if that id is taken.
func (r *Renderer) LoadModel(m *Model) bool { return r.models.load(m.id, m) }

// UnloadModel removes the model. Its buffers are deleted once no reference
// to it remains.
func (r *Renderer) UnloadModel(id ModelID) bool { return r.models.unload(id) }

// GetModel returns a reference to the model, or nil. Release it when done.
func (r *Renderer) GetModel(id ModelID) *Ref[*Model] { return r.models.get(id) }

// IsModelLoaded reports whether id is loaded.
func (r *Renderer) IsModelLoaded(id ModelID) bool { return r.models.loaded(id) }

// UseModel prepares drawing the model: it activates the model's shader,
// uploads the model, view and proj uniforms, binds its vertex array and
// textures. It returns the element count for the draw call.
func (r *Renderer) UseModel(id ModelID) (uint32, bool) {
	mref := r.models.get(id)
	if mref == nil {
		return 0, false
	}
	defer mref.Release()
	m := mref.Value()

	sref := r.shaders.get(m.shader)
	if sref == nil {
		r.log.Warn("model shader not loaded", "model", id, "shader", m.shader)
		return 0, false
	}
	defer sref.Release()
	s := sref.Value()

	var texs []*Ref[*Texture]
	for _, b := range m.textures {
		tref := r.textures.get(b.Texture)
		if tref == nil {
			r.log.Warn("model texture not loaded", "model", id, "texture", b.Texture)
		}
		texs = append(texs, tref)
	}
	defer func() {
		for _, t := range texs {
			if t != nil {
				t.Release()
			}
		}
	}()

	cam := r.Camera()
	model, view, proj := m.GetTransform(), cam.View(), cam.Proj()
	err := r.ExecGL(func(gl GL) error {
		s.setUniform(gl, "model", Mat4(model))
		s.setUniform(gl, "view", Mat4(view))
		s.setUniform(gl, "proj", Mat4(proj))
		m.vao.bind(gl)
		for i, b := range m.textures {
			if texs[i] == nil {
				continue
			}
			texs[i].Value().bind(gl, b.Unit)
			value, _ := samplerValue(b.Unit)
			s.setUniform(gl, b.Sampler, value)
		}
		gl.UseProgram(s.program)
		return nil
	})
	if err != nil {
		r.log.Error("use model", "model", id, "err", err)
		return 0, false
	}
	return m.Count(), true
}

// DrawModel uses the model and draws its triangles.
func (r *Renderer) DrawModel(id ModelID) bool {
	count, ok := r.UseModel(id)
	if !ok {
		return false
	}
	err := r.ExecGL(func(gl GL) error {
		gl.DrawElements(Triangles, int32(count), TypeUnsignedInt, 0)
		return nil
	})
	if err != nil {
		r.log.Error("draw model", "model", id, "err", err)
		return false
	}
	return true
}
