package renderer

// Each resource kind has the same set of registry operations:
//
//	Load*(id, res) bool   insert unless id is taken; on false res stays with the caller
//	Unload*(id) bool      remove; the resource dies with its last reference
//	Use*(id)              bind as current state
//	Get*(id) *Ref         counted reference or nil; release when done
//	Is*Loaded(id) bool
//	Clear*()              unbind

// LoadShader registers s under id.
func (r *Renderer) LoadShader(id ShaderID, s *Shader) bool { return r.shaders.load(id, s) }

// AddShader registers s under a fresh id.
func (r *Renderer) AddShader(s *Shader) ShaderID {
	id := NewShaderID()
	r.shaders.load(id, s)
	return id
}

func (r *Renderer) UnloadShader(id ShaderID) bool { return r.shaders.unload(id) }

func (r *Renderer) GetShader(id ShaderID) *Ref[*Shader] { return r.shaders.get(id) }

func (r *Renderer) IsShaderLoaded(id ShaderID) bool { return r.shaders.loaded(id) }

// UseShader makes the program current.
func (r *Renderer) UseShader(id ShaderID) bool {
	ref := r.shaders.get(id)
	if ref == nil {
		return false
	}
	defer ref.Release()
	return r.use("use shader", func(gl GL) { gl.UseProgram(ref.Value().program) })
}

// SetUniform sets a uniform of the shader loaded under id.
func (r *Renderer) SetUniform(id ShaderID, name string, v UniformValue) bool {
	ref := r.shaders.get(id)
	if ref == nil {
		return false
	}
	defer ref.Release()
	return ref.Value().SetUniform(name, v)
}

func (r *Renderer) ClearShader() { r.use("clear shader", func(gl GL) { gl.UseProgram(0) }) }

// LoadVbo registers v under id.
func (r *Renderer) LoadVbo(id ModelID, v *Vbo) bool { return r.vbos.load(id, v) }

func (r *Renderer) UnloadVbo(id ModelID) bool { return r.vbos.unload(id) }

func (r *Renderer) GetVbo(id ModelID) *Ref[*Vbo] { return r.vbos.get(id) }

func (r *Renderer) IsVboLoaded(id ModelID) bool { return r.vbos.loaded(id) }

// UseVbo binds the vertex buffer.
func (r *Renderer) UseVbo(id ModelID) bool {
	ref := r.vbos.get(id)
	if ref == nil {
		return false
	}
	defer ref.Release()
	return r.use("use vbo", func(gl GL) { gl.BindBuffer(ArrayBuffer, ref.Value().buffer) })
}

func (r *Renderer) ClearVbo() { r.use("clear vbo", func(gl GL) { gl.BindBuffer(ArrayBuffer, 0) }) }

// LoadEbo registers e under id.
func (r *Renderer) LoadEbo(id ModelID, e *Ebo) bool { return r.ebos.load(id, e) }

func (r *Renderer) UnloadEbo(id ModelID) bool { return r.ebos.unload(id) }

func (r *Renderer) GetEbo(id ModelID) *Ref[*Ebo] { return r.ebos.get(id) }

func (r *Renderer) IsEboLoaded(id ModelID) bool { return r.ebos.loaded(id) }

// UseEbo binds the element buffer.
func (r *Renderer) UseEbo(id ModelID) bool {
	ref := r.ebos.get(id)
	if ref == nil {
		return false
	}
	defer ref.Release()
	return r.use("use ebo", func(gl GL) { gl.BindBuffer(ElementArrayBuffer, ref.Value().buffer) })
}

func (r *Renderer) ClearEbo() {
	r.use("clear ebo", func(gl GL) { gl.BindBuffer(ElementArrayBuffer, 0) })
}

// LoadVao registers a under id.
func (r *Renderer) LoadVao(id ModelID, a *Vao) bool { return r.vaos.load(id, a) }

func (r *Renderer) UnloadVao(id ModelID) bool { return r.vaos.unload(id) }

func (r *Renderer) GetVao(id ModelID) *Ref[*Vao] { return r.vaos.get(id) }

func (r *Renderer) IsVaoLoaded(id ModelID) bool { return r.vaos.loaded(id) }

// UseVao binds the vertex array together with its vertex and element
// buffers and returns the element count to draw.
func (r *Renderer) UseVao(id ModelID) (uint32, bool) {
	ref := r.vaos.get(id)
	if ref == nil {
		return 0, false
	}
	defer ref.Release()
	a := ref.Value()
	if !r.use("use vao", a.bind) {
		return 0, false
	}
	return a.Count(), true
}

func (r *Renderer) ClearVao() { r.use("clear vao", func(gl GL) { gl.BindVertexArray(0) }) }

// LoadTexture registers t under id.
func (r *Renderer) LoadTexture(id TextureID, t *Texture) bool { return r.textures.load(id, t) }

// AddTexture registers t under a fresh id.
func (r *Renderer) AddTexture(t *Texture) TextureID {
	id := NewTextureID()
	r.textures.load(id, t)
	return id
}

func (r *Renderer) UnloadTexture(id TextureID) bool { return r.textures.unload(id) }

func (r *Renderer) GetTexture(id TextureID) *Ref[*Texture] { return r.textures.get(id) }

func (r *Renderer) IsTextureLoaded(id TextureID) bool { return r.textures.loaded(id) }

// UseTexture binds the texture to unit (Texture0 + n) and points the named
// sampler of the shader at it. A missing sampler is logged and yields false;
// the texture stays bound.
func (r *Renderer) UseTexture(id TextureID, unit uint32, shader ShaderID, sampler string) bool {
	value, ok := samplerValue(unit)
	if !ok {
		r.log.Warn("invalid texture unit, expected Texture0 + n", "texture", id, "unit", unit)
		return false
	}
	tref := r.textures.get(id)
	if tref == nil {
		return false
	}
	defer tref.Release()
	sref := r.shaders.get(shader)
	if sref == nil {
		return false
	}
	defer sref.Release()
	var found bool
	ok = r.use("use texture", func(gl GL) {
		tref.Value().bind(gl, unit)
		found = sref.Value().setUniform(gl, sampler, value)
	})
	return ok && found
}

func (r *Renderer) ClearTexture() {
	r.use("clear texture", func(gl GL) { gl.BindTexture(Texture2D, 0) })
}

func (r *Renderer) use(op string, fn func(gl GL)) bool {
	err := r.ExecGL(func(gl GL) error {
		fn(gl)
		return nil
	})
	if err != nil {
		r.log.Error("gl call failed", "op", op, "err", err)
		return false
	}
	return true
}
