package renderer

import "fmt"

// Vao is a vertex array object describing how its vertex buffer is read. It
// keeps its Vbo and Ebo alive for as long as it exists.
type Vao struct {
	r     *Renderer
	array uint32
	vbo   *Ref[*Vbo]
	ebo   *Ref[*Ebo]
}

// NewVao creates a vertex array over the vertex and element buffers loaded
// under the given ids.
func (r *Renderer) NewVao(vbo, ebo ModelID) (*Vao, error) {
	vref := r.vbos.get(vbo)
	if vref == nil {
		return nil, fmt.Errorf("vertex buffer %d: %w", vbo, ErrNotLoaded)
	}
	eref := r.ebos.get(ebo)
	if eref == nil {
		vref.Release()
		return nil, fmt.Errorf("element buffer %d: %w", ebo, ErrNotLoaded)
	}
	a, err := r.newVao(vref, eref)
	if err != nil {
		vref.Release()
		eref.Release()
		return nil, err
	}
	return a, nil
}

// newVao takes ownership of both refs on success.
func (r *Renderer) newVao(vbo *Ref[*Vbo], ebo *Ref[*Ebo]) (*Vao, error) {
	a := &Vao{r: r, vbo: vbo, ebo: ebo}
	v := vbo.Value()
	err := r.ExecGL(func(gl GL) error {
		array, err := gl.CreateVertexArray()
		if err != nil {
			return glErr("create vertex array", err)
		}
		gl.BindVertexArray(array)
		gl.BindBuffer(ArrayBuffer, v.buffer)
		gl.BindBuffer(ElementArrayBuffer, ebo.Value().buffer)
		for _, at := range v.format.Attributes() {
			gl.EnableVertexAttribArray(at.Index)
			gl.VertexAttribPointer(at.Index, at.Size, TypeFloat, false, at.Stride, at.Offset)
		}
		gl.BindVertexArray(0)
		gl.BindBuffer(ArrayBuffer, 0)
		gl.BindBuffer(ElementArrayBuffer, 0)
		a.array = array
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Count returns the number of elements a draw call over this array uses.
func (a *Vao) Count() uint32 { return a.ebo.Value().count }

// Array returns the vertex array's GL name.
func (a *Vao) Array() uint32 { return a.array }

func (a *Vao) bind(gl GL) {
	gl.BindVertexArray(a.array)
	gl.BindBuffer(ArrayBuffer, a.vbo.Value().buffer)
	gl.BindBuffer(ElementArrayBuffer, a.ebo.Value().buffer)
}

func (a *Vao) destroy() {
	a.r.use("delete vertex array", func(gl GL) { gl.DeleteVertexArray(a.array) })
	a.vbo.Release()
	a.ebo.Release()
}
