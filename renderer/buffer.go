package renderer

import (
	"fmt"
	"unsafe"
)

// VboFormat is the interleaved layout of a vertex buffer: the number of
// float components per vertex for position, color and texture coordinates.
// A group with zero components is absent. Position is required.
type VboFormat struct {
	Position, Color, Coords int32
}

// Layout constructors for the supported formats.
func Position(p int32) VboFormat                  { return VboFormat{Position: p} }
func PositionColor(p, c int32) VboFormat          { return VboFormat{Position: p, Color: c} }
func PositionCoords(p, t int32) VboFormat         { return VboFormat{Position: p, Coords: t} }
func PositionColorCoords(p, c, t int32) VboFormat { return VboFormat{Position: p, Color: c, Coords: t} }

// Attribute is one vertex attribute binding of a VboFormat.
type Attribute struct {
	Index  uint32
	Size   int32
	Stride int32
	Offset int
}

// Components returns the number of floats per vertex.
func (f VboFormat) Components() int32 { return f.Position + f.Color + f.Coords }

// Stride returns the size of one vertex in bytes.
func (f VboFormat) Stride() int32 { return f.Components() * 4 }

// Attributes returns one binding per present group, in the order position,
// color, coordinates. Indices are assigned sequentially.
func (f VboFormat) Attributes() []Attribute {
	stride := f.Stride()
	var (
		attrs  []Attribute
		offset int
	)
	for _, size := range [...]int32{f.Position, f.Color, f.Coords} {
		if size == 0 {
			continue
		}
		attrs = append(attrs, Attribute{
			Index:  uint32(len(attrs)),
			Size:   size,
			Stride: stride,
			Offset: offset,
		})
		offset += int(size) * 4
	}
	return attrs
}

func (f VboFormat) validate() error {
	if f.Position <= 0 || f.Position > 4 {
		return fmt.Errorf("%w: position needs 1 to 4 components, got %d", ErrRenderer, f.Position)
	}
	if f.Color < 0 || f.Color > 4 || f.Coords < 0 || f.Coords > 4 {
		return fmt.Errorf("%w: invalid vertex format %+v", ErrRenderer, f)
	}
	return nil
}

// Vbo is a vertex buffer of interleaved 32-bit floats.
type Vbo struct {
	r        *Renderer
	buffer   uint32
	format   VboFormat
	vertices int
}

// NewVbo uploads data to a new vertex buffer. usage is one of StaticDraw,
// DynamicDraw or StreamDraw.
func (r *Renderer) NewVbo(data []float32, usage uint32, format VboFormat) (*Vbo, error) {
	if err := format.validate(); err != nil {
		return nil, err
	}
	n := int(format.Components())
	if len(data)%n != 0 {
		return nil, fmt.Errorf("%w: %d floats do not divide into vertices of %d",
			ErrRenderer, len(data), n)
	}
	v := &Vbo{r: r, format: format, vertices: len(data) / n}
	err := r.ExecGL(func(gl GL) error {
		buf, err := gl.CreateBuffer()
		if err != nil {
			return glErr("create vertex buffer", err)
		}
		gl.BindBuffer(ArrayBuffer, buf)
		gl.BufferData(ArrayBuffer, floatBytes(data), usage)
		gl.BindBuffer(ArrayBuffer, 0)
		v.buffer = buf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Format returns the vertex layout.
func (v *Vbo) Format() VboFormat { return v.format }

// Vertices returns the number of vertices in the buffer.
func (v *Vbo) Vertices() int { return v.vertices }

// Buffer returns the buffer's GL name.
func (v *Vbo) Buffer() uint32 { return v.buffer }

func (v *Vbo) destroy() {
	v.r.use("delete vertex buffer", func(gl GL) { gl.DeleteBuffer(v.buffer) })
}

// Ebo is an element buffer of 32-bit indices.
type Ebo struct {
	r      *Renderer
	buffer uint32
	count  uint32
}

// NewEbo uploads indices to a new element buffer.
func (r *Renderer) NewEbo(indices []uint32, usage uint32) (*Ebo, error) {
	e := &Ebo{r: r, count: uint32(len(indices))}
	err := r.ExecGL(func(gl GL) error {
		buf, err := gl.CreateBuffer()
		if err != nil {
			return glErr("create element buffer", err)
		}
		gl.BindBuffer(ElementArrayBuffer, buf)
		gl.BufferData(ElementArrayBuffer, uintBytes(indices), usage)
		gl.BindBuffer(ElementArrayBuffer, 0)
		e.buffer = buf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Count returns the number of indices.
func (e *Ebo) Count() uint32 { return e.count }

// Buffer returns the buffer's GL name.
func (e *Ebo) Buffer() uint32 { return e.buffer }

func (e *Ebo) destroy() {
	e.r.use("delete element buffer", func(gl GL) { gl.DeleteBuffer(e.buffer) })
}

func floatBytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}

func uintBytes(data []uint32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}
