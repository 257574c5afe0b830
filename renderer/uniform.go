package renderer

import "github.com/go-gl/mathgl/mgl32"

// UniformValue is a value that can be assigned to a shader uniform. The set
// of implementations is closed.
type UniformValue interface {
	upload(gl GL, loc int32)
}

type (
	Float float32
	Vec2  [2]float32
	Vec3  [3]float32
	Vec4  [4]float32

	Uint  uint32
	UVec2 [2]uint32
	UVec3 [3]uint32
	UVec4 [4]uint32

	Int   int32
	IVec2 [2]int32
	IVec3 [3]int32
	IVec4 [4]int32

	Mat4 mgl32.Mat4
)

func (v Float) upload(gl GL, loc int32) { gl.Uniformf(loc, float32(v)) }
func (v Vec2) upload(gl GL, loc int32)  { gl.Uniformf(loc, v[:]...) }
func (v Vec3) upload(gl GL, loc int32)  { gl.Uniformf(loc, v[:]...) }
func (v Vec4) upload(gl GL, loc int32)  { gl.Uniformf(loc, v[:]...) }

func (v Uint) upload(gl GL, loc int32)  { gl.Uniformui(loc, uint32(v)) }
func (v UVec2) upload(gl GL, loc int32) { gl.Uniformui(loc, v[:]...) }
func (v UVec3) upload(gl GL, loc int32) { gl.Uniformui(loc, v[:]...) }
func (v UVec4) upload(gl GL, loc int32) { gl.Uniformui(loc, v[:]...) }

func (v Int) upload(gl GL, loc int32)   { gl.Uniformi(loc, int32(v)) }
func (v IVec2) upload(gl GL, loc int32) { gl.Uniformi(loc, v[:]...) }
func (v IVec3) upload(gl GL, loc int32) { gl.Uniformi(loc, v[:]...) }
func (v IVec4) upload(gl GL, loc int32) { gl.Uniformi(loc, v[:]...) }

func (v Mat4) upload(gl GL, loc int32) {
	m := [16]float32(v)
	gl.UniformMatrix4f(loc, &m)
}
