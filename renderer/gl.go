package renderer

// GL is the subset of the OpenGL API the renderer uses. Implementations are
// not required to be safe for concurrent use; the Renderer only calls them
// from within ExecGL, with the Context current.
//
// Object handles are plain OpenGL names. Zero unbinds.
type GL interface {
	CreateBuffer() (uint32, error)
	DeleteBuffer(buf uint32)
	BindBuffer(target, buf uint32)
	BufferData(target uint32, data []byte, usage uint32)

	CreateVertexArray() (uint32, error)
	DeleteVertexArray(vao uint32)
	BindVertexArray(vao uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)

	CreateTexture() (uint32, error)
	DeleteTexture(tex uint32)
	BindTexture(target, tex uint32)
	ActiveTexture(unit uint32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte)
	GenerateMipmap(target uint32)
	TexParameteri(target, pname uint32, param int32)
	TexParameterf(target, pname uint32, param float32)
	TexParameteriv(target, pname uint32, params []int32)
	TexParameterfv(target, pname uint32, params []float32)

	CreateShader(kind uint32) (uint32, error)
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompileStatus(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() (uint32, error)
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinkStatus(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// UniformLocation looks up a uniform of the given program. ok is false
	// if the program has no active uniform of that name.
	UniformLocation(program uint32, name string) (loc int32, ok bool)
	// Uniformf, Uniformui and Uniformi upload 1 to 4 components.
	Uniformf(loc int32, v ...float32)
	Uniformui(loc int32, v ...uint32)
	Uniformi(loc int32, v ...int32)
	UniformMatrix4f(loc int32, m *[16]float32)

	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Enable(capability uint32)
	Viewport(x, y, width, height int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset int)
}

// Context is the graphics context the GL calls go to. Exactly one goroutine
// may have it current at a time; ExecGL enforces this.
type Context interface {
	MakeCurrent() error
	MakeNotCurrent() error
	SwapBuffers()
}

// OpenGL enumerants used by the renderer and its clients.
const (
	Triangles = 0x0004

	TypeUnsignedByte = 0x1401
	TypeUnsignedInt  = 0x1405
	TypeFloat        = 0x1406

	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	StreamDraw         = 0x88E0
	StaticDraw         = 0x88E4
	DynamicDraw        = 0x88E8

	Texture2D          = 0x0DE1
	Texture0           = 0x84C0
	RGBA               = 0x1908
	TextureBorderColor = 0x1004
	TextureMagFilter   = 0x2800
	TextureMinFilter   = 0x2801
	TextureWrapS       = 0x2802
	TextureWrapT       = 0x2803
	Nearest            = 0x2600
	Linear             = 0x2601
	LinearMipmapLinear = 0x2703
	Repeat             = 0x2901
	ClampToEdge        = 0x812F
	MirroredRepeat     = 0x8370

	FragmentShaderKind = 0x8B30
	VertexShaderKind   = 0x8B31

	DepthBufferBit = 0x00000100
	ColorBufferBit = 0x00004000
	DepthTest      = 0x0B71
)

// MaxTextureUnits is the number of texture units OpenGL 3.3 guarantees.
const MaxTextureUnits = 16
