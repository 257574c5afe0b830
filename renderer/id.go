package renderer

import "sync/atomic"

// ModelID identifies a model, and the vertex, index and vertex array buffers
// loaded under the same key.
type ModelID uint32

// ShaderID identifies a shader program.
type ShaderID uint32

// TextureID identifies a texture.
type TextureID uint32

// Id counters. Ids start at 1 and are never reused, so the zero value of each
// id type never refers to a resource.
var (
	modelIDs   atomic.Uint32
	shaderIDs  atomic.Uint32
	textureIDs atomic.Uint32
)

// NewModelID returns a fresh ModelID.
func NewModelID() ModelID { return ModelID(modelIDs.Add(1)) }

// NewShaderID returns a fresh ShaderID.
func NewShaderID() ShaderID { return ShaderID(shaderIDs.Add(1)) }

// NewTextureID returns a fresh TextureID.
func NewTextureID() TextureID { return TextureID(textureIDs.Add(1)) }
