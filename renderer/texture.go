package renderer

import (
	"fmt"
	"image/color"
)

// TexValue is the value of a texture parameter.
type TexValue interface {
	apply(gl GL, pname uint32)
}

type (
	TexInt    int32
	TexFloat  float32
	TexInts   []int32
	TexFloats []float32
)

func (v TexInt) apply(gl GL, pname uint32)    { gl.TexParameteri(Texture2D, pname, int32(v)) }
func (v TexFloat) apply(gl GL, pname uint32)  { gl.TexParameterf(Texture2D, pname, float32(v)) }
func (v TexInts) apply(gl GL, pname uint32)   { gl.TexParameteriv(Texture2D, pname, v) }
func (v TexFloats) apply(gl GL, pname uint32) { gl.TexParameterfv(Texture2D, pname, v) }

// TexParam is a texture parameter such as {TextureMinFilter, TexInt(Nearest)}.
type TexParam struct {
	Name  uint32
	Value TexValue
}

// Texture is a 2D RGBA8 texture.
type Texture struct {
	r             *Renderer
	tex           uint32
	width, height int
}

// NewTexture uploads RGBA8 pixels and generates mipmaps.
func (r *Renderer) NewTexture(pix []byte, width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes is not a %dx%d RGBA image",
			ErrRenderer, len(pix), width, height)
	}
	t := &Texture{r: r, width: width, height: height}
	err := r.ExecGL(func(gl GL) error {
		tex, err := gl.CreateTexture()
		if err != nil {
			return glErr("create texture", err)
		}
		gl.BindTexture(Texture2D, tex)
		gl.TexImage2D(Texture2D, 0, RGBA, int32(width), int32(height), RGBA, TypeUnsignedByte, pix)
		gl.GenerateMipmap(Texture2D)
		gl.BindTexture(Texture2D, 0)
		t.tex = tex
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// TextureFromImage uploads a decoded image.
func (r *Renderer) TextureFromImage(img Image) (*Texture, error) {
	return r.NewTexture(img.Pix, img.Width, img.Height)
}

// TextureFromBytes decodes an encoded image, e.g. PNG, and uploads it.
func (r *Renderer) TextureFromBytes(data []byte) (*Texture, error) {
	if r.decoder == nil {
		return nil, ErrNoDecoder
	}
	img, err := r.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return r.TextureFromImage(img)
}

// TextureFromFile decodes the image file at path and uploads it.
func (r *Renderer) TextureFromFile(path string) (*Texture, error) {
	if r.decoder == nil {
		return nil, ErrNoDecoder
	}
	img, err := r.decoder.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return r.TextureFromImage(img)
}

// NewTextTexture renders text with the given font file and point size. The
// renderer's Decoder must implement TextRasterizer.
func (r *Renderer) NewTextTexture(font string, size int, text string, c color.RGBA) (*Texture, error) {
	tr, ok := r.decoder.(TextRasterizer)
	if !ok {
		return nil, fmt.Errorf("%w: decoder cannot render text", ErrRenderer)
	}
	img, err := tr.RasterizeText(font, size, text, c)
	if err != nil {
		return nil, fmt.Errorf("render text: %w", err)
	}
	return r.TextureFromImage(img)
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Name returns the texture's GL name.
func (t *Texture) Name() uint32 { return t.tex }

// SetParams sets texture parameters.
func (t *Texture) SetParams(params ...TexParam) error {
	return t.r.ExecGL(func(gl GL) error {
		gl.BindTexture(Texture2D, t.tex)
		for _, p := range params {
			p.Value.apply(gl, p.Name)
		}
		return nil
	})
}

func (t *Texture) bind(gl GL, unit uint32) {
	gl.ActiveTexture(unit)
	gl.BindTexture(Texture2D, t.tex)
}

func (t *Texture) destroy() {
	t.r.use("delete texture", func(gl GL) { gl.DeleteTexture(t.tex) })
}

// samplerValue returns the sampler uniform value for unit, which must be
// Texture0 + n with n < MaxTextureUnits.
func samplerValue(unit uint32) (Int, bool) {
	if unit < Texture0 || unit >= Texture0+MaxTextureUnits {
		return 0, false
	}
	return Int(unit - Texture0), true
}
