package display

import (
	"fmt"
	"image/color"
	"log/slog"
	"sync"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"

	"github.com/v39engine/v39/renderer"
)

type fontKey struct {
	path string
	size int
}

// Images decodes images with SDL_image and renders text with SDL_ttf. It
// implements renderer.Decoder and renderer.TextRasterizer.
type Images struct {
	mu    sync.Mutex
	fonts map[fontKey]*ttf.Font
	log   *slog.Logger
}

var (
	_ renderer.Decoder        = (*Images)(nil)
	_ renderer.TextRasterizer = (*Images)(nil)
)

func newImages(log *slog.Logger) *Images {
	return &Images{fonts: map[fontKey]*ttf.Font{}, log: log}
}

// Decode decodes an image held in memory. The list of supported formats
// depends on what has been compiled into SDL_image.
func (im *Images) Decode(data []byte) (renderer.Image, error) {
	rw, err := sdl.RWFromMem(data)
	if err != nil {
		return renderer.Image{}, err
	}
	surface, err := img.LoadRW(rw, true)
	if err != nil {
		return renderer.Image{}, err
	}
	return toImage(surface)
}

// DecodeFile decodes the image file at path.
func (im *Images) DecodeFile(path string) (renderer.Image, error) {
	surface, err := img.Load(path)
	if err != nil {
		return renderer.Image{}, err
	}
	return toImage(surface)
}

// RasterizeText renders text with the font file at path in the given point
// size on a transparent background. Opened fonts are kept until Close.
func (im *Images) RasterizeText(path string, size int, text string, c color.RGBA) (renderer.Image, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	key := fontKey{path, size}
	font, ok := im.fonts[key]
	if !ok {
		var err error
		if font, err = ttf.OpenFont(path, size); err != nil {
			return renderer.Image{}, fmt.Errorf("open font %s: %w", path, err)
		}
		im.fonts[key] = font
		im.log.Debug("font loaded", "path", path, "size", size)
	}
	surface, err := font.RenderUTF8Blended(text, sdl.Color{R: c.R, G: c.G, B: c.B, A: c.A})
	if err != nil {
		return renderer.Image{}, err
	}
	return toImage(surface)
}

// Close closes all fonts opened by RasterizeText.
func (im *Images) Close() {
	im.mu.Lock()
	defer im.mu.Unlock()
	for key, font := range im.fonts {
		font.Close()
		delete(im.fonts, key)
	}
}

// toImage converts surface to tightly packed RGBA8 and frees it.
func toImage(surface *sdl.Surface) (renderer.Image, error) {
	// ABGR8888 is laid out R, G, B, A in memory on little-endian machines,
	// which is what GL_RGBA with GL_UNSIGNED_BYTE expects.
	if surface.Format.Format != sdl.PIXELFORMAT_ABGR8888 {
		rgba, err := surface.ConvertFormat(sdl.PIXELFORMAT_ABGR8888, 0)
		surface.Free()
		if err != nil {
			return renderer.Image{}, err
		}
		surface = rgba
	}
	defer surface.Free()

	if surface.MustLock() {
		if err := surface.Lock(); err != nil {
			return renderer.Image{}, err
		}
		defer surface.Unlock()
	}
	width, height := int(surface.W), int(surface.H)
	pitch, row := int(surface.Pitch), width*4
	src := surface.Pixels()
	pix := make([]byte, row*height)
	for y := 0; y < height; y++ {
		copy(pix[y*row:(y+1)*row], src[y*pitch:y*pitch+row])
	}
	return renderer.Image{Pix: pix, Width: width, Height: height}, nil
}
