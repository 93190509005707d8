package qr

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

const (
	// MaxBoxSize is the largest supported module edge in pixels.
	MaxBoxSize = 100
	// MaxImageSize bounds the rendered image edge in pixels.
	MaxImageSize = 8192
)

// RenderOptions controls how a Matrix is rasterized.
type RenderOptions struct {
	BoxSize    int
	Border     int
	Foreground color.Color
	Background color.Color
}

// Image is a rendered QR code. Width and Height are in pixels.
type Image struct {
	Width  int
	Height int

	Matrix  *Matrix
	BoxSize int
	Border  int

	Foreground color.Color
	Background color.Color

	raster *image.RGBA
}

// Raster returns the pixel data. Callers must not modify it.
func (img *Image) Raster() image.Image {
	return img.raster
}

// Pix returns a copy of the raw RGBA pixel bytes.
func (img *Image) Pix() []byte {
	pix := make([]byte, len(img.raster.Pix))
	copy(pix, img.raster.Pix)
	return pix
}

// Render draws m onto a new raster. Each module becomes a BoxSize square and
// the symbol is surrounded by Border light modules.
func Render(m *Matrix, opts RenderOptions) (*Image, error) {
	if m == nil || m.Size == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrRender)
	}
	if opts.BoxSize < 1 || opts.BoxSize > MaxBoxSize {
		return nil, fmt.Errorf("%w: box size must be between 1 and %d, got %d", ErrRender, MaxBoxSize, opts.BoxSize)
	}
	if opts.Border < 0 {
		return nil, fmt.Errorf("%w: negative border %d", ErrRender, opts.Border)
	}
	// Checked before 2*Border so a huge border cannot wrap around.
	if opts.Border > (MaxImageSize/opts.BoxSize-m.Size)/2 {
		return nil, fmt.Errorf("%w: %d modules with border %d at box size %d exceeds %dpx", ErrRender, m.Size, opts.Border, opts.BoxSize, MaxImageSize)
	}
	modules := m.Size + 2*opts.Border
	if modules > MaxImageSize/opts.BoxSize {
		return nil, fmt.Errorf("%w: %d modules at box size %d exceeds %dpx", ErrRender, modules, opts.BoxSize, MaxImageSize)
	}
	edge := modules * opts.BoxSize

	fg, bg := opts.Foreground, opts.Background
	if fg == nil {
		fg = color.Black
	}
	if bg == nil {
		bg = color.White
	}

	dc := gg.NewContext(edge, edge)
	dc.SetColor(bg)
	dc.Clear()

	// One rectangle per horizontal run of dark modules.
	box := float64(opts.BoxSize)
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; {
			if !m.Dark(x, y) {
				x++
				continue
			}
			start := x
			for x < m.Size && m.Dark(x, y) {
				x++
			}
			dc.DrawRectangle(
				float64(start+opts.Border)*box,
				float64(y+opts.Border)*box,
				float64(x-start)*box,
				box,
			)
		}
	}
	dc.SetColor(fg)
	dc.Fill()

	raster, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected raster type %T", ErrRender, dc.Image())
	}
	return &Image{
		Width:      edge,
		Height:     edge,
		Matrix:     m,
		BoxSize:    opts.BoxSize,
		Border:     opts.Border,
		Foreground: fg,
		Background: bg,
		raster:     raster,
	}, nil
}
