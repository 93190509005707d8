package output

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/openclaw/qrgen/qr"
)

const jpegQuality = 95

// Encode writes img to w in format f.
func Encode(w io.Writer, img *qr.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img.Raster())
	case JPEG:
		err = jpeg.Encode(w, img.Raster(), &jpeg.Options{Quality: jpegQuality})
	case GIF:
		err = gif.Encode(w, paletted(img), nil)
	case BMP:
		err = bmp.Encode(w, img.Raster())
	case TIFF:
		err = tiff.Encode(w, img.Raster(), &tiff.Options{Compression: tiff.Deflate})
	case SVG:
		err = writeSVG(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// Bytes returns img encoded in format f.
func Bytes(img *qr.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI returns img as a base64 data URI suitable for an <img> src.
func DataURI(img *qr.Image, f Format) (string, error) {
	data, err := Bytes(img, f)
	if err != nil {
		return "", err
	}
	return DataURIFromBytes(data, f), nil
}

// DataURIFromBytes wraps data already encoded in format f as a data URI.
func DataURIFromBytes(data []byte, f Format) string {
	return fmt.Sprintf("data:%s;base64,%s", f.ContentType(), base64.StdEncoding.EncodeToString(data))
}

// paletted converts the raster to a two-color image so GIF output keeps the
// exact foreground and background colors.
func paletted(img *qr.Image) *image.Paletted {
	src := img.Raster()
	dst := image.NewPaletted(src.Bounds(), color.Palette{img.Background, img.Foreground})
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// writeSVG draws the matrix as vector rectangles, one per horizontal run of
// dark modules, so the output scales without loss.
func writeSVG(w io.Writer, img *qr.Image) error {
	m := img.Matrix
	box := img.BoxSize

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(img.Width, img.Height)
	canvas.Rect(0, 0, img.Width, img.Height, "fill:"+hexColor(img.Background))
	canvas.Gstyle("fill:" + hexColor(img.Foreground) + ";shape-rendering:crispEdges")
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
			canvas.Rect((start+img.Border)*box, (y+img.Border)*box, (x-start)*box, box)
		}
	}
	canvas.Gend()
	canvas.End()
	return ew.err
}

func hexColor(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
