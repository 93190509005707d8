package output_test

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/openclaw/qrgen/output"
	"github.com/openclaw/qrgen/qr"
)

func generate(t *testing.T, text string) *qr.Image {
	t.Helper()
	img, err := qr.Generate(qr.DefaultRequest(text))
	require.NoError(t, err)
	return img
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	cases := map[string]output.Format{
		"":     output.PNG,
		"png":  output.PNG,
		".PNG": output.PNG,
		"jpg":  output.JPEG,
		"JPEG": output.JPEG,
		"gif":  output.GIF,
		"bmp":  output.BMP,
		"tif":  output.TIFF,
		"tiff": output.TIFF,
		"svg":  output.SVG,
	}
	for in, want := range cases {
		got, err := output.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := output.ParseFormat("webp")
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	f, err := output.FormatFromPath("/tmp/code.JPG")
	require.NoError(t, err)
	assert.Equal(t, output.JPEG, f)
	assert.Equal(t, "image/jpeg", f.ContentType())
	assert.Equal(t, ".jpg", f.Extension())

	_, err = output.FormatFromPath("code")
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)

	_, err = output.FormatFromPath("code.webp")
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}

func TestEncodeRaster(t *testing.T) {
	t.Parallel()

	img := generate(t, "https://example.com")
	decoders := map[output.Format]func([]byte) (image.Image, error){
		output.PNG:  func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) },
		output.JPEG: func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) },
		output.GIF:  func(b []byte) (image.Image, error) { return gif.Decode(bytes.NewReader(b)) },
		output.BMP:  func(b []byte) (image.Image, error) { return bmp.Decode(bytes.NewReader(b)) },
		output.TIFF: func(b []byte) (image.Image, error) { return tiff.Decode(bytes.NewReader(b)) },
	}
	for f, decode := range decoders {
		data, err := output.Bytes(img, f)
		require.NoError(t, err, f)
		require.NotEmpty(t, data, f)

		decoded, err := decode(data)
		require.NoError(t, err, f)
		assert.Equal(t, img.Width, decoded.Bounds().Dx(), f)
		assert.Equal(t, img.Height, decoded.Bounds().Dy(), f)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	for _, f := range output.Formats {
		a, err := output.Bytes(generate(t, "deterministic"), f)
		require.NoError(t, err, f)
		b, err := output.Bytes(generate(t, "deterministic"), f)
		require.NoError(t, err, f)
		assert.Equal(t, a, b, f)
	}
}

func TestEncodeGIFKeepsColors(t *testing.T) {
	t.Parallel()

	req := qr.DefaultRequest("gif colors")
	req.Foreground = color.RGBA{0x10, 0x60, 0x30, 0xff}
	img, err := qr.Generate(req)
	require.NoError(t, err)

	data, err := output.Bytes(img, output.GIF)
	require.NoError(t, err)
	decoded, err := gif.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	center := req.Border*req.BoxSize + req.BoxSize/2
	assert.Equal(t, color.RGBA{0x10, 0x60, 0x30, 0xff}, color.RGBAModel.Convert(decoded.At(center, center)))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, color.RGBAModel.Convert(decoded.At(0, 0)))
}

func TestEncodeSVG(t *testing.T) {
	t.Parallel()

	img := generate(t, "vector")
	data, err := output.Bytes(img, output.SVG)
	require.NoError(t, err)

	var root struct {
		XMLName xml.Name
		Width   int `xml:"width,attr"`
		Height  int `xml:"height,attr"`
	}
	require.NoError(t, xml.Unmarshal(data, &root))
	assert.Equal(t, "svg", root.XMLName.Local)
	assert.Equal(t, img.Width, root.Width)
	assert.Equal(t, img.Height, root.Height)

	body := string(data)
	assert.Contains(t, body, "fill:#ffffff")
	assert.Contains(t, body, "fill:#000000")
	assert.Greater(t, strings.Count(body, "<rect"), 1)
}

func TestEncodeUnsupported(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := output.Encode(&buf, generate(t, "x"), output.Format("webp"))
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
	assert.Zero(t, buf.Len())
}

func TestDataURI(t *testing.T) {
	t.Parallel()

	img := generate(t, "https://example.com")
	uri, err := output.DataURI(img, output.PNG)
	require.NoError(t, err)

	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Width, decoded.Bounds().Dx())
}

func TestSave(t *testing.T) {
	t.Parallel()

	t.Run("writes the format named by the extension", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "code.bmp")
		img := generate(t, "saved")

		require.NoError(t, output.Save(path, img))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		decoded, err := bmp.Decode(f)
		require.NoError(t, err)
		assert.Equal(t, img.Width, decoded.Bounds().Dx())
	})

	t.Run("rejects unknown extensions without creating a file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "code.webp")

		err := output.Save(path, generate(t, "saved"))
		assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("SaveAs ignores the extension", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "code.out")

		require.NoError(t, output.SaveAs(path, generate(t, "saved"), output.PNG))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		_, err = png.Decode(bytes.NewReader(data))
		assert.NoError(t, err)
	})
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	m, err := qr.Encode(qr.Request{Text: "terminal", Level: qr.LevelL, BoxSize: 1})
	require.NoError(t, err)
	require.Equal(t, 21, m.Size)

	t.Run("two module rows per line", func(t *testing.T) {
		t.Parallel()
		text, err := output.Terminal(m, 1, false)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
		assert.Len(t, lines, 12)
		for _, line := range lines {
			assert.Equal(t, 23, utf8.RuneCountInString(line))
		}

		// Border row on top, first symbol row below: the finder starts at column 1.
		row := []rune(lines[0])
		assert.Equal(t, ' ', row[0])
		assert.Equal(t, '▄', row[1])
	})

	t.Run("finder corner is a full block", func(t *testing.T) {
		t.Parallel()
		text, err := output.Terminal(m, 0, false)
		require.NoError(t, err)
		first, _ := utf8.DecodeRuneInString(text)
		assert.Equal(t, '█', first)
	})

	t.Run("inverse swaps dark and light", func(t *testing.T) {
		t.Parallel()
		text, err := output.Terminal(m, 0, true)
		require.NoError(t, err)
		first, _ := utf8.DecodeRuneInString(text)
		assert.Equal(t, ' ', first)
	})

	t.Run("rejects borders out of range", func(t *testing.T) {
		t.Parallel()
		for _, border := range []int{-1, qr.MaxBorder + 1, 100000, 1 << 62} {
			text, err := output.Terminal(m, border, false)
			assert.ErrorIs(t, err, qr.ErrInvalidInput, "border %d", border)
			assert.Empty(t, text)
		}
	})

	t.Run("accepts the widest border", func(t *testing.T) {
		t.Parallel()
		text, err := output.Terminal(m, qr.MaxBorder, false)
		require.NoError(t, err)
		edge := m.Size + 2*qr.MaxBorder
		lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
		assert.Len(t, lines, (edge+1)/2)
	})
}
