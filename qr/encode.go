package qr

import (
	"errors"
	"fmt"

	skipqrcode "github.com/skip2/go-qrcode"
)

// Matrix is an encoded QR symbol without its quiet zone.
type Matrix struct {
	Version int
	Size    int

	modules [][]bool
}

// Dark reports whether the module at column x, row y is dark. Coordinates
// outside the symbol are light.
func (m *Matrix) Dark(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Size || y >= m.Size {
		return false
	}
	return m.modules[y][x]
}

// Encode converts the request text into a module matrix at the requested error
// correction level and version.
func Encode(req Request) (*Matrix, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	level, _ := req.Level.recoveryLevel()

	var (
		code *skipqrcode.QRCode
		err  error
	)
	if req.Version > 0 {
		code, err = skipqrcode.NewWithForcedVersion(req.Text, req.Version, level)
	} else {
		code, err = skipqrcode.New(req.Text, level)
	}
	if err != nil {
		// Past validation the encoder only fails when the text does not fit.
		return nil, errors.Join(ErrInvalidInput, fmt.Errorf("encode %d bytes at level %s: %w", len(req.Text), req.Level, err))
	}
	code.DisableBorder = true

	bitmap := code.Bitmap()
	if len(bitmap) == 0 || len(bitmap) != len(bitmap[0]) {
		return nil, fmt.Errorf("%w: encoder returned a %d-row bitmap", ErrRender, len(bitmap))
	}
	return &Matrix{
		Version: code.VersionNumber,
		Size:    len(bitmap),
		modules: bitmap,
	}, nil
}
