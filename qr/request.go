// Package qr turns text into rendered QR code images.
//
// Encoding is delegated to github.com/skip2/go-qrcode and rasterization to
// github.com/fogleman/gg. The package keeps no state between calls: Generate
// is a pure function of its Request.
package qr

import (
	"fmt"
	"image/color"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

// Level is a QR error correction level.
type Level string

const (
	LevelL Level = "L" // ~7% recovery
	LevelM Level = "M" // ~15% recovery
	LevelQ Level = "Q" // ~25% recovery
	LevelH Level = "H" // ~30% recovery
)

// ParseLevel accepts the single-letter level names and their long forms,
// case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return LevelL, nil
	case "m", "medium":
		return LevelM, nil
	case "q", "quartile":
		return LevelQ, nil
	case "h", "high":
		return LevelH, nil
	}
	return "", fmt.Errorf("%w: unknown error correction level %q", ErrInvalidInput, s)
}

func (l Level) recoveryLevel() (skipqrcode.RecoveryLevel, bool) {
	switch l {
	case LevelL:
		return skipqrcode.Low, true
	case LevelM:
		return skipqrcode.Medium, true
	case LevelQ:
		return skipqrcode.High, true
	case LevelH:
		return skipqrcode.Highest, true
	}
	return 0, false
}

const (
	// DefaultBoxSize is the number of pixels per module.
	DefaultBoxSize = 10
	// DefaultBorder is the quiet zone width in modules required by the standard.
	DefaultBorder = 4
	// DefaultLevel is the error correction level used when none is given.
	DefaultLevel = LevelM

	// MaxVersion is the largest QR symbol version.
	MaxVersion = 40
	// MaxTextLength is the most characters any symbol can hold (numeric, 40-L).
	MaxTextLength = 7089
	// MaxBorder is the widest accepted quiet zone in modules.
	MaxBorder = 256
)

// Request describes one QR code to generate.
type Request struct {
	Text    string
	Level   Level
	BoxSize int
	Border  int

	// Version forces a symbol version (1-40). Zero picks the smallest that fits.
	Version int

	// Foreground and Background default to black and white when nil.
	Foreground color.Color
	Background color.Color
}

// DefaultRequest returns a request for text with the default options.
func DefaultRequest(text string) Request {
	return Request{
		Text:    text,
		Level:   DefaultLevel,
		BoxSize: DefaultBoxSize,
		Border:  DefaultBorder,
	}
}

// Validate checks the fields that are the caller's responsibility. Box size is
// checked by the renderer.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrInvalidInput)
	}
	if n := len([]rune(r.Text)); n > MaxTextLength {
		return fmt.Errorf("%w: text is %d characters, limit is %d", ErrInvalidInput, n, MaxTextLength)
	}
	if _, ok := r.Level.recoveryLevel(); !ok {
		return fmt.Errorf("%w: unknown error correction level %q", ErrInvalidInput, r.Level)
	}
	if r.Border < 0 || r.Border > MaxBorder {
		return fmt.Errorf("%w: border must be between 0 and %d, got %d", ErrInvalidInput, MaxBorder, r.Border)
	}
	if r.Version < 0 || r.Version > MaxVersion {
		return fmt.Errorf("%w: version must be between 0 and %d, got %d", ErrInvalidInput, MaxVersion, r.Version)
	}
	return nil
}

func (r Request) colors() (fg, bg color.Color) {
	fg, bg = r.Foreground, r.Background
	if fg == nil {
		fg = color.Black
	}
	if bg == nil {
		bg = color.White
	}
	return fg, bg
}
