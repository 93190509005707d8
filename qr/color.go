package qr

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a hex color in #rgb, #rrggbb or #rrggbbaa form. The
// leading '#' is optional.
func ParseColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	invalid := fmt.Errorf("%w: invalid color %q", ErrInvalidInput, s)
	if strings.IndexFunc(hex, notHexDigit) >= 0 {
		return nil, invalid
	}

	var alpha uint8 = 0xff
	switch len(hex) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return nil, invalid
		}
		hex, alpha = hex[:6], uint8(a)
	default:
		return nil, invalid
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid color %q: %v", ErrInvalidInput, s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func notHexDigit(r rune) bool {
	return !strings.ContainsRune("0123456789abcdefABCDEF", r)
}
