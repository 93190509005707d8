package output

import (
	"fmt"
	"strings"

	"github.com/openclaw/qrgen/qr"
)

// Terminal renders m as text using half-block characters, two module rows per
// line, surrounded by border light modules. Dark modules are drawn as filled
// blocks, which suits dark-on-light terminals; set inverse for light-on-dark.
func Terminal(m *qr.Matrix, border int, inverse bool) (string, error) {
	if border < 0 || border > qr.MaxBorder {
		return "", fmt.Errorf("%w: border must be between 0 and %d, got %d", qr.ErrInvalidInput, qr.MaxBorder, border)
	}
	dark := func(x, y int) bool {
		return m.Dark(x-border, y-border) != inverse
	}

	edge := m.Size + 2*border
	var b strings.Builder
	for y := 0; y < edge; y += 2 {
		for x := 0; x < edge; x++ {
			top := dark(x, y)
			// An odd edge leaves a padding row, which counts as light.
			bottom := inverse
			if y+1 < edge {
				bottom = dark(x, y+1)
			}
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
