package qr

import "errors"

var (
	// ErrInvalidInput is returned for empty or oversized text and for
	// malformed request options.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRender is returned when the QR code cannot be drawn, e.g. for an
	// unsupported box size.
	ErrRender = errors.New("render failed")
)
