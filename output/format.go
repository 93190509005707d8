// Package output serializes generated QR codes: raster formats, SVG, data
// URIs for HTML and block-character text for terminals.
package output

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for unknown format names or file extensions.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an output image format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	SVG  Format = "svg"
)

// Formats lists every supported format.
var Formats = []Format{PNG, JPEG, GIF, BMP, TIFF, SVG}

// ParseFormat resolves a format name. Common aliases such as "jpg" and "tif"
// are accepted; an empty name means PNG.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	case "svg":
		return SVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case GIF:
		return "image/gif"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	case SVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// Extension returns the canonical file extension for f, including the dot.
func (f Format) Extension() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}
