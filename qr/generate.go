package qr

import (
	"log/slog"
)

// Generate encodes and renders req. It fails with ErrInvalidInput for bad
// text or options and with ErrRender when the image cannot be drawn.
func Generate(req Request) (*Image, error) {
	m, err := Encode(req)
	if err != nil {
		return nil, err
	}
	fg, bg := req.colors()
	return Render(m, RenderOptions{
		BoxSize:    req.BoxSize,
		Border:     req.Border,
		Foreground: fg,
		Background: bg,
	})
}

// Defaults are the options a Generator starts each request from.
type Defaults struct {
	Level   Level
	BoxSize int
	Border  int
}

// Generator wraps Generate with configured defaults and logging. It holds no
// mutable state and is safe for concurrent use.
type Generator struct {
	defaults Defaults
	log      *slog.Logger
}

// NewGenerator returns a Generator. Empty defaults fall back to the package
// defaults; a nil logger uses slog.Default.
func NewGenerator(d Defaults, log *slog.Logger) *Generator {
	if d.Level == "" {
		d.Level = DefaultLevel
	}
	if d.BoxSize == 0 {
		d.BoxSize = DefaultBoxSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{defaults: d, log: log}
}

// Defaults returns the generator's defaults.
func (g *Generator) Defaults() Defaults {
	return g.defaults
}

// Request returns a request for text populated with the generator's defaults.
func (g *Generator) Request(text string) Request {
	return Request{
		Text:    text,
		Level:   g.defaults.Level,
		BoxSize: g.defaults.BoxSize,
		Border:  g.defaults.Border,
	}
}

// Generate generates req as given. Use Request to start from the defaults.
func (g *Generator) Generate(req Request) (*Image, error) {
	img, err := Generate(req)
	if err != nil {
		g.log.Debug("qr generation failed", "level", req.Level, "box_size", req.BoxSize, "border", req.Border, "error", err)
		return nil, err
	}
	g.log.Debug("qr generated",
		"chars", len([]rune(req.Text)),
		"level", req.Level,
		"version", img.Matrix.Version,
		"width", img.Width,
		"height", img.Height,
	)
	return img, nil
}
