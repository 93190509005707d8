package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/openclaw/qrgen/output"
	"github.com/openclaw/qrgen/qr"
)

// qrParams is the request shape shared by the query string and JSON bodies.
// Nil BoxSize and Border fall back to the generator defaults.
type qrParams struct {
	Text       string `json:"text"`
	Level      string `json:"level,omitempty"`
	BoxSize    *int   `json:"box_size,omitempty"`
	Border     *int   `json:"border,omitempty"`
	Version    int    `json:"version,omitempty"`
	Format     string `json:"format,omitempty"`
	Foreground string `json:"fg,omitempty"`
	Background string `json:"bg,omitempty"`
}

type qrDataResponse struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Version int    `json:"version"`
	Format  string `json:"format"`
	DataURI string `json:"data_uri"`
}

// request converts p into a generation request and output format.
func (s *Server) request(p qrParams) (qr.Request, output.Format, error) {
	req := s.Generator.Request(p.Text)
	req.Version = p.Version

	if p.Level != "" {
		level, err := qr.ParseLevel(p.Level)
		if err != nil {
			return qr.Request{}, "", err
		}
		req.Level = level
	}
	if p.BoxSize != nil {
		req.BoxSize = *p.BoxSize
	}
	if p.Border != nil {
		req.Border = *p.Border
	}
	if p.Foreground != "" {
		c, err := qr.ParseColor(p.Foreground)
		if err != nil {
			return qr.Request{}, "", err
		}
		req.Foreground = c
	}
	if p.Background != "" {
		c, err := qr.ParseColor(p.Background)
		if err != nil {
			return qr.Request{}, "", err
		}
		req.Background = c
	}

	format := s.Format
	if p.Format != "" {
		f, err := output.ParseFormat(p.Format)
		if err != nil {
			return qr.Request{}, "", err
		}
		format = f
	}
	return req, format, nil
}

func paramsFromQuery(r *http.Request) (qrParams, error) {
	q := r.URL.Query()
	p := qrParams{
		Text:       q.Get("text"),
		Level:      q.Get("level"),
		Format:     q.Get("format"),
		Foreground: q.Get("fg"),
		Background: q.Get("bg"),
	}

	var err error
	if p.BoxSize, err = queryIntPtr(r, "box_size"); err != nil {
		return p, err
	}
	if p.Border, err = queryIntPtr(r, "border"); err != nil {
		return p, err
	}
	version, err := queryIntPtr(r, "version")
	if err != nil {
		return p, err
	}
	if version != nil {
		p.Version = *version
	}
	return p, nil
}

func (s *Server) decodeParams(w http.ResponseWriter, r *http.Request) (qrParams, bool) {
	var p qrParams
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return p, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return p, false
	}
	return p, true
}

// generate runs p through the generator and encodes the result. On failure it
// writes the error response and returns false.
func (s *Server) generate(w http.ResponseWriter, p qrParams) ([]byte, *qr.Image, output.Format, bool) {
	req, format, err := s.request(p)
	if err != nil {
		s.writeGenerateError(w, err)
		return nil, nil, "", false
	}
	img, err := s.Generator.Generate(req)
	if err != nil {
		s.writeGenerateError(w, err)
		return nil, nil, "", false
	}
	data, err := output.Bytes(img, format)
	if err != nil {
		s.writeGenerateError(w, err)
		return nil, nil, "", false
	}
	return data, img, format, true
}

func (s *Server) writeImage(w http.ResponseWriter, p qrParams) {
	data, _, format, ok := s.generate(w, p)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="qrcode%s"`, format.Extension()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleQRImageQuery(w http.ResponseWriter, r *http.Request) {
	p, err := paramsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeImage(w, p)
}

func (s *Server) handleQRImageJSON(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeParams(w, r)
	if !ok {
		return
	}
	s.writeImage(w, p)
}

func (s *Server) handleQRData(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeParams(w, r)
	if !ok {
		return
	}
	data, img, format, ok := s.generate(w, p)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, qrDataResponse{
		Width:   img.Width,
		Height:  img.Height,
		Version: img.Matrix.Version,
		Format:  string(format),
		DataURI: output.DataURIFromBytes(data, format),
	})
}

func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, qr.ErrInvalidInput), errors.Is(err, output.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, qr.ErrRender):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.Log.Error("qr generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func queryIntPtr(r *http.Request, key string) (*int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}
