package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matzehuels/handbook/pkg/errors"
	"github.com/matzehuels/handbook/pkg/paper"
	"github.com/matzehuels/handbook/pkg/pipeline"
)

//go:embed static/index.html
var indexHTML []byte

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

type sizeResponse struct {
	Name     string  `json:"name"`
	WidthPt  float64 `json:"width_pt"`
	HeightPt float64 `json:"height_pt"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	Default  bool    `json:"default,omitempty"`
}

func (s *Server) sizes(w http.ResponseWriter, r *http.Request) {
	all := paper.All()
	out := make([]sizeResponse, len(all))
	for i, sz := range all {
		out[i] = sizeResponse{
			Name:     sz.Name,
			WidthPt:  sz.Width,
			HeightPt: sz.Height,
			WidthMM:  sz.WidthMM(),
			HeightMM: sz.HeightMM(),
			Default:  sz.Name == paper.Default,
		}
	}
	s.json(w, http.StatusOK, out)
}

func (s *Server) generatePDF(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pipeline.FormatPDF, "attachment")
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pipeline.FormatPNG, "inline")
}

// render parses the form, runs the pipeline and writes the sheet.
// Every failure is reported as 500 with a plain-text message.
func (s *Server) render(w http.ResponseWriter, r *http.Request, format, disposition string) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes())

	opts, err := parseForm(r, s.cfg.Options(), s.cfg.Server.MaxUploadBytes())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Format = format
	opts.Resolution = s.cfg.Render.PreviewResolution
	opts.Logger = s.logger.With("request_id", RequestIDFromContext(r.Context()))

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", res.ContentType())
	h.Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, res.Filename()))
	h.Set("Content-Length", strconv.Itoa(len(res.Data)))
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("generation failed",
		"code", errors.GetCode(err),
		"error", err,
		"request_id", RequestIDFromContext(r.Context()))
	http.Error(w, "generation failed: "+errors.UserMessage(err), http.StatusInternalServerError)
}

func (s *Server) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
