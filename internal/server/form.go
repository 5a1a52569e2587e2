package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	herrors "github.com/matzehuels/handbook/pkg/errors"
	"github.com/matzehuels/handbook/pkg/pattern"
	"github.com/matzehuels/handbook/pkg/pipeline"
)

// Form field names, shared with the original front end.
const (
	fieldSize       = "size"
	fieldStyle      = "style"
	fieldColor      = "color"
	fieldSpacing    = "spacing"
	fieldMargin     = "margin"
	fieldPosition   = "bg_position"
	fieldOpacity    = "bg_opacity"
	fieldBackground = "bg_image"
)

// multipartMemory is how much of a multipart body is kept in memory
// before spilling to temporary files.
const multipartMemory = 8 << 20

// parseForm reads a generation request into pipeline options, starting
// from defaults. Missing fields keep their default; an unknown style
// falls back to the default style; malformed numbers are rejected.
func parseForm(r *http.Request, defaults pipeline.Options, maxBytes int64) (pipeline.Options, error) {
	opts := defaults

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return opts, herrors.New(herrors.ErrCodeImageTooLarge, "request body exceeds %d bytes", maxBytes)
		}
		return opts, herrors.Wrap(herrors.ErrCodeInvalidInput, err, "parse form")
	}

	if v := r.PostFormValue(fieldSize); v != "" {
		opts.Size = v
	}
	if v := r.PostFormValue(fieldStyle); v != "" {
		if st, err := pattern.ParseStyle(v); err == nil {
			opts.Style = string(st)
		} else {
			opts.Style = defaults.Style
		}
	}
	if v := r.PostFormValue(fieldColor); v != "" {
		opts.Color = v
	}
	if v := r.PostFormValue(fieldPosition); v != "" {
		opts.BackgroundPosition = v
	}

	numbers := []struct {
		name string
		dst  *float64
	}{
		{fieldSpacing, &opts.Spacing},
		{fieldMargin, &opts.Margin},
		{fieldOpacity, &opts.BackgroundOpacity},
	}
	for _, n := range numbers {
		v := strings.TrimSpace(r.PostFormValue(n.name))
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, herrors.New(herrors.ErrCodeInvalidParameter, "%s must be a number, got %q", n.name, v)
		}
		*n.dst = f
	}
	opts.BackgroundOpacity = pipeline.ClampOpacity(opts.BackgroundOpacity)

	bg, err := readUpload(r, fieldBackground)
	if err != nil {
		return opts, err
	}
	opts.Background = bg
	return opts, nil
}

// readUpload returns the named file's contents, or nil when the field is
// absent or empty.
func readUpload(r *http.Request, field string) ([]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	f, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInvalidInput, err, "read %s", field)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInvalidInput, err, "read %s", field)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}
