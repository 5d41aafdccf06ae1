// Package render turns a computed series.Table into a response body in one
// of the supported formats and maps calculation errors to HTTP responses.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"Radviz/internal/calc/export"
	"Radviz/internal/calc/plot"
	"Radviz/internal/calc/report"
	"Radviz/internal/calc/series"
	"Radviz/internal/physics"
)

type Format string

const (
	JSON Format = "json"
	PNG  Format = "png"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

// MaxBody bounds request bodies.
const MaxBody = 1 << 20

var ErrFormat = errors.New("render: unsupported format")

var contentTypes = map[Format]string{
	JSON: "application/json",
	PNG:  "image/png",
	XLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	PDF:  "application/pdf",
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
	}
	return f, nil
}

// Encode writes t to w in format f.
func Encode(w io.Writer, f Format, t *series.Table) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case PNG:
		return plot.PNG(w, t)
	case XLSX:
		return export.XLSX(w, t)
	case PDF:
		return report.PDF(w, t)
	}
	return fmt.Errorf("%w: %q", ErrFormat, f)
}

// Filename is the attachment name offered for t.
func Filename(t *series.Table, f Format) string {
	name := t.Tool
	if name == "" {
		name = "result"
	}
	return fmt.Sprintf("%s.%s", name, f)
}

// Serve decodes a JSON body into In, runs calc and writes the result as f.
func Serve[In any](w http.ResponseWriter, r *http.Request, f Format, calc func(In) (*series.Table, error)) {
	var in In
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBody)).Decode(&in); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	t, err := calc(in)
	if err != nil {
		Error(w, r, err)
		return
	}
	Write(w, r, f, t)
}

// Write renders t into a buffer first so an encoding failure can still
// produce a clean error response.
func Write(w http.ResponseWriter, r *http.Request, f Format, t *series.Table) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, t); err != nil {
		Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[f])
	if f != JSON {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(t, f)))
	}
	buf.WriteTo(w)
}

// JSONBody writes v as JSON with the given status.
func JSONBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error answers {"error": ...} with the status physics.HTTPStatus assigns.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := physics.HTTPStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "calculation failed", "path", r.URL.Path, "err", err)
		msg = "Calculation error"
	}
	JSONBody(w, status, map[string]string{"error": msg})
}
