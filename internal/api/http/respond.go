package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/storage"
)

// writeJSON encodes v before anything is sent, so an encode failure becomes
// a 500 instead of a truncated 200.
func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
		nethttp.Error(w, "internal error", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// intParam reads a positive integer URL parameter.
func intParam(r *nethttp.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// writeError maps domain errors onto status codes.
func writeError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		nethttp.Error(w, "course not found", nethttp.StatusNotFound)
	case errors.Is(err, storage.ErrNotFound):
		nethttp.Error(w, "blob not found", nethttp.StatusNotFound)
	case errors.Is(err, course.ErrInvalidDataset), errors.Is(err, storage.ErrEmptyKey):
		nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		nethttp.Error(w, "internal error", nethttp.StatusInternalServerError)
	}
}
