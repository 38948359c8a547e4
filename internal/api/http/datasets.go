package http

import (
	"bytes"
	"io"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/storage"
)

const maxDatasetBytes = 32 << 20

// MountDatasets serves raw dataset documents kept in the blob store.
func MountDatasets(r chi.Router, bs storage.BlobStore) {
	// POST /datasets  -> stores the body, returns {"key": ...}
	r.Post("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		body, err := io.ReadAll(nethttp.MaxBytesReader(w, r.Body, maxDatasetBytes))
		if err != nil {
			nethttp.Error(w, "body too large", nethttp.StatusRequestEntityTooLarge)
			return
		}
		if _, err := course.DecodeDataset(bytes.NewReader(body)); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		key, err := bs.Put(r.Context(), "datasets/"+uuid.NewString()+".json", bytes.NewReader(body))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, nethttp.StatusCreated, map[string]string{"key": key})
	})

	// GET /datasets/*  -> returns the blob at whatever follows /datasets/
	r.Get("/*", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		rc, err := bs.Get(r.Context(), chi.URLParam(r, "*"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.Copy(w, rc)
	})
}
