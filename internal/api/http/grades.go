package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/mind-engage/mindengage-grades/internal/course"
)

// ComputeGradesHandler grades a dataset sent in the request body without
// storing it. Any grading failure yields 200 with an empty array.
//
// POST /grades
func ComputeGradesHandler(logger *slog.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		d, err := course.DecodeDataset(r.Body)
		if err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		writeJSON(w, nethttp.StatusOK, d.Grades(logger))
	}
}

// CourseGradesHandler grades a stored course.
//
// GET /courses/{courseID}/grades
func CourseGradesHandler(store course.Store, logger *slog.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		courseID, ok := intParam(r, "courseID")
		if !ok {
			nethttp.Error(w, "bad course id", nethttp.StatusBadRequest)
			return
		}
		results, err := course.Grades(r.Context(), store, courseID, logger)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, results)
	}
}
