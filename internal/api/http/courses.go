package http

import (
	"encoding/json"
	"log/slog"
	nethttp "net/http"

	"github.com/mind-engage/mindengage-grades/internal/auth"
	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/gradebook"
	"github.com/mind-engage/mindengage-grades/internal/storage"
)

// Handlers only; routes live in router.go.

// POST /courses  {"id": 1, "name": "..."}
func PutCourseHandler(store course.Store, logger *slog.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var c gradebook.CourseInfo
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		if err := course.ValidateRecord(c); err != nil {
			writeError(w, r, err)
			return
		}
		if err := store.PutCourse(r.Context(), c); err != nil {
			writeError(w, r, err)
			return
		}
		audit(r, logger, "course saved", "course_id", c.ID)
		writeJSON(w, nethttp.StatusOK, c)
	}
}

// GET /courses
func ListCoursesHandler(store course.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		cs, err := store.ListCourses(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, cs)
	}
}

// PUT /courses/{courseID}/groups/{groupID}
//
// The body's id may be omitted; when present it must match the URL.
func PutGroupHandler(store course.Store, logger *slog.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		courseID, ok := intParam(r, "courseID")
		if !ok {
			nethttp.Error(w, "bad course id", nethttp.StatusBadRequest)
			return
		}
		groupID, ok := intParam(r, "groupID")
		if !ok {
			nethttp.Error(w, "bad group id", nethttp.StatusBadRequest)
			return
		}
		var g gradebook.AssignmentGroup
		if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		if g.ID == 0 {
			g.ID = groupID
		}
		if g.ID != groupID {
			nethttp.Error(w, "group id does not match path", nethttp.StatusBadRequest)
			return
		}
		if err := course.ValidateRecord(g); err != nil {
			writeError(w, r, err)
			return
		}
		if err := store.PutGroup(r.Context(), courseID, g); err != nil {
			writeError(w, r, err)
			return
		}
		audit(r, logger, "group saved", "course_id", courseID, "group_id", g.ID)
		writeJSON(w, nethttp.StatusOK, g)
	}
}

// POST /courses/{courseID}/submissions  [ {learner submission}, ... ]
func AddSubmissionsHandler(store course.Store, logger *slog.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		courseID, ok := intParam(r, "courseID")
		if !ok {
			nethttp.Error(w, "bad course id", nethttp.StatusBadRequest)
			return
		}
		var subs []gradebook.LearnerSubmission
		if err := json.NewDecoder(r.Body).Decode(&subs); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		for _, s := range subs {
			if err := course.ValidateRecord(s); err != nil {
				writeError(w, r, err)
				return
			}
		}
		if err := store.AddSubmissions(r.Context(), courseID, subs); err != nil {
			writeError(w, r, err)
			return
		}
		audit(r, logger, "submissions added", "course_id", courseID, "count", len(subs))
		writeJSON(w, nethttp.StatusOK, map[string]int{"added": len(subs)})
	}
}

// POST /courses/{courseID}/import  {"key": "datasets/....json"}
//
// Loads a dataset document from the blob store and imports it. The
// document's course id must match the path.
func ImportDatasetHandler(store course.Store, bs storage.BlobStore, logger *slog.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		courseID, ok := intParam(r, "courseID")
		if !ok {
			nethttp.Error(w, "bad course id", nethttp.StatusBadRequest)
			return
		}
		var req struct {
			Key string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		rc, err := bs.Get(r.Context(), req.Key)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer rc.Close()

		d, err := course.DecodeDataset(rc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if d.Course.ID != courseID {
			nethttp.Error(w, "dataset is for another course", nethttp.StatusBadRequest)
			return
		}
		if err := course.Import(r.Context(), store, d); err != nil {
			writeError(w, r, err)
			return
		}
		audit(r, logger, "dataset imported", "course_id", courseID, "key", req.Key)
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"course_id":   d.Course.ID,
			"groups":      len(d.Groups),
			"submissions": len(d.Submissions),
		})
	}
}

// audit logs a course write together with the subject that made it.
func audit(r *nethttp.Request, logger *slog.Logger, msg string, args ...any) {
	logger.InfoContext(r.Context(), msg, append([]any{"subject", auth.SubjectFromContext(r.Context())}, args...)...)
}
