package gradebook

import (
	"fmt"
	"log/slog"
)

// Pipeline runs validation, joining and aggregation and reports failures to
// its logger.
type Pipeline struct {
	logger *slog.Logger
}

// NewPipeline returns a Pipeline logging to logger, or to slog.Default when
// logger is nil.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger.With("component", "gradebook")}
}

// Compute grades every learner in subs. It never fails: a validation error,
// an unparseable timestamp, a total that overflows to infinity or a panic
// inside the pipeline is logged and an empty (non-nil) slice is returned.
func (p *Pipeline) Compute(course CourseInfo, groups []AssignmentGroup, subs []LearnerSubmission) (results []LearnerResult) {
	defer func() {
		if r := recover(); r != nil {
			p.fail(course, fmt.Errorf("panic: %v", r))
			results = []LearnerResult{}
		}
	}()

	out, err := run(course, groups, subs)
	if err != nil {
		p.fail(course, err)
		return []LearnerResult{}
	}
	p.logger.Debug("grades computed",
		"course_id", course.ID,
		"groups", len(groups),
		"submissions", len(subs),
		"learners", len(out))
	return out
}

func (p *Pipeline) fail(course CourseInfo, err error) {
	p.logger.Error("grade computation failed", "course_id", course.ID, "error", err)
}

func run(course CourseInfo, groups []AssignmentGroup, subs []LearnerSubmission) ([]LearnerResult, error) {
	if err := ValidateGroups(course, groups); err != nil {
		return nil, err
	}
	table, err := JoinSubmissions(subs, groups)
	if err != nil {
		return nil, err
	}
	results := Aggregate(table)
	if err := checkFinite(results); err != nil {
		return nil, err
	}
	return results, nil
}

// Compute runs the pipeline with the default logger.
func Compute(course CourseInfo, groups []AssignmentGroup, subs []LearnerSubmission) []LearnerResult {
	return NewPipeline(nil).Compute(course, groups, subs)
}
