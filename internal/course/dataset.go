// Package course stores course datasets (course info, assignment groups and
// learner submissions) and grades them on demand.
package course

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/mind-engage/mindengage-grades/internal/gradebook"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrInvalidDataset = errors.New("invalid dataset")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

//go:embed sample.json
var sampleJSON []byte

// Dataset is everything one grade computation needs.
type Dataset struct {
	Course      gradebook.CourseInfo          `json:"course_info" validate:"required"`
	Groups      []gradebook.AssignmentGroup   `json:"assignment_groups" validate:"dive"`
	Submissions []gradebook.LearnerSubmission `json:"learner_submissions" validate:"dive"`
}

// Validate checks the dataset's shape: ids present and timestamps non-empty.
// It does not check that groups belong to the course; that is the grade
// pipeline's job.
func (d *Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return nil
}

// Grades runs the grade pipeline over the dataset.
func (d *Dataset) Grades(logger *slog.Logger) []gradebook.LearnerResult {
	return gradebook.NewPipeline(logger).Compute(d.Course, d.Groups, d.Submissions)
}

// DecodeDataset reads a JSON dataset document.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return d, nil
}

// Sample returns the bundled example course.
func Sample() Dataset {
	var d Dataset
	if err := json.Unmarshal(sampleJSON, &d); err != nil {
		panic(fmt.Sprintf("course: bad sample dataset: %v", err))
	}
	return d
}

// ValidateRecord checks a single uploaded record (a group or a submission)
// the same way Validate checks a whole dataset.
func ValidateRecord(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return nil
}
