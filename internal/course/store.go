package course

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mind-engage/mindengage-grades/internal/gradebook"
)

// Store persists grading inputs. Computed grades are never stored.
//
// Groups are filed under the course they were uploaded to; their own
// CourseID is kept as sent so that a mismatch still reaches the grade
// pipeline. Submissions keep their upload order.
type Store interface {
	PutCourse(ctx context.Context, c gradebook.CourseInfo) error
	GetCourse(ctx context.Context, id int) (gradebook.CourseInfo, error)
	ListCourses(ctx context.Context) ([]gradebook.CourseInfo, error)

	// PutGroup creates or replaces a group and all of its assignments.
	PutGroup(ctx context.Context, courseID int, g gradebook.AssignmentGroup) error
	// AddSubmissions appends submissions after any already stored.
	AddSubmissions(ctx context.Context, courseID int, subs []gradebook.LearnerSubmission) error

	// ImportDataset upserts the course and its groups and appends the
	// submissions as one unit: either all of it is written or none of it.
	ImportDataset(ctx context.Context, d Dataset) error

	LoadDataset(ctx context.Context, courseID int) (Dataset, error)
}

// Import validates a whole dataset and writes it atomically.
func Import(ctx context.Context, s Store, d Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.ImportDataset(ctx, d); err != nil {
		return fmt.Errorf("import course %d: %w", d.Course.ID, err)
	}
	return nil
}

// Grades loads a course's dataset and grades it. Errors come only from the
// store; pipeline failures produce an empty slice.
func Grades(ctx context.Context, s Store, courseID int, logger *slog.Logger) ([]gradebook.LearnerResult, error) {
	d, err := s.LoadDataset(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return d.Grades(logger), nil
}
