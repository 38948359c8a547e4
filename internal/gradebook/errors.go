package gradebook

import (
	"errors"
	"fmt"
)

// ErrCourseMismatch is matched by every ValidationError.
var ErrCourseMismatch = errors.New("assignment group does not belong to course")

// ValidationError reports the first assignment group whose course id does
// not match the course being graded.
type ValidationError struct {
	GroupID  int
	CourseID int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("assignment group %d does not belong to course %d", e.GroupID, e.CourseID)
}

func (e *ValidationError) Unwrap() error { return ErrCourseMismatch }

// TimestampError is returned by the joiner when a due_at or submitted_at
// value cannot be parsed.
type TimestampError struct {
	Field        string
	Value        string
	LearnerID    int
	AssignmentID int
	Err          error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("learner %d assignment %d: invalid %s %q: %v",
		e.LearnerID, e.AssignmentID, e.Field, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error { return e.Err }

// ErrNonFinite is returned when a total overflows, leaving a result that
// JSON cannot carry.
var ErrNonFinite = errors.New("non-finite grade")
