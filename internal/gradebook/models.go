// Package gradebook computes per-learner grades for a single course.
//
// The computation is a three-stage pipeline over in-memory records:
//
//   - ValidateGroups checks that every assignment group belongs to the course.
//   - JoinSubmissions indexes submissions per learner and annotates them with
//     the owning assignment's due date, points possible and group weight.
//   - Aggregate turns the annotated table into one LearnerResult per learner.
//
// Compute runs the three stages and never returns an error: any failure is
// logged and yields an empty result set.
package gradebook

import "time"

// LatePenaltyRate is the fraction of points possible deducted from a
// submission made after its due date.
const LatePenaltyRate = 0.1

type CourseInfo struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name"`
}

type AssignmentGroup struct {
	ID          int          `json:"id" validate:"required"`
	Name        string       `json:"name"`
	CourseID    int          `json:"course_id" validate:"required"`
	GroupWeight float64      `json:"group_weight"`
	Assignments []Assignment `json:"assignments" validate:"dive"`
}

// Assignment is a gradable item inside a group. DueAt is kept as the raw
// timestamp text and parsed when a submission is joined against it.
type Assignment struct {
	ID             int    `json:"id" validate:"required"`
	Name           string `json:"name"`
	DueAt          string `json:"due_at" validate:"required"`
	PointsPossible Points `json:"points_possible"`
}

type Submission struct {
	Score       float64 `json:"score"`
	SubmittedAt string  `json:"submitted_at" validate:"required"`
}

type LearnerSubmission struct {
	LearnerID    int        `json:"learner_id" validate:"required"`
	AssignmentID int        `json:"assignment_id" validate:"required"`
	Submission   Submission `json:"submission"`
}

// AnnotatedSubmission is one learner's submission for one assignment,
// merged with the assignment metadata once a matching assignment is found.
// Enriched is false when no group contains the assignment.
type AnnotatedSubmission struct {
	LearnerID      int
	AssignmentID   int
	Score          float64
	SubmittedAt    time.Time
	DueAt          time.Time
	PointsPossible Points
	GroupWeight    float64
	Enriched       bool
}

// Late reports whether the submission was made strictly after the due date.
func (a AnnotatedSubmission) Late() bool { return a.SubmittedAt.After(a.DueAt) }
