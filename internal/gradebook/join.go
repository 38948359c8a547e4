package gradebook

import (
	"maps"
	"slices"
)

// LearnerTable holds annotated submissions keyed by learner id and then
// assignment id. Learners keep the order in which they were first seen.
type LearnerTable struct {
	order    []int
	learners map[int]map[int]*AnnotatedSubmission
}

func newLearnerTable() *LearnerTable {
	return &LearnerTable{learners: map[int]map[int]*AnnotatedSubmission{}}
}

// Learners returns learner ids in first-seen order.
func (t *LearnerTable) Learners() []int { return slices.Clone(t.order) }

func (t *LearnerTable) Len() int { return len(t.order) }

// Entries returns a learner's annotated submissions ordered by assignment id.
func (t *LearnerTable) Entries(learnerID int) []AnnotatedSubmission {
	byAssignment := t.learners[learnerID]
	out := make([]AnnotatedSubmission, 0, len(byAssignment))
	for _, id := range slices.Sorted(maps.Keys(byAssignment)) {
		out = append(out, *byAssignment[id])
	}
	return out
}

// Entry looks up one learner's submission for one assignment.
func (t *LearnerTable) Entry(learnerID, assignmentID int) (AnnotatedSubmission, bool) {
	e, ok := t.learners[learnerID][assignmentID]
	if !ok {
		return AnnotatedSubmission{}, false
	}
	return *e, true
}

func (t *LearnerTable) put(e *AnnotatedSubmission) {
	byAssignment, ok := t.learners[e.LearnerID]
	if !ok {
		byAssignment = map[int]*AnnotatedSubmission{}
		t.learners[e.LearnerID] = byAssignment
		t.order = append(t.order, e.LearnerID)
	}
	byAssignment[e.AssignmentID] = e
}

// JoinSubmissions indexes submissions per learner and assignment, then
// annotates every entry whose assignment appears in groups.
//
// A repeated (learner, assignment) pair keeps the last submission in input
// order. Assignments nobody submitted produce no entry. Entries for
// assignment ids absent from every group stay un-enriched. When the same
// assignment id appears in several groups the last one wins.
//
// The only error is a timestamp that cannot be parsed.
func JoinSubmissions(subs []LearnerSubmission, groups []AssignmentGroup) (*LearnerTable, error) {
	table := newLearnerTable()

	for _, s := range subs {
		submittedAt, err := ParseTimestamp(s.Submission.SubmittedAt)
		if err != nil {
			return nil, &TimestampError{
				Field:        "submitted_at",
				Value:        s.Submission.SubmittedAt,
				LearnerID:    s.LearnerID,
				AssignmentID: s.AssignmentID,
				Err:          err,
			}
		}
		table.put(&AnnotatedSubmission{
			LearnerID:    s.LearnerID,
			AssignmentID: s.AssignmentID,
			Score:        s.Submission.Score,
			SubmittedAt:  submittedAt,
		})
	}

	for _, g := range groups {
		for _, a := range g.Assignments {
			if err := table.enrich(g, a); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

// enrich annotates every learner entry for assignment a. The due date is
// only parsed when at least one learner submitted the assignment.
func (t *LearnerTable) enrich(g AssignmentGroup, a Assignment) error {
	for _, learnerID := range t.order {
		e, ok := t.learners[learnerID][a.ID]
		if !ok {
			continue
		}
		dueAt, err := ParseTimestamp(a.DueAt)
		if err != nil {
			return &TimestampError{
				Field:        "due_at",
				Value:        a.DueAt,
				LearnerID:    learnerID,
				AssignmentID: a.ID,
				Err:          err,
			}
		}
		e.DueAt = dueAt
		e.PointsPossible = a.PointsPossible
		e.GroupWeight = g.GroupWeight
		e.Enriched = true
	}
	return nil
}
