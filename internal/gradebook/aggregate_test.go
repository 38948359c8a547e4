package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggregate(t *testing.T, subs []LearnerSubmission, groups []AssignmentGroup) []LearnerResult {
	t.Helper()
	table, err := JoinSubmissions(subs, groups)
	require.NoError(t, err)
	return Aggregate(table)
}

func TestAggregate_SampleCourse(t *testing.T) {
	got := aggregate(t, sampleSubmissions(), sampleGroups())

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 80.0, got[0].Avg)
	assert.Equal(t, map[int]float64{101: 0.8}, got[0].Scores)
}

func TestAggregate_Rules(t *testing.T) {
	due := "2023-03-01T12:00:00Z"

	tests := []struct {
		name       string
		assignment Assignment
		sub        LearnerSubmission
		wantAvg    float64
		wantScores map[int]float64
	}{
		{
			name:       "on time counts",
			assignment: Assignment{ID: 1, DueAt: due, PointsPossible: 50},
			sub:        submission(9, 1, 40, "2023-02-28T12:00:00Z"),
			wantAvg:    80,
			wantScores: map[int]float64{1: 0.8},
		},
		{
			name:       "submitted exactly at due time is on time",
			assignment: Assignment{ID: 1, DueAt: due, PointsPossible: 50},
			sub:        submission(9, 1, 25, due),
			wantAvg:    50,
			wantScores: map[int]float64{1: 0.5},
		},
		{
			name:       "late submission excluded",
			assignment: Assignment{ID: 1, DueAt: due, PointsPossible: 50},
			sub:        submission(9, 1, 50, "2023-03-01T12:00:01Z"),
			wantAvg:    0,
			wantScores: map[int]float64{},
		},
		{
			name:       "zero points possible excluded",
			assignment: Assignment{ID: 1, DueAt: due, PointsPossible: 0},
			sub:        submission(9, 1, 10, "2023-02-01"),
			wantAvg:    0,
			wantScores: map[int]float64{},
		},
		{
			name:       "non-numeric points possible excluded",
			assignment: Assignment{ID: 1, DueAt: due, PointsPossible: NaNPoints},
			sub:        submission(9, 1, 10, "2023-02-01"),
			wantAvg:    0,
			wantScores: map[int]float64{},
		},
		{
			name:       "score above points possible is not clamped",
			assignment: Assignment{ID: 1, DueAt: due, PointsPossible: 20},
			sub:        submission(9, 1, 25, "2023-02-01"),
			wantAvg:    125,
			wantScores: map[int]float64{1: 1.25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := []AssignmentGroup{singleAssignmentGroup(1, tt.assignment)}
			got := aggregate(t, []LearnerSubmission{tt.sub}, groups)

			require.Len(t, got, 1)
			assert.Equal(t, 9, got[0].ID)
			assert.InDelta(t, tt.wantAvg, got[0].Avg, 1e-9)
			assert.Equal(t, tt.wantScores, got[0].Scores)
		})
	}
}

func TestAggregate_UnknownAssignmentContributesNothing(t *testing.T) {
	subs := append(sampleSubmissions(), submission(1, 555, 100, "2023-01-01"))
	got := aggregate(t, subs, sampleGroups())

	require.Len(t, got, 1)
	assert.Equal(t, 80.0, got[0].Avg)
	assert.NotContains(t, got[0].Scores, 555)
}

func TestAggregate_LearnerWithNothingCountedStillReported(t *testing.T) {
	subs := []LearnerSubmission{
		submission(3, 102, 90, "2023-03-01"),
		submission(4, 101, 47, "2023-01-01"),
	}
	got := aggregate(t, subs, sampleGroups())

	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, 0.0, got[0].Avg)
	assert.Empty(t, got[0].Scores)
	assert.Equal(t, 4, got[1].ID)
	assert.InDelta(t, 47.0, got[1].Avg, 1e-9)
}

func TestAggregate_TotalsAcrossGroups(t *testing.T) {
	groups := []AssignmentGroup{
		{ID: 1, CourseID: 1, GroupWeight: 0.25, Assignments: []Assignment{
			{ID: 1, DueAt: "2023-05-01", PointsPossible: 50},
		}},
		{ID: 2, CourseID: 1, GroupWeight: 0.75, Assignments: []Assignment{
			{ID: 2, DueAt: "2023-05-01", PointsPossible: 150},
			{ID: 3, DueAt: "2023-05-01", PointsPossible: 0},
		}},
	}
	subs := []LearnerSubmission{
		submission(1, 1, 39, "2023-04-01"),
		submission(1, 2, 140, "2023-04-01"),
		submission(1, 3, 10, "2023-04-01"),
	}
	got := aggregate(t, subs, groups)

	require.Len(t, got, 1)
	// group_weight is carried but not applied: (39+140)/(50+150)
	assert.InDelta(t, 89.5, got[0].Avg, 1e-9)
	assert.InDelta(t, 0.78, got[0].Scores[1], 1e-9)
	assert.InDelta(t, 140.0/150.0, got[0].Scores[2], 1e-9)
	assert.NotContains(t, got[0].Scores, 3)
}

func TestAggregate_EmptyTable(t *testing.T) {
	got := Aggregate(newLearnerTable())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
