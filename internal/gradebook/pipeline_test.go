package gradebook

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline() (*Pipeline, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewPipeline(logger), &buf
}

func TestPipeline_SampleCourse(t *testing.T) {
	p, _ := newTestPipeline()

	got := p.Compute(sampleCourse(), sampleGroups(), sampleSubmissions())

	require.Len(t, got, 1)
	assert.Equal(t, LearnerResult{ID: 1, Avg: 80, Scores: map[int]float64{101: 0.8}}, got[0])
}

func TestPipeline_CourseMismatchYieldsEmpty(t *testing.T) {
	p, logs := newTestPipeline()
	groups := sampleGroups()
	groups[0].CourseID = 2

	got := p.Compute(sampleCourse(), groups, sampleSubmissions())

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "grade computation failed")
	assert.Contains(t, logs.String(), "assignment group 1 does not belong to course 1")
}

func TestPipeline_BadTimestampYieldsEmpty(t *testing.T) {
	p, logs := newTestPipeline()
	subs := []LearnerSubmission{submission(1, 101, 80, "14/01/2023")}

	got := p.Compute(sampleCourse(), sampleGroups(), subs)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "submitted_at")
}

func TestPipeline_NoSubmissions(t *testing.T) {
	p, logs := newTestPipeline()

	got := p.Compute(sampleCourse(), sampleGroups(), nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NotContains(t, logs.String(), "grade computation failed")
}

func TestPipeline_Idempotent(t *testing.T) {
	p, _ := newTestPipeline()
	subs := []LearnerSubmission{
		submission(2, 102, 60, "2023-02-01"),
		submission(1, 101, 80, "2023-01-14"),
		submission(2, 101, 70, "2023-01-20"),
		submission(1, 102, 100, "2023-02-10"),
	}

	first := p.Compute(sampleCourse(), sampleGroups(), subs)
	second := p.Compute(sampleCourse(), sampleGroups(), subs)

	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, 2, first[0].ID)
	assert.Equal(t, 1, first[1].ID)
}

func TestPipeline_DoesNotMutateInputs(t *testing.T) {
	p, _ := newTestPipeline()
	groups := sampleGroups()
	subs := sampleSubmissions()

	p.Compute(sampleCourse(), groups, subs)

	assert.Equal(t, sampleGroups(), groups)
	assert.Equal(t, sampleSubmissions(), subs)
}

func TestCompute_DefaultLogger(t *testing.T) {
	got := Compute(sampleCourse(), sampleGroups(), sampleSubmissions())
	require.Len(t, got, 1)
	assert.Equal(t, 80.0, got[0].Avg)
}

func TestPipeline_OverflowYieldsEmpty(t *testing.T) {
	p, logs := newTestPipeline()
	groups := []AssignmentGroup{{
		ID: 1, CourseID: 1, GroupWeight: 1,
		Assignments: []Assignment{
			{ID: 1, DueAt: "2023-01-15", PointsPossible: 1},
			{ID: 2, DueAt: "2023-01-15", PointsPossible: 1},
		},
	}}
	subs := []LearnerSubmission{
		submission(1, 1, 1.7e308, "2023-01-14"),
		submission(1, 2, 1.7e308, "2023-01-14"),
	}

	got := p.Compute(sampleCourse(), groups, subs)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), ErrNonFinite.Error())
}
