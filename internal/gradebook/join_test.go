package gradebook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinSubmissions_Annotates(t *testing.T) {
	table, err := JoinSubmissions(sampleSubmissions(), sampleGroups())
	require.NoError(t, err)

	assert.Equal(t, []int{1}, table.Learners())

	e, ok := table.Entry(1, 101)
	require.True(t, ok)
	assert.True(t, e.Enriched)
	assert.Equal(t, 80.0, e.Score)
	assert.Equal(t, Points(100), e.PointsPossible)
	assert.Equal(t, 0.3, e.GroupWeight)
	assert.Equal(t, time.Date(2023, 1, 15, 23, 59, 59, 0, time.UTC), e.DueAt.UTC())
	assert.Equal(t, time.Date(2023, 1, 14, 23, 59, 59, 0, time.UTC), e.SubmittedAt.UTC())
	assert.False(t, e.Late())

	late, ok := table.Entry(1, 102)
	require.True(t, ok)
	assert.True(t, late.Late())
}

func TestJoinSubmissions_LastWriteWins(t *testing.T) {
	subs := []LearnerSubmission{
		submission(5, 101, 40, "2023-01-10"),
		submission(5, 101, 95, "2023-01-12"),
	}
	table, err := JoinSubmissions(subs, sampleGroups())
	require.NoError(t, err)

	e, ok := table.Entry(5, 101)
	require.True(t, ok)
	assert.Equal(t, 95.0, e.Score)
	assert.Equal(t, time.Date(2023, 1, 12, 0, 0, 0, 0, time.UTC), e.SubmittedAt)
	assert.Len(t, table.Entries(5), 1)
}

func TestJoinSubmissions_FirstSeenLearnerOrder(t *testing.T) {
	subs := []LearnerSubmission{
		submission(132, 101, 1, "2023-01-10"),
		submission(7, 101, 1, "2023-01-10"),
		submission(132, 102, 1, "2023-01-10"),
		submission(50, 102, 1, "2023-01-10"),
	}
	table, err := JoinSubmissions(subs, sampleGroups())
	require.NoError(t, err)
	assert.Equal(t, []int{132, 7, 50}, table.Learners())
}

func TestJoinSubmissions_UnknownAssignmentStaysBare(t *testing.T) {
	subs := []LearnerSubmission{submission(1, 999, 50, "2023-01-10")}
	table, err := JoinSubmissions(subs, sampleGroups())
	require.NoError(t, err)

	e, ok := table.Entry(1, 999)
	require.True(t, ok)
	assert.False(t, e.Enriched)
	assert.True(t, e.DueAt.IsZero())
}

func TestJoinSubmissions_UnsubmittedAssignmentsAbsent(t *testing.T) {
	subs := []LearnerSubmission{submission(1, 101, 50, "2023-01-10")}
	table, err := JoinSubmissions(subs, sampleGroups())
	require.NoError(t, err)

	_, ok := table.Entry(1, 102)
	assert.False(t, ok)
	assert.Len(t, table.Entries(1), 1)
}

func TestJoinSubmissions_EntriesSortedByAssignment(t *testing.T) {
	subs := []LearnerSubmission{
		submission(1, 102, 1, "2023-01-10"),
		submission(1, 101, 1, "2023-01-10"),
	}
	table, err := JoinSubmissions(subs, sampleGroups())
	require.NoError(t, err)

	entries := table.Entries(1)
	require.Len(t, entries, 2)
	assert.Equal(t, 101, entries[0].AssignmentID)
	assert.Equal(t, 102, entries[1].AssignmentID)
}

func TestJoinSubmissions_TimestampErrors(t *testing.T) {
	t.Run("bad submitted_at", func(t *testing.T) {
		subs := []LearnerSubmission{submission(1, 101, 50, "yesterday")}
		_, err := JoinSubmissions(subs, sampleGroups())

		var terr *TimestampError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "submitted_at", terr.Field)
		assert.Equal(t, 101, terr.AssignmentID)
	})

	t.Run("bad due_at on submitted assignment", func(t *testing.T) {
		groups := []AssignmentGroup{singleAssignmentGroup(1, Assignment{ID: 101, DueAt: "not a date", PointsPossible: 10})}
		_, err := JoinSubmissions([]LearnerSubmission{submission(1, 101, 5, "2023-01-10")}, groups)

		var terr *TimestampError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "due_at", terr.Field)
	})

	t.Run("bad due_at nobody submitted is ignored", func(t *testing.T) {
		groups := []AssignmentGroup{singleAssignmentGroup(1, Assignment{ID: 300, DueAt: "", PointsPossible: 10})}
		_, err := JoinSubmissions([]LearnerSubmission{submission(1, 101, 5, "2023-01-10")}, groups)
		assert.NoError(t, err)
	})
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-01-15T23:59:59Z", time.Date(2023, 1, 15, 23, 59, 59, 0, time.UTC)},
		{"2023-01-15T23:59:59.5Z", time.Date(2023, 1, 15, 23, 59, 59, 500_000_000, time.UTC)},
		{"2023-01-15T23:59:59", time.Date(2023, 1, 15, 23, 59, 59, 0, time.UTC)},
		{"2023-01-15T10:30", time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2023-01-15 08:00:00", time.Date(2023, 1, 15, 8, 0, 0, 0, time.UTC)},
		{"2023-01-15", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{" 2023-01-15 ", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "15/01/2023", "tomorrow"} {
		_, err := ParseTimestamp(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseTimestamp_ZonelessIgnoresLocal(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("UTC+9", 9*60*60)
	t.Cleanup(func() { time.Local = orig })

	for _, in := range []string{"2023-01-15T10:30", "2023-01-15T10:30:00", "2023-01-15 10:30:00", "2023-01-15"} {
		t.Run(in, func(t *testing.T) {
			got, err := ParseTimestamp(in)
			require.NoError(t, err)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimestamp_Offset(t *testing.T) {
	got, err := ParseTimestamp("2023-01-15T20:00:00-05:00")
	require.NoError(t, err)
	assert.True(t, time.Date(2023, 1, 16, 1, 0, 0, 0, time.UTC).Equal(got))
}
