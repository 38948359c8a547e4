package gradebook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGroups(t *testing.T) {
	course := CourseInfo{ID: 451, Name: "Intro"}

	tests := []struct {
		name        string
		groups      []AssignmentGroup
		wantErr     bool
		wantGroupID int
	}{
		{
			name:   "no groups",
			groups: nil,
		},
		{
			name: "all groups match",
			groups: []AssignmentGroup{
				{ID: 1, CourseID: 451},
				{ID: 2, CourseID: 451},
			},
		},
		{
			name: "mismatch reported",
			groups: []AssignmentGroup{
				{ID: 1, CourseID: 451},
				{ID: 2, CourseID: 999},
			},
			wantErr:     true,
			wantGroupID: 2,
		},
		{
			name: "stops at first mismatch",
			groups: []AssignmentGroup{
				{ID: 3, CourseID: 7},
				{ID: 4, CourseID: 8},
			},
			wantErr:     true,
			wantGroupID: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroups(course, tt.groups)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantGroupID, verr.GroupID)
			assert.Equal(t, 451, verr.CourseID)
			assert.True(t, errors.Is(err, ErrCourseMismatch))
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{GroupID: 12, CourseID: 3}
	assert.Equal(t, "assignment group 12 does not belong to course 3", err.Error())
}
