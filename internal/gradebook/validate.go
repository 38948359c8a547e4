package gradebook

// ValidateGroups checks that every group belongs to course. It stops at the
// first mismatch and returns a *ValidationError naming that group.
func ValidateGroups(course CourseInfo, groups []AssignmentGroup) error {
	for _, g := range groups {
		if g.CourseID != course.ID {
			return &ValidationError{GroupID: g.ID, CourseID: course.ID}
		}
	}
	return nil
}
