package gradebook

func sampleCourse() CourseInfo {
	return CourseInfo{ID: 1, Name: "Course 1"}
}

func sampleGroups() []AssignmentGroup {
	return []AssignmentGroup{{
		ID:          1,
		Name:        "Group 1",
		CourseID:    1,
		GroupWeight: 0.3,
		Assignments: []Assignment{
			{ID: 101, Name: "Assignment 1", DueAt: "2023-01-15T23:59:59Z", PointsPossible: 100},
			{ID: 102, Name: "Assignment 2", DueAt: "2023-02-15T23:59:59Z", PointsPossible: 100},
		},
	}}
}

func submission(learnerID, assignmentID int, score float64, submittedAt string) LearnerSubmission {
	return LearnerSubmission{
		LearnerID:    learnerID,
		AssignmentID: assignmentID,
		Submission:   Submission{Score: score, SubmittedAt: submittedAt},
	}
}

func sampleSubmissions() []LearnerSubmission {
	return []LearnerSubmission{
		submission(1, 101, 80, "2023-01-14T23:59:59Z"),
		submission(1, 102, 90, "2023-02-16T23:59:59Z"),
	}
}

func singleAssignmentGroup(courseID int, a Assignment) AssignmentGroup {
	return AssignmentGroup{ID: 7, Name: "G", CourseID: courseID, GroupWeight: 0.5, Assignments: []Assignment{a}}
}
