package rbac

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

const (
	PermGradesCompute = "grades:compute"
	PermGradesView    = "grades:view"
	PermCourseWrite   = "course:write"
	PermCourseView    = "course:view"
)

var RolePermissions = map[string][]string{
	RoleStudent: {
		PermGradesCompute,
		PermCourseView,
	},
	RoleTeacher: {
		"grades:*",
		"course:*",
	},
	RoleAdmin: {
		"*", // everything
	},
}
