package dto

type AdminCreateUserRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=student instructor admin"`
}

type AdminUpdateUserRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=student instructor admin"`
}

type RoleCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type PlatformStatsResponse struct {
	TotalUsers       int64       `json:"total_users"`
	TotalStudents    int64       `json:"total_students"`
	TotalInstructors int64       `json:"total_instructors"`
	TotalAdmins      int64       `json:"total_admins"`
	TotalCourses     int64       `json:"total_courses"`
	TotalEnrollments int64       `json:"total_enrollments"`
	TotalRevenue     float64     `json:"total_revenue"`
	RoleDistribution []RoleCount `json:"role_distribution"`
}

type CourseCompletionStat struct {
	Title       string `json:"title"`
	Enrollments int64  `json:"enrollments"`
	Completions int64  `json:"completions"`
	Rate        int    `json:"rate"`
}

type TopStudentStat struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Attempts int    `json:"attempts"`
}

type AnalyticsResponse struct {
	CourseCompletion []CourseCompletionStat `json:"course_completion"`
	TopStudents      []TopStudentStat       `json:"top_students"`
}

type ModerationQueueResponse struct {
	Pending  []CourseResponse `json:"pending"`
	Approved []CourseResponse `json:"approved"`
	Rejected []CourseResponse `json:"rejected"`
}
