package dto

import "time"

type EnrollmentResponse struct {
	ID              uint       `json:"id"`
	StudentID       uint       `json:"student_id"`
	CourseID        uint       `json:"course_id"`
	CurrentModuleID *uint      `json:"current_module_id,omitempty"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// EnrolledCourseResponse is one row of the student dashboard.
type EnrolledCourseResponse struct {
	CourseID    uint   `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
}

type StudentDashboardResponse struct {
	EnrolledCourses []EnrolledCourseResponse `json:"enrolled_courses"`
	Announcements   []AnnouncementResponse   `json:"announcements"`
}

type MarkCompleteResponse struct {
	AlreadyComplete bool `json:"already_complete"`
	PercentComplete int  `json:"percent_complete"`
}

type StartPaymentResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}
