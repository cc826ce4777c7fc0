package dto

import "time"

type CourseCreateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"omitempty,gte=0"`
}

type CourseUpdateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"omitempty,gte=0"`
}

type ModuleCreateRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type AnnouncementCreateRequest struct {
	Message string `json:"message" binding:"required"`
}

type VideoCreateRequest struct {
	Title            string `json:"title"`
	Filename         string `json:"filename" binding:"required"`
	OriginalFilename string `json:"original_filename"`
	Mimetype         string `json:"mimetype"`
}

type RejectCourseRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type CourseResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	InstructorID    uint      `json:"instructor_id"`
	Price           float64   `json:"price"`
	Moderation      string    `json:"moderation"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type ModuleResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type AnnouncementResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type VideoResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	Mimetype  string    `json:"mimetype"`
	CreatedAt time.Time `json:"created_at"`
}

type CourseDetailResponse struct {
	CourseResponse
	InstructorName string           `json:"instructor_name,omitempty"`
	Enrolled       *bool            `json:"enrolled,omitempty"`
	Modules        []ModuleResponse `json:"modules"`
	Quizzes        []QuizResponse   `json:"quizzes"`
	Videos         []VideoResponse  `json:"videos"`
}

// InstructorCourseResponse adds per-course enrollment figures for the
// instructor dashboard.
type InstructorCourseResponse struct {
	CourseResponse
	EnrolledStudents int64 `json:"enrolled_students"`
}

type InstructorDashboardResponse struct {
	Courses           []InstructorCourseResponse `json:"courses"`
	TotalStudents     int64                      `json:"total_students"`
	RecentEnrollments int64                      `json:"recent_enrollments"`
}
