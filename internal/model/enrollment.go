package model

import (
	"time"
)

// Enrollment grants a student access to a course. The composite unique
// index backs the at-most-one-per-(student,course) invariant, so a lost
// check-then-insert race surfaces as a duplicate-key conflict instead of
// a second row.
type Enrollment struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	StudentID       uint       `json:"student_id" gorm:"not null;uniqueIndex:uix_student_course"`
	CourseID        uint       `json:"course_id" gorm:"not null;uniqueIndex:uix_student_course"`
	Course          Course     `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	CurrentModuleID *uint      `json:"current_module_id,omitempty"`
	Completed       bool       `json:"completed" gorm:"default:false"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
