package model

import (
	"time"
)

// ModerationState tracks the admin review lifecycle of a course.
type ModerationState string

const (
	CoursePending  ModerationState = "pending"
	CourseApproved ModerationState = "approved"
	CourseRejected ModerationState = "rejected"
)

type Course struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	Title           string          `json:"title" gorm:"not null"`
	Description     string          `json:"description" gorm:"type:text;not null"`
	InstructorID    uint            `json:"instructor_id" gorm:"not null;index"`
	Instructor      User            `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	Price           float64         `json:"price" gorm:"default:0"`
	Moderation      ModerationState `json:"moderation" gorm:"type:varchar(20);default:'pending';index"`
	RejectionReason *string         `json:"rejection_reason,omitempty" gorm:"type:text"`
	Modules         []Module        `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
	Quizzes         []Quiz          `json:"quizzes,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
