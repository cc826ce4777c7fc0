package model

import (
	"time"
)

type Announcement struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CourseID     uint      `json:"course_id" gorm:"not null;index"`
	InstructorID uint      `json:"instructor_id" gorm:"not null"`
	Message      string    `json:"message" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at"`
}
