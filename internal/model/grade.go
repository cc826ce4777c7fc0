package model

import (
	"time"
)

type Grade struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	StudentID uint      `json:"student_id" gorm:"not null;index"`
	CourseID  uint      `json:"course_id" gorm:"not null;index"`
	ModuleID  *uint     `json:"module_id,omitempty"`
	Grade     float64   `json:"grade"`
	Feedback  *string   `json:"feedback,omitempty" gorm:"type:text"`
	GradedAt  time.Time `json:"graded_at" gorm:"autoCreateTime"`
}
