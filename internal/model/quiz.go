package model

import (
	"time"
)

type Quiz struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	CourseID  uint       `json:"course_id" gorm:"not null;index"`
	Title     string     `json:"title" gorm:"not null"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedAt time.Time  `json:"created_at"`
}
