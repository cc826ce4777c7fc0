package model

import (
	"time"
)

// Module is one unit of course content. Modules are ordered within a
// course by insertion order (ascending id).
type Module struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CourseID  uint      `json:"course_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}
