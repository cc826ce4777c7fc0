package model

import (
	"time"
)

// ModuleProgress records one student's completion of one module.
type ModuleProgress struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	StudentID   uint      `json:"student_id" gorm:"not null;uniqueIndex:uix_student_module"`
	ModuleID    uint      `json:"module_id" gorm:"not null;uniqueIndex:uix_student_module"`
	CompletedAt time.Time `json:"completed_at" gorm:"autoCreateTime"`
}
