package model

import (
	"time"
)

// Video holds upload metadata only; byte storage and streaming live
// outside this service.
type Video struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	CourseID         uint      `json:"course_id" gorm:"not null;index"`
	Title            string    `json:"title"`
	Filename         string    `json:"filename" gorm:"not null"`
	OriginalFilename string    `json:"original_filename"`
	Mimetype         string    `json:"mimetype" gorm:"default:'video/mp4'"`
	UploadedBy       uint      `json:"uploaded_by"`
	CreatedAt        time.Time `json:"created_at"`
}
