package model

import (
	"time"
)

// StudentAnswer records a student's latest selection for one question.
// There is at most one row per (student, question); resubmission updates
// the row in place and refreshes AnsweredAt.
type StudentAnswer struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	StudentID  uint      `json:"student_id" gorm:"not null;uniqueIndex:uix_student_question"`
	QuestionID uint      `json:"question_id" gorm:"not null;uniqueIndex:uix_student_question"`
	ChoiceID   uint      `json:"choice_id" gorm:"not null"`
	Correct    bool      `json:"correct"`
	AnsweredAt time.Time `json:"answered_at"`
}
