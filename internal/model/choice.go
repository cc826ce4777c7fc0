package model

// Choice is one option for a question. Callers are expected to mark
// exactly one choice per question correct; if that assumption is violated
// the first created correct choice is the designated one.
type Choice struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
}
