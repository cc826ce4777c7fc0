package model

// Question belongs to one quiz. OrderInQuiz gives the stable display and
// export column order.
type Question struct {
	ID          uint     `gorm:"primarykey" json:"id"`
	QuizID      uint     `json:"quiz_id" gorm:"not null;index"`
	Text        string   `json:"text" gorm:"type:text;not null"`
	Explanation *string  `json:"explanation,omitempty" gorm:"type:text"`
	OrderInQuiz int      `json:"order_in_quiz" gorm:"not null;default:0"`
	Choices     []Choice `json:"choices,omitempty" gorm:"foreignKey:QuestionID"`
}
