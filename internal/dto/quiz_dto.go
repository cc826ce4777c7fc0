package dto

import "time"

type ChoiceCreateRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionCreateRequest struct {
	Text        string                `json:"text" binding:"required"`
	Explanation *string               `json:"explanation"`
	Choices     []ChoiceCreateRequest `json:"choices" binding:"required,min=2,dive"`
}

type QuizCreateRequest struct {
	Title     string                  `json:"title" binding:"required"`
	Questions []QuestionCreateRequest `json:"questions" binding:"required,min=1,dive"`
}

type SubmitAnswerRequest struct {
	ChoiceID uint `json:"choice_id" binding:"required"`
}

type SubmitAnswerResponse struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

type ChoiceResponse struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuestionResponse struct {
	ID          uint             `json:"id"`
	QuizID      uint             `json:"quiz_id"`
	Text        string           `json:"text"`
	OrderInQuiz int              `json:"order_in_quiz"`
	Choices     []ChoiceResponse `json:"choices"`
}

type QuizResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type QuizDetailResponse struct {
	QuizResponse
	Questions []QuestionResponse `json:"questions"`
}
