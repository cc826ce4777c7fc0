package dto

import "time"

// QuestionResultDetail is one student's outcome on one question, with the
// designated correct choice text for review. ChoiceText is nil when the
// question was never answered.
type QuestionResultDetail struct {
	QuestionID        uint       `json:"question_id"`
	ChoiceText        *string    `json:"choice_text,omitempty"`
	Correct           *bool      `json:"correct,omitempty"`
	CorrectChoiceText *string    `json:"correct_choice_text,omitempty"`
	AnsweredAt        *time.Time `json:"answered_at,omitempty"`
}

// StudentResultResponse summarizes one respondent. Percent is computed
// over the quiz's total question count, so unanswered questions count as
// wrong.
type StudentResultResponse struct {
	StudentID   uint                   `json:"student_id"`
	FullName    string                 `json:"full_name"`
	Email       string                 `json:"email"`
	Answered    int                    `json:"answered"`
	Correct     int                    `json:"correct"`
	Percent     int                    `json:"percent"`
	PerQuestion []QuestionResultDetail `json:"per_question"`
}

type QuizSummaryResponse struct {
	QuizID        uint                    `json:"quiz_id"`
	QuizTitle     string                  `json:"quiz_title"`
	TotalQuestion int                     `json:"total_questions"`
	PerStudent    []StudentResultResponse `json:"per_student"`
	CourseAverage int                     `json:"course_average"`
	Leaderboard   []StudentResultResponse `json:"leaderboard"`
}
