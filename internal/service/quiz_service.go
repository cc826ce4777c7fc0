package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
	"gorm.io/gorm"
)

type QuizService interface {
	CreateQuiz(actor *model.User, courseID uint, req dto.QuizCreateRequest) (*dto.QuizDetailResponse, error)
	GetQuiz(quizID uint) (*dto.QuizDetailResponse, error)
	SubmitAnswer(actor *model.User, quizID, questionID uint, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	CorrectChoice(questionID uint) (*model.Choice, error)
}

type quizService struct {
	quizRepo   repository.QuizRepository
	choiceRepo repository.ChoiceRepository
	answerRepo repository.AnswerRepository
	courseRepo repository.CourseRepository
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	choiceRepo repository.ChoiceRepository,
	answerRepo repository.AnswerRepository,
	courseRepo repository.CourseRepository,
) QuizService {
	return &quizService{
		quizRepo:   quizRepo,
		choiceRepo: choiceRepo,
		answerRepo: answerRepo,
		courseRepo: courseRepo,
	}
}

// CreateQuiz stores a quiz with its questions and choices in one create.
// Question order follows the request; it is persisted explicitly so
// display and export columns stay stable.
func (s *quizService) CreateQuiz(actor *model.User, courseID uint, req dto.QuizCreateRequest) (*dto.QuizDetailResponse, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, apperr.ErrNotFound)
	}
	if actor.Role != model.RoleInstructor || actor.ID != course.InstructorID {
		return nil, apperr.ErrRoleForbidden
	}

	quiz := model.Quiz{CourseID: courseID, Title: req.Title}
	for idx, qReq := range req.Questions {
		question := model.Question{
			Text:        qReq.Text,
			Explanation: qReq.Explanation,
			OrderInQuiz: idx + 1,
		}
		for _, cReq := range qReq.Choices {
			question.Choices = append(question.Choices, model.Choice{
				Text:      cReq.Text,
				IsCorrect: cReq.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.quizRepo.Create(&quiz); err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("CreateQuiz: failed to create quiz")
		return nil, fmt.Errorf("creating quiz: %w", err)
	}

	created, err := s.quizRepo.FindByIDWithQuestions(quiz.ID)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quiz.ID).Msg("CreateQuiz: failed to reload created quiz")
		created = &quiz
	}
	return quizDetailDTO(created), nil
}

func (s *quizService) GetQuiz(quizID uint) (*dto.QuizDetailResponse, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		return nil, fmt.Errorf("quiz %d: %w", quizID, apperr.ErrNotFound)
	}
	return quizDetailDTO(quiz), nil
}

// SubmitAnswer validates and scores one choice for one question. A repeat
// submission overwrites the stored answer and refreshes its timestamp, so
// there is always exactly one answer per (student, question).
func (s *quizService) SubmitAnswer(actor *model.User, quizID, questionID uint, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	if actor.Role != model.RoleStudent {
		return nil, apperr.ErrRoleForbidden
	}

	question, err := s.quizRepo.FindQuestionInQuiz(quizID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("looking up question %d: %w", questionID, err)
	}

	choice, err := s.choiceRepo.FindInQuestion(questionID, req.ChoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidChoice
		}
		return nil, fmt.Errorf("looking up choice %d: %w", req.ChoiceID, err)
	}

	correct := choice.IsCorrect
	now := time.Now().UTC()

	existing, err := s.answerRepo.FindByStudentAndQuestion(actor.ID, questionID)
	if err == nil {
		existing.ChoiceID = choice.ID
		existing.Correct = correct
		existing.AnsweredAt = now
		if err := s.answerRepo.Update(existing); err != nil {
			log.Error().Err(err).Uint("answerID", existing.ID).Msg("SubmitAnswer: update failed")
			return nil, fmt.Errorf("updating answer: %w", err)
		}
	} else {
		answer := model.StudentAnswer{
			StudentID:  actor.ID,
			QuestionID: questionID,
			ChoiceID:   choice.ID,
			Correct:    correct,
			AnsweredAt: now,
		}
		if err := s.answerRepo.Create(&answer); err != nil {
			log.Error().Err(err).Uint("studentID", actor.ID).Uint("questionID", questionID).Msg("SubmitAnswer: insert failed")
			return nil, fmt.Errorf("recording answer: %w", err)
		}
	}

	explanation := ""
	if question.Explanation != nil {
		explanation = *question.Explanation
	}
	return &dto.SubmitAnswerResponse{Correct: correct, Explanation: explanation}, nil
}

// CorrectChoice returns the question's designated correct choice, or nil
// when no choice is flagged correct.
func (s *quizService) CorrectChoice(questionID uint) (*model.Choice, error) {
	choice, err := s.choiceRepo.FindCorrect(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up correct choice for question %d: %w", questionID, err)
	}
	return choice, nil
}

func quizDetailDTO(quiz *model.Quiz) *dto.QuizDetailResponse {
	var resp dto.QuizDetailResponse
	copier.Copy(&resp.QuizResponse, quiz)
	resp.Questions = make([]dto.QuestionResponse, len(quiz.Questions))
	for i, question := range quiz.Questions {
		var qResp dto.QuestionResponse
		copier.Copy(&qResp, &question)
		qResp.Choices = make([]dto.ChoiceResponse, len(question.Choices))
		for j, choice := range question.Choices {
			copier.Copy(&qResp.Choices[j], &choice)
		}
		resp.Questions[i] = qResp
	}
	return &resp
}
