package repository

import (
	"github.com/zitlabs/campus/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(quiz *model.Quiz) error
	FindByIDWithQuestions(id uint) (*model.Quiz, error)
	FindQuestionInQuiz(quizID, questionID uint) (*model.Question, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	// GORM creates nested questions and choices when they are populated.
	return r.db.Create(quiz).Error
}

func (r *quizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_in_quiz ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.id ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindQuestionInQuiz resolves a question only when it belongs to the quiz.
func (r *quizRepository) FindQuestionInQuiz(quizID, questionID uint) (*model.Question, error) {
	var question model.Question
	err := r.db.Where("id = ? AND quiz_id = ?", questionID, quizID).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}
