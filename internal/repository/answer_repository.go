package repository

import (
	"github.com/zitlabs/campus/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	Create(answer *model.StudentAnswer) error
	Update(answer *model.StudentAnswer) error
	FindByStudentAndQuestion(studentID, questionID uint) (*model.StudentAnswer, error)
	FindForQuestions(questionIDs []uint) ([]model.StudentAnswer, error)
	FindAll() ([]model.StudentAnswer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(answer *model.StudentAnswer) error {
	return r.db.Create(answer).Error
}

func (r *answerRepository) Update(answer *model.StudentAnswer) error {
	return r.db.Save(answer).Error
}

func (r *answerRepository) FindByStudentAndQuestion(studentID, questionID uint) (*model.StudentAnswer, error) {
	var answer model.StudentAnswer
	err := r.db.Where("student_id = ? AND question_id = ?", studentID, questionID).First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// FindForQuestions returns every student's answers across the given
// questions, ordered by student then question for deterministic
// aggregation.
func (r *answerRepository) FindForQuestions(questionIDs []uint) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	if len(questionIDs) == 0 {
		return answers, nil
	}
	err := r.db.Where("question_id IN ?", questionIDs).
		Order("student_id ASC, question_id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindAll() ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	err := r.db.Order("student_id ASC").Find(&answers).Error
	return answers, err
}
