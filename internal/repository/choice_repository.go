package repository

import (
	"github.com/zitlabs/campus/internal/model"
	"gorm.io/gorm"
)

type ChoiceRepository interface {
	FindInQuestion(questionID, choiceID uint) (*model.Choice, error)
	FindCorrect(questionID uint) (*model.Choice, error)
}

type choiceRepository struct {
	db *gorm.DB
}

func NewChoiceRepository(db *gorm.DB) ChoiceRepository {
	return &choiceRepository{db: db}
}

func (r *choiceRepository) FindInQuestion(questionID, choiceID uint) (*model.Choice, error) {
	var choice model.Choice
	err := r.db.Where("id = ? AND question_id = ?", choiceID, questionID).First(&choice).Error
	if err != nil {
		return nil, err
	}
	return &choice, nil
}

// FindCorrect returns the question's designated correct choice: the first
// one flagged is_correct in creation order. Returns gorm.ErrRecordNotFound
// when no choice is flagged.
func (r *choiceRepository) FindCorrect(questionID uint) (*model.Choice, error) {
	var choice model.Choice
	err := r.db.Where("question_id = ? AND is_correct = ?", questionID, true).Order("id ASC").First(&choice).Error
	if err != nil {
		return nil, err
	}
	return &choice, nil
}
