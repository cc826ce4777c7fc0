package repository

import (
	"github.com/zitlabs/campus/internal/model"
	"gorm.io/gorm"
)

type ModuleRepository interface {
	Create(module *model.Module) error
	FindByID(id uint) (*model.Module, error)
	FirstByCourse(courseID uint) (*model.Module, error)
	CountByCourse(courseID uint) (int64, error)
}

type moduleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(module *model.Module) error {
	return r.db.Create(module).Error
}

func (r *moduleRepository) FindByID(id uint) (*model.Module, error) {
	var module model.Module
	if err := r.db.First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

// FirstByCourse returns the course's first module by insertion order, or
// gorm.ErrRecordNotFound when the course has none.
func (r *moduleRepository) FirstByCourse(courseID uint) (*model.Module, error) {
	var module model.Module
	if err := r.db.Where("course_id = ?", courseID).Order("id ASC").First(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Module{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}
