package repository

import (
	"github.com/zitlabs/campus/internal/model"
	"gorm.io/gorm"
)

type ModuleProgressRepository interface {
	Create(progress *model.ModuleProgress) error
	FindByStudentAndModule(studentID, moduleID uint) (*model.ModuleProgress, error)
	CountByStudentAndCourse(studentID, courseID uint) (int64, error)
}

type moduleProgressRepository struct {
	db *gorm.DB
}

func NewModuleProgressRepository(db *gorm.DB) ModuleProgressRepository {
	return &moduleProgressRepository{db: db}
}

func (r *moduleProgressRepository) Create(progress *model.ModuleProgress) error {
	return r.db.Create(progress).Error
}

func (r *moduleProgressRepository) FindByStudentAndModule(studentID, moduleID uint) (*model.ModuleProgress, error) {
	var progress model.ModuleProgress
	err := r.db.Where("student_id = ? AND module_id = ?", studentID, moduleID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// CountByStudentAndCourse counts distinct completed modules belonging to
// the course for one student.
func (r *moduleProgressRepository) CountByStudentAndCourse(studentID, courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ModuleProgress{}).
		Joins("JOIN modules ON modules.id = module_progresses.module_id").
		Where("module_progresses.student_id = ? AND modules.course_id = ?", studentID, courseID).
		Count(&count).Error
	return count, err
}
