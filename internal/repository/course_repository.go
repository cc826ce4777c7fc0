package repository

import (
	"github.com/zitlabs/campus/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	FindByIDWithContent(id uint) (*model.Course, error)
	FindApproved() ([]model.Course, error)
	FindByInstructor(instructorID uint) ([]model.Course, error)
	FindByModeration(state model.ModerationState, limit int) ([]model.Course, error)
	FindAll() ([]model.Course, error)
	Update(course *model.Course) error
	Count() (int64, error)
	SumPrices() (float64, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *model.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByIDWithContent(id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.
		Preload("Instructor").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.id ASC")
		}).
		Preload("Quizzes").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindApproved() ([]model.Course, error) {
	var courses []model.Course
	err := r.db.Where("moderation = ?", model.CourseApproved).Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) FindByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.Where("instructor_id = ?", instructorID).Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) FindByModeration(state model.ModerationState, limit int) ([]model.Course, error) {
	var courses []model.Course
	query := r.db.Where("moderation = ?", state).Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&courses).Error
	return courses, err
}

func (r *courseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.db.Preload("Instructor").Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) Update(course *model.Course) error {
	return r.db.Save(course).Error
}

func (r *courseRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Course{}).Count(&count).Error
	return count, err
}

func (r *courseRepository) SumPrices() (float64, error) {
	var total float64
	err := r.db.Model(&model.Course{}).Select("COALESCE(SUM(price), 0)").Scan(&total).Error
	return total, err
}
