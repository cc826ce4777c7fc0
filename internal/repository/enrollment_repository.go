package repository

import (
	"time"

	"github.com/zitlabs/campus/internal/model"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(enrollment *model.Enrollment) error
	FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error)
	FindByStudent(studentID uint) ([]model.Enrollment, error)
	CountByCourse(courseID uint) (int64, error)
	CountCompletedByCourse(courseID uint) (int64, error)
	CountDistinctStudentsByInstructor(instructorID uint) (int64, error)
	CountByInstructorSince(instructorID uint, since time.Time) (int64, error)
	FindAllWithCourse() ([]model.Enrollment, error)
	Count() (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *enrollmentRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) FindByStudent(studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.Where("student_id = ?", studentID).Preload("Course").Order("created_at desc").Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) CountCompletedByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).Where("course_id = ? AND completed = ?", courseID, true).Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) CountDistinctStudentsByInstructor(instructorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Distinct("enrollments.student_id").
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) CountByInstructorSince(instructorID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ? AND enrollments.created_at >= ?", instructorID, since).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) FindAllWithCourse() ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.Preload("Course").Order("id ASC").Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).Count(&count).Error
	return count, err
}
