package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
	"gorm.io/gorm"
)

func newProgressService(db *gorm.DB) ProgressService {
	return NewProgressService(
		repository.NewModuleProgressRepository(db),
		repository.NewModuleRepository(db),
		repository.NewEnrollmentRepository(db),
	)
}

func TestMarkCompleteAdvancesPercent(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Steps", 0)
	m1 := createModule(t, db, course, "One")
	m2 := createModule(t, db, course, "Two")
	student := createUser(t, db, "Stu", "stu@example.com", model.RoleStudent)
	enrollStudent(t, db, student, course)

	resp, err := svc.MarkComplete(student, m1.ID)
	require.NoError(t, err)
	assert.False(t, resp.AlreadyComplete)
	assert.Equal(t, 50, resp.PercentComplete)

	resp, err = svc.MarkComplete(student, m2.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, resp.PercentComplete)
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Repeat", 0)
	m1 := createModule(t, db, course, "One")
	createModule(t, db, course, "Two")
	student := createUser(t, db, "Stu", "stu@example.com", model.RoleStudent)
	enrollStudent(t, db, student, course)

	_, err := svc.MarkComplete(student, m1.ID)
	require.NoError(t, err)

	resp, err := svc.MarkComplete(student, m1.ID)
	require.NoError(t, err)
	assert.True(t, resp.AlreadyComplete)
	assert.Equal(t, 50, resp.PercentComplete)

	var count int64
	require.NoError(t, db.Model(&model.ModuleProgress{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMarkCompleteGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Guarded", 0)
	m1 := createModule(t, db, course, "One")
	outsider := createUser(t, db, "Out", "out@example.com", model.RoleStudent)

	_, err := svc.MarkComplete(outsider, m1.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotEnrolled))

	_, err = svc.MarkComplete(instructor, m1.ID)
	assert.True(t, errors.Is(err, apperr.ErrRoleForbidden))

	_, err = svc.MarkComplete(outsider, 999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestPercentCompleteEmptyCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Empty", 0)
	student := createUser(t, db, "Stu", "stu@example.com", model.RoleStudent)

	percent, err := svc.PercentComplete(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, percent)
}

func TestRoundPercentHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0, roundPercent(0, 0))
	assert.Equal(t, 33, roundPercent(1, 3))
	assert.Equal(t, 67, roundPercent(2, 3))
	assert.Equal(t, 50, roundPercent(1, 2))
	assert.Equal(t, 13, roundPercent(1, 8))
	assert.Equal(t, 38, roundPercent(3, 8))
	assert.Equal(t, 100, roundPercent(7, 7))
}
