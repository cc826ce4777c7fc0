package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zitlabs/campus/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated with the full
// schema. Each test gets its own named database so parallel tests cannot
// see each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Module{},
		&model.Announcement{},
		&model.Video{},
		&model.Enrollment{},
		&model.ModuleProgress{},
		&model.Quiz{},
		&model.Question{},
		&model.Choice{},
		&model.StudentAnswer{},
		&model.Grade{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{FullName: name, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, instructor *model.User, title string, price float64) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:        title,
		Description:  title + " description",
		InstructorID: instructor.ID,
		Price:        price,
		Moderation:   model.CourseApproved,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func createModule(t *testing.T, db *gorm.DB, course *model.Course, title string) *model.Module {
	t.Helper()
	module := &model.Module{CourseID: course.ID, Title: title, Content: title + " content"}
	require.NoError(t, db.Create(module).Error)
	return module
}

// createQuiz builds a quiz with the given number of questions, each with
// two choices where the first is correct.
func createQuiz(t *testing.T, db *gorm.DB, course *model.Course, questions int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{CourseID: course.ID, Title: course.Title + " quiz"}
	for i := 0; i < questions; i++ {
		quiz.Questions = append(quiz.Questions, model.Question{
			Text:        fmt.Sprintf("Question %d", i+1),
			OrderInQuiz: i + 1,
			Choices: []model.Choice{
				{Text: fmt.Sprintf("Right %d", i+1), IsCorrect: true},
				{Text: fmt.Sprintf("Wrong %d", i+1)},
			},
		})
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

func enrollStudent(t *testing.T, db *gorm.DB, student *model.User, course *model.Course) *model.Enrollment {
	t.Helper()
	enrollment := &model.Enrollment{StudentID: student.ID, CourseID: course.ID}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}
