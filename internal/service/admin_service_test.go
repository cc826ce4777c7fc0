package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB) AdminService {
	return NewAdminService(
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
		repository.NewModuleRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewAnswerRepository(db),
	)
}

func TestPlatformStats(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)

	admin := createUser(t, db, "Admin", "admin@example.com", model.RoleAdmin)
	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	student := createUser(t, db, "Stu", "stu@example.com", model.RoleStudent)
	c1 := createCourse(t, db, instructor, "Paid", 100)
	createCourse(t, db, instructor, "Free", 0)
	enrollStudent(t, db, student, c1)

	stats, err := svc.PlatformStats(admin)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.TotalStudents)
	assert.EqualValues(t, 1, stats.TotalInstructors)
	assert.EqualValues(t, 1, stats.TotalAdmins)
	assert.EqualValues(t, 2, stats.TotalCourses)
	assert.EqualValues(t, 1, stats.TotalEnrollments)
	assert.Equal(t, 100.0, stats.TotalRevenue)
	require.Len(t, stats.RoleDistribution, 3)
	assert.Equal(t, "Students", stats.RoleDistribution[0].Name)

	_, err = svc.PlatformStats(instructor)
	assert.True(t, errors.Is(err, apperr.ErrRoleForbidden))
}

func TestAnalyticsCompletionAndTopStudents(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)

	admin := createUser(t, db, "Admin", "admin@example.com", model.RoleAdmin)
	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Tracked", 0)
	quiz := createQuiz(t, db, course, 2)

	s1 := createUser(t, db, "Alice", "alice@example.com", model.RoleStudent)
	s2 := createUser(t, db, "Bob", "bob@example.com", model.RoleStudent)
	s3 := createUser(t, db, "Cara", "cara@example.com", model.RoleStudent)
	for _, s := range []*model.User{s1, s2, s3} {
		enrollStudent(t, db, s, course)
	}
	require.NoError(t, db.Model(&model.Enrollment{}).
		Where("student_id = ?", s1.ID).
		Update("completed", true).Error)

	// Alice: 2 correct; Bob: 1 of 2 correct; Cara: none answered
	answerQuestion(t, db, s1, quiz.Questions[0], 0)
	answerQuestion(t, db, s1, quiz.Questions[1], 0)
	answerQuestion(t, db, s2, quiz.Questions[0], 0)
	answerQuestion(t, db, s2, quiz.Questions[1], 1)

	analytics, err := svc.Analytics(admin)
	require.NoError(t, err)

	require.Len(t, analytics.CourseCompletion, 1)
	stat := analytics.CourseCompletion[0]
	assert.Equal(t, "Tracked", stat.Title)
	assert.EqualValues(t, 3, stat.Enrollments)
	assert.EqualValues(t, 1, stat.Completions)
	assert.Equal(t, 33, stat.Rate, "completion rate truncates")

	require.Len(t, analytics.TopStudents, 2)
	assert.Equal(t, "Alice", analytics.TopStudents[0].Name)
	assert.Equal(t, 100, analytics.TopStudents[0].Score)
	assert.Equal(t, 2, analytics.TopStudents[0].Attempts)
	assert.Equal(t, "Bob", analytics.TopStudents[1].Name)
	assert.Equal(t, 50, analytics.TopStudents[1].Score)
}

func TestAdminUserManagement(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)

	admin := createUser(t, db, "Admin", "admin@example.com", model.RoleAdmin)

	created, err := svc.CreateUser(admin, dto.AdminCreateUserRequest{
		FullName: "New Teacher",
		Email:    "Teacher@Example.com",
		Password: "Secret123",
		Role:     "instructor",
	})
	require.NoError(t, err)
	assert.Equal(t, "teacher@example.com", created.Email)
	assert.Equal(t, string(model.RoleInstructor), created.Role)

	_, err = svc.CreateUser(admin, dto.AdminCreateUserRequest{
		FullName: "Dup",
		Email:    "teacher@example.com",
		Password: "Secret123",
		Role:     "student",
	})
	assert.True(t, errors.Is(err, apperr.ErrEmailTaken))

	updated, err := svc.UpdateUser(admin, created.ID, dto.AdminUpdateUserRequest{
		FullName: "Renamed Teacher",
		Email:    "teacher@example.com",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Teacher", updated.FullName)
	assert.Equal(t, string(model.RoleAdmin), updated.Role)

	err = svc.DeleteUser(admin, admin.ID)
	assert.Error(t, err, "admins cannot delete their own account")

	require.NoError(t, svc.DeleteUser(admin, created.ID))
	_, err = repository.NewUserRepository(db).FindByID(created.ID)
	assert.Error(t, err)

	err = svc.DeleteUser(admin, 999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAdminExports(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)

	admin := createUser(t, db, "Admin", "admin@example.com", model.RoleAdmin)
	instructor := createUser(t, db, "Ina Structor", "ina@example.com", model.RoleInstructor)
	student := createUser(t, db, "Stu Dent", "stu@example.com", model.RoleStudent)
	course := createCourse(t, db, instructor, "Exported", 19.99)
	createModule(t, db, course, "One")
	enrollment := enrollStudent(t, db, student, course)
	now := time.Now().UTC()
	require.NoError(t, db.Model(enrollment).Updates(map[string]interface{}{"completed": true, "completed_at": now}).Error)

	filename, data, err := svc.ExportUsersCSV(admin)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "users_"))
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "ID,Full Name,Email,Role,Created At", lines[0])
	assert.Len(t, lines[1:], 3)

	filename, data, err = svc.ExportCoursesCSV(admin)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "courses_"))
	lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "ID,Title,Instructor,Price,Created At,Module Count,Enrollment Count", lines[0])
	require.Len(t, lines[1:], 1)
	fields := strings.Split(lines[1], ",")
	assert.Equal(t, "Exported", fields[1])
	assert.Equal(t, "Ina Structor", fields[2])
	assert.Equal(t, "19.99", fields[3])
	assert.Equal(t, "1", fields[5])
	assert.Equal(t, "1", fields[6])

	filename, data, err = svc.ExportEnrollmentsCSV(admin)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "enrollments_"))
	lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "Student,Student Email,Course,Enrolled At,Status", lines[0])
	require.Len(t, lines[1:], 1)
	assert.True(t, strings.HasSuffix(lines[1], "Completed"))

	_, _, err = svc.ExportUsersCSV(student)
	assert.True(t, errors.Is(err, apperr.ErrRoleForbidden))
}
