package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
	"gorm.io/gorm"
)

func newResultsService(db *gorm.DB) ResultsService {
	return NewResultsService(
		repository.NewQuizRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
	)
}

// answerQuestion records an answer directly: choiceIdx 0 is the correct
// choice in the createQuiz fixture, 1 the wrong one.
func answerQuestion(t *testing.T, db *gorm.DB, student *model.User, question model.Question, choiceIdx int) {
	t.Helper()
	choice := question.Choices[choiceIdx]
	answer := model.StudentAnswer{
		StudentID:  student.ID,
		QuestionID: question.ID,
		ChoiceID:   choice.ID,
		Correct:    choice.IsCorrect,
		AnsweredAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&answer).Error)
}

func TestSummarizeScoresAndAverage(t *testing.T) {
	db := newTestDB(t)
	svc := newResultsService(db)

	instructor := createUser(t, db, "Ina Structor", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Algebra", 0)
	quiz := createQuiz(t, db, course, 2)

	x := createUser(t, db, "Xavier", "x@example.com", model.RoleStudent)
	y := createUser(t, db, "Yara", "y@example.com", model.RoleStudent)
	createUser(t, db, "Zoe", "z@example.com", model.RoleStudent) // never answers

	answerQuestion(t, db, x, quiz.Questions[0], 0)
	answerQuestion(t, db, x, quiz.Questions[1], 0)
	answerQuestion(t, db, y, quiz.Questions[0], 0)
	answerQuestion(t, db, y, quiz.Questions[1], 1)

	summary, err := svc.Summarize(instructor, quiz.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalQuestion)
	require.Len(t, summary.PerStudent, 2, "a student with no answers is not a respondent")

	// aggregation order is ascending student id
	assert.Equal(t, x.ID, summary.PerStudent[0].StudentID)
	assert.Equal(t, 100, summary.PerStudent[0].Percent)
	assert.Equal(t, 2, summary.PerStudent[0].Correct)
	assert.Equal(t, y.ID, summary.PerStudent[1].StudentID)
	assert.Equal(t, 50, summary.PerStudent[1].Percent)
	assert.Equal(t, 1, summary.PerStudent[1].Correct)

	assert.Equal(t, 75, summary.CourseAverage)

	require.Len(t, summary.Leaderboard, 2)
	assert.Equal(t, "Xavier", summary.Leaderboard[0].FullName)
	assert.Equal(t, "Yara", summary.Leaderboard[1].FullName)
}

func TestSummarizePercentCountsUnansweredAsWrong(t *testing.T) {
	db := newTestDB(t)
	svc := newResultsService(db)

	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Geometry", 0)
	quiz := createQuiz(t, db, course, 2)

	partial := createUser(t, db, "Pat", "pat@example.com", model.RoleStudent)
	answerQuestion(t, db, partial, quiz.Questions[0], 0)

	summary, err := svc.Summarize(instructor, quiz.ID)
	require.NoError(t, err)
	require.Len(t, summary.PerStudent, 1)
	assert.Equal(t, 1, summary.PerStudent[0].Answered)
	assert.Equal(t, 50, summary.PerStudent[0].Percent)

	// the unanswered question still has a row, with no answer detail
	details := summary.PerStudent[0].PerQuestion
	require.Len(t, details, 2)
	assert.NotNil(t, details[0].ChoiceText)
	assert.Nil(t, details[1].ChoiceText)
	assert.Nil(t, details[1].Correct)
	require.NotNil(t, details[1].CorrectChoiceText)
	assert.Equal(t, "Right 2", *details[1].CorrectChoiceText)
}

func TestSummarizeRoundsHalfAwayFromZero(t *testing.T) {
	db := newTestDB(t)
	svc := newResultsService(db)

	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Rounding", 0)
	quiz := createQuiz(t, db, course, 8)

	student := createUser(t, db, "Half", "half@example.com", model.RoleStudent)
	answerQuestion(t, db, student, quiz.Questions[0], 0) // 1/8 = 12.5%

	summary, err := svc.Summarize(instructor, quiz.ID)
	require.NoError(t, err)
	require.Len(t, summary.PerStudent, 1)
	assert.Equal(t, 13, summary.PerStudent[0].Percent)
}

func TestSummarizeLeaderboardTopFiveStable(t *testing.T) {
	db := newTestDB(t)
	svc := newResultsService(db)

	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Big Class", 0)
	quiz := createQuiz(t, db, course, 1)

	for i := 0; i < 7; i++ {
		s := createUser(t, db, fmt.Sprintf("Student %d", i), fmt.Sprintf("s%d@example.com", i), model.RoleStudent)
		answerQuestion(t, db, s, quiz.Questions[0], 0)
	}

	summary, err := svc.Summarize(instructor, quiz.ID)
	require.NoError(t, err)
	require.Len(t, summary.PerStudent, 7)
	require.Len(t, summary.Leaderboard, 5)
	// all tied at 100, so stable sort keeps ascending student id order
	for i := 0; i < 5; i++ {
		assert.Equal(t, fmt.Sprintf("Student %d", i), summary.Leaderboard[i].FullName)
	}
}

func TestSummarizeSkipsDeletedStudents(t *testing.T) {
	db := newTestDB(t)
	svc := newResultsService(db)

	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "History", 0)
	quiz := createQuiz(t, db, course, 1)

	ghost := createUser(t, db, "Ghost", "ghost@example.com", model.RoleStudent)
	answerQuestion(t, db, ghost, quiz.Questions[0], 0)
	require.NoError(t, db.Delete(&model.User{}, ghost.ID).Error)

	summary, err := svc.Summarize(instructor, quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.PerStudent)
	assert.Empty(t, summary.Leaderboard)
	assert.Equal(t, 0, summary.CourseAverage)
}

func TestSummarizeAccess(t *testing.T) {
	db := newTestDB(t)
	svc := newResultsService(db)

	owner := createUser(t, db, "Owner", "owner@example.com", model.RoleInstructor)
	other := createUser(t, db, "Other", "other@example.com", model.RoleInstructor)
	admin := createUser(t, db, "Admin", "admin@example.com", model.RoleAdmin)
	student := createUser(t, db, "Stu", "stu@example.com", model.RoleStudent)
	course := createCourse(t, db, owner, "Private", 0)
	quiz := createQuiz(t, db, course, 1)

	_, err := svc.Summarize(other, quiz.ID)
	assert.True(t, errors.Is(err, apperr.ErrRoleForbidden))

	_, err = svc.Summarize(student, quiz.ID)
	assert.True(t, errors.Is(err, apperr.ErrRoleForbidden))

	_, err = svc.Summarize(admin, quiz.ID)
	assert.NoError(t, err)

	_, err = svc.Summarize(owner, quiz.ID)
	assert.NoError(t, err)
}

func TestExportCSVFormat(t *testing.T) {
	db := newTestDB(t)
	svc := newResultsService(db)

	instructor := createUser(t, db, "Ina", "ina@example.com", model.RoleInstructor)
	course := createCourse(t, db, instructor, "Export", 0)
	quiz := createQuiz(t, db, course, 2)

	x := createUser(t, db, "Xavier", "x@example.com", model.RoleStudent)
	y := createUser(t, db, "Yara", "y@example.com", model.RoleStudent)
	answerQuestion(t, db, x, quiz.Questions[0], 0)
	answerQuestion(t, db, x, quiz.Questions[1], 0)
	answerQuestion(t, db, y, quiz.Questions[0], 1)

	filename, data, err := svc.ExportCSV(instructor, quiz.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, fmt.Sprintf("quiz_%d_results_", quiz.ID)))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 5)

	assert.True(t, strings.HasPrefix(lines[0], "Exported At,"))
	assert.Equal(t, "", lines[1], "metadata row is separated from the table by a blank line")

	header := strings.Split(lines[2], ",")
	assert.Equal(t, "Student Name", header[0])
	assert.Equal(t, "Percent", header[4])
	assert.Len(t, header, 5+3*2, "three columns per question")

	require.Len(t, lines[3:], 2, "one row per respondent")
	xRow := strings.Split(lines[3], ",")
	assert.Equal(t, "Xavier", xRow[0])
	assert.Equal(t, "2", xRow[2])
	assert.Equal(t, "100", xRow[4])
	assert.Equal(t, "Yes", xRow[7])

	yRow := strings.Split(lines[4], ",")
	assert.Equal(t, "Yara", yRow[0])
	assert.Equal(t, "No", yRow[7])
	assert.Equal(t, "", yRow[8], "unanswered question leaves empty cells")
	assert.Equal(t, "", yRow[10])
}

func TestExportCSVNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newResultsService(db)
	admin := createUser(t, db, "Admin", "admin@example.com", model.RoleAdmin)

	_, _, err := svc.ExportCSV(admin, 404)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
