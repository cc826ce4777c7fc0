package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
)

const (
	exportStampFormat = "2006-01-02T15-04-05Z"
	answeredAtFormat  = "2006-01-02T15:04:05Z"
)

type ResultsService interface {
	Summarize(actor *model.User, quizID uint) (*dto.QuizSummaryResponse, error)
	ExportCSV(actor *model.User, quizID uint) (filename string, data []byte, err error)
}

type resultsService struct {
	quizRepo   repository.QuizRepository
	answerRepo repository.AnswerRepository
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
}

func NewResultsService(
	quizRepo repository.QuizRepository,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
) ResultsService {
	return &resultsService{
		quizRepo:   quizRepo,
		answerRepo: answerRepo,
		userRepo:   userRepo,
		courseRepo: courseRepo,
	}
}

// studentResult is one respondent's aggregate while summarizing.
type studentResult struct {
	student  model.User
	answers  map[uint]model.StudentAnswer // keyed by question id
	answered int
	correct  int
	percent  int
}

// Summarize aggregates every recorded answer for the quiz into
// per-student scores, the course average and the top-5 leaderboard.
// Students with no answers are excluded entirely, and empty input yields
// an empty summary rather than an error.
func (s *resultsService) Summarize(actor *model.User, quizID uint) (*dto.QuizSummaryResponse, error) {
	quiz, results, err := s.aggregate(actor, quizID)
	if err != nil {
		return nil, err
	}

	resp := &dto.QuizSummaryResponse{
		QuizID:        quiz.ID,
		QuizTitle:     quiz.Title,
		TotalQuestion: len(quiz.Questions),
		PerStudent:    make([]dto.StudentResultResponse, 0, len(results)),
		Leaderboard:   []dto.StudentResultResponse{},
	}

	correctTexts := correctChoiceTexts(quiz)
	choiceTexts := choiceTextIndex(quiz)

	percentSum := 0
	for _, result := range results {
		percentSum += result.percent
		row := dto.StudentResultResponse{
			StudentID:   result.student.ID,
			FullName:    result.student.FullName,
			Email:       result.student.Email,
			Answered:    result.answered,
			Correct:     result.correct,
			Percent:     result.percent,
			PerQuestion: make([]dto.QuestionResultDetail, 0, len(quiz.Questions)),
		}
		for _, question := range quiz.Questions {
			detail := dto.QuestionResultDetail{
				QuestionID:        question.ID,
				CorrectChoiceText: correctTexts[question.ID],
			}
			if answer, ok := result.answers[question.ID]; ok {
				if text, ok := choiceTexts[answer.ChoiceID]; ok {
					detail.ChoiceText = &text
				}
				correct := answer.Correct
				detail.Correct = &correct
				answeredAt := answer.AnsweredAt
				detail.AnsweredAt = &answeredAt
			}
			row.PerQuestion = append(row.PerQuestion, detail)
		}
		resp.PerStudent = append(resp.PerStudent, row)
	}

	if len(results) > 0 {
		resp.CourseAverage = int(math.Round(float64(percentSum) / float64(len(results))))

		// Stable sort keeps aggregation order for equal scores.
		leaderboard := make([]dto.StudentResultResponse, len(resp.PerStudent))
		copy(leaderboard, resp.PerStudent)
		sort.SliceStable(leaderboard, func(i, j int) bool {
			return leaderboard[i].Percent > leaderboard[j].Percent
		})
		if len(leaderboard) > 5 {
			leaderboard = leaderboard[:5]
		}
		resp.Leaderboard = leaderboard
	}

	return resp, nil
}

// ExportCSV renders the quiz results table: a metadata row with the
// export stamp, a blank line, a header, then one row per respondent with
// a (answer, answered-at, correctness) triplet per question. Missing
// answers stay as empty cells.
func (s *resultsService) ExportCSV(actor *model.User, quizID uint) (string, []byte, error) {
	quiz, results, err := s.aggregate(actor, quizID)
	if err != nil {
		return "", nil, err
	}

	stamp := time.Now().UTC().Format(exportStampFormat)
	choiceTexts := choiceTextIndex(quiz)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Exported At", stamp})
	w.Flush()
	buf.WriteString("\n")

	header := []string{"Student Name", "Student Email", "Answered Count", "Correct Count", "Percent"}
	for i, question := range quiz.Questions {
		label := question.Text
		if label == "" {
			label = fmt.Sprintf("Q%d", i+1)
		}
		header = append(header,
			fmt.Sprintf("Q%d Answer - %s", i+1, label),
			fmt.Sprintf("Q%d Answered At - %s", i+1, label),
			fmt.Sprintf("Q%d Correct - %s", i+1, label),
		)
	}
	w.Write(header)

	for _, result := range results {
		row := []string{
			result.student.FullName,
			result.student.Email,
			strconv.Itoa(result.answered),
			strconv.Itoa(result.correct),
			strconv.Itoa(result.percent),
		}
		for _, question := range quiz.Questions {
			answer, ok := result.answers[question.ID]
			if !ok {
				row = append(row, "", "", "")
				continue
			}
			correctness := "No"
			if answer.Correct {
				correctness = "Yes"
			}
			row = append(row, choiceTexts[answer.ChoiceID], answer.AnsweredAt.UTC().Format(answeredAtFormat), correctness)
		}
		w.Write(row)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("writing export: %w", err)
	}

	filename := fmt.Sprintf("quiz_%d_results_%s.csv", quiz.ID, stamp)
	log.Info().Uint("quizID", quiz.ID).Int("rows", len(results)).Str("filename", filename).Msg("Quiz results exported")
	return filename, buf.Bytes(), nil
}

// aggregate loads the quiz and folds all recorded answers into one
// studentResult per respondent, in ascending student id order. Only the
// course's instructor or an admin may aggregate.
func (s *resultsService) aggregate(actor *model.User, quizID uint) (*model.Quiz, []*studentResult, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		return nil, nil, fmt.Errorf("quiz %d: %w", quizID, apperr.ErrNotFound)
	}
	course, err := s.courseRepo.FindByID(quiz.CourseID)
	if err != nil {
		return nil, nil, fmt.Errorf("course %d: %w", quiz.CourseID, apperr.ErrNotFound)
	}
	if actor.Role != model.RoleAdmin && actor.ID != course.InstructorID {
		return nil, nil, apperr.ErrRoleForbidden
	}

	questionIDs := make([]uint, len(quiz.Questions))
	for i, question := range quiz.Questions {
		questionIDs[i] = question.ID
	}

	answers, err := s.answerRepo.FindForQuestions(questionIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching answers: %w", err)
	}

	byStudent := make(map[uint]*studentResult)
	order := make([]uint, 0)
	for _, answer := range answers {
		result, ok := byStudent[answer.StudentID]
		if !ok {
			result = &studentResult{answers: make(map[uint]model.StudentAnswer)}
			byStudent[answer.StudentID] = result
			order = append(order, answer.StudentID)
		}
		result.answers[answer.QuestionID] = answer
		result.answered++
		if answer.Correct {
			result.correct++
		}
	}

	students, err := s.userRepo.FindByIDs(order)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching respondents: %w", err)
	}
	studentByID := make(map[uint]model.User, len(students))
	for _, student := range students {
		studentByID[student.ID] = student
	}

	total := len(quiz.Questions)
	results := make([]*studentResult, 0, len(order))
	for _, studentID := range order {
		student, ok := studentByID[studentID]
		if !ok {
			// Answers from a since-deleted account are skipped.
			continue
		}
		result := byStudent[studentID]
		result.student = student
		result.percent = roundPercent(int64(result.correct), int64(total))
		results = append(results, result)
	}
	return quiz, results, nil
}

// correctChoiceTexts maps each question to the text of its designated
// correct choice: the first flagged one in creation order.
func correctChoiceTexts(quiz *model.Quiz) map[uint]*string {
	texts := make(map[uint]*string, len(quiz.Questions))
	for _, question := range quiz.Questions {
		for _, choice := range question.Choices {
			if choice.IsCorrect {
				text := choice.Text
				texts[question.ID] = &text
				break
			}
		}
	}
	return texts
}

func choiceTextIndex(quiz *model.Quiz) map[uint]string {
	texts := make(map[uint]string)
	for _, question := range quiz.Questions {
		for _, choice := range question.Choices {
			texts[choice.ID] = choice.Text
		}
	}
	return texts
}
