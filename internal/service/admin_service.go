package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const exportTimeFormat = "2006-01-02 15:04:05"

type AdminService interface {
	PlatformStats(actor *model.User) (*dto.PlatformStatsResponse, error)
	Analytics(actor *model.User) (*dto.AnalyticsResponse, error)
	ListUsers(actor *model.User) ([]dto.UserResponse, error)
	CreateUser(actor *model.User, req dto.AdminCreateUserRequest) (*dto.UserResponse, error)
	UpdateUser(actor *model.User, userID uint, req dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(actor *model.User, userID uint) error
	ExportUsersCSV(actor *model.User) (filename string, data []byte, err error)
	ExportCoursesCSV(actor *model.User) (filename string, data []byte, err error)
	ExportEnrollmentsCSV(actor *model.User) (filename string, data []byte, err error)
}

type adminService struct {
	userRepo       repository.UserRepository
	courseRepo     repository.CourseRepository
	moduleRepo     repository.ModuleRepository
	enrollmentRepo repository.EnrollmentRepository
	answerRepo     repository.AnswerRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	moduleRepo repository.ModuleRepository,
	enrollmentRepo repository.EnrollmentRepository,
	answerRepo repository.AnswerRepository,
) AdminService {
	return &adminService{
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		enrollmentRepo: enrollmentRepo,
		answerRepo:     answerRepo,
	}
}

func (s *adminService) PlatformStats(actor *model.User) (*dto.PlatformStatsResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrRoleForbidden
	}

	resp := &dto.PlatformStatsResponse{}
	var err error
	if resp.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	if resp.TotalStudents, err = s.userRepo.CountByRole(model.RoleStudent); err != nil {
		return nil, fmt.Errorf("counting students: %w", err)
	}
	if resp.TotalInstructors, err = s.userRepo.CountByRole(model.RoleInstructor); err != nil {
		return nil, fmt.Errorf("counting instructors: %w", err)
	}
	if resp.TotalAdmins, err = s.userRepo.CountByRole(model.RoleAdmin); err != nil {
		return nil, fmt.Errorf("counting admins: %w", err)
	}
	if resp.TotalCourses, err = s.courseRepo.Count(); err != nil {
		return nil, fmt.Errorf("counting courses: %w", err)
	}
	if resp.TotalEnrollments, err = s.enrollmentRepo.Count(); err != nil {
		return nil, fmt.Errorf("counting enrollments: %w", err)
	}
	if resp.TotalRevenue, err = s.courseRepo.SumPrices(); err != nil {
		return nil, fmt.Errorf("summing prices: %w", err)
	}
	resp.RoleDistribution = []dto.RoleCount{
		{Name: "Students", Value: resp.TotalStudents},
		{Name: "Instructors", Value: resp.TotalInstructors},
		{Name: "Admins", Value: resp.TotalAdmins},
	}
	return resp, nil
}

func (s *adminService) Analytics(actor *model.User) (*dto.AnalyticsResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrRoleForbidden
	}

	approved, err := s.courseRepo.FindByModeration(model.CourseApproved, 0)
	if err != nil {
		return nil, fmt.Errorf("listing approved courses: %w", err)
	}
	completion := make([]dto.CourseCompletionStat, 0, len(approved))
	for _, course := range approved {
		enrollments, err := s.enrollmentRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, fmt.Errorf("counting enrollments for course %d: %w", course.ID, err)
		}
		completions, err := s.enrollmentRepo.CountCompletedByCourse(course.ID)
		if err != nil {
			return nil, fmt.Errorf("counting completions for course %d: %w", course.ID, err)
		}
		rate := 0
		if enrollments > 0 {
			rate = int(float64(completions) / float64(enrollments) * 100)
		}
		completion = append(completion, dto.CourseCompletionStat{
			Title:       course.Title,
			Enrollments: enrollments,
			Completions: completions,
			Rate:        rate,
		})
	}

	top, err := s.topStudents(5)
	if err != nil {
		return nil, err
	}
	return &dto.AnalyticsResponse{CourseCompletion: completion, TopStudents: top}, nil
}

// topStudents ranks students by total correct answers across every quiz
// and reports each one's overall accuracy.
func (s *adminService) topStudents(limit int) ([]dto.TopStudentStat, error) {
	answers, err := s.answerRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}

	type tally struct {
		studentID uint
		answered  int
		correct   int
	}
	byStudent := map[uint]*tally{}
	order := []uint{}
	for _, ans := range answers {
		t, ok := byStudent[ans.StudentID]
		if !ok {
			t = &tally{studentID: ans.StudentID}
			byStudent[ans.StudentID] = t
			order = append(order, ans.StudentID)
		}
		t.answered++
		if ans.Correct {
			t.correct++
		}
	}

	tallies := make([]*tally, 0, len(order))
	for _, id := range order {
		tallies = append(tallies, byStudent[id])
	}
	sort.SliceStable(tallies, func(i, j int) bool {
		return tallies[i].correct > tallies[j].correct
	})
	if len(tallies) > limit {
		tallies = tallies[:limit]
	}

	ids := make([]uint, 0, len(tallies))
	for _, t := range tallies {
		ids = append(ids, t.studentID)
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("loading students: %w", err)
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}

	top := []dto.TopStudentStat{}
	for _, t := range tallies {
		name, ok := names[t.studentID]
		if !ok {
			// account deleted since answering
			continue
		}
		top = append(top, dto.TopStudentStat{
			Name:     name,
			Score:    int(float64(t.correct) / float64(t.answered) * 100),
			Attempts: t.answered,
		})
	}
	return top, nil
}

func (s *adminService) ListUsers(actor *model.User) ([]dto.UserResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrRoleForbidden
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	resp := make([]dto.UserResponse, 0, len(users))
	copier.Copy(&resp, &users)
	return resp, nil
}

func (s *adminService) CreateUser(actor *model.User, req dto.AdminCreateUserRequest) (*dto.UserResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrRoleForbidden
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := model.Role(req.Role)
	if !role.Valid() {
		role = model.RoleStudent
	}
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, apperr.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user := model.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	log.Info().Uint("userID", user.ID).Str("role", string(role)).Msg("Admin created user")
	var resp dto.UserResponse
	copier.Copy(&resp, &user)
	return &resp, nil
}

func (s *adminService) UpdateUser(actor *model.User, userID uint, req dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrRoleForbidden
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		if _, err := s.userRepo.FindByEmail(email); err == nil {
			return nil, apperr.ErrEmailTaken
		}
	}
	role := model.Role(req.Role)
	if !role.Valid() {
		role = user.Role
	}

	user.FullName = strings.TrimSpace(req.FullName)
	user.Email = email
	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	var resp dto.UserResponse
	copier.Copy(&resp, user)
	return &resp, nil
}

func (s *adminService) DeleteUser(actor *model.User, userID uint) error {
	if actor.Role != model.RoleAdmin {
		return apperr.ErrRoleForbidden
	}
	if actor.ID == userID {
		return fmt.Errorf("cannot delete own account: %w", apperr.ErrRoleForbidden)
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	log.Info().Uint("userID", userID).Str("email", user.Email).Msg("Admin deleted user")
	return nil
}

func (s *adminService) ExportUsersCSV(actor *model.User) (string, []byte, error) {
	if actor.Role != model.RoleAdmin {
		return "", nil, apperr.ErrRoleForbidden
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return "", nil, fmt.Errorf("listing users: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"ID", "Full Name", "Email", "Role", "Created At"})
	for _, u := range users {
		w.Write([]string{
			strconv.FormatUint(uint64(u.ID), 10),
			u.FullName,
			u.Email,
			string(u.Role),
			u.CreatedAt.UTC().Format(exportTimeFormat),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("writing csv: %w", err)
	}
	return exportFilename("users"), buf.Bytes(), nil
}

func (s *adminService) ExportCoursesCSV(actor *model.User) (string, []byte, error) {
	if actor.Role != model.RoleAdmin {
		return "", nil, apperr.ErrRoleForbidden
	}
	courses, err := s.courseRepo.FindAll()
	if err != nil {
		return "", nil, fmt.Errorf("listing courses: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"ID", "Title", "Instructor", "Price", "Created At", "Module Count", "Enrollment Count"})
	for _, c := range courses {
		moduleCount, err := s.moduleRepo.CountByCourse(c.ID)
		if err != nil {
			return "", nil, fmt.Errorf("counting modules for course %d: %w", c.ID, err)
		}
		enrollmentCount, err := s.enrollmentRepo.CountByCourse(c.ID)
		if err != nil {
			return "", nil, fmt.Errorf("counting enrollments for course %d: %w", c.ID, err)
		}
		instructor := c.Instructor.FullName
		if instructor == "" {
			instructor = "N/A"
		}
		w.Write([]string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Title,
			instructor,
			fmt.Sprintf("%.2f", c.Price),
			c.CreatedAt.UTC().Format(exportTimeFormat),
			strconv.FormatInt(moduleCount, 10),
			strconv.FormatInt(enrollmentCount, 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("writing csv: %w", err)
	}
	return exportFilename("courses"), buf.Bytes(), nil
}

func (s *adminService) ExportEnrollmentsCSV(actor *model.User) (string, []byte, error) {
	if actor.Role != model.RoleAdmin {
		return "", nil, apperr.ErrRoleForbidden
	}
	enrollments, err := s.enrollmentRepo.FindAllWithCourse()
	if err != nil {
		return "", nil, fmt.Errorf("listing enrollments: %w", err)
	}

	studentIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		studentIDs = append(studentIDs, e.StudentID)
	}
	students, err := s.userRepo.FindByIDs(studentIDs)
	if err != nil {
		return "", nil, fmt.Errorf("loading students: %w", err)
	}
	byID := make(map[uint]model.User, len(students))
	for _, u := range students {
		byID[u.ID] = u
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Student", "Student Email", "Course", "Enrolled At", "Status"})
	for _, e := range enrollments {
		student, ok := byID[e.StudentID]
		if !ok {
			continue
		}
		status := "In Progress"
		if e.Completed {
			status = "Completed"
		}
		w.Write([]string{
			student.FullName,
			student.Email,
			e.Course.Title,
			e.CreatedAt.UTC().Format(exportTimeFormat),
			status,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("writing csv: %w", err)
	}
	return exportFilename("enrollments"), buf.Bytes(), nil
}

func exportFilename(kind string) string {
	return fmt.Sprintf("%s_%s.csv", kind, time.Now().UTC().Format("20060102_150405"))
}
