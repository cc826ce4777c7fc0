package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/payment"
	"github.com/zitlabs/campus/internal/repository"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(actor *model.User, courseID uint) (*dto.EnrollmentResponse, error)
	EnrollViaPayment(ctx context.Context, reference string) (*dto.EnrollmentResponse, error)
	IsEnrolled(studentID, courseID uint) (bool, error)
	StartPayment(ctx context.Context, actor *model.User, courseID uint) (*dto.StartPaymentResponse, *dto.EnrollmentResponse, error)
	Dashboard(actor *model.User) (*dto.StudentDashboardResponse, error)
}

type enrollmentService struct {
	enrollmentRepo   repository.EnrollmentRepository
	courseRepo       repository.CourseRepository
	moduleRepo       repository.ModuleRepository
	progressRepo     repository.ModuleProgressRepository
	announcementRepo repository.AnnouncementRepository
	userRepo         repository.UserRepository
	verifier         payment.Verifier
	gateway          *payment.PaystackClient
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	moduleRepo repository.ModuleRepository,
	progressRepo repository.ModuleProgressRepository,
	announcementRepo repository.AnnouncementRepository,
	userRepo repository.UserRepository,
	verifier payment.Verifier,
	gateway *payment.PaystackClient,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo:   enrollmentRepo,
		courseRepo:       courseRepo,
		moduleRepo:       moduleRepo,
		progressRepo:     progressRepo,
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
		verifier:         verifier,
		gateway:          gateway,
	}
}

// Enroll creates the student's access to a course, anchored at the
// course's first module.
func (s *enrollmentService) Enroll(actor *model.User, courseID uint) (*dto.EnrollmentResponse, error) {
	if actor.Role != model.RoleStudent {
		return nil, apperr.ErrRoleForbidden
	}
	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, apperr.ErrNotFound)
	}

	if _, err := s.enrollmentRepo.FindByStudentAndCourse(actor.ID, courseID); err == nil {
		return nil, apperr.ErrAlreadyEnrolled
	}

	firstModule, err := s.moduleRepo.FirstByCourse(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNoContent
		}
		return nil, fmt.Errorf("looking up first module of course %d: %w", courseID, err)
	}

	enrollment := model.Enrollment{
		StudentID:       actor.ID,
		CourseID:        courseID,
		CurrentModuleID: &firstModule.ID,
	}
	if err := s.enrollmentRepo.Create(&enrollment); err != nil {
		// A concurrent request may win the race between the lookup above
		// and this insert; the unique index turns that into a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrAlreadyEnrolled
		}
		log.Error().Err(err).Uint("studentID", actor.ID).Uint("courseID", courseID).Msg("Enroll: insert failed")
		return nil, fmt.Errorf("creating enrollment: %w", err)
	}

	log.Info().Uint("studentID", actor.ID).Uint("courseID", courseID).Msg("Student enrolled")
	var resp dto.EnrollmentResponse
	copier.Copy(&resp, &enrollment)
	return &resp, nil
}

// EnrollViaPayment resolves the paying student and course from a verified
// gateway transaction and enrolls them. A course without modules still
// enrolls the student, with no module anchor.
func (s *enrollmentService) EnrollViaPayment(ctx context.Context, reference string) (*dto.EnrollmentResponse, error) {
	verification, err := s.verifier.Verify(ctx, reference)
	if err != nil {
		log.Warn().Err(err).Str("reference", reference).Msg("EnrollViaPayment: verification call failed")
		return nil, fmt.Errorf("%w: %v", apperr.ErrPaymentInvalid, err)
	}
	if !verification.Success {
		return nil, fmt.Errorf("%w: gateway status %q", apperr.ErrPaymentInvalid, verification.Status)
	}
	if verification.CourseID == nil {
		return nil, fmt.Errorf("%w: no course in transaction metadata", apperr.ErrPaymentInvalid)
	}
	courseID := *verification.CourseID

	student, err := s.resolveStudent(verification)
	if err != nil {
		return nil, err
	}

	if existing, err := s.enrollmentRepo.FindByStudentAndCourse(student.ID, courseID); err == nil {
		// Paying twice is the gateway's problem; enrollment stays idempotent.
		var resp dto.EnrollmentResponse
		copier.Copy(&resp, existing)
		return &resp, nil
	}

	enrollment := model.Enrollment{StudentID: student.ID, CourseID: courseID}
	if firstModule, err := s.moduleRepo.FirstByCourse(courseID); err == nil {
		enrollment.CurrentModuleID = &firstModule.ID
	}

	if err := s.enrollmentRepo.Create(&enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrAlreadyEnrolled
		}
		log.Error().Err(err).Uint("studentID", student.ID).Uint("courseID", courseID).Msg("EnrollViaPayment: insert failed")
		return nil, fmt.Errorf("creating enrollment: %w", err)
	}

	log.Info().Uint("studentID", student.ID).Uint("courseID", courseID).Str("reference", reference).Msg("Student enrolled via payment")
	var resp dto.EnrollmentResponse
	copier.Copy(&resp, &enrollment)
	return &resp, nil
}

// resolveStudent maps verified payer data to an account: explicit student
// id from the metadata first, then the payer email.
func (s *enrollmentService) resolveStudent(v *payment.Verification) (*model.User, error) {
	if v.StudentID != nil {
		if user, err := s.userRepo.FindByID(*v.StudentID); err == nil {
			return user, nil
		}
	}
	if v.PayerEmail != "" {
		if user, err := s.userRepo.FindByEmail(v.PayerEmail); err == nil {
			return user, nil
		}
	}
	return nil, apperr.ErrStudentUnresolved
}

func (s *enrollmentService) IsEnrolled(studentID, courseID uint) (bool, error) {
	_, err := s.enrollmentRepo.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// StartPayment either enrolls directly (free course) or opens a gateway
// checkout whose callback lands in EnrollViaPayment. Exactly one of the
// two results is non-nil on success.
func (s *enrollmentService) StartPayment(ctx context.Context, actor *model.User, courseID uint) (*dto.StartPaymentResponse, *dto.EnrollmentResponse, error) {
	if actor.Role != model.RoleStudent {
		return nil, nil, apperr.ErrRoleForbidden
	}
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return nil, nil, fmt.Errorf("course %d: %w", courseID, apperr.ErrNotFound)
	}

	if course.Price <= 0 {
		enrollment, err := s.Enroll(actor, courseID)
		if err != nil {
			return nil, nil, err
		}
		return nil, enrollment, nil
	}

	if _, err := s.enrollmentRepo.FindByStudentAndCourse(actor.ID, courseID); err == nil {
		return nil, nil, apperr.ErrAlreadyEnrolled
	}

	init, err := s.gateway.Initialize(ctx, payment.InitRequest{
		Email:     actor.Email,
		AmountNGN: course.Price,
		CourseID:  course.ID,
		StudentID: actor.ID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperr.ErrPaymentInvalid, err)
	}
	return &dto.StartPaymentResponse{Reference: init.Reference, AuthorizationURL: init.AuthorizationURL}, nil, nil
}

// Dashboard lists the student's enrolled courses with their percent
// complete, plus recent announcements for those courses.
func (s *enrollmentService) Dashboard(actor *model.User) (*dto.StudentDashboardResponse, error) {
	enrollments, err := s.enrollmentRepo.FindByStudent(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching enrollments: %w", err)
	}

	resp := dto.StudentDashboardResponse{
		EnrolledCourses: make([]dto.EnrolledCourseResponse, 0, len(enrollments)),
		Announcements:   []dto.AnnouncementResponse{},
	}
	courseIDs := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		if enrollment.Course.ID == 0 {
			continue
		}
		total, err := s.moduleRepo.CountByCourse(enrollment.CourseID)
		if err != nil {
			return nil, fmt.Errorf("counting modules for course %d: %w", enrollment.CourseID, err)
		}
		completed, err := s.progressRepo.CountByStudentAndCourse(actor.ID, enrollment.CourseID)
		if err != nil {
			return nil, fmt.Errorf("counting progress for course %d: %w", enrollment.CourseID, err)
		}
		resp.EnrolledCourses = append(resp.EnrolledCourses, dto.EnrolledCourseResponse{
			CourseID:    enrollment.CourseID,
			Title:       enrollment.Course.Title,
			Description: enrollment.Course.Description,
			Progress:    roundPercent(completed, total),
		})
		courseIDs = append(courseIDs, enrollment.CourseID)
	}

	announcements, err := s.announcementRepo.FindRecentForCourses(courseIDs, 5)
	if err != nil {
		return nil, fmt.Errorf("fetching announcements: %w", err)
	}
	copier.Copy(&resp.Announcements, &announcements)
	return &resp, nil
}
