package service

import (
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
	"gorm.io/gorm"
)

type CourseService interface {
	CreateCourse(actor *model.User, req dto.CourseCreateRequest) (*dto.CourseResponse, error)
	UpdateCourse(actor *model.User, courseID uint, req dto.CourseUpdateRequest) (*dto.CourseResponse, error)
	ListApproved() ([]dto.CourseResponse, error)
	CourseDetail(courseID uint) (*dto.CourseDetailResponse, error)
	AddModule(actor *model.User, courseID uint, req dto.ModuleCreateRequest) (*dto.ModuleResponse, error)
	AddAnnouncement(actor *model.User, courseID uint, req dto.AnnouncementCreateRequest) (*dto.AnnouncementResponse, error)
	AddVideo(actor *model.User, courseID uint, req dto.VideoCreateRequest) (*dto.VideoResponse, error)
	DeleteCourse(actor *model.User, courseID uint) error
	ApproveCourse(actor *model.User, courseID uint) (*dto.CourseResponse, error)
	RejectCourse(actor *model.User, courseID uint, reason string) (*dto.CourseResponse, error)
	ModerationQueue(actor *model.User) (*dto.ModerationQueueResponse, error)
	InstructorDashboard(actor *model.User) (*dto.InstructorDashboardResponse, error)
}

type courseService struct {
	courseRepo       repository.CourseRepository
	moduleRepo       repository.ModuleRepository
	enrollmentRepo   repository.EnrollmentRepository
	announcementRepo repository.AnnouncementRepository
	videoRepo        repository.VideoRepository
	db               *gorm.DB // transactional subtree delete
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	moduleRepo repository.ModuleRepository,
	enrollmentRepo repository.EnrollmentRepository,
	announcementRepo repository.AnnouncementRepository,
	videoRepo repository.VideoRepository,
	db *gorm.DB,
) CourseService {
	return &courseService{
		courseRepo:       courseRepo,
		moduleRepo:       moduleRepo,
		enrollmentRepo:   enrollmentRepo,
		announcementRepo: announcementRepo,
		videoRepo:        videoRepo,
		db:               db,
	}
}

func (s *courseService) CreateCourse(actor *model.User, req dto.CourseCreateRequest) (*dto.CourseResponse, error) {
	if actor.Role != model.RoleInstructor {
		return nil, apperr.ErrRoleForbidden
	}
	course := model.Course{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: actor.ID,
		Price:        req.Price,
		Moderation:   model.CoursePending,
	}
	if err := s.courseRepo.Create(&course); err != nil {
		log.Error().Err(err).Uint("instructorID", actor.ID).Msg("CreateCourse: insert failed")
		return nil, fmt.Errorf("creating course: %w", err)
	}
	var resp dto.CourseResponse
	copier.Copy(&resp, &course)
	return &resp, nil
}

func (s *courseService) UpdateCourse(actor *model.User, courseID uint, req dto.CourseUpdateRequest) (*dto.CourseResponse, error) {
	course, err := s.ownedCourse(actor, courseID)
	if err != nil {
		return nil, err
	}
	course.Title = req.Title
	course.Description = req.Description
	course.Price = req.Price
	if err := s.courseRepo.Update(course); err != nil {
		return nil, fmt.Errorf("updating course: %w", err)
	}
	var resp dto.CourseResponse
	copier.Copy(&resp, course)
	return &resp, nil
}

func (s *courseService) ListApproved() ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.FindApproved()
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	resp := make([]dto.CourseResponse, 0, len(courses))
	copier.Copy(&resp, &courses)
	return resp, nil
}

func (s *courseService) CourseDetail(courseID uint) (*dto.CourseDetailResponse, error) {
	course, err := s.courseRepo.FindByIDWithContent(courseID)
	if err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, apperr.ErrNotFound)
	}
	videos, err := s.videoRepo.FindByCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}

	var resp dto.CourseDetailResponse
	copier.Copy(&resp.CourseResponse, course)
	resp.InstructorName = course.Instructor.FullName
	resp.Modules = make([]dto.ModuleResponse, 0, len(course.Modules))
	copier.Copy(&resp.Modules, &course.Modules)
	resp.Quizzes = make([]dto.QuizResponse, 0, len(course.Quizzes))
	copier.Copy(&resp.Quizzes, &course.Quizzes)
	resp.Videos = make([]dto.VideoResponse, 0, len(videos))
	copier.Copy(&resp.Videos, &videos)
	return &resp, nil
}

func (s *courseService) AddModule(actor *model.User, courseID uint, req dto.ModuleCreateRequest) (*dto.ModuleResponse, error) {
	if _, err := s.ownedCourse(actor, courseID); err != nil {
		return nil, err
	}
	module := model.Module{CourseID: courseID, Title: req.Title, Content: req.Content}
	if err := s.moduleRepo.Create(&module); err != nil {
		return nil, fmt.Errorf("creating module: %w", err)
	}
	var resp dto.ModuleResponse
	copier.Copy(&resp, &module)
	return &resp, nil
}

func (s *courseService) AddAnnouncement(actor *model.User, courseID uint, req dto.AnnouncementCreateRequest) (*dto.AnnouncementResponse, error) {
	if _, err := s.ownedCourse(actor, courseID); err != nil {
		return nil, err
	}
	announcement := model.Announcement{CourseID: courseID, InstructorID: actor.ID, Message: req.Message}
	if err := s.announcementRepo.Create(&announcement); err != nil {
		return nil, fmt.Errorf("creating announcement: %w", err)
	}
	var resp dto.AnnouncementResponse
	copier.Copy(&resp, &announcement)
	return &resp, nil
}

// AddVideo stores upload metadata only; the bytes live in external
// storage.
func (s *courseService) AddVideo(actor *model.User, courseID uint, req dto.VideoCreateRequest) (*dto.VideoResponse, error) {
	if _, err := s.ownedCourse(actor, courseID); err != nil {
		return nil, err
	}
	video := model.Video{
		CourseID:         courseID,
		Title:            req.Title,
		Filename:         req.Filename,
		OriginalFilename: req.OriginalFilename,
		Mimetype:         req.Mimetype,
		UploadedBy:       actor.ID,
	}
	if video.Mimetype == "" {
		video.Mimetype = "video/mp4"
	}
	if err := s.videoRepo.Create(&video); err != nil {
		return nil, fmt.Errorf("creating video: %w", err)
	}
	var resp dto.VideoResponse
	copier.Copy(&resp, &video)
	return &resp, nil
}

// DeleteCourse removes the course and everything it owns in a single
// transaction, so a failure mid-sequence cannot leave a partial delete.
func (s *courseService) DeleteCourse(actor *model.User, courseID uint) error {
	course, err := s.ownedCourse(actor, courseID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&model.Module{}).Where("course_id = ?", courseID).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		var quizIDs []uint
		if err := tx.Model(&model.Quiz{}).Where("course_id = ?", courseID).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			var questionIDs []uint
			if err := tx.Model(&model.Question{}).Where("quiz_id IN ?", quizIDs).Pluck("id", &questionIDs).Error; err != nil {
				return err
			}
			if len(questionIDs) > 0 {
				if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.StudentAnswer{}).Error; err != nil {
					return err
				}
				if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Choice{}).Error; err != nil {
					return err
				}
				if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.Question{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("course_id = ?", courseID).Delete(&model.Quiz{}).Error; err != nil {
				return err
			}
		}
		if len(moduleIDs) > 0 {
			if err := tx.Where("module_id IN ?", moduleIDs).Delete(&model.ModuleProgress{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []interface{}{&model.Video{}, &model.Announcement{}, &model.Enrollment{}, &model.Grade{}, &model.Module{}} {
			if err := tx.Where("course_id = ?", courseID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Course{}, courseID).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("courseID", courseID).Msg("DeleteCourse: transaction failed")
		return fmt.Errorf("deleting course %d: %w", courseID, err)
	}

	log.Info().Uint("courseID", courseID).Str("title", course.Title).Msg("Course deleted")
	return nil
}

func (s *courseService) ApproveCourse(actor *model.User, courseID uint) (*dto.CourseResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrRoleForbidden
	}
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, apperr.ErrNotFound)
	}
	course.Moderation = model.CourseApproved
	course.RejectionReason = nil
	if err := s.courseRepo.Update(course); err != nil {
		return nil, fmt.Errorf("approving course: %w", err)
	}
	log.Info().Uint("courseID", courseID).Msg("Course approved")
	var resp dto.CourseResponse
	copier.Copy(&resp, course)
	return &resp, nil
}

func (s *courseService) RejectCourse(actor *model.User, courseID uint, reason string) (*dto.CourseResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrRoleForbidden
	}
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, apperr.ErrNotFound)
	}
	course.Moderation = model.CourseRejected
	course.RejectionReason = &reason
	if err := s.courseRepo.Update(course); err != nil {
		return nil, fmt.Errorf("rejecting course: %w", err)
	}
	log.Info().Uint("courseID", courseID).Str("reason", reason).Msg("Course rejected")
	var resp dto.CourseResponse
	copier.Copy(&resp, course)
	return &resp, nil
}

func (s *courseService) ModerationQueue(actor *model.User) (*dto.ModerationQueueResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrRoleForbidden
	}
	resp := &dto.ModerationQueueResponse{
		Pending:  []dto.CourseResponse{},
		Approved: []dto.CourseResponse{},
		Rejected: []dto.CourseResponse{},
	}
	pending, err := s.courseRepo.FindByModeration(model.CoursePending, 0)
	if err != nil {
		return nil, fmt.Errorf("listing pending courses: %w", err)
	}
	approved, err := s.courseRepo.FindByModeration(model.CourseApproved, 10)
	if err != nil {
		return nil, fmt.Errorf("listing approved courses: %w", err)
	}
	rejected, err := s.courseRepo.FindByModeration(model.CourseRejected, 10)
	if err != nil {
		return nil, fmt.Errorf("listing rejected courses: %w", err)
	}
	copier.Copy(&resp.Pending, &pending)
	copier.Copy(&resp.Approved, &approved)
	copier.Copy(&resp.Rejected, &rejected)
	return resp, nil
}

func (s *courseService) InstructorDashboard(actor *model.User) (*dto.InstructorDashboardResponse, error) {
	if actor.Role != model.RoleInstructor {
		return nil, apperr.ErrRoleForbidden
	}
	courses, err := s.courseRepo.FindByInstructor(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}

	resp := &dto.InstructorDashboardResponse{
		Courses: make([]dto.InstructorCourseResponse, 0, len(courses)),
	}
	for _, course := range courses {
		enrolled, err := s.enrollmentRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, fmt.Errorf("counting enrollments for course %d: %w", course.ID, err)
		}
		var row dto.InstructorCourseResponse
		copier.Copy(&row.CourseResponse, &course)
		row.EnrolledStudents = enrolled
		resp.Courses = append(resp.Courses, row)
	}

	if resp.TotalStudents, err = s.enrollmentRepo.CountDistinctStudentsByInstructor(actor.ID); err != nil {
		return nil, fmt.Errorf("counting students: %w", err)
	}
	weekAgo := time.Now().AddDate(0, 0, -7)
	if resp.RecentEnrollments, err = s.enrollmentRepo.CountByInstructorSince(actor.ID, weekAgo); err != nil {
		return nil, fmt.Errorf("counting recent enrollments: %w", err)
	}
	return resp, nil
}

func (s *courseService) ownedCourse(actor *model.User, courseID uint) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, apperr.ErrNotFound)
	}
	if actor.Role != model.RoleInstructor || actor.ID != course.InstructorID {
		return nil, apperr.ErrRoleForbidden
	}
	return course, nil
}
