package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
	"gorm.io/gorm"
)

type ProgressService interface {
	MarkComplete(actor *model.User, moduleID uint) (*dto.MarkCompleteResponse, error)
	PercentComplete(studentID, courseID uint) (int, error)
}

type progressService struct {
	progressRepo   repository.ModuleProgressRepository
	moduleRepo     repository.ModuleRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewProgressService(
	progressRepo repository.ModuleProgressRepository,
	moduleRepo repository.ModuleRepository,
	enrollmentRepo repository.EnrollmentRepository,
) ProgressService {
	return &progressService{
		progressRepo:   progressRepo,
		moduleRepo:     moduleRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// MarkComplete records the student's completion of a module. Marking a
// module complete twice is acknowledged, not an error.
func (s *progressService) MarkComplete(actor *model.User, moduleID uint) (*dto.MarkCompleteResponse, error) {
	if actor.Role != model.RoleStudent {
		return nil, apperr.ErrRoleForbidden
	}

	module, err := s.moduleRepo.FindByID(moduleID)
	if err != nil {
		return nil, fmt.Errorf("module %d: %w", moduleID, apperr.ErrNotFound)
	}

	if _, err := s.enrollmentRepo.FindByStudentAndCourse(actor.ID, module.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotEnrolled
		}
		return nil, fmt.Errorf("checking enrollment: %w", err)
	}

	alreadyComplete := false
	if _, err := s.progressRepo.FindByStudentAndModule(actor.ID, moduleID); err == nil {
		alreadyComplete = true
	} else {
		progress := model.ModuleProgress{StudentID: actor.ID, ModuleID: moduleID}
		if err := s.progressRepo.Create(&progress); err != nil {
			// The unique index absorbs a concurrent duplicate: same no-op
			// acknowledgment as the lookup path.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				alreadyComplete = true
			} else {
				log.Error().Err(err).Uint("studentID", actor.ID).Uint("moduleID", moduleID).Msg("MarkComplete: insert failed")
				return nil, fmt.Errorf("recording module progress: %w", err)
			}
		}
	}

	percent, err := s.PercentComplete(actor.ID, module.CourseID)
	if err != nil {
		return nil, err
	}
	return &dto.MarkCompleteResponse{AlreadyComplete: alreadyComplete, PercentComplete: percent}, nil
}

// PercentComplete is the rounded share of the course's modules this
// student has completed. A course with no modules is 0, never a division
// by zero.
func (s *progressService) PercentComplete(studentID, courseID uint) (int, error) {
	total, err := s.moduleRepo.CountByCourse(courseID)
	if err != nil {
		return 0, fmt.Errorf("counting modules: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	completed, err := s.progressRepo.CountByStudentAndCourse(studentID, courseID)
	if err != nil {
		return 0, fmt.Errorf("counting completed modules: %w", err)
	}
	return roundPercent(completed, total), nil
}

// roundPercent rounds half away from zero, matching the legacy scoring.
func roundPercent(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
