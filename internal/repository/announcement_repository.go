package repository

import (
	"github.com/zitlabs/campus/internal/model"
	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(announcement *model.Announcement) error
	FindRecentForCourses(courseIDs []uint, limit int) ([]model.Announcement, error)
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(announcement *model.Announcement) error {
	return r.db.Create(announcement).Error
}

func (r *announcementRepository) FindRecentForCourses(courseIDs []uint, limit int) ([]model.Announcement, error) {
	var announcements []model.Announcement
	if len(courseIDs) == 0 {
		return announcements, nil
	}
	err := r.db.Where("course_id IN ?", courseIDs).Order("created_at desc").Limit(limit).Find(&announcements).Error
	return announcements, err
}
