package repository

import (
	"github.com/zitlabs/campus/internal/model"
	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(video *model.Video) error
	FindByCourse(courseID uint) ([]model.Video, error)
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

func (r *videoRepository) FindByCourse(courseID uint) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.Where("course_id = ?", courseID).Order("created_at desc").Find(&videos).Error
	return videos, err
}
