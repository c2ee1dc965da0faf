package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"memory-gallery/internal/domain"
)

type PhotoRepo struct {
	*Repo[domain.Photo]
	db *gorm.DB
}

func NewPhotoRepo(db *gorm.DB) *PhotoRepo {
	return &PhotoRepo{Repo: New[domain.Photo](db), db: db}
}

func (r *PhotoRepo) ByPath(ctx context.Context, path string) (*domain.Photo, error) {
	var p domain.Photo
	err := r.db.WithContext(ctx).First(&p, "path = ?", path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PhotoRepo) ByGrade(ctx context.Context, grade int) ([]domain.Photo, error) {
	var ps []domain.Photo
	if err := r.db.WithContext(ctx).Where("grade = ?", grade).Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *PhotoRepo) ByParallel(ctx context.Context, parallel string) ([]domain.Photo, error) {
	var ps []domain.Photo
	if err := r.db.WithContext(ctx).Where("parallel = ?", parallel).Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}
