package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"memory-gallery/internal/domain"
)

type UserRepo struct {
	*Repo[domain.User]
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{Repo: New[domain.User](db), db: db}
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, id uint, token *string) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}
