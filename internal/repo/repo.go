package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"memory-gallery/internal/domain"
)

// Repo is the generic single-row CRUD store. Every operation is one
// auto-committing statement; not-found reads come back as (nil, nil).
type Repo[T any] struct{ db *gorm.DB }

func New[T any](db *gorm.DB) *Repo[T] { return &Repo[T]{db: db} }

func (r *Repo[T]) Create(ctx context.Context, e *T) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return wrapDup(err)
	}
	return nil
}

func (r *Repo[T]) ByID(ctx context.Context, id uint) (*T, error) {
	var e T
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo[T]) All(ctx context.Context) ([]T, error) {
	var es []T
	if err := r.db.WithContext(ctx).Find(&es).Error; err != nil {
		return nil, err
	}
	return es, nil
}

// Update merges the supplied columns onto the row and reloads it.
// Returns (nil, nil) when the row does not exist.
func (r *Repo[T]) Update(ctx context.Context, id uint, fields map[string]any) (*T, error) {
	e, err := r.ByID(ctx, id)
	if err != nil || e == nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(e).Updates(fields).Error; err != nil {
		return nil, wrapDup(err)
	}
	return r.ByID(ctx, id)
}

func (r *Repo[T]) Delete(ctx context.Context, id uint) (bool, error) {
	var e T
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// wrapDup tags unique-constraint violations with domain.ErrConflict so
// services can classify them without touching driver error types.
func wrapDup(err error) error {
	if isDupKey(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
