package domain

import (
	"context"
	"time"
)

// Photo is the metadata row for one uploaded image. Path points at the
// file store and stays valid for as long as the row exists.
type Photo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        time.Time `gorm:"not null" json:"date"`
	Path        string    `gorm:"size:255;not null" json:"path"`
	Description string    `gorm:"size:512" json:"description"`
	Grade       int       `json:"grade"`
	Parallel    string    `gorm:"size:8" json:"parallel"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Photo) TableName() string { return "photos" }

type PhotoRepository interface {
	Create(ctx context.Context, p *Photo) error
	ByID(ctx context.Context, id uint) (*Photo, error)
	ByPath(ctx context.Context, path string) (*Photo, error)
	ByGrade(ctx context.Context, grade int) ([]Photo, error)
	ByParallel(ctx context.Context, parallel string) ([]Photo, error)
	All(ctx context.Context) ([]Photo, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*Photo, error)
	Delete(ctx context.Context, id uint) (bool, error)
}
