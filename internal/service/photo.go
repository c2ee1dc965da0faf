package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"memory-gallery/internal/core/cache"
	"memory-gallery/internal/domain"
	"memory-gallery/pkg/utils"
)

var allowedExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".raw": {}, ".tiff": {},
}

// FileStore is the subset of the file store the photo flow needs.
type FileStore interface {
	Save(name string, r io.Reader) (string, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

type UploadPhotoInput struct {
	Date        time.Time
	Description string
	Grade       int
	Parallel    string
	FileName    string
	File        io.Reader
}

type UpdatePhotoInput struct {
	Date        time.Time
	Description string
	Grade       int
	Parallel    string
}

type PhotoService struct {
	photos   domain.PhotoRepository
	files    FileStore
	cache    *cache.Cache // optional
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewPhotoService(photos domain.PhotoRepository, files FileStore, c *cache.Cache, cacheTTL time.Duration, log *zap.Logger) *PhotoService {
	return &PhotoService{photos: photos, files: files, cache: c, cacheTTL: cacheTTL, log: log}
}

// Upload writes the file first, then the metadata row. A row failure
// removes the just-written file; a failed removal is logged so the orphan
// can be reconciled later.
func (s *PhotoService) Upload(ctx context.Context, in UploadPhotoInput) error {
	ext := strings.ToLower(filepath.Ext(in.FileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return domain.ErrInvalidPhotoFormat
	}

	path, err := s.files.Save(utils.NewID()+ext, in.File)
	if err != nil {
		return fmt.Errorf("save photo file: %w", err)
	}

	now := time.Now().UTC()
	photo := &domain.Photo{
		Date:        in.Date,
		Path:        path,
		Description: in.Description,
		Grade:       in.Grade,
		Parallel:    in.Parallel,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		if rmErr := s.files.Remove(path); rmErr != nil {
			s.log.Warn("orphaned photo file", zap.String("path", path), zap.Error(rmErr))
		}
		return fmt.Errorf("create photo: %w", err)
	}
	s.log.Info("photo uploaded", zap.Uint("id", photo.ID), zap.String("path", path))
	return nil
}

func (s *PhotoService) List(ctx context.Context) ([]domain.Photo, error) {
	return s.photos.All(ctx)
}

func (s *PhotoService) Get(ctx context.Context, id uint) (*domain.Photo, error) {
	if s.cache == nil {
		return s.get(ctx, id)
	}
	p, err := cache.GetOrLoadJSON[domain.Photo](s.cache, ctx, photoKey(id), s.cacheTTL,
		func(ctx context.Context) (*domain.Photo, error) { return s.get(ctx, id) })
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *PhotoService) get(ctx context.Context, id uint) (*domain.Photo, error) {
	p, err := s.photos.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ByGrade keeps the original contract: an empty result is not-found,
// not an empty list.
func (s *PhotoService) ByGrade(ctx context.Context, grade int) ([]domain.Photo, error) {
	ps, err := s.photos.ByGrade(ctx, grade)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, domain.ErrNotFound
	}
	return ps, nil
}

func (s *PhotoService) ByParallel(ctx context.Context, parallel string) ([]domain.Photo, error) {
	ps, err := s.photos.ByParallel(ctx, parallel)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, domain.ErrNotFound
	}
	return ps, nil
}

// Update replaces the client-editable fields and touches updated_at.
func (s *PhotoService) Update(ctx context.Context, id uint, in UpdatePhotoInput) error {
	fields := map[string]any{
		"date":        in.Date,
		"description": in.Description,
		"grade":       in.Grade,
		"parallel":    in.Parallel,
		"updated_at":  time.Now().UTC(),
	}
	p, err := s.photos.Update(ctx, id, fields)
	if err != nil {
		return fmt.Errorf("update photo: %w", err)
	}
	if p == nil {
		return domain.ErrNotFound
	}
	s.invalidate(ctx, id)
	return nil
}

// Delete removes the row, then the file at the row's own path. Removing
// row first means a crash in between leaves an orphaned file, never a
// dangling row.
func (s *PhotoService) Delete(ctx context.Context, id uint) error {
	p, err := s.photos.ByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	ok, err := s.photos.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	if rmErr := s.files.Remove(p.Path); rmErr != nil {
		s.log.Warn("orphaned photo file", zap.String("path", p.Path), zap.Error(rmErr))
	}
	s.invalidate(ctx, id)
	return nil
}

// OpenFile streams the stored image for an existing row.
func (s *PhotoService) OpenFile(ctx context.Context, id uint) (io.ReadCloser, *domain.Photo, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.files.Open(p.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open photo file: %w", err)
	}
	return f, p, nil
}

func (s *PhotoService) invalidate(ctx context.Context, id uint) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, photoKey(id))
	}
}

func photoKey(id uint) string { return "photo:id:" + strconv.FormatUint(uint64(id), 10) }
