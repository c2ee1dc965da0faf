package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"memory-gallery/internal/domain"
)

// memUsers is an in-memory domain.UserRepository with the same
// uniqueness and not-found semantics as the gorm store.
type memUsers struct {
	seq  uint
	rows map[uint]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[uint]*domain.User{}}
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	for _, row := range m.rows {
		if row.Email == u.Email {
			return fmt.Errorf("%w: duplicate email", domain.ErrConflict)
		}
	}
	m.seq++
	u.ID = m.seq
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *memUsers) ByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) All(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, id uint, fields map[string]any) (*domain.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	if email, set := fields["email"]; set {
		for other, row := range m.rows {
			if other != id && row.Email == email.(string) {
				return nil, fmt.Errorf("%w: duplicate email", domain.ErrConflict)
			}
		}
		u.Email = email.(string)
	}
	if v, set := fields["first_name"]; set {
		u.FirstName = v.(string)
	}
	if v, set := fields["last_name"]; set {
		u.LastName = v.(string)
	}
	if v, set := fields["password_hash"]; set {
		u.PasswordHash = v.(string)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Delete(_ context.Context, id uint) (bool, error) {
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *memUsers) SetRefreshToken(_ context.Context, id uint, token *string) error {
	u, ok := m.rows[id]
	if !ok {
		return nil
	}
	u.RefreshToken = token
	return nil
}

// memPhotos mirrors the photo store; createErr simulates a row failure
// after the file has been written.
type memPhotos struct {
	seq       uint
	rows      map[uint]*domain.Photo
	createErr error
}

func newMemPhotos() *memPhotos {
	return &memPhotos{rows: map[uint]*domain.Photo{}}
}

func (m *memPhotos) Create(_ context.Context, p *domain.Photo) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	p.ID = m.seq
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memPhotos) ByID(_ context.Context, id uint) (*domain.Photo, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPhotos) ByPath(_ context.Context, path string) (*domain.Photo, error) {
	for _, p := range m.rows {
		if p.Path == path {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPhotos) ByGrade(_ context.Context, grade int) ([]domain.Photo, error) {
	var out []domain.Photo
	for _, p := range m.rows {
		if p.Grade == grade {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPhotos) ByParallel(_ context.Context, parallel string) ([]domain.Photo, error) {
	var out []domain.Photo
	for _, p := range m.rows {
		if p.Parallel == parallel {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPhotos) All(_ context.Context) ([]domain.Photo, error) {
	out := make([]domain.Photo, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPhotos) Update(_ context.Context, id uint, fields map[string]any) (*domain.Photo, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	if v, set := fields["date"]; set {
		p.Date = v.(time.Time)
	}
	if v, set := fields["description"]; set {
		p.Description = v.(string)
	}
	if v, set := fields["grade"]; set {
		p.Grade = v.(int)
	}
	if v, set := fields["parallel"]; set {
		p.Parallel = v.(string)
	}
	if v, set := fields["updated_at"]; set {
		p.UpdatedAt = v.(time.Time)
	}
	cp := *p
	return &cp, nil
}

func (m *memPhotos) Delete(_ context.Context, id uint) (bool, error) {
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

// memStore is an in-memory FileStore recording writes and removals.
type memStore struct {
	files   map[string][]byte
	saveErr error
	removed []string
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}}
}

func (m *memStore) Save(name string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "mem/" + name
	m.files[path] = b
	return path, nil
}

func (m *memStore) Open(path string) (io.ReadCloser, error) {
	b, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStore) Remove(path string) error {
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("remove %s: no such file", path)
	}
	delete(m.files, path)
	m.removed = append(m.removed, path)
	return nil
}
