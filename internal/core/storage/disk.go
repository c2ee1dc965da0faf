// Package storage is the file store behind photo uploads. Rows in the
// photos table reference paths returned by Save.
package storage

import (
	"io"
	"os"
	"path/filepath"
)

type Store interface {
	// Save writes the bytes under the given name and returns the
	// path to persist alongside the metadata row.
	Save(name string, r io.Reader) (string, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

type Disk struct{ root string }

func NewDisk(root string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Disk{root: root}, nil
}

func (d *Disk) Save(name string, r io.Reader) (string, error) {
	path := filepath.Join(d.root, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func (d *Disk) Open(path string) (io.ReadCloser, error) { return os.Open(path) }

func (d *Disk) Remove(path string) error { return os.Remove(path) }
