package infra

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Name        string
	Size        int64
	UpdatedAt   time.Time
	ContentType string
}

// ObjectStorage is the object-store contract the design module consumes:
// list under a prefix, upload, remove, and derive a public URL for a name.
type ObjectStorage interface {
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Upload(ctx context.Context, name string, data []byte, contentType string, overwrite bool) error
	Remove(ctx context.Context, names ...string) error
	PublicURL(name string) string
}

// ErrObjectExists is returned by Upload when the object already exists and
// overwrite was not requested.
var ErrObjectExists = errors.New("object already exists")

// FSStorage is a filesystem-backed ObjectStorage. Objects live flat under
// baseDir; the router serves baseDir publicly under publicBase.
type FSStorage struct {
	baseDir    string
	publicBase string
}

func NewFSStorage(baseDir, publicBase string) (*FSStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create base dir: %w", err)
	}
	return &FSStorage{baseDir: baseDir, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

// cleanName rejects path traversal: object names are flat, no separators.
func (s *FSStorage) cleanName(name string) (string, error) {
	base := filepath.Base(name)
	if base != name || name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("storage: invalid object name %q", name)
	}
	return filepath.Join(s.baseDir, base), nil
}

func (s *FSStorage) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var objects []ObjectInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		objects = append(objects, ObjectInfo{
			Name:      e.Name(),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

func (s *FSStorage) Upload(_ context.Context, name string, data []byte, _ string, overwrite bool) error {
	path, err := s.cleanName(name)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return ErrObjectExists
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("storage: upload %q: %w", name, err)
	}
	return nil
}

func (s *FSStorage) Remove(_ context.Context, names ...string) error {
	for _, name := range names {
		path, err := s.cleanName(name)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("storage: remove %q: %w", name, err)
		}
	}
	return nil
}

func (s *FSStorage) PublicURL(name string) string {
	return s.publicBase + "/" + name
}

// Dir returns the backing directory so the router can serve it statically.
func (s *FSStorage) Dir() string { return s.baseDir }
