package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyFileName = errors.New("file name is required")

// ObjectStore persists uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, name string, r io.Reader) (url string, err error)
}

// LocalStore writes objects under a directory served at <baseURL>/files.
type LocalStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "attachments"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

// Dir is the root directory to serve files from.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Key builds a collision-free object key for an uploaded file name.
func (s *LocalStore) Key(name string) string {
	return fmt.Sprintf("attachments/%d-%s-%s", s.now().UnixMilli(), uuid.NewString(), SanitizeName(name))
}

func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyFileName
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := s.Key(name)
	f, err := os.Create(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil {
		return "", fmt.Errorf("failed to create object: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close object: %w", err)
	}

	return s.baseURL + "/files/" + key, nil
}

// SanitizeName keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with '_'.
func SanitizeName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
