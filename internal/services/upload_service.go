package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/storage"
)

var (
	ErrFileRequired = errors.New("no file uploaded")
	ErrFileTooLarge = errors.New("file is too large")

	ErrStorageNotConfigured = errors.New("file storage is not configured")
)

// UploadService stores files and returns their public URL. Linking a file to
// a task is a separate call.
type UploadService struct {
	store    storage.ObjectStore
	maxBytes int64
	log      logrus.FieldLogger
}

func NewUploadService(store storage.ObjectStore, maxBytes int64, log logrus.FieldLogger) *UploadService {
	return &UploadService{
		store:    store,
		maxBytes: maxBytes,
		log:      log,
	}
}

func (s *UploadService) Upload(ctx context.Context, name string, size int64, r io.Reader) (string, error) {
	if s.store == nil {
		return "", ErrStorageNotConfigured
	}
	if name == "" {
		return "", ErrFileRequired
	}
	if size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	url, err := s.store.Put(ctx, name, io.LimitReader(r, s.maxBytes))
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"file": name,
		"size": size,
	}).Info("Stored upload")
	return url, nil
}
