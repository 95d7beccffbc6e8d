package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
)

var ErrCommentTextRequired = errors.New("comment text is required")

// CommentService appends comments to tasks. Comments are never edited.
type CommentService struct {
	commentRepo repository.CommentRepository
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

type CreateCommentInput struct {
	TaskID       uint64
	Text         string
	AuthorUserID uint64
}

// CreateComment stores a comment. An unknown task or author is reported as
// ErrInvalidReference.
func (s *CommentService) CreateComment(ctx context.Context, input CreateCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}
	if input.TaskID == 0 || input.AuthorUserID == 0 {
		return nil, ErrInvalidReference
	}

	comment := &models.Comment{
		Text:   text,
		TaskID: input.TaskID,
		UserID: input.AuthorUserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, wrapWriteError("create comment", err)
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	return created, nil
}

// ListComments returns a task's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, taskID uint64) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
