package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
)

var ErrQueryRequired = errors.New("query is required")

type SearchService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

func NewSearchService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *SearchService {
	return &SearchService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

type SearchResult struct {
	Tasks    []models.Task
	Projects []models.Project
	Users    []models.User
}

// Search matches the query case-insensitively against tasks, projects and
// users, paginating each kind independently.
func (s *SearchService) Search(ctx context.Context, query string, page utils.PaginationParams) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}

	tasks, err := s.taskRepo.Search(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	projects, err := s.projectRepo.Search(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search projects: %w", err)
	}
	users, err := s.userRepo.Search(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return &SearchResult{Tasks: tasks, Projects: projects, Users: users}, nil
}
