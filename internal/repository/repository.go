package repository

import (
	"context"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID with their team
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsername finds the oldest user with the given username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByIDs returns the users that exist among ids
	FindByIDs(ctx context.Context, ids []uint64) ([]models.User, error)

	// List returns every user with their team
	List(ctx context.Context) ([]models.User, error)

	// UpdateFields writes the given columns of a user
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error

	// ListOpaqueUsernameCandidates returns users whose username has the
	// length of a provider identifier
	ListOpaqueUsernameCandidates(ctx context.Context) ([]models.User, error)

	// Search matches username and email
	Search(ctx context.Context, term string, page utils.PaginationParams) ([]models.User, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, id uint64) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id uint64) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Search(ctx context.Context, term string, page utils.PaginationParams) ([]models.Project, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// FindDetailed finds a task with its people, comments and attachments
	FindDetailed(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks matching the filter
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// UpdateFields writes the given columns of a task
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error

	// Delete removes a task together with its comments and attachments
	Delete(ctx context.Context, id uint64) error

	// Search matches title and description
	Search(ctx context.Context, term string, page utils.PaginationParams) ([]models.Task, error)
}

// TaskFilter holds filtering options for listing tasks. A nil field does not
// constrain the result.
type TaskFilter struct {
	ProjectID *uint64
	// UserID matches tasks the user authored or is assigned to
	UserID *uint64
	// Detailed also preloads comments and attachments
	Detailed bool
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint64) (*models.Comment, error)
	ListByTask(ctx context.Context, taskID uint64) ([]models.Comment, error)
}

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	ListByTask(ctx context.Context, taskID uint64) ([]models.Attachment, error)
}
