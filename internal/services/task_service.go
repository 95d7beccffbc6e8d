package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleTooLong           = errors.New("title is too long")
	ErrProjectRequired        = errors.New("projectId is required")
	ErrStatusRequired         = errors.New("status is required")
	ErrInvalidStatus          = errors.New("invalid task status")
	ErrInvalidPriority        = errors.New("invalid task priority")
	ErrInvalidPoints          = errors.New("points must not be negative")
	ErrAttachmentInvalid      = errors.New("fileURL and fileName are required")
	ErrTextRequired           = errors.New("text is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo       repository.TaskRepository
	projectRepo    repository.ProjectRepository
	attachmentRepo repository.AttachmentRepository
	generator      TaskGenerator
	log            logrus.FieldLogger
	metrics        *metrics.Metrics
}

// NewTaskService creates a new TaskService. generator may be nil when no AI
// provider is configured.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	attachmentRepo repository.AttachmentRepository,
	generator TaskGenerator,
	log logrus.FieldLogger,
	m *metrics.Metrics,
) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		projectRepo:    projectRepo,
		attachmentRepo: attachmentRepo,
		generator:      generator,
		log:            log,
		metrics:        m,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID *uint64
	UserID    *uint64
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    *string
	Status         *string
	Priority       *string
	Tags           *string
	StartDate      *time.Time
	DueDate        *time.Time
	Points         *int
	ProjectID      uint64
	AuthorUserID   *uint64
	AssignedUserID *uint64
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if len(title) > constants.MaxTaskTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func parseStatus(s string) (models.TaskStatus, error) {
	status, ok := models.ParseTaskStatus(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

func parsePriority(s string) (models.TaskPriority, error) {
	priority, ok := models.ParseTaskPriority(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return priority, nil
}

// ListTasks returns tasks with their people, comments and attachments
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		ProjectID: input.ProjectID,
		UserID:    input.UserID,
		Detailed:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListUserTasks returns tasks the user authored or is assigned to
func (s *TaskService) ListUserTasks(ctx context.Context, userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list user tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindDetailed(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates and stores a new task. Status defaults to To Do.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if input.ProjectID == 0 {
		return nil, ErrProjectRequired
	}
	if input.Points != nil && *input.Points < 0 {
		return nil, ErrInvalidPoints
	}

	task := &models.Task{
		Title:          title,
		Description:    input.Description,
		Status:         models.TaskStatusToDo,
		Tags:           input.Tags,
		StartDate:      input.StartDate,
		DueDate:        input.DueDate,
		Points:         input.Points,
		ProjectID:      input.ProjectID,
		AuthorUserID:   input.AuthorUserID,
		AssignedUserID: input.AssignedUserID,
	}

	if input.Status != nil {
		status, err := parseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}
	if input.Priority != nil {
		priority, err := parsePriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = &priority
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, wrapWriteError("create task", err)
	}

	s.log.WithFields(logrus.Fields{
		"task_id":    task.ID,
		"project_id": task.ProjectID,
	}).Info("Created task")

	return s.GetTask(ctx, task.ID)
}

// UpdateStatus moves a task to any status. Concurrent updates are last
// writer wins.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID uint64, rawStatus string) (*models.Task, error) {
	status, err := parseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateFields(ctx, task.ID, map[string]interface{}{"status": status}); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.metrics.ObserveStatusTransition(string(status))
	s.log.WithFields(logrus.Fields{
		"task_id": task.ID,
		"from":    task.Status,
		"to":      status,
	}).Info("Task status changed")

	return s.GetTask(ctx, task.ID)
}

// nullable returns nil for an explicit null so the column is cleared.
func nullable[T any](o dto.Optional[T]) interface{} {
	if v := o.Ptr(); v != nil {
		return *v
	}
	return nil
}

func nullableDate(o dto.Optional[dto.Date]) interface{} {
	if d := o.Ptr(); d != nil {
		return d.Time
	}
	return nil
}

// taskUpdateFields turns a partial update into column assignments.
func taskUpdateFields(input dto.UpdateTaskRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	if input.Title.Cleared() {
		return nil, ErrTitleRequired
	}
	if input.Title.Set {
		title, err := normalizeTitle(input.Title.Value)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if input.Status.Cleared() {
		return nil, ErrStatusRequired
	}
	if input.Status.Set {
		status, err := parseStatus(input.Status.Value)
		if err != nil {
			return nil, err
		}
		fields["status"] = status
	}
	if input.Priority.Set {
		if input.Priority.Valid {
			priority, err := parsePriority(input.Priority.Value)
			if err != nil {
				return nil, err
			}
			fields["priority"] = priority
		} else {
			fields["priority"] = nil
		}
	}
	if input.Points.Set {
		if input.Points.Valid && input.Points.Value < 0 {
			return nil, ErrInvalidPoints
		}
		fields["points"] = nullable(input.Points)
	}
	if input.Description.Set {
		fields["description"] = nullable(input.Description)
	}
	if input.Tags.Set {
		fields["tags"] = nullable(input.Tags)
	}
	if input.StartDate.Set {
		fields["start_date"] = nullableDate(input.StartDate)
	}
	if input.DueDate.Set {
		fields["due_date"] = nullableDate(input.DueDate)
	}
	if input.AuthorUserID.Set {
		fields["author_user_id"] = nullable(input.AuthorUserID)
	}
	if input.AssignedUserID.Set {
		fields["assigned_user_id"] = nullable(input.AssignedUserID)
	}

	return fields, nil
}

// UpdateTask applies a partial update. Title and status cannot be cleared.
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input dto.UpdateTaskRequest) (*models.Task, error) {
	fields, err := taskUpdateFields(input)
	if err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateFields(ctx, task.ID, fields); err != nil {
		return nil, wrapWriteError("update task", err)
	}

	if status, ok := fields["status"].(models.TaskStatus); ok && status != task.Status {
		s.metrics.ObserveStatusTransition(string(status))
	}

	return s.GetTask(ctx, task.ID)
}

// DeleteTask removes a task with its comments and attachments
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.log.WithField("task_id", taskID).Info("Deleted task")
	return nil
}

// AddAttachmentInput links an already uploaded file to a task
type AddAttachmentInput struct {
	TaskID       uint64
	FileURL      string
	FileName     string
	UploadedByID uint64
}

func (s *TaskService) AddAttachment(ctx context.Context, input AddAttachmentInput) (*models.Attachment, error) {
	fileURL := strings.TrimSpace(input.FileURL)
	fileName := strings.TrimSpace(input.FileName)
	if fileURL == "" || fileName == "" {
		return nil, ErrAttachmentInvalid
	}

	if _, err := s.findTask(ctx, input.TaskID); err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		FileURL:      fileURL,
		FileName:     fileName,
		TaskID:       input.TaskID,
		UploadedByID: input.UploadedByID,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		return nil, wrapWriteError("create attachment", err)
	}

	return attachment, nil
}

// ListAttachments returns a task's attachments oldest first
func (s *TaskService) ListAttachments(ctx context.Context, taskID uint64) ([]models.Attachment, error) {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text      string
	ProjectID uint64
}

// GenerateTasks suggests tasks from free text. Nothing is stored.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrTextRequired
	}

	projectName := ""
	if input.ProjectID != 0 {
		project, err := s.projectRepo.FindByID(ctx, input.ProjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to find project: %w", err)
		}
		projectName = project.Name
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, projectName, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		title, err := normalizeTitle(aiTask.Title)
		if err != nil {
			continue
		}
		aiTask.Title = title

		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}
		if _, ok := models.ParseTaskPriority(aiTask.Priority); !ok {
			aiTask.Priority = ""
		}
		aiTask.ProjectID = input.ProjectID

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) findTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
