package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	TaskID    uint64    `json:"taskId"`
	UserID    uint64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	User      *UserDTO  `json:"user,omitempty"`
}

// AttachmentDTO represents an attachment in API responses
type AttachmentDTO struct {
	ID           uint64    `json:"id"`
	FileURL      string    `json:"fileURL"`
	FileName     string    `json:"fileName"`
	TaskID       uint64    `json:"taskId"`
	UploadedByID uint64    `json:"uploadedById"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64               `json:"id"`
	Title          string               `json:"title"`
	Description    *string              `json:"description"`
	Status         models.TaskStatus    `json:"status"`
	Priority       *models.TaskPriority `json:"priority"`
	Tags           *string              `json:"tags"`
	StartDate      *time.Time           `json:"startDate"`
	DueDate        *time.Time           `json:"dueDate"`
	Points         *int                 `json:"points"`
	ProjectID      uint64               `json:"projectId"`
	AuthorUserID   *uint64              `json:"authorUserId"`
	AssignedUserID *uint64              `json:"assignedUserId"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Author         *UserDTO             `json:"author,omitempty"`
	Assignee       *UserDTO             `json:"assignee,omitempty"`
	Comments       []CommentDTO         `json:"comments,omitempty"`
	Attachments    []AttachmentDTO      `json:"attachments,omitempty"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		Text:      comment.Text,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		CreatedAt: comment.CreatedAt,
		User:      toUserDTOPtr(comment.User),
	}
}

// ToAttachmentDTO converts an Attachment model to AttachmentDTO
func ToAttachmentDTO(a models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:           a.ID,
		FileURL:      a.FileURL,
		FileName:     a.FileName,
		TaskID:       a.TaskID,
		UploadedByID: a.UploadedByID,
		CreatedAt:    a.CreatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO. Relations are included only
// when they were preloaded.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		Tags:           task.Tags,
		StartDate:      task.StartDate,
		DueDate:        task.DueDate,
		Points:         task.Points,
		ProjectID:      task.ProjectID,
		AuthorUserID:   task.AuthorUserID,
		AssignedUserID: task.AssignedUserID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
		Author:         toUserDTOPtr(task.Author),
		Assignee:       toUserDTOPtr(task.Assignee),
	}

	if len(task.Comments) > 0 {
		dto.Comments = make([]CommentDTO, len(task.Comments))
		for i, comment := range task.Comments {
			dto.Comments[i] = ToCommentDTO(comment)
		}
	}

	if len(task.Attachments) > 0 {
		dto.Attachments = make([]AttachmentDTO, len(task.Attachments))
		for i, attachment := range task.Attachments {
			dto.Attachments[i] = ToAttachmentDTO(attachment)
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks, always returning a non-nil slice.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskDTO(task)
	}
	return out
}
