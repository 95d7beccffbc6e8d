package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/services"
)

// TaskHandler coordinates task-related HTTP handlers
type TaskHandler struct {
	taskService    *services.TaskService
	commentService *services.CommentService
	log            logrus.FieldLogger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService, commentService *services.CommentService, log logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		commentService: commentService,
		log:            log,
	}
}

func parseOptionalID(raw string) (*uint64, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, false
	}
	return &id, true
}

// ListTasks returns tasks with their relations, optionally filtered by
// ?projectId= and ?userId=.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, ok := parseOptionalID(c.Query("projectId"))
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}
	userID, ok := parseOptionalID(c.Query("userId"))
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), services.ListTasksInput{
		ProjectID: projectID,
		UserID:    userID,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListUserTasks returns the tasks a user authored or is assigned to
func (h *TaskHandler) ListUserTasks(c *gin.Context) {
	tasks, err := h.taskService.ListUserTasks(c.Request.Context(), middleware.IDParam(c, "userId"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title          string    `json:"title"`
		Description    *string   `json:"description"`
		Status         *string   `json:"status"`
		Priority       *string   `json:"priority"`
		Tags           *string   `json:"tags"`
		StartDate      *dto.Date `json:"startDate"`
		DueDate        *dto.Date `json:"dueDate"`
		Points         *int      `json:"points"`
		ProjectID      uint64    `json:"projectId"`
		AuthorUserID   *uint64   `json:"authorUserId"`
		AssignedUserID *uint64   `json:"assignedUserId"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Tags:           req.Tags,
		StartDate:      dto.TimePtr(req.StartDate),
		DueDate:        dto.TimePtr(req.DueDate),
		Points:         req.Points,
		ProjectID:      req.ProjectID,
		AuthorUserID:   req.AuthorUserID,
		AssignedUserID: req.AssignedUserID,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GenerateTasks suggests tasks from free text. Suggestions are not stored.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text      string `json:"text"`
		ProjectID uint64 `json:"projectId"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text:      req.Text,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateComment adds a comment to a task. The author defaults to the caller.
func (h *TaskHandler) CreateComment(c *gin.Context) {
	type CreateCommentRequest struct {
		TaskID       uint64  `json:"taskId" binding:"required"`
		Content      string  `json:"content"`
		AuthorUserID *uint64 `json:"authorUserId"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	authorID, _ := middleware.GetUserID(c)
	if req.AuthorUserID != nil {
		authorID = *req.AuthorUserID
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), services.CreateCommentInput{
		TaskID:       req.TaskID,
		Text:         req.Content,
		AuthorUserID: authorID,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments returns a task's comments oldest first
func (h *TaskHandler) ListComments(c *gin.Context) {
	comments, err := h.commentService.ListComments(c.Request.Context(), middleware.IDParam(c, "id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	response := make([]dto.CommentDTO, len(comments))
	for i, comment := range comments {
		response[i] = dto.ToCommentDTO(comment)
	}
	c.JSON(http.StatusOK, response)
}

// GetTask returns a task with its relations
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), middleware.IDParam(c, "id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTaskStatus moves a task to any status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status string `json:"status"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), middleware.IDParam(c, "id"), req.Status)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), middleware.IDParam(c, "id"), req)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task together with its comments and attachments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), middleware.IDParam(c, "id")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddAttachment links an uploaded file to a task
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	type AddAttachmentRequest struct {
		FileURL  string `json:"fileURL"`
		FileName string `json:"fileName"`
	}

	var req AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)
	attachment, err := h.taskService.AddAttachment(c.Request.Context(), services.AddAttachmentInput{
		TaskID:       middleware.IDParam(c, "id"),
		FileURL:      req.FileURL,
		FileName:     req.FileName,
		UploadedByID: userID,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttachmentDTO(*attachment))
}

// ListAttachments returns the files linked to a task
func (h *TaskHandler) ListAttachments(c *gin.Context) {
	attachments, err := h.taskService.ListAttachments(c.Request.Context(), middleware.IDParam(c, "id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	response := make([]dto.AttachmentDTO, len(attachments))
	for i, attachment := range attachments {
		response[i] = dto.ToAttachmentDTO(attachment)
	}
	c.JSON(http.StatusOK, response)
}
