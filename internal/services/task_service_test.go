package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/testutil"
	"gorm.io/gorm"
)

type stubGenerator struct {
	tasks       []GeneratedTask
	err         error
	projectName string
}

func (g *stubGenerator) GenerateTasksFromText(_ context.Context, projectName, _ string) ([]GeneratedTask, error) {
	g.projectName = projectName
	return g.tasks, g.err
}

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	ctx       context.Context
	service   *TaskService
	generator *stubGenerator
	metrics   *metrics.Metrics
	project   *models.Project
	user      *models.User
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.db = testutil.NewDB(suite.T())
	suite.ctx = context.Background()
	suite.generator = &stubGenerator{}
	suite.metrics = metrics.New(prometheus.NewRegistry())

	log, _ := test.NewNullLogger()
	suite.service = NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewProjectRepository(suite.db),
		repository.NewAttachmentRepository(suite.db),
		suite.generator,
		log,
		suite.metrics,
	)

	suite.project = testutil.CreateProject(suite.T(), suite.db, "Apollo")
	suite.user = testutil.CreateUser(suite.T(), suite.db, "alice", "alice@example.com")
}

func (suite *TaskServiceTestSuite) createTask(title string) *models.Task {
	task, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
		Title:        title,
		ProjectID:    suite.project.ID,
		AuthorUserID: &suite.user.ID,
	})
	suite.Require().NoError(err)
	return task
}

func strPtr(s string) *string { return &s }

func (suite *TaskServiceTestSuite) TestCreateTask_DefaultsStatus() {
	task := suite.createTask("Design mockups")

	suite.Equal(models.TaskStatusToDo, task.Status)
	suite.Require().NotNil(task.Author)
	suite.Equal("alice", task.Author.Username)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AcceptsStatusAliases() {
	task, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
		Title:     "Review PR",
		Status:    strPtr("UnderReview"),
		Priority:  strPtr("High"),
		ProjectID: suite.project.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusUnderReview, task.Status)
	suite.Require().NotNil(task.Priority)
	suite.Equal(models.TaskPriorityHigh, *task.Priority)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	_, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{Title: "  ", ProjectID: suite.project.ID})
	suite.ErrorIs(err, ErrTitleRequired)

	_, err = suite.service.CreateTask(suite.ctx, CreateTaskInput{Title: "No project"})
	suite.ErrorIs(err, ErrProjectRequired)

	_, err = suite.service.CreateTask(suite.ctx, CreateTaskInput{Title: "Bad", Status: strPtr("Done"), ProjectID: suite.project.ID})
	suite.ErrorIs(err, ErrInvalidStatus)

	_, err = suite.service.CreateTask(suite.ctx, CreateTaskInput{Title: "Bad", Priority: strPtr("Critical"), ProjectID: suite.project.ID})
	suite.ErrorIs(err, ErrInvalidPriority)
}

func (suite *TaskServiceTestSuite) TestCreateTask_UnknownReferences() {
	_, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{Title: "Orphan", ProjectID: 999})
	suite.ErrorIs(err, ErrInvalidReference)

	missing := uint64(999)
	_, err = suite.service.CreateTask(suite.ctx, CreateTaskInput{Title: "Ghost", ProjectID: suite.project.ID, AssignedUserID: &missing})
	suite.ErrorIs(err, ErrInvalidReference)
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_AnyToAny() {
	task := suite.createTask("Cycle")

	for _, from := range models.TaskStatuses {
		for _, to := range models.TaskStatuses {
			_, err := suite.service.UpdateStatus(suite.ctx, task.ID, string(from))
			suite.Require().NoError(err)

			updated, err := suite.service.UpdateStatus(suite.ctx, task.ID, string(to))
			suite.Require().NoError(err)
			suite.Equal(to, updated.Status, "%s -> %s", from, to)

			fetched, err := suite.service.GetTask(suite.ctx, task.ID)
			suite.Require().NoError(err)
			suite.Equal(to, fetched.Status)
		}
	}

	suite.Equal(float64(len(models.TaskStatuses)*2),
		promtestutil.ToFloat64(suite.metrics.StatusTransitions.WithLabelValues(string(models.TaskStatusCompleted))))
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_Errors() {
	task := suite.createTask("Status")

	_, err := suite.service.UpdateStatus(suite.ctx, task.ID, "Archived")
	suite.ErrorIs(err, ErrInvalidStatus)

	_, err = suite.service.UpdateStatus(suite.ctx, 999, "Completed")
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_Partial() {
	task, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
		Title:       "Original",
		Description: strPtr("keep me?"),
		Tags:        strPtr("frontend"),
		ProjectID:   suite.project.ID,
	})
	suite.Require().NoError(err)

	var patch dto.UpdateTaskRequest
	suite.Require().NoError(json.Unmarshal([]byte(`{
		"title": "Renamed",
		"description": null,
		"dueDate": "2030-01-15",
		"points": 5,
		"assignedUserId": `+jsonID(suite.user.ID)+`
	}`), &patch))

	updated, err := suite.service.UpdateTask(suite.ctx, task.ID, patch)
	suite.Require().NoError(err)

	suite.Equal("Renamed", updated.Title)
	suite.Nil(updated.Description)
	suite.Require().NotNil(updated.Tags)
	suite.Equal("frontend", *updated.Tags)
	suite.Require().NotNil(updated.DueDate)
	suite.True(updated.DueDate.Equal(time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)))
	suite.Require().NotNil(updated.Points)
	suite.Equal(5, *updated.Points)
	suite.Require().NotNil(updated.Assignee)
	suite.Equal(suite.user.ID, updated.Assignee.ID)
	suite.Equal(models.TaskStatusToDo, updated.Status)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_CannotClearRequiredFields() {
	task := suite.createTask("Required")

	var patch dto.UpdateTaskRequest
	suite.Require().NoError(json.Unmarshal([]byte(`{"title": null}`), &patch))
	_, err := suite.service.UpdateTask(suite.ctx, task.ID, patch)
	suite.ErrorIs(err, ErrTitleRequired)

	patch = dto.UpdateTaskRequest{}
	suite.Require().NoError(json.Unmarshal([]byte(`{"status": null}`), &patch))
	_, err = suite.service.UpdateTask(suite.ctx, task.ID, patch)
	suite.ErrorIs(err, ErrStatusRequired)

	patch = dto.UpdateTaskRequest{}
	suite.Require().NoError(json.Unmarshal([]byte(`{"assignedUserId": 12345}`), &patch))
	_, err = suite.service.UpdateTask(suite.ctx, task.ID, patch)
	suite.ErrorIs(err, ErrInvalidReference)

	_, err = suite.service.UpdateTask(suite.ctx, 999, dto.UpdateTaskRequest{})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_CascadesAndThenNotFound() {
	task := suite.createTask("Disposable")
	suite.Require().NoError(suite.db.Create(&models.Comment{Text: "bye", TaskID: task.ID, UserID: suite.user.ID}).Error)
	_, err := suite.service.AddAttachment(suite.ctx, AddAttachmentInput{
		TaskID: task.ID, FileURL: "http://localhost/files/a.png", FileName: "a.png", UploadedByID: suite.user.ID,
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteTask(suite.ctx, task.ID))

	_, err = suite.service.GetTask(suite.ctx, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
	suite.ErrorIs(suite.service.DeleteTask(suite.ctx, task.ID), ErrTaskNotFound)

	var comments, attachments int64
	suite.db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&comments)
	suite.db.Model(&models.Attachment{}).Where("task_id = ?", task.ID).Count(&attachments)
	suite.Zero(comments)
	suite.Zero(attachments)
}

func (suite *TaskServiceTestSuite) TestAddAttachment_Errors() {
	_, err := suite.service.AddAttachment(suite.ctx, AddAttachmentInput{TaskID: 1, FileName: "a.png"})
	suite.ErrorIs(err, ErrAttachmentInvalid)

	_, err = suite.service.AddAttachment(suite.ctx, AddAttachmentInput{
		TaskID: 999, FileURL: "http://x", FileName: "a.png", UploadedByID: suite.user.ID,
	})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestListTasks() {
	mine := suite.createTask("Mine")
	other := testutil.CreateProject(suite.T(), suite.db, "Gemini")
	_, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{Title: "Elsewhere", ProjectID: other.ID})
	suite.Require().NoError(err)

	all, err := suite.service.ListTasks(suite.ctx, ListTasksInput{})
	suite.Require().NoError(err)
	suite.Len(all, 2)

	scoped, err := suite.service.ListTasks(suite.ctx, ListTasksInput{ProjectID: &suite.project.ID})
	suite.Require().NoError(err)
	suite.Require().Len(scoped, 1)
	suite.Equal(mine.ID, scoped[0].ID)

	userTasks, err := suite.service.ListUserTasks(suite.ctx, suite.user.ID)
	suite.Require().NoError(err)
	suite.Require().Len(userTasks, 1)
	suite.Equal(mine.ID, userTasks[0].ID)
}

func (suite *TaskServiceTestSuite) TestGenerateTasks() {
	past := time.Now().Add(-72 * time.Hour)
	future := time.Now().Add(72 * time.Hour)
	suite.generator.tasks = []GeneratedTask{
		{Title: "Write launch plan", DueDate: &future, Priority: "High"},
		{Title: "  "},
		{Title: "Fix old bug", DueDate: &past, Priority: "Whenever"},
	}

	tasks, err := suite.service.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes", ProjectID: suite.project.ID})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Equal("Apollo", suite.generator.projectName)
	suite.NotNil(tasks[0].DueDate)
	suite.Equal(suite.project.ID, tasks[0].ProjectID)
	suite.Nil(tasks[1].DueDate)
	suite.Empty(tasks[1].Priority)

	_, err = suite.service.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes", ProjectID: 999})
	suite.ErrorIs(err, ErrProjectNotFound)

	suite.generator.tasks = nil
	_, err = suite.service.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes"})
	suite.ErrorIs(err, ErrAINoTasksGenerated)

	suite.generator.err = errors.New("upstream down")
	_, err = suite.service.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes"})
	suite.Error(err)
}

func (suite *TaskServiceTestSuite) TestGenerateTasks_NotConfigured() {
	log, _ := test.NewNullLogger()
	svc := NewTaskService(nil, nil, nil, nil, log, nil)

	_, err := svc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes"})
	suite.ErrorIs(err, ErrAIServiceNotConfigured)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func jsonID(id uint64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
