// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
// The single connection keeps concurrent goroutines on the same database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	require.NoError(t, database.Migrate(db, log))

	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateProject(t *testing.T, db *gorm.DB, name string) *models.Project {
	t.Helper()
	project := &models.Project{Name: name}
	require.NoError(t, db.Create(project).Error)
	return project
}

func CreateTask(t *testing.T, db *gorm.DB, projectID uint64, title string) *models.Task {
	t.Helper()
	task := &models.Task{Title: title, ProjectID: projectID, Status: models.TaskStatusToDo}
	require.NoError(t, db.Create(task).Error)
	return task
}
