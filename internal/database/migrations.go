package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by the board and search queries.
func AddIndexes(db *gorm.DB, log logrus.FieldLogger) error {
	indexes := []struct {
		model   interface{}
		name    string
		columns string
	}{
		// Board view: tasks of a project grouped by status
		{&models.Task{}, "idx_tasks_project_status", "project_id, status"},
		{&models.Task{}, "idx_tasks_due_date", "due_date"},

		// Task detail: comments and attachments in creation order
		{&models.Comment{}, "idx_comments_task_created", "task_id, created_at"},
		{&models.Attachment{}, "idx_attachments_task_created", "task_id, created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(logrus.Fields{
			"index":   idx.name,
			"table":   stmt.Schema.Table,
			"columns": idx.columns,
		}).Info("Created index")
	}

	return nil
}
