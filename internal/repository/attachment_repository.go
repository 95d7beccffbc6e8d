package repository

import (
	"context"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

type GormAttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

func (r *GormAttachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	return translate(r.db.WithContext(ctx).Create(attachment).Error)
}

func (r *GormAttachmentRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.Attachment, error) {
	attachments := []models.Attachment{}
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Scopes(orderedAttachments).
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}
