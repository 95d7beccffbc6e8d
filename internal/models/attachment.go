package models

import "time"

type Attachment struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	FileURL      string    `gorm:"type:varchar(1024);not null" json:"fileURL"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"fileName"`
	TaskID       uint64    `gorm:"not null;index" json:"taskId"`
	UploadedByID uint64    `gorm:"not null" json:"uploadedById"`
	CreatedAt    time.Time `json:"createdAt"`

	// Relations
	Task       *Task `gorm:"foreignKey:TaskID" json:"-"`
	UploadedBy *User `gorm:"foreignKey:UploadedByID" json:"-"`
}
