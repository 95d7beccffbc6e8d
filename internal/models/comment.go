package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	TaskID    uint64    `gorm:"not null;index" json:"taskId"`
	UserID    uint64    `gorm:"not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Task *Task `gorm:"foreignKey:TaskID" json:"-"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
