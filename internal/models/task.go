package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusToDo           TaskStatus = "To Do"
	TaskStatusWorkInProgress TaskStatus = "Work In Progress"
	TaskStatusUnderReview    TaskStatus = "Under Review"
	TaskStatusCompleted      TaskStatus = "Completed"
)

// TaskStatuses lists every status in board column order.
var TaskStatuses = []TaskStatus{
	TaskStatusToDo,
	TaskStatusWorkInProgress,
	TaskStatusUnderReview,
	TaskStatusCompleted,
}

var taskStatusAliases = map[string]TaskStatus{
	"ToDo":           TaskStatusToDo,
	"WorkInProgress": TaskStatusWorkInProgress,
	"UnderReview":    TaskStatusUnderReview,
}

// ParseTaskStatus accepts both the display value ("Work In Progress") and
// the identifier form ("WorkInProgress").
func ParseTaskStatus(s string) (TaskStatus, bool) {
	for _, status := range TaskStatuses {
		if string(status) == s {
			return status, true
		}
	}
	status, ok := taskStatusAliases[s]
	return status, ok
}

type TaskPriority string

const (
	TaskPriorityUrgent  TaskPriority = "Urgent"
	TaskPriorityHigh    TaskPriority = "High"
	TaskPriorityMedium  TaskPriority = "Medium"
	TaskPriorityLow     TaskPriority = "Low"
	TaskPriorityBacklog TaskPriority = "Backlog"
)

var TaskPriorities = []TaskPriority{
	TaskPriorityUrgent,
	TaskPriorityHigh,
	TaskPriorityMedium,
	TaskPriorityLow,
	TaskPriorityBacklog,
}

func ParseTaskPriority(s string) (TaskPriority, bool) {
	for _, priority := range TaskPriorities {
		if string(priority) == s {
			return priority, true
		}
	}
	return "", false
}

type Task struct {
	ID             uint64        `gorm:"primarykey" json:"id"`
	Title          string        `gorm:"type:varchar(255);not null" json:"title"`
	Description    *string       `gorm:"type:text" json:"description"`
	Status         TaskStatus    `gorm:"type:varchar(32);not null;default:'To Do'" json:"status"`
	Priority       *TaskPriority `gorm:"type:varchar(20)" json:"priority"`
	Tags           *string       `gorm:"type:varchar(512)" json:"tags"`
	StartDate      *time.Time    `json:"startDate"`
	DueDate        *time.Time    `json:"dueDate"`
	Points         *int          `json:"points"`
	ProjectID      uint64        `gorm:"not null;index" json:"projectId"`
	AuthorUserID   *uint64       `gorm:"index" json:"authorUserId"`
	AssignedUserID *uint64       `gorm:"index" json:"assignedUserId"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	// Relations
	Project     *Project     `gorm:"foreignKey:ProjectID" json:"-"`
	Author      *User        `gorm:"foreignKey:AuthorUserID" json:"author,omitempty"`
	Assignee    *User        `gorm:"foreignKey:AssignedUserID" json:"assignee,omitempty"`
	Comments    []Comment    `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}
