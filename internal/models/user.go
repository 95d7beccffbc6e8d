package models

import (
	"time"
)

type User struct {
	ID                uint64    `gorm:"primarykey" json:"userId"`
	Username          string    `gorm:"type:varchar(255);index;not null" json:"username"`
	Email             string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"type:varchar(255);not null" json:"-"`
	ProfilePictureURL *string   `gorm:"type:varchar(1024)" json:"profilePictureUrl"`
	TeamID            *uint64   `json:"teamId"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	// Relations
	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}
