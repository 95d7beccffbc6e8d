package models

import "time"

// Team is referenced by users. Product owner and project manager are plain
// nullable columns without foreign keys; they are resolved when listing.
type Team struct {
	ID                   uint64    `gorm:"primarykey" json:"id"`
	TeamName             string    `gorm:"type:varchar(255);not null" json:"teamName"`
	ProductOwnerUserID   *uint64   `json:"productOwnerUserId"`
	ProjectManagerUserID *uint64   `json:"projectManagerUserId"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
