package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/auth"
	"github.com/yukikurage/project-management-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID                uint64    `json:"userId"`
	Username          string    `json:"username"`
	Email             string    `json:"email,omitempty"`
	ProfilePictureURL *string   `json:"profilePictureUrl"`
	TeamID            *uint64   `json:"teamId"`
	Team              *TeamDTO  `json:"team,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// PublicUsername hides provider identifiers that have not been repaired yet.
func PublicUsername(user models.User) string {
	if auth.IsOpaqueIdentifier(user.Username) {
		return auth.EmailLocalPart(user.Email)
	}
	return user.Username
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:                user.ID,
		Username:          PublicUsername(user),
		Email:             user.Email,
		ProfilePictureURL: user.ProfilePictureURL,
		TeamID:            user.TeamID,
		CreatedAt:         user.CreatedAt,
	}
	if user.Team != nil {
		team := ToTeamDTO(*user.Team, nil)
		dto.Team = &team
	}
	return dto
}

func toUserDTOPtr(user *models.User) *UserDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	dto := ToUserDTO(*user)
	return &dto
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}
