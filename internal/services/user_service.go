package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the actor's own username, picture or team.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, userID uint64, input dto.UpdateUserRequest) (*models.User, error) {
	if actorID != userID {
		return nil, ErrForbidden
	}

	fields := map[string]interface{}{}
	if input.Username.Set {
		username := strings.TrimSpace(input.Username.Value)
		if !input.Username.Valid {
			username = ""
		}
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		fields["username"] = username
	}
	if input.ProfilePictureURL.Set {
		fields["profile_picture_url"] = nullable(input.ProfilePictureURL)
	}
	if input.TeamID.Set {
		fields["team_id"] = nullable(input.TeamID)
	}

	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, wrapWriteError("update user", err)
		}
	}

	return s.GetUser(ctx, userID)
}
