package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
)

var ErrTeamNameRequired = errors.New("teamName is required")

type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// ListTeams returns every team with its product owner and project manager
// usernames. Role holders that no longer exist have no username.
func (s *TeamService) ListTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	ids := make([]uint64, 0, len(teams)*2)
	for _, team := range teams {
		if team.ProductOwnerUserID != nil {
			ids = append(ids, *team.ProductOwnerUserID)
		}
		if team.ProjectManagerUserID != nil {
			ids = append(ids, *team.ProjectManagerUserID)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}
	usernames := make(map[uint64]string, len(users))
	for _, user := range users {
		usernames[user.ID] = dto.PublicUsername(user)
	}

	out := make([]dto.TeamDTO, len(teams))
	for i, team := range teams {
		out[i] = dto.ToTeamDTO(team, usernames)
	}
	return out, nil
}

type CreateTeamInput struct {
	TeamName             string
	ProductOwnerUserID   *uint64
	ProjectManagerUserID *uint64
}

func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.TeamName)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		TeamName:             name,
		ProductOwnerUserID:   input.ProductOwnerUserID,
		ProjectManagerUserID: input.ProjectManagerUserID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, wrapWriteError("create team", err)
	}
	return team, nil
}
