package dto

import "github.com/yukikurage/project-management-api/internal/models"

type TeamDTO struct {
	ID                     uint64  `json:"id"`
	TeamName               string  `json:"teamName"`
	ProductOwnerUserID     *uint64 `json:"productOwnerUserId"`
	ProjectManagerUserID   *uint64 `json:"projectManagerUserId"`
	ProductOwnerUsername   *string `json:"productOwnerUsername,omitempty"`
	ProjectManagerUsername *string `json:"projectManagerUsername,omitempty"`
}

// ToTeamDTO converts a team, looking up role holders in usernames when given.
// A role holder missing from usernames is reported without a name.
func ToTeamDTO(team models.Team, usernames map[uint64]string) TeamDTO {
	dto := TeamDTO{
		ID:                   team.ID,
		TeamName:             team.TeamName,
		ProductOwnerUserID:   team.ProductOwnerUserID,
		ProjectManagerUserID: team.ProjectManagerUserID,
	}
	if usernames == nil {
		return dto
	}
	dto.ProductOwnerUsername = lookupUsername(usernames, team.ProductOwnerUserID)
	dto.ProjectManagerUsername = lookupUsername(usernames, team.ProjectManagerUserID)
	return dto
}

func lookupUsername(usernames map[uint64]string, id *uint64) *string {
	if id == nil {
		return nil
	}
	name, ok := usernames[*id]
	if !ok {
		return nil
	}
	return &name
}
