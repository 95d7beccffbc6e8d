package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
	log         logrus.FieldLogger
}

func NewTeamHandler(teamService *services.TeamService, log logrus.FieldLogger) *TeamHandler {
	return &TeamHandler{teamService: teamService, log: log}
}

// ListTeams returns all teams with their product owner and project manager usernames
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, teams)
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	type CreateTeamRequest struct {
		TeamName             string  `json:"teamName"`
		ProductOwnerUserID   *uint64 `json:"productOwnerUserId"`
		ProjectManagerUserID *uint64 `json:"projectManagerUserId"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), services.CreateTeamInput{
		TeamName:             req.TeamName,
		ProductOwnerUserID:   req.ProductOwnerUserID,
		ProjectManagerUserID: req.ProjectManagerUserID,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team, nil))
}
