package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

type SearchHandler struct {
	searchService *services.SearchService
	log           logrus.FieldLogger
}

func NewSearchHandler(searchService *services.SearchService, log logrus.FieldLogger) *SearchHandler {
	return &SearchHandler{searchService: searchService, log: log}
}

// Search matches ?query= against tasks, projects and users
func (h *SearchHandler) Search(c *gin.Context) {
	result, err := h.searchService.Search(c.Request.Context(), c.Query("query"), utils.GetPaginationParams(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":    dto.ToTaskDTOs(result.Tasks),
		"projects": dto.ToProjectDTOs(result.Projects),
		"users":    dto.ToUserDTOs(result.Users),
	})
}
