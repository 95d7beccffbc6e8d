package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/services"
)

// UserHandler coordinates user directory and profile handlers
type UserHandler struct {
	userService *services.UserService
	log         logrus.FieldLogger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// ListUsers returns every user. Opaque usernames are masked.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), middleware.IDParam(c, "id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser changes the caller's own profile. ":id" may be "me".
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	userID := actorID
	if raw := c.Param("id"); raw != "me" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid user ID")
			return
		}
		userID = id
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), actorID, userID, req)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "User updated successfully",
		"updatedUser": dto.ToUserDTO(*user),
	})
}
