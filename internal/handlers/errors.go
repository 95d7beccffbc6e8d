package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/services"
)

// respondServiceError maps service sentinel errors to API errors. Anything
// unrecognised is logged and reported as a 500 without detail.
func respondServiceError(c *gin.Context, log logrus.FieldLogger, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrInvalidReference):
		apierrors.ConstraintViolation(c, "")

	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "You can only update your own profile")

	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrProjectRequired),
		errors.Is(err, services.ErrStatusRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidPoints),
		errors.Is(err, services.ErrAttachmentInvalid),
		errors.Is(err, services.ErrTextRequired),
		errors.Is(err, services.ErrCommentTextRequired),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrQueryRequired),
		errors.Is(err, services.ErrFileRequired),
		errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrFileTooLarge):
		apierrors.PayloadTooLarge(c, "File is too large")

	case errors.Is(err, services.ErrAIServiceNotConfigured),
		errors.Is(err, services.ErrStorageNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())

	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		apierrors.InternalError(c, "")
	}
}
