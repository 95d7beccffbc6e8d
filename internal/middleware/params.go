package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
)

// RequireIDParam rejects requests whose :name path parameter is not a
// positive integer and stores the parsed value under the same key.
func RequireIDParam(name, label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(name), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+label+" ID")
			return
		}

		c.Set(name, id)
		c.Next()
	}
}

// IDParam returns the value stored by RequireIDParam.
func IDParam(c *gin.Context, name string) uint64 {
	return c.GetUint64(name)
}
