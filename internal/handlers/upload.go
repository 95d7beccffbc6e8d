package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/services"
)

// multipartOverhead leaves room for the form boundary and headers around the file.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	uploadService *services.UploadService
	maxBytes      int64
	log           logrus.FieldLogger
}

func NewUploadHandler(uploadService *services.UploadService, maxBytes int64, log logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, maxBytes: maxBytes, log: log}
}

// Upload stores the multipart "file" field and returns its public URL
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.PayloadTooLarge(c, "File is too large")
			return
		}
		apierrors.BadRequest(c, "No file uploaded")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.log.WithError(err).Error("Failed to open uploaded file")
		apierrors.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	url, err := h.uploadService.Upload(c.Request.Context(), header.Filename, header.Size, file)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Image uploaded successfully",
		"imageUrl": url,
	})
}
