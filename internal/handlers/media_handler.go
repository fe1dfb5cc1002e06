package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/httpresp"
	"github.com/pimpraxis/therapy-scheduler/internal/media"
)

type MediaHandler struct {
	media *media.Service
}

func NewMediaHandler(m *media.Service) *MediaHandler {
	return &MediaHandler{media: m}
}

type UploadURLRequest struct {
	EntityType  string `json:"entityType" binding:"required"`
	EntityID    string `json:"entityId" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// UploadURL hands out a presigned PUT for a direct-to-bucket upload. The
// caller uploads first and then references the returned key when writing
// the owning entity.
func (h *MediaHandler) UploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Entity type, entity id and content type are required.")
		return
	}

	upload, err := h.media.PresignUpload(c.Request.Context(), req.EntityType, req.EntityID, req.ContentType)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) {
			httperr.BadRequest(c, "unsupported_media_type", "The content type is not allowed.")
			return
		}
		fail(c, err)
		return
	}

	httpresp.OK(c, upload)
}
