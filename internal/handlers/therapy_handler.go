package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/httpresp"
	"github.com/pimpraxis/therapy-scheduler/internal/media"
	"github.com/pimpraxis/therapy-scheduler/internal/middleware"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
	"github.com/pimpraxis/therapy-scheduler/internal/store"
)

// ======================================================
// HANDLER
// ======================================================

type TherapyHandler struct {
	store *store.Store
	media *media.Service
	audit Auditor
}

func NewTherapyHandler(s *store.Store, m *media.Service, a Auditor) *TherapyHandler {
	return &TherapyHandler{store: s, media: m, audit: a}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateTherapyRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description" binding:"required"`
	Content         string `json:"content" binding:"required"`
	ImageKey        string `json:"imageKey"`
	IsGroup         bool   `json:"isGroup"`
	MaxParticipants int    `json:"maxParticipants"`
}

type UpdateTherapyRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Content         *string `json:"content"`
	ImageKey        *string `json:"imageKey"`
	IsGroup         *bool   `json:"isGroup"`
	MaxParticipants *int    `json:"maxParticipants"`
}

// mediaRef resolves an uploaded object key into an embedded reference with
// the CDN view URL. The object must already exist in the bucket.
func (h *TherapyHandler) mediaRef(c *gin.Context, key string) (*models.MediaRef, bool) {
	meta, err := h.media.GetMetadata(c.Request.Context(), key)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Uploaded image not found.")
		return nil, false
	}
	return &models.MediaRef{
		Key:         key,
		URL:         h.media.ViewURL(key),
		Size:        meta.Size,
		ContentType: meta.ContentType,
	}, true
}

// ======================================================
// CRUD
// ======================================================

func (h *TherapyHandler) Create(c *gin.Context) {
	var req CreateTherapyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Title, description and content are required.")
		return
	}

	maxParticipants := req.MaxParticipants
	if maxParticipants < 1 {
		maxParticipants = 1
	}

	therapyID := uuid.NewString()
	therapy := models.Therapy{
		PK:              models.TherapyKey(therapyID),
		SK:              models.TherapyKey(therapyID),
		Type:            models.TypeTherapy,
		TherapyID:       therapyID,
		Title:           req.Title,
		Description:     req.Description,
		Content:         req.Content,
		IsGroup:         req.IsGroup,
		MaxParticipants: maxParticipants,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	if req.ImageKey != "" {
		ref, ok := h.mediaRef(c, req.ImageKey)
		if !ok {
			return
		}
		therapy.Image = ref
	}

	if err := h.store.Create(c.Request.Context(), therapy); err != nil {
		// The image was uploaded ahead of this call; do not orphan it.
		if therapy.Image != nil {
			if derr := h.media.Delete(c.Request.Context(), therapy.Image.Key); derr != nil {
				log.Printf("therapy create: image cleanup failed: %v", derr)
			}
		}
		fail(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "therapy_created",
		Entity:   models.TypeTherapy,
		EntityID: therapyID,
	})

	httpresp.OK(c, therapy)
}

func (h *TherapyHandler) Get(c *gin.Context) {
	key := models.TherapyKey(c.Param("therapyId"))

	var therapy models.Therapy
	found, err := h.store.Get(c.Request.Context(), key, key, &therapy)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		httperr.NotFound(c, "therapy_not_found", "Therapy not found.")
		return
	}
	httpresp.OK(c, therapy)
}

func (h *TherapyHandler) List(c *gin.Context) {
	var therapies []models.Therapy
	err := h.store.QueryIndex(c.Request.Context(), models.IndexType, "Type", models.TypeTherapy, &therapies)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, therapies)
}

func (h *TherapyHandler) Update(c *gin.Context) {
	therapyID := c.Param("therapyId")
	key := models.TherapyKey(therapyID)

	var req UpdateTherapyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var existing models.Therapy
	found, err := h.store.Get(c.Request.Context(), key, key, &existing)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		httperr.NotFound(c, "therapy_not_found", "Therapy not found.")
		return
	}

	attrs := map[string]any{}
	if req.Title != nil {
		attrs["title"] = *req.Title
	}
	if req.Description != nil {
		attrs["description"] = *req.Description
	}
	if req.Content != nil {
		attrs["content"] = *req.Content
	}
	if req.IsGroup != nil {
		attrs["isGroup"] = *req.IsGroup
	}
	if req.MaxParticipants != nil {
		attrs["maxParticipants"] = *req.MaxParticipants
	}
	if req.ImageKey != nil && *req.ImageKey != "" {
		ref, ok := h.mediaRef(c, *req.ImageKey)
		if !ok {
			return
		}
		attrs["image"] = ref
	}
	if len(attrs) == 0 {
		httperr.BadRequest(c, "invalid_request", "No attributes to update.")
		return
	}

	if err := h.store.Update(c.Request.Context(), key, key, attrs); err != nil {
		fail(c, err)
		return
	}

	// Replaced image; the old object is no longer referenced.
	if _, ok := attrs["image"]; ok && existing.Image != nil {
		if derr := h.media.Delete(c.Request.Context(), existing.Image.Key); derr != nil {
			log.Printf("therapy update: old image cleanup failed: %v", derr)
		}
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "therapy_updated",
		Entity:   models.TypeTherapy,
		EntityID: therapyID,
	})

	httpresp.OK(c, gin.H{"message": "Therapy updated successfully"})
}

func (h *TherapyHandler) Delete(c *gin.Context) {
	therapyID := c.Param("therapyId")
	key := models.TherapyKey(therapyID)

	var existing models.Therapy
	found, err := h.store.Get(c.Request.Context(), key, key, &existing)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		httperr.NotFound(c, "therapy_not_found", "Therapy not found.")
		return
	}

	if err := h.store.Delete(c.Request.Context(), key, key); err != nil {
		fail(c, err)
		return
	}

	if existing.Image != nil {
		if derr := h.media.Delete(c.Request.Context(), existing.Image.Key); derr != nil {
			log.Printf("therapy delete: image cleanup failed: %v", derr)
		}
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "therapy_deleted",
		Entity:   models.TypeTherapy,
		EntityID: therapyID,
	})

	httpresp.OK(c, gin.H{"message": "Therapy deleted"})
}
