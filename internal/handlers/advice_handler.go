package handlers

import (
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

// Advices live in the partition of the therapy they belong to, so listing a
// therapy's advices is a single prefix query. The GSI1 projection gives them
// an id-only lookup.

type AdviceHandler struct {
	store *store.Store
	media *media.Service
	audit Auditor
}

func NewAdviceHandler(s *store.Store, m *media.Service, a Auditor) *AdviceHandler {
	return &AdviceHandler{store: s, media: m, audit: a}
}

type CreateAdviceRequest struct {
	TherapyID string `json:"therapyId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	ImageKey  string `json:"imageKey"`
}

type UpdateAdviceRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageKey *string `json:"imageKey"`
}

func (h *AdviceHandler) findByID(c *gin.Context, adviceID string) *models.Advice {
	var advices []models.Advice
	err := h.store.QueryIndex(c.Request.Context(), models.IndexGSI1, "GSI1PK", models.AdviceKey(adviceID), &advices)
	if err != nil {
		fail(c, err)
		return nil
	}
	if len(advices) == 0 {
		httperr.NotFound(c, "advice_not_found", "Advice not found.")
		return nil
	}
	return &advices[0]
}

func (h *AdviceHandler) Create(c *gin.Context) {
	var req CreateAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Therapy id, title and content are required.")
		return
	}

	therapyKey := models.TherapyKey(req.TherapyID)
	var therapy models.Therapy
	found, err := h.store.Get(c.Request.Context(), therapyKey, therapyKey, &therapy)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		httperr.NotFound(c, "therapy_not_found", "Therapy not found.")
		return
	}

	adviceID := uuid.NewString()
	advice := models.Advice{
		PK:        therapyKey,
		SK:        models.AdviceKey(adviceID),
		Type:      models.TypeAdvice,
		GSI1PK:    models.AdviceKey(adviceID),
		GSI1SK:    models.AdviceKey(adviceID),
		AdviceID:  adviceID,
		TherapyID: req.TherapyID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if req.ImageKey != "" {
		meta, err := h.media.GetMetadata(c.Request.Context(), req.ImageKey)
		if err != nil {
			httperr.BadRequest(c, "invalid_image", "Uploaded image not found.")
			return
		}
		advice.Image = &models.MediaRef{
			Key:         req.ImageKey,
			URL:         h.media.ViewURL(req.ImageKey),
			Size:        meta.Size,
			ContentType: meta.ContentType,
		}
	}

	if err := h.store.Create(c.Request.Context(), advice); err != nil {
		fail(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "advice_created",
		Entity:   models.TypeAdvice,
		EntityID: adviceID,
	})

	httpresp.OK(c, advice)
}

func (h *AdviceHandler) Get(c *gin.Context) {
	advice := h.findByID(c, c.Param("adviceId"))
	if advice == nil {
		return
	}
	httpresp.OK(c, advice)
}

func (h *AdviceHandler) List(c *gin.Context) {
	var advices []models.Advice
	err := h.store.QueryIndex(c.Request.Context(), models.IndexType, "Type", models.TypeAdvice, &advices)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, advices)
}

func (h *AdviceHandler) ListByTherapy(c *gin.Context) {
	var advices []models.Advice
	err := h.store.QueryPrefix(c.Request.Context(), models.TherapyKey(c.Param("therapyId")), "ADVICE#", &advices)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, advices)
}

func (h *AdviceHandler) Update(c *gin.Context) {
	var req UpdateAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	advice := h.findByID(c, c.Param("adviceId"))
	if advice == nil {
		return
	}

	attrs := map[string]any{}
	if req.Title != nil {
		attrs["title"] = *req.Title
	}
	if req.Content != nil {
		attrs["content"] = *req.Content
	}
	if req.ImageKey != nil && *req.ImageKey != "" {
		meta, err := h.media.GetMetadata(c.Request.Context(), *req.ImageKey)
		if err != nil {
			httperr.BadRequest(c, "invalid_image", "Uploaded image not found.")
			return
		}
		attrs["image"] = &models.MediaRef{
			Key:         *req.ImageKey,
			URL:         h.media.ViewURL(*req.ImageKey),
			Size:        meta.Size,
			ContentType: meta.ContentType,
		}
	}
	if len(attrs) == 0 {
		httperr.BadRequest(c, "invalid_request", "No attributes to update.")
		return
	}

	if err := h.store.Update(c.Request.Context(), advice.PK, advice.SK, attrs); err != nil {
		fail(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "advice_updated",
		Entity:   models.TypeAdvice,
		EntityID: advice.AdviceID,
	})

	httpresp.OK(c, gin.H{"message": "Advice updated successfully"})
}

func (h *AdviceHandler) Delete(c *gin.Context) {
	advice := h.findByID(c, c.Param("adviceId"))
	if advice == nil {
		return
	}

	if err := h.store.Delete(c.Request.Context(), advice.PK, advice.SK); err != nil {
		fail(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "advice_deleted",
		Entity:   models.TypeAdvice,
		EntityID: advice.AdviceID,
	})

	httpresp.OK(c, gin.H{"message": "Advice deleted"})
}
