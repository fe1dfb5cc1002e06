package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	"github.com/pimpraxis/therapy-scheduler/internal/config"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/httpresp"
	"github.com/pimpraxis/therapy-scheduler/internal/media"
	"github.com/pimpraxis/therapy-scheduler/internal/middleware"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
	"github.com/pimpraxis/therapy-scheduler/internal/notify"
	"github.com/pimpraxis/therapy-scheduler/internal/store"
	"github.com/pimpraxis/therapy-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type UserHandler struct {
	store  *store.Store
	media  *media.Service
	mailer notify.Mailer
	audit  Auditor
	cfg    *config.Config
}

func NewUserHandler(s *store.Store, m *media.Service, mailer notify.Mailer, a Auditor, cfg *config.Config) *UserHandler {
	return &UserHandler{store: s, media: m, mailer: mailer, audit: a, cfg: cfg}
}

// ======================================================
// REQUESTS
// ======================================================

type SignupRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message"`
}

type UpdateUserRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

type CompleteRegistrationRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Token     string `json:"token" binding:"required"`
	CognitoID string `json:"cognitoId"`
	AvatarKey string `json:"avatarKey"`
}

func (h *UserHandler) findByEmail(c *gin.Context, email string) (*models.User, bool) {
	var users []models.User
	err := h.store.QueryIndex(c.Request.Context(), models.IndexEmail, "email", email, &users)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	if len(users) == 0 {
		return nil, true
	}
	return &users[0], true
}

// ======================================================
// SIGN-UP AND APPROVAL
// ======================================================

// Signup registers a guest account pending admin approval. The account
// cannot sign in until the approval flow completes.
func (h *UserHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Name and email are required.")
		return
	}

	if !validators.IsEmailDomainValid(req.Email) {
		httperr.BadRequest(c, "invalid_email", "The email domain does not accept mail.")
		return
	}

	existing, ok := h.findByEmail(c, req.Email)
	if !ok {
		return
	}
	if existing != nil {
		httperr.Conflict(c, "user_exists", "A user with this email already exists.")
		return
	}

	userID := uuid.NewString()
	user := models.User{
		PK:        models.UserKey(userID),
		SK:        models.UserKey(userID),
		Type:      models.TypeUser,
		UserID:    userID,
		Name:      req.Name,
		Email:     req.Email,
		Role:      models.RoleGuest,
		Approved:  false,
		Message:   req.Message,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.store.Create(c.Request.Context(), user); err != nil {
		fail(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  userID,
		Action:   "user_signed_up",
		Entity:   models.TypeUser,
		EntityID: userID,
	})

	httpresp.OK(c, user)
}

// Approve issues a one-time registration token and mails the sign-up link.
// Only the bcrypt hash of the token is stored.
func (h *UserHandler) Approve(c *gin.Context) {
	userID := c.Param("userId")
	key := models.UserKey(userID)

	var user models.User
	found, err := h.store.Get(c.Request.Context(), key, key, &user)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	token := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		fail(c, err)
		return
	}

	err = h.store.Update(c.Request.Context(), key, key, map[string]any{
		"approved":              true,
		"role":                  models.RoleUser,
		"registrationTokenHash": string(hash),
	})
	if err != nil {
		fail(c, err)
		return
	}

	link := h.cfg.AppDomain + "/complete-register?token=" + token
	rcpt := notify.Recipient{Email: user.Email, Name: user.Name}
	notify.Async("user approval", func() error {
		return h.mailer.UserApproved(rcpt, link)
	})

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "user_approved",
		Entity:   models.TypeUser,
		EntityID: userID,
	})

	httpresp.OK(c, gin.H{"message": "User approved, registration link sent"})
}

// CompleteRegistration redeems the mailed token and activates the account.
func (h *UserHandler) CompleteRegistration(c *gin.Context) {
	var req CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and token are required.")
		return
	}

	user, ok := h.findByEmail(c, req.Email)
	if !ok {
		return
	}
	if user == nil || user.RegistrationTokenHash == "" {
		httperr.BadRequest(c, "invalid_token", "The registration token is invalid or expired.")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.RegistrationTokenHash), []byte(req.Token)) != nil {
		httperr.BadRequest(c, "invalid_token", "The registration token is invalid or expired.")
		return
	}

	attrs := map[string]any{
		"approved":              true,
		"role":                  models.RoleUser,
		"registrationTokenHash": "",
	}
	if req.CognitoID != "" {
		attrs["cognitoId"] = req.CognitoID
	}

	var avatar *models.MediaRef
	if req.AvatarKey != "" {
		meta, err := h.media.GetMetadata(c.Request.Context(), req.AvatarKey)
		if err != nil {
			httperr.BadRequest(c, "invalid_image", "Uploaded avatar not found.")
			return
		}
		avatar = &models.MediaRef{
			Key:         req.AvatarKey,
			URL:         h.media.ViewURL(req.AvatarKey),
			Size:        meta.Size,
			ContentType: meta.ContentType,
		}
		attrs["avatar"] = avatar
	}

	if err := h.store.Update(c.Request.Context(), user.PK, user.SK, attrs); err != nil {
		if avatar != nil {
			if derr := h.media.Delete(c.Request.Context(), avatar.Key); derr != nil {
				log.Printf("complete registration: avatar cleanup failed: %v", derr)
			}
		}
		fail(c, err)
		return
	}

	// Stale avatar from a previous registration attempt.
	if avatar != nil && user.Avatar != nil && user.Avatar.Key != avatar.Key {
		if derr := h.media.Delete(c.Request.Context(), user.Avatar.Key); derr != nil {
			log.Printf("complete registration: old avatar cleanup failed: %v", derr)
		}
	}

	// Thumbnail generation runs off the request path; the request context
	// is gone by the time it finishes.
	if avatar != nil {
		key := avatar.Key
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := h.media.GenerateThumbnail(ctx, key); err != nil {
				log.Printf("complete registration: thumbnail for %s failed: %v", key, err)
			}
		}()
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  user.UserID,
		Action:   "registration_completed",
		Entity:   models.TypeUser,
		EntityID: user.UserID,
	})

	httpresp.OK(c, gin.H{"message": "Registration completed successfully"})
}

// ======================================================
// CRUD
// ======================================================

func (h *UserHandler) Get(c *gin.Context) {
	userID := c.Param("userId")

	if userID != c.GetString(middleware.ContextUserID) && !middleware.IsAdmin(c) {
		httperr.Forbidden(c, "forbidden", "Cannot read another user's profile.")
		return
	}

	key := models.UserKey(userID)
	var user models.User
	found, err := h.store.Get(c.Request.Context(), key, key, &user)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}
	httpresp.OK(c, user)
}

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	err := h.store.QueryIndex(c.Request.Context(), models.IndexType, "Type", models.TypeUser, &users)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, users)
}

func (h *UserHandler) Update(c *gin.Context) {
	userID := c.Param("userId")
	key := models.UserKey(userID)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	attrs := map[string]any{}
	if req.Name != nil {
		attrs["name"] = *req.Name
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleGuest, models.RoleUser, models.RoleAdmin:
			attrs["role"] = *req.Role
		default:
			httperr.BadRequest(c, "invalid_request", "Unknown role.")
			return
		}
	}
	if len(attrs) == 0 {
		httperr.BadRequest(c, "invalid_request", "No attributes to update.")
		return
	}

	var user models.User
	found, err := h.store.Get(c.Request.Context(), key, key, &user)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	if err := h.store.Update(c.Request.Context(), key, key, attrs); err != nil {
		fail(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "user_updated",
		Entity:   models.TypeUser,
		EntityID: userID,
	})

	httpresp.OK(c, gin.H{"message": "User updated successfully"})
}

func (h *UserHandler) Delete(c *gin.Context) {
	userID := c.Param("userId")
	key := models.UserKey(userID)

	var user models.User
	found, err := h.store.Get(c.Request.Context(), key, key, &user)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	if err := h.store.Delete(c.Request.Context(), key, key); err != nil {
		fail(c, err)
		return
	}

	if user.Avatar != nil {
		if derr := h.media.Delete(c.Request.Context(), user.Avatar.Key); derr != nil {
			log.Printf("user delete: avatar cleanup failed: %v", derr)
		}
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   "user_deleted",
		Entity:   models.TypeUser,
		EntityID: userID,
	})

	httpresp.OK(c, gin.H{"message": "User deleted"})
}
