package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/httpresp"
	"github.com/pimpraxis/therapy-scheduler/internal/middleware"
	ucAppointment "github.com/pimpraxis/therapy-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	repo domain.Repository

	createUC              *ucAppointment.Create
	requestUC             *ucAppointment.RequestBooking
	approveUC             *ucAppointment.ApproveBooking
	assignUC              *ucAppointment.AssignBooking
	requestCancellationUC *ucAppointment.RequestCancellation
	approveCancellationUC *ucAppointment.ApproveCancellation
	joinGroupUC           *ucAppointment.JoinGroup
	leaveGroupUC          *ucAppointment.LeaveGroup
	participantsUC        *ucAppointment.ListParticipants
	listByUserUC          *ucAppointment.ListByUser
	deleteUC              *ucAppointment.Delete
}

func NewAppointmentHandler(
	repo domain.Repository,
	createUC *ucAppointment.Create,
	requestUC *ucAppointment.RequestBooking,
	approveUC *ucAppointment.ApproveBooking,
	assignUC *ucAppointment.AssignBooking,
	requestCancellationUC *ucAppointment.RequestCancellation,
	approveCancellationUC *ucAppointment.ApproveCancellation,
	joinGroupUC *ucAppointment.JoinGroup,
	leaveGroupUC *ucAppointment.LeaveGroup,
	participantsUC *ucAppointment.ListParticipants,
	listByUserUC *ucAppointment.ListByUser,
	deleteUC *ucAppointment.Delete,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:                  repo,
		createUC:              createUC,
		requestUC:             requestUC,
		approveUC:             approveUC,
		assignUC:              assignUC,
		requestCancellationUC: requestCancellationUC,
		approveCancellationUC: approveCancellationUC,
		joinGroupUC:           joinGroupUC,
		leaveGroupUC:          leaveGroupUC,
		participantsUC:        participantsUC,
		listByUserUC:          listByUserUC,
		deleteUC:              deleteUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Date            string `json:"date" binding:"required"`
	StartTime       string `json:"startTime" binding:"required"`
	EndTime         string `json:"endTime" binding:"required"`
	Notes           string `json:"notes"`
	MaxParticipants int    `json:"maxParticipants"`
}

type UpdateAppointmentRequest struct {
	Date            *string `json:"date"`
	StartTime       *string `json:"startTime"`
	EndTime         *string `json:"endTime"`
	Notes           *string `json:"notes"`
	AdminNotes      *string `json:"adminNotes"`
	MaxParticipants *int    `json:"maxParticipants"`
}

type AssignRequest struct {
	UserEmail string `json:"userEmail" binding:"required,email"`
}

type CancellationRequest struct {
	Notes string `json:"notes" binding:"required"`
}

type LeaveGroupRequest struct {
	Reason string `json:"reason"`
}

// fail maps a usecase error onto the response, hiding internals behind a
// generic 500.
func fail(c *gin.Context, err error) {
	if httperr.WriteBusiness(c, err) {
		return
	}
	log.Printf("appointment handler error: %v", err)
	httperr.Internal(c, "internal_error", "Internal Server Error")
}

// ======================================================
// CRUD
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	therapyID := c.Param("therapyId")

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Missing required fields.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateInput{
		TherapyID:       therapyID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Notes:           req.Notes,
		MaxParticipants: req.MaxParticipants,
		ActorID:         c.GetString(middleware.ContextUserID),
	})
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, err := h.repo.GetAppointment(c.Request.Context(), c.Param("therapyId"), c.Param("appointmentId"))
	if err != nil {
		fail(c, err)
		return
	}
	if ap == nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) ListByTherapy(c *gin.Context) {
	aps, err := h.repo.ListAppointmentsByTherapy(c.Request.Context(), c.Param("therapyId"))
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListAll(c *gin.Context) {
	aps, err := h.repo.ListAppointments(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, aps)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	therapyID := c.Param("therapyId")
	appointmentID := c.Param("appointmentId")

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	attrs := map[string]any{}
	if req.Date != nil {
		attrs["date"] = *req.Date
	}
	if req.StartTime != nil {
		attrs["startTime"] = *req.StartTime
	}
	if req.EndTime != nil {
		attrs["endTime"] = *req.EndTime
	}
	if req.Notes != nil {
		attrs["notes"] = *req.Notes
	}
	if req.AdminNotes != nil {
		attrs["adminNotes"] = *req.AdminNotes
	}
	if req.MaxParticipants != nil {
		attrs["maxParticipants"] = *req.MaxParticipants
	}
	if len(attrs) == 0 {
		httperr.BadRequest(c, "invalid_request", "No attributes to update.")
		return
	}

	ap, err := h.repo.GetAppointment(c.Request.Context(), therapyID, appointmentID)
	if err != nil {
		fail(c, err)
		return
	}
	if ap == nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	if err := h.repo.UpdateAppointment(c.Request.Context(), therapyID, appointmentID, attrs); err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Appointment updated successfully"})
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	err := h.deleteUC.Execute(
		c.Request.Context(),
		c.Param("therapyId"),
		c.Param("appointmentId"),
		c.GetString(middleware.ContextUserID),
	)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "Appointment deleted"})
}

// ======================================================
// WORKFLOW ACTIONS
// ======================================================

func (h *AppointmentHandler) Request(c *gin.Context) {
	ap, err := h.requestUC.Execute(
		c.Request.Context(),
		c.Param("therapyId"),
		c.Param("appointmentId"),
		c.GetString(middleware.ContextUserID),
		c.GetString(middleware.ContextUserEmail),
	)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":       "Appointment booking requested successfully",
		"appointmentId": ap.AppointmentID,
		"status":        ap.Status,
	})
}

func (h *AppointmentHandler) Approve(c *gin.Context) {
	_, err := h.approveUC.Execute(
		c.Request.Context(),
		c.Param("therapyId"),
		c.Param("appointmentId"),
		c.GetString(middleware.ContextUserID),
	)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "Appointment approved successfully"})
}

func (h *AppointmentHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Target user email is required.")
		return
	}

	_, err := h.assignUC.Execute(
		c.Request.Context(),
		c.Param("appointmentId"),
		req.UserEmail,
		c.GetString(middleware.ContextUserID),
	)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "Appointment assigned successfully"})
}

func (h *AppointmentHandler) RequestCancellation(c *gin.Context) {
	var req CancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Cancellation reason is required.")
		return
	}

	_, err := h.requestCancellationUC.Execute(
		c.Request.Context(),
		c.Param("appointmentId"),
		req.Notes,
		c.GetString(middleware.ContextUserID),
		middleware.IsAdmin(c),
	)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "Cancellation requested successfully"})
}

func (h *AppointmentHandler) ApproveCancellation(c *gin.Context) {
	_, err := h.approveCancellationUC.Execute(
		c.Request.Context(),
		c.Param("appointmentId"),
		c.GetString(middleware.ContextUserID),
	)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "Appointment cancelled successfully"})
}

func (h *AppointmentHandler) JoinGroup(c *gin.Context) {
	result, err := h.joinGroupUC.Execute(
		c.Request.Context(),
		c.Param("therapyId"),
		c.Param("appointmentId"),
		c.GetString(middleware.ContextUserID),
		c.GetString(middleware.ContextUserEmail),
	)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":             "Successfully joined group appointment",
		"currentParticipants": result.CurrentParticipants,
		"maxParticipants":     result.MaxParticipants,
	})
}

func (h *AppointmentHandler) LeaveGroup(c *gin.Context) {
	var req LeaveGroupRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.leaveGroupUC.Execute(
		c.Request.Context(),
		c.Param("therapyId"),
		c.Param("appointmentId"),
		c.GetString(middleware.ContextUserID),
		req.Reason,
	)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":             "Successfully cancelled group appointment participation",
		"currentParticipants": result.CurrentParticipants,
		"maxParticipants":     result.MaxParticipants,
	})
}

// ======================================================
// QUERIES
// ======================================================

func (h *AppointmentHandler) Participants(c *gin.Context) {
	roster, err := h.participantsUC.Execute(
		c.Request.Context(),
		c.Param("therapyId"),
		c.Param("appointmentId"),
	)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, roster)
}

func (h *AppointmentHandler) ListByUser(c *gin.Context) {
	userID := c.Param("userId")

	if userID != c.GetString(middleware.ContextUserID) && !middleware.IsAdmin(c) {
		httperr.Forbidden(c, "forbidden", "Cannot list another user's appointments.")
		return
	}

	aps, err := h.listByUserUC.Execute(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, aps)
}
