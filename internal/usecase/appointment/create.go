package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	TherapyID string
	Date      string
	StartTime string
	EndTime   string
	Notes     string

	// Zero inherits the therapy's default capacity.
	MaxParticipants int

	ActorID string
}

// ======================================================
// USE CASE
// ======================================================

type Create struct {
	repo  domain.Repository
	audit Auditor
}

func NewCreate(repo domain.Repository, audit Auditor) *Create {
	return &Create{repo: repo, audit: audit}
}

func (uc *Create) Execute(ctx context.Context, in CreateInput) (*models.Appointment, error) {

	therapy, err := uc.repo.GetTherapy(ctx, in.TherapyID)
	if err != nil {
		return nil, err
	}
	if therapy == nil {
		return nil, httperr.ErrBusiness("therapy_not_found")
	}

	capacity := in.MaxParticipants
	if capacity == 0 {
		capacity = therapy.MaxParticipants
	}
	if capacity < 1 {
		capacity = 1
	}

	appointmentID := uuid.NewString()
	now := time.Now()

	ap := &models.Appointment{
		PK:     models.TherapyKey(in.TherapyID),
		SK:     models.AppointmentKey(appointmentID),
		Type:   models.TypeAppointment,
		GSI1PK: models.AppointmentKey(appointmentID),
		GSI1SK: models.DateKey(in.Date),

		AppointmentID: appointmentID,
		TherapyID:     in.TherapyID,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,

		MaxParticipants:     capacity,
		CurrentParticipants: 0,
		Participants:        []models.Participant{},

		Status:    string(domain.InitialStatus()),
		Notes:     in.Notes,
		CreatedAt: nowISO(now),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: appointmentID,
	})

	return ap, nil
}
