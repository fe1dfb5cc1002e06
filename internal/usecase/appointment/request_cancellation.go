package appointment

import (
	"context"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
)

// RequestCancellation parks a booked appointment in CANCELLATION_PENDING
// until an admin decides. Only the assignee or an admin may request it.
type RequestCancellation struct {
	repo  domain.Repository
	audit Auditor
}

func NewRequestCancellation(repo domain.Repository, audit Auditor) *RequestCancellation {
	return &RequestCancellation{repo: repo, audit: audit}
}

func (uc *RequestCancellation) Execute(
	ctx context.Context,
	appointmentID string,
	reason string,
	callerID string,
	isAdmin bool,
) (*models.Appointment, error) {

	ap, err := uc.repo.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if !isAdmin && ap.UserID != callerID {
		return nil, httperr.ErrBusiness("not_owner")
	}

	if err := domain.RequestCancellation(ap, reason); err != nil {
		return nil, err
	}

	err = uc.repo.UpdateAppointment(ctx, ap.TherapyID, appointmentID, map[string]any{
		"status": ap.Status,
		"notes":  ap.Notes,
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  callerID,
		Action:   "cancellation_requested",
		Entity:   "appointment",
		EntityID: appointmentID,
	})

	return ap, nil
}
