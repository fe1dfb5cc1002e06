package appointment

import (
	"context"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
)

// Delete removes an appointment outright. Policy: only available
// appointments with an empty roster; everything else keeps its history.
type Delete struct {
	repo  domain.Repository
	audit Auditor
}

func NewDelete(repo domain.Repository, audit Auditor) *Delete {
	return &Delete{repo: repo, audit: audit}
}

func (uc *Delete) Execute(
	ctx context.Context,
	therapyID string,
	appointmentID string,
	actorID string,
) error {

	ap, err := uc.repo.GetAppointment(ctx, therapyID, appointmentID)
	if err != nil {
		return err
	}
	if ap == nil {
		return httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.CanDelete(ap); err != nil {
		return err
	}

	if err := uc.repo.DeleteAppointment(ctx, therapyID, appointmentID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: appointmentID,
	})

	return nil
}
