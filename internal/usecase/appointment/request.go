package appointment

import (
	"context"
	"time"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/lock"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
)

type RequestBooking struct {
	repo   domain.Repository
	locker lock.Locker
	audit  Auditor
}

func NewRequestBooking(repo domain.Repository, locker lock.Locker, audit Auditor) *RequestBooking {
	return &RequestBooking{repo: repo, locker: locker, audit: audit}
}

func (uc *RequestBooking) Execute(
	ctx context.Context,
	therapyID string,
	appointmentID string,
	userID string,
	userEmail string,
) (*models.Appointment, error) {

	var ap *models.Appointment

	err := uc.locker.WithAppointmentLock(ctx, appointmentID, func(ctx context.Context) error {
		var err error
		ap, err = uc.repo.GetAppointment(ctx, therapyID, appointmentID)
		if err != nil {
			return err
		}
		if ap == nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if err := domain.RequestBooking(ap, userID, userEmail, time.Now()); err != nil {
			return err
		}

		return uc.repo.UpdateAppointment(ctx, therapyID, appointmentID, map[string]any{
			"status":      ap.Status,
			"userId":      ap.UserID,
			"userEmail":   ap.UserEmail,
			"requestedAt": ap.RequestedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  userID,
		Action:   "booking_requested",
		Entity:   "appointment",
		EntityID: appointmentID,
	})

	return ap, nil
}
