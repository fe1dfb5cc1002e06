package appointment

import (
	"context"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/lock"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
	"github.com/pimpraxis/therapy-scheduler/internal/notify"
)

// AssignBooking puts a user, resolved by email, directly onto an available
// appointment. The appointment is addressed by its id alone.
type AssignBooking struct {
	repo   domain.Repository
	locker lock.Locker
	mailer notify.Mailer
	audit  Auditor
}

func NewAssignBooking(
	repo domain.Repository,
	locker lock.Locker,
	mailer notify.Mailer,
	audit Auditor,
) *AssignBooking {
	return &AssignBooking{repo: repo, locker: locker, mailer: mailer, audit: audit}
}

func (uc *AssignBooking) Execute(
	ctx context.Context,
	appointmentID string,
	targetEmail string,
	actorID string,
) (*models.Appointment, error) {

	target, err := uc.repo.FindUserByEmail(ctx, targetEmail)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, httperr.ErrBusiness("user_not_found")
	}

	var ap *models.Appointment

	err = uc.locker.WithAppointmentLock(ctx, appointmentID, func(ctx context.Context) error {
		var err error
		ap, err = uc.repo.FindAppointmentByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		if ap == nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if err := domain.Assign(ap, target.UserID, target.Email); err != nil {
			return err
		}

		return uc.repo.UpdateAppointment(ctx, ap.TherapyID, appointmentID, map[string]any{
			"status":    ap.Status,
			"userId":    ap.UserID,
			"userEmail": ap.UserEmail,
		})
	})
	if err != nil {
		return nil, err
	}

	therapy, _ := uc.repo.GetTherapy(ctx, ap.TherapyID)
	to := notify.Recipient{
		Email: target.Email,
		Name:  displayName(target.Name, target.Email),
	}
	booking := bookingInfo(ap, therapy)

	notify.Async("assignment confirmation", func() error {
		return uc.mailer.BookingConfirmed(to, booking)
	})

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "booking_assigned",
		Entity:   "appointment",
		EntityID: appointmentID,
	})

	return ap, nil
}
