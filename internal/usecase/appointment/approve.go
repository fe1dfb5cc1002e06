package appointment

import (
	"context"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
	"github.com/pimpraxis/therapy-scheduler/internal/notify"
)

type ApproveBooking struct {
	repo   domain.Repository
	mailer notify.Mailer
	audit  Auditor
}

func NewApproveBooking(repo domain.Repository, mailer notify.Mailer, audit Auditor) *ApproveBooking {
	return &ApproveBooking{repo: repo, mailer: mailer, audit: audit}
}

func (uc *ApproveBooking) Execute(
	ctx context.Context,
	therapyID string,
	appointmentID string,
	actorID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, therapyID, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Approve(ap); err != nil {
		return nil, err
	}

	err = uc.repo.UpdateAppointment(ctx, therapyID, appointmentID, map[string]any{
		"status": ap.Status,
	})
	if err != nil {
		return nil, err
	}

	uc.sendConfirmation(ctx, ap)

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "booking_approved",
		Entity:   "appointment",
		EntityID: appointmentID,
	})

	return ap, nil
}

// sendConfirmation is best-effort: lookup failures skip the notice, send
// failures only log.
func (uc *ApproveBooking) sendConfirmation(ctx context.Context, ap *models.Appointment) {
	if ap.UserEmail == "" {
		return
	}

	therapy, _ := uc.repo.GetTherapy(ctx, ap.TherapyID)

	name := ""
	if user, err := uc.repo.FindUserByEmail(ctx, ap.UserEmail); err == nil && user != nil {
		name = user.Name
	}

	to := notify.Recipient{
		Email: ap.UserEmail,
		Name:  displayName(name, ap.UserEmail),
	}
	booking := bookingInfo(ap, therapy)

	notify.Async("booking confirmation", func() error {
		return uc.mailer.BookingConfirmed(to, booking)
	})
}
