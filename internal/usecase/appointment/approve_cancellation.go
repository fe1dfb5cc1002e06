package appointment

import (
	"context"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
	"github.com/pimpraxis/therapy-scheduler/internal/notify"
)

type ApproveCancellation struct {
	repo   domain.Repository
	mailer notify.Mailer
	audit  Auditor
}

func NewApproveCancellation(repo domain.Repository, mailer notify.Mailer, audit Auditor) *ApproveCancellation {
	return &ApproveCancellation{repo: repo, mailer: mailer, audit: audit}
}

func (uc *ApproveCancellation) Execute(
	ctx context.Context,
	appointmentID string,
	actorID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	// The assignee is cleared by the transition; keep it for the notice.
	assigneeEmail := ap.UserEmail

	if err := domain.ApproveCancellation(ap); err != nil {
		return nil, err
	}

	// userId keys the assignee index; it must be removed, never written
	// back as an empty string.
	err = uc.repo.UpdateAppointment(ctx, ap.TherapyID, appointmentID, map[string]any{
		"status":    ap.Status,
		"userId":    nil,
		"userEmail": nil,
	})
	if err != nil {
		return nil, err
	}

	uc.sendCancellation(ctx, ap, assigneeEmail)

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "cancellation_approved",
		Entity:   "appointment",
		EntityID: appointmentID,
	})

	return ap, nil
}

func (uc *ApproveCancellation) sendCancellation(ctx context.Context, ap *models.Appointment, email string) {
	if email == "" {
		return
	}

	therapy, _ := uc.repo.GetTherapy(ctx, ap.TherapyID)

	name := ""
	if user, err := uc.repo.FindUserByEmail(ctx, email); err == nil && user != nil {
		name = user.Name
	}

	to := notify.Recipient{Email: email, Name: displayName(name, email)}
	booking := bookingInfo(ap, therapy)

	notify.Async("cancellation notice", func() error {
		return uc.mailer.BookingCancelled(to, booking)
	})
}
