package appointment

import (
	"context"
	"time"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/lock"
)

type LeaveGroup struct {
	repo   domain.Repository
	locker lock.Locker
	audit  Auditor
}

func NewLeaveGroup(repo domain.Repository, locker lock.Locker, audit Auditor) *LeaveGroup {
	return &LeaveGroup{repo: repo, locker: locker, audit: audit}
}

func (uc *LeaveGroup) Execute(
	ctx context.Context,
	therapyID string,
	appointmentID string,
	userID string,
	reason string,
) (*JoinResult, error) {

	var result *JoinResult

	err := uc.locker.WithAppointmentLock(ctx, appointmentID, func(ctx context.Context) error {
		ap, err := uc.repo.GetAppointment(ctx, therapyID, appointmentID)
		if err != nil {
			return err
		}
		if ap == nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if err := domain.Leave(ap, userID, reason, time.Now()); err != nil {
			return err
		}

		err = uc.repo.UpdateAppointment(ctx, therapyID, appointmentID, map[string]any{
			"participants":        ap.Participants,
			"currentParticipants": ap.CurrentParticipants,
			"status":              ap.Status,
		})
		if err != nil {
			return err
		}

		result = &JoinResult{
			CurrentParticipants: ap.CurrentParticipants,
			MaxParticipants:     domain.Capacity(ap),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  userID,
		Action:   "group_left",
		Entity:   "appointment",
		EntityID: appointmentID,
	})

	return result, nil
}
