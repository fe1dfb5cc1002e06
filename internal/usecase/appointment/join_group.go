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

type JoinResult struct {
	CurrentParticipants int `json:"currentParticipants"`
	MaxParticipants     int `json:"maxParticipants"`
}

type JoinGroup struct {
	repo   domain.Repository
	locker lock.Locker
	audit  Auditor
}

func NewJoinGroup(repo domain.Repository, locker lock.Locker, audit Auditor) *JoinGroup {
	return &JoinGroup{repo: repo, locker: locker, audit: audit}
}

func (uc *JoinGroup) Execute(
	ctx context.Context,
	therapyID string,
	appointmentID string,
	userID string,
	userEmail string,
) (*JoinResult, error) {

	// The caller's display name comes from their profile; no profile, no
	// joining.
	profile, err := uc.repo.FindUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, httperr.ErrBusiness("user_not_found")
	}

	var result *JoinResult

	err = uc.locker.WithAppointmentLock(ctx, appointmentID, func(ctx context.Context) error {
		ap, err := uc.repo.GetAppointment(ctx, therapyID, appointmentID)
		if err != nil {
			return err
		}
		if ap == nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		p := models.Participant{
			UserID:    userID,
			UserEmail: userEmail,
			UserName:  displayName(profile.Name, userEmail),
			JoinedAt:  nowISO(time.Now()),
		}

		if err := domain.Join(ap, p); err != nil {
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
		Action:   "group_joined",
		Entity:   "appointment",
		EntityID: appointmentID,
	})

	return result, nil
}
