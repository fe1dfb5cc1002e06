package appointment

import (
	"context"

	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
)

type Roster struct {
	ConfirmedParticipants []models.Participant `json:"confirmedParticipants"`
	CancelledParticipants []models.Participant `json:"cancelledParticipants"`
	MaxParticipants       int                  `json:"maxParticipants"`
}

// ListParticipants partitions the roster by participant status. Pure read.
type ListParticipants struct {
	repo domain.Repository
}

func NewListParticipants(repo domain.Repository) *ListParticipants {
	return &ListParticipants{repo: repo}
}

func (uc *ListParticipants) Execute(
	ctx context.Context,
	therapyID string,
	appointmentID string,
) (*Roster, error) {

	ap, err := uc.repo.GetAppointment(ctx, therapyID, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	roster := &Roster{
		ConfirmedParticipants: []models.Participant{},
		CancelledParticipants: []models.Participant{},
		MaxParticipants:       domain.Capacity(ap),
	}

	for _, p := range ap.Participants {
		switch p.Status {
		case models.ParticipantConfirmed:
			roster.ConfirmedParticipants = append(roster.ConfirmedParticipants, p)
		case models.ParticipantCancelled:
			roster.CancelledParticipants = append(roster.CancelledParticipants, p)
		}
	}

	return roster, nil
}
