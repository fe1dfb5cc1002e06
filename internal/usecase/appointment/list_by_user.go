package appointment

import (
	"context"

	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
)

// ListByUser aggregates a user's appointments across both access patterns:
// sole assignee (index lookup) and confirmed group membership (type scan).
// Duplicates collapse by appointment id, last seen wins.
type ListByUser struct {
	repo domain.Repository
}

func NewListByUser(repo domain.Repository) *ListByUser {
	return &ListByUser{repo: repo}
}

func (uc *ListByUser) Execute(ctx context.Context, userID string) ([]models.Appointment, error) {

	assigned, err := uc.repo.ListAppointmentsByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}

	all, err := uc.repo.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	out := make([]models.Appointment, 0, len(assigned))

	add := func(ap models.Appointment) {
		if i, ok := seen[ap.AppointmentID]; ok {
			out[i] = ap
			return
		}
		seen[ap.AppointmentID] = len(out)
		out = append(out, ap)
	}

	for _, ap := range assigned {
		add(ap)
	}
	for _, ap := range all {
		if domain.IsConfirmedParticipant(&ap, userID) {
			add(ap)
		}
	}

	return out, nil
}
