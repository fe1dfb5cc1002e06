package appointment

import (
	"context"

	"github.com/pimpraxis/therapy-scheduler/internal/models"
)

// Repository is everything the booking workflow needs from the store.
// Lookups return (nil, nil) when the item does not exist.
type Repository interface {
	// -------- Therapy --------
	GetTherapy(ctx context.Context, therapyID string) (*models.Therapy, error)

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		therapyID string,
		appointmentID string,
	) (*models.Appointment, error)

	// FindAppointmentByID resolves an appointment through the id-only
	// secondary arrangement, for operations addressed without a therapy.
	FindAppointmentByID(
		ctx context.Context,
		appointmentID string,
	) (*models.Appointment, error)

	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	UpdateAppointment(
		ctx context.Context,
		therapyID string,
		appointmentID string,
		attrs map[string]any,
	) error

	DeleteAppointment(
		ctx context.Context,
		therapyID string,
		appointmentID string,
	) error

	// -------- Scans --------
	ListAppointments(ctx context.Context) ([]models.Appointment, error)

	ListAppointmentsByTherapy(
		ctx context.Context,
		therapyID string,
	) ([]models.Appointment, error)

	ListAppointmentsByAssignee(
		ctx context.Context,
		userID string,
	) ([]models.Appointment, error)

	// -------- User --------
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}
