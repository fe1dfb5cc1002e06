package repository

import (
	"context"

	"github.com/pimpraxis/therapy-scheduler/internal/models"
	"github.com/pimpraxis/therapy-scheduler/internal/store"
)

type AppointmentDynamoRepository struct {
	store *store.Store
}

func NewAppointmentDynamoRepository(s *store.Store) *AppointmentDynamoRepository {
	return &AppointmentDynamoRepository{store: s}
}

// --------------------------------------------------
// Therapy
// --------------------------------------------------

func (r *AppointmentDynamoRepository) GetTherapy(
	ctx context.Context,
	therapyID string,
) (*models.Therapy, error) {

	var t models.Therapy
	found, err := r.store.Get(ctx, models.TherapyKey(therapyID), models.TherapyKey(therapyID), &t)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &t, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentDynamoRepository) GetAppointment(
	ctx context.Context,
	therapyID string,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	pk, sk := models.NewAppointmentKeys(therapyID, appointmentID)
	found, err := r.store.Get(ctx, pk, sk, &ap)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &ap, nil
}

func (r *AppointmentDynamoRepository) FindAppointmentByID(
	ctx context.Context,
	appointmentID string,
) (*models.Appointment, error) {

	var aps []models.Appointment
	err := r.store.QueryIndex(ctx, models.IndexGSI1, "GSI1PK", models.AppointmentKey(appointmentID), &aps)
	if err != nil {
		return nil, err
	}
	if len(aps) == 0 {
		return nil, nil
	}
	return &aps[0], nil
}

func (r *AppointmentDynamoRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.store.Create(ctx, ap)
}

func (r *AppointmentDynamoRepository) UpdateAppointment(
	ctx context.Context,
	therapyID string,
	appointmentID string,
	attrs map[string]any,
) error {
	pk, sk := models.NewAppointmentKeys(therapyID, appointmentID)
	return r.store.Update(ctx, pk, sk, attrs)
}

func (r *AppointmentDynamoRepository) DeleteAppointment(
	ctx context.Context,
	therapyID string,
	appointmentID string,
) error {
	pk, sk := models.NewAppointmentKeys(therapyID, appointmentID)
	return r.store.Delete(ctx, pk, sk)
}

// --------------------------------------------------
// Scans
// --------------------------------------------------

func (r *AppointmentDynamoRepository) ListAppointments(
	ctx context.Context,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.store.QueryIndex(ctx, models.IndexType, "Type", models.TypeAppointment, &aps); err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentDynamoRepository) ListAppointmentsByTherapy(
	ctx context.Context,
	therapyID string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	err := r.store.QueryPrefix(ctx, models.TherapyKey(therapyID), "APPOINTMENT#", &aps)
	if err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentDynamoRepository) ListAppointmentsByAssignee(
	ctx context.Context,
	userID string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	err := r.store.QueryIndex(ctx, models.IndexUserAppointments, "userId", userID, &aps)
	if err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// User
// --------------------------------------------------

func (r *AppointmentDynamoRepository) FindUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var users []models.User
	if err := r.store.QueryIndex(ctx, models.IndexEmail, "email", email, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}
