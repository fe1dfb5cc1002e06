package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimpraxis/therapy-scheduler/internal/models"
)

type fakeSweepStore struct {
	appointments map[string]*models.Appointment

	scanErr     error
	failUpdates map[string]bool
	failDeletes map[string]bool
}

func newFakeSweepStore() *fakeSweepStore {
	return &fakeSweepStore{
		appointments: map[string]*models.Appointment{},
		failUpdates:  map[string]bool{},
		failDeletes:  map[string]bool{},
	}
}

func (s *fakeSweepStore) ListAppointments(context.Context) ([]models.Appointment, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	out := []models.Appointment{}
	for _, ap := range s.appointments {
		out = append(out, *ap)
	}
	return out, nil
}

func (s *fakeSweepStore) UpdateAppointment(_ context.Context, _, appointmentID string, attrs map[string]any) error {
	if s.failUpdates[appointmentID] {
		return errors.New("throttled")
	}
	if v, ok := attrs["status"]; ok {
		s.appointments[appointmentID].Status = v.(string)
	}
	return nil
}

func (s *fakeSweepStore) DeleteAppointment(_ context.Context, _, appointmentID string) error {
	if s.failDeletes[appointmentID] {
		return errors.New("throttled")
	}
	delete(s.appointments, appointmentID)
	return nil
}

func slot(id, status, date string, capacity int, participants ...models.Participant) *models.Appointment {
	return &models.Appointment{
		AppointmentID:   id,
		TherapyID:       "th-1",
		Date:            date,
		StartTime:       "10:00",
		EndTime:         "11:00",
		MaxParticipants: capacity,
		Status:          status,
		Participants:    participants,
	}
}

var sweepNow = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func TestCompletePast(t *testing.T) {
	t.Run("closes past occupied slots only", func(t *testing.T) {
		store := newFakeSweepStore()
		store.appointments["past-occupied"] = slot("past-occupied", "OCCUPIED", "2026-09-10", 1)
		store.appointments["future-occupied"] = slot("future-occupied", "OCCUPIED", "2026-09-20", 1)
		store.appointments["past-empty"] = slot("past-empty", "AVAILABLE", "2026-09-10", 1)
		store.appointments["past-group"] = slot("past-group", "AVAILABLE", "2026-09-10", 3,
			models.Participant{UserID: "u-1", Status: models.ParticipantConfirmed})

		res, err := NewSweeper(store).CompletePast(context.Background(), sweepNow)
		require.NoError(t, err)

		assert.Equal(t, 2, res.Processed)
		assert.Equal(t, 0, res.Errors)
		assert.Equal(t, "COMPLETED", store.appointments["past-occupied"].Status)
		assert.Equal(t, "COMPLETED", store.appointments["past-group"].Status)
		assert.Equal(t, "OCCUPIED", store.appointments["future-occupied"].Status)
		assert.Equal(t, "AVAILABLE", store.appointments["past-empty"].Status)
	})

	t.Run("one failure does not abort the sweep", func(t *testing.T) {
		store := newFakeSweepStore()
		store.appointments["a"] = slot("a", "OCCUPIED", "2026-09-10", 1)
		store.appointments["b"] = slot("b", "OCCUPIED", "2026-09-10", 1)
		store.failUpdates["a"] = true

		res, err := NewSweeper(store).CompletePast(context.Background(), sweepNow)
		require.NoError(t, err)

		assert.Equal(t, 1, res.Processed)
		assert.Equal(t, 1, res.Errors)
		assert.Equal(t, "COMPLETED", store.appointments["b"].Status)
	})

	t.Run("rerun is idempotent", func(t *testing.T) {
		store := newFakeSweepStore()
		store.appointments["a"] = slot("a", "OCCUPIED", "2026-09-10", 1)

		sweeper := NewSweeper(store)
		_, err := sweeper.CompletePast(context.Background(), sweepNow)
		require.NoError(t, err)

		res, err := sweeper.CompletePast(context.Background(), sweepNow)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Processed)
	})

	t.Run("malformed window is skipped", func(t *testing.T) {
		store := newFakeSweepStore()
		store.appointments["a"] = slot("a", "OCCUPIED", "", 1)

		res, err := NewSweeper(store).CompletePast(context.Background(), sweepNow)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Processed)
		assert.Equal(t, "OCCUPIED", store.appointments["a"].Status)
	})

	t.Run("scan failure fails the job", func(t *testing.T) {
		store := newFakeSweepStore()
		store.scanErr = errors.New("table offline")

		_, err := NewSweeper(store).CompletePast(context.Background(), sweepNow)
		assert.Error(t, err)
	})
}

func TestDeleteExpired(t *testing.T) {
	t.Run("drops only stale empty available slots", func(t *testing.T) {
		store := newFakeSweepStore()
		store.appointments["stale"] = slot("stale", "AVAILABLE", "2026-09-10", 1)
		store.appointments["future"] = slot("future", "AVAILABLE", "2026-09-20", 1)
		store.appointments["pending"] = slot("pending", "PENDING", "2026-09-10", 1)
		store.appointments["with-history"] = slot("with-history", "AVAILABLE", "2026-09-10", 3,
			models.Participant{UserID: "u-1", Status: models.ParticipantCancelled})

		res, err := NewSweeper(store).DeleteExpired(context.Background(), sweepNow)
		require.NoError(t, err)

		assert.Equal(t, 1, res.Processed)
		assert.NotContains(t, store.appointments, "stale")
		assert.Contains(t, store.appointments, "future")
		assert.Contains(t, store.appointments, "pending")
		assert.Contains(t, store.appointments, "with-history")
	})

	t.Run("one failure does not abort the sweep", func(t *testing.T) {
		store := newFakeSweepStore()
		store.appointments["a"] = slot("a", "AVAILABLE", "2026-09-10", 1)
		store.appointments["b"] = slot("b", "AVAILABLE", "2026-09-10", 1)
		store.failDeletes["a"] = true

		res, err := NewSweeper(store).DeleteExpired(context.Background(), sweepNow)
		require.NoError(t, err)

		assert.Equal(t, 1, res.Processed)
		assert.Equal(t, 1, res.Errors)
		assert.NotContains(t, store.appointments, "b")
	})
}
