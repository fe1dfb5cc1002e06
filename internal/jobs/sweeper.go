package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	domain "github.com/pimpraxis/therapy-scheduler/internal/domain/appointment"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
)

// SweepStore is the slice of the repository the sweeps need. The jobs run
// with no caller identity and bypass the workflow's authorization gate.
type SweepStore interface {
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	UpdateAppointment(ctx context.Context, therapyID, appointmentID string, attrs map[string]any) error
	DeleteAppointment(ctx context.Context, therapyID, appointmentID string) error
}

type SweepResult struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

type Sweeper struct {
	store SweepStore
}

func NewSweeper(store SweepStore) *Sweeper {
	return &Sweeper{store: store}
}

// CompletePast marks every appointment whose window has closed as
// COMPLETED. One item's failure never aborts the sweep; only a failed scan
// fails the job.
func (s *Sweeper) CompletePast(ctx context.Context, now time.Time) (SweepResult, error) {
	appointments, err := s.store.ListAppointments(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("complete-past: scan appointments: %w", err)
	}

	var res SweepResult
	for _, ap := range appointments {
		if !domain.ShouldAutoComplete(&ap, now) {
			continue
		}

		err := s.store.UpdateAppointment(ctx, ap.TherapyID, ap.AppointmentID, map[string]any{
			"status": string(domain.StatusCompleted),
		})
		if err != nil {
			log.Printf("complete-past: failed to complete appointment %s: %v", ap.AppointmentID, err)
			res.Errors++
			continue
		}
		res.Processed++
	}

	log.Printf("complete-past: completed %d appointments, %d errors", res.Processed, res.Errors)
	return res, nil
}

// DeleteExpired drops stale unclaimed availability slots. Appointments with
// any roster entry are kept.
func (s *Sweeper) DeleteExpired(ctx context.Context, now time.Time) (SweepResult, error) {
	appointments, err := s.store.ListAppointments(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("delete-expired: scan appointments: %w", err)
	}

	var res SweepResult
	for _, ap := range appointments {
		if !domain.ShouldExpire(&ap, now) {
			continue
		}

		if err := s.store.DeleteAppointment(ctx, ap.TherapyID, ap.AppointmentID); err != nil {
			log.Printf("delete-expired: failed to delete appointment %s: %v", ap.AppointmentID, err)
			res.Errors++
			continue
		}
		res.Processed++
	}

	log.Printf("delete-expired: deleted %d appointments, %d errors", res.Processed, res.Errors)
	return res, nil
}

// StartScheduler registers both sweeps on an hourly cadence. Overlapping
// runs are safe: each item mutation is idempotent.
func StartScheduler(s *Sweeper) *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.CompletePast(ctx, time.Now()); err != nil {
			log.Printf("cron: complete-past failed: %v", err)
		}
	})

	c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.DeleteExpired(ctx, time.Now()); err != nil {
			log.Printf("cron: delete-expired failed: %v", err)
		}
	})

	c.Start()
	return c
}
