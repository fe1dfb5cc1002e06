package appointment

import (
	"time"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
	"github.com/pimpraxis/therapy-scheduler/internal/notify"
)

// Auditor is the slice of the audit dispatcher the workflow needs.
type Auditor interface {
	Dispatch(ev audit.Event)
}

func nowISO(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

// bookingInfo builds the notification payload, tolerating a missing
// therapy (title stays empty, the notice still carries the schedule).
func bookingInfo(ap *models.Appointment, therapy *models.Therapy) notify.Booking {
	b := notify.Booking{
		Date:      ap.Date,
		StartTime: ap.StartTime,
		EndTime:   ap.EndTime,
	}
	if therapy != nil {
		b.TherapyTitle = therapy.Title
	}
	return b
}

// displayName falls back to the address's local part when no profile name
// exists.
func displayName(name, email string) string {
	if name != "" {
		return name
	}
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
