package appointment

import (
	"time"

	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
)

// ===============================
// Derived attributes
// ===============================

// Capacity defaults to 1, so every appointment is single-occupant unless
// configured otherwise.
func Capacity(ap *models.Appointment) int {
	if ap.MaxParticipants < 1 {
		return 1
	}
	return ap.MaxParticipants
}

func IsGroup(ap *models.Appointment) bool {
	return Capacity(ap) > 1
}

func ConfirmedCount(ap *models.Appointment) int {
	n := 0
	for _, p := range ap.Participants {
		if p.Status == models.ParticipantConfirmed {
			n++
		}
	}
	return n
}

func IsConfirmedParticipant(ap *models.Appointment, userID string) bool {
	for _, p := range ap.Participants {
		if p.UserID == userID && p.Status == models.ParticipantConfirmed {
			return true
		}
	}
	return false
}

// EndOfWindow concatenates date and end time into a UTC instant. The second
// return is false when either piece is missing or malformed; such
// appointments are never auto-closed.
func EndOfWindow(ap *models.Appointment) (time.Time, bool) {
	if ap.Date == "" || ap.EndTime == "" {
		return time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, ap.Date+"T"+ap.EndTime+":00Z")
	if err != nil {
		return time.Time{}, false
	}
	return end, true
}

// ===============================
// Domain actions
// ===============================

// RequestBooking moves a single-occupant appointment to PENDING and records
// the requester. Group appointments are joined, never requested.
func RequestBooking(ap *models.Appointment, userID, userEmail string, now time.Time) error {
	if IsGroup(ap) {
		return httperr.ErrBusiness("group_booking")
	}
	if err := CanRequest(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusPending)
	ap.UserID = userID
	ap.UserEmail = userEmail
	ap.RequestedAt = now.UTC().Format(time.RFC3339)
	return nil
}

func Approve(ap *models.Appointment) error {
	if err := CanApprove(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusOccupied)
	return nil
}

// Assign puts a resolved user directly onto an available appointment.
func Assign(ap *models.Appointment, userID, userEmail string) error {
	if err := CanAssign(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusOccupied)
	ap.UserID = userID
	ap.UserEmail = userEmail
	return nil
}

// RequestCancellation records the reason and parks the appointment until an
// admin decides.
func RequestCancellation(ap *models.Appointment, reason string) error {
	if err := CanRequestCancellation(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusCancellationPending)
	ap.Notes = reason
	return nil
}

// ApproveCancellation terminates the appointment and clears the assignee.
func ApproveCancellation(ap *models.Appointment) error {
	if err := CanApproveCancellation(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusCancelled)
	ap.UserID = ""
	ap.UserEmail = ""
	return nil
}

// Join appends a confirmed roster entry. The appointment flips to OCCUPIED
// once confirmed membership reaches capacity.
func Join(ap *models.Appointment, p models.Participant) error {
	if !IsGroup(ap) {
		return httperr.ErrBusiness("not_group")
	}
	if err := CanJoin(Status(ap.Status)); err != nil {
		return err
	}
	if IsConfirmedParticipant(ap, p.UserID) {
		return httperr.ErrBusiness("already_joined")
	}
	if ConfirmedCount(ap) >= Capacity(ap) {
		return httperr.ErrBusiness("appointment_full")
	}

	p.Status = models.ParticipantConfirmed
	ap.Participants = append(ap.Participants, p)
	ap.CurrentParticipants = ConfirmedCount(ap)

	if ap.CurrentParticipants == Capacity(ap) {
		ap.Status = string(StatusOccupied)
	}
	return nil
}

// Leave flips the caller's roster entry to CANCELLED. The entry stays on
// the roster; membership history is never erased.
func Leave(ap *models.Appointment, userID, reason string, now time.Time) error {
	if !IsGroup(ap) {
		return httperr.ErrBusiness("not_group")
	}

	flipped := false
	for i := range ap.Participants {
		if ap.Participants[i].UserID == userID && ap.Participants[i].Status == models.ParticipantConfirmed {
			ap.Participants[i].Status = models.ParticipantCancelled
			ap.Participants[i].CancelledAt = now.UTC().Format(time.RFC3339)
			ap.Participants[i].CancelReason = reason
			flipped = true
			break
		}
	}
	if !flipped {
		return httperr.ErrBusiness("not_participant")
	}

	ap.CurrentParticipants = ConfirmedCount(ap)
	if Status(ap.Status) == StatusOccupied && ap.CurrentParticipants < Capacity(ap) {
		ap.Status = string(StatusAvailable)
	}
	return nil
}

// CanDelete enforces the deletion policy: only an available appointment
// with an empty roster may be removed.
func CanDelete(ap *models.Appointment) error {
	if Status(ap.Status) != StatusAvailable || len(ap.Participants) > 0 {
		return httperr.ErrBusiness("not_deletable")
	}
	return nil
}

// ===============================
// Sweep predicates
// ===============================

// ShouldAutoComplete reports whether the hourly sweep should mark the
// appointment COMPLETED: its window has closed and it is either occupied or
// an available group session that people actually joined.
func ShouldAutoComplete(ap *models.Appointment, now time.Time) bool {
	switch Status(ap.Status) {
	case StatusOccupied, StatusAvailable:
	default:
		return false
	}

	end, ok := EndOfWindow(ap)
	if !ok || !end.Before(now) {
		return false
	}

	if Status(ap.Status) == StatusOccupied {
		return true
	}
	return IsGroup(ap) && ConfirmedCount(ap) > 0
}

// ShouldExpire reports whether the sweep should delete a stale unclaimed
// slot. Any roster entry, confirmed or cancelled, blocks deletion to keep
// the participation history.
func ShouldExpire(ap *models.Appointment, now time.Time) bool {
	if Status(ap.Status) != StatusAvailable {
		return false
	}
	end, ok := EndOfWindow(ap)
	if !ok || !end.Before(now) {
		return false
	}
	return len(ap.Participants) == 0
}
