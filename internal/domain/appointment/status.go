package appointment

import "github.com/pimpraxis/therapy-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusAvailable           Status = "AVAILABLE"
	StatusPending             Status = "PENDING"
	StatusCancellationPending Status = "CANCELLATION_PENDING"
	StatusOccupied            Status = "OCCUPIED"
	StatusCompleted           Status = "COMPLETED"
	StatusCancelled           Status = "CANCELLED"
)

func InitialStatus() Status {
	return StatusAvailable
}

// Terminal states admit no further workflow transition.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Transition validations
// ===============================

// CanRequest gates AVAILABLE -> PENDING for single-occupant appointments.
func CanRequest(current Status) error {
	if current != StatusAvailable {
		return httperr.ErrBusiness("not_available")
	}
	return nil
}

// CanApprove gates PENDING -> OCCUPIED.
func CanApprove(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("not_available")
	}
	return nil
}

// CanAssign gates AVAILABLE -> OCCUPIED via admin assignment.
func CanAssign(current Status) error {
	if current != StatusAvailable {
		return httperr.ErrBusiness("not_available_for_assignment")
	}
	return nil
}

// CanRequestCancellation gates {PENDING, OCCUPIED} -> CANCELLATION_PENDING.
func CanRequestCancellation(current Status) error {
	if current != StatusPending && current != StatusOccupied {
		return httperr.ErrBusiness("not_cancellable")
	}
	return nil
}

// CanApproveCancellation gates {PENDING, CANCELLATION_PENDING} -> CANCELLED.
func CanApproveCancellation(current Status) error {
	if current != StatusPending && current != StatusCancellationPending {
		return httperr.ErrBusiness("cancellation_not_approvable")
	}
	return nil
}

// CanJoin gates roster growth. Capacity is checked separately.
func CanJoin(current Status) error {
	if current != StatusAvailable && current != StatusOccupied {
		return httperr.ErrBusiness("not_available")
	}
	return nil
}
