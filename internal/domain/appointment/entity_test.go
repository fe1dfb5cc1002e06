package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimpraxis/therapy-scheduler/internal/httperr"
	"github.com/pimpraxis/therapy-scheduler/internal/models"
)

func singleSlot() *models.Appointment {
	return &models.Appointment{
		AppointmentID:   "ap-1",
		TherapyID:       "th-1",
		Date:            "2026-09-10",
		StartTime:       "10:00",
		EndTime:         "11:00",
		MaxParticipants: 1,
		Status:          string(StatusAvailable),
	}
}

func groupSlot(capacity int) *models.Appointment {
	ap := singleSlot()
	ap.MaxParticipants = capacity
	return ap
}

func participant(userID string) models.Participant {
	return models.Participant{
		UserID:    userID,
		UserEmail: userID + "@example.com",
		UserName:  "User " + userID,
		JoinedAt:  "2026-09-01T10:00:00Z",
	}
}

func TestCapacityDefaultsToOne(t *testing.T) {
	ap := &models.Appointment{}
	assert.Equal(t, 1, Capacity(ap))
	assert.False(t, IsGroup(ap))

	ap.MaxParticipants = 3
	assert.Equal(t, 3, Capacity(ap))
	assert.True(t, IsGroup(ap))
}

func TestRequestBooking(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("available becomes pending", func(t *testing.T) {
		ap := singleSlot()
		require.NoError(t, RequestBooking(ap, "u-1", "u1@example.com", now))

		assert.Equal(t, string(StatusPending), ap.Status)
		assert.Equal(t, "u-1", ap.UserID)
		assert.Equal(t, "u1@example.com", ap.UserEmail)
		assert.Equal(t, "2026-09-01T12:00:00Z", ap.RequestedAt)
	})

	t.Run("second request is rejected", func(t *testing.T) {
		ap := singleSlot()
		require.NoError(t, RequestBooking(ap, "u-1", "u1@example.com", now))

		err := RequestBooking(ap, "u-2", "u2@example.com", now)
		assert.True(t, httperr.IsBusiness(err, "not_available"))
		assert.Equal(t, "u-1", ap.UserID)
	})

	t.Run("group slots cannot be requested", func(t *testing.T) {
		err := RequestBooking(groupSlot(3), "u-1", "u1@example.com", now)
		assert.True(t, httperr.IsBusiness(err, "group_booking"))
	})
}

func TestApprove(t *testing.T) {
	ap := singleSlot()
	ap.Status = string(StatusPending)

	require.NoError(t, Approve(ap))
	assert.Equal(t, string(StatusOccupied), ap.Status)

	err := Approve(ap)
	assert.True(t, httperr.IsBusiness(err, "not_available"))
}

func TestAssign(t *testing.T) {
	t.Run("available slot", func(t *testing.T) {
		ap := singleSlot()
		require.NoError(t, Assign(ap, "u-9", "u9@example.com"))

		assert.Equal(t, string(StatusOccupied), ap.Status)
		assert.Equal(t, "u-9", ap.UserID)
		assert.Equal(t, "u9@example.com", ap.UserEmail)
	})

	t.Run("pending slot is rejected", func(t *testing.T) {
		ap := singleSlot()
		ap.Status = string(StatusPending)

		err := Assign(ap, "u-9", "u9@example.com")
		assert.True(t, httperr.IsBusiness(err, "not_available_for_assignment"))
	})
}

func TestCancellationFlow(t *testing.T) {
	t.Run("occupied to cancellation pending to cancelled", func(t *testing.T) {
		ap := singleSlot()
		require.NoError(t, Assign(ap, "u-1", "u1@example.com"))

		require.NoError(t, RequestCancellation(ap, "schedule conflict"))
		assert.Equal(t, string(StatusCancellationPending), ap.Status)
		assert.Equal(t, "schedule conflict", ap.Notes)

		require.NoError(t, ApproveCancellation(ap))
		assert.Equal(t, string(StatusCancelled), ap.Status)
		assert.Empty(t, ap.UserID)
		assert.Empty(t, ap.UserEmail)
	})

	t.Run("pending can be cancelled directly", func(t *testing.T) {
		ap := singleSlot()
		ap.Status = string(StatusPending)
		assert.NoError(t, ApproveCancellation(ap))
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		ap := singleSlot()
		ap.Status = string(StatusCancelled)

		assert.True(t, httperr.IsBusiness(RequestCancellation(ap, "x"), "not_cancellable"))
		assert.True(t, httperr.IsBusiness(ApproveCancellation(ap), "cancellation_not_approvable"))
	})

	t.Run("available has nothing to cancel", func(t *testing.T) {
		err := RequestCancellation(singleSlot(), "x")
		assert.True(t, httperr.IsBusiness(err, "not_cancellable"))
	})
}

func TestJoin(t *testing.T) {
	t.Run("fills up to capacity", func(t *testing.T) {
		ap := groupSlot(3)

		require.NoError(t, Join(ap, participant("u-1")))
		assert.Equal(t, string(StatusAvailable), ap.Status)
		assert.Equal(t, 1, ap.CurrentParticipants)

		require.NoError(t, Join(ap, participant("u-2")))
		require.NoError(t, Join(ap, participant("u-3")))

		assert.Equal(t, string(StatusOccupied), ap.Status)
		assert.Equal(t, 3, ap.CurrentParticipants)

		err := Join(ap, participant("u-4"))
		assert.True(t, httperr.IsBusiness(err, "appointment_full"))
	})

	t.Run("duplicate join is rejected", func(t *testing.T) {
		ap := groupSlot(3)
		require.NoError(t, Join(ap, participant("u-1")))

		err := Join(ap, participant("u-1"))
		assert.True(t, httperr.IsBusiness(err, "already_joined"))
		assert.Equal(t, 1, ap.CurrentParticipants)
	})

	t.Run("single slot cannot be joined", func(t *testing.T) {
		err := Join(singleSlot(), participant("u-1"))
		assert.True(t, httperr.IsBusiness(err, "not_group"))
	})

	t.Run("rejoining after leaving adds a fresh entry", func(t *testing.T) {
		ap := groupSlot(3)
		now := time.Now()

		require.NoError(t, Join(ap, participant("u-1")))
		require.NoError(t, Leave(ap, "u-1", "sick", now))
		require.NoError(t, Join(ap, participant("u-1")))

		assert.Len(t, ap.Participants, 2)
		assert.Equal(t, 1, ConfirmedCount(ap))
	})
}

func TestLeave(t *testing.T) {
	now := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)

	t.Run("entry flips but stays on the roster", func(t *testing.T) {
		ap := groupSlot(2)
		require.NoError(t, Join(ap, participant("u-1")))
		require.NoError(t, Join(ap, participant("u-2")))
		require.Equal(t, string(StatusOccupied), ap.Status)

		require.NoError(t, Leave(ap, "u-1", "sick", now))

		assert.Len(t, ap.Participants, 2)
		assert.Equal(t, models.ParticipantCancelled, ap.Participants[0].Status)
		assert.Equal(t, "sick", ap.Participants[0].CancelReason)
		assert.Equal(t, "2026-09-02T09:00:00Z", ap.Participants[0].CancelledAt)
		assert.Equal(t, 1, ap.CurrentParticipants)
		assert.Equal(t, string(StatusAvailable), ap.Status)
	})

	t.Run("non member cannot leave", func(t *testing.T) {
		ap := groupSlot(2)
		err := Leave(ap, "u-1", "", now)
		assert.True(t, httperr.IsBusiness(err, "not_participant"))
	})

	t.Run("leaving twice fails", func(t *testing.T) {
		ap := groupSlot(2)
		require.NoError(t, Join(ap, participant("u-1")))
		require.NoError(t, Leave(ap, "u-1", "", now))

		err := Leave(ap, "u-1", "", now)
		assert.True(t, httperr.IsBusiness(err, "not_participant"))
	})
}

func TestCanDelete(t *testing.T) {
	assert.NoError(t, CanDelete(singleSlot()))

	occupied := singleSlot()
	occupied.Status = string(StatusOccupied)
	assert.True(t, httperr.IsBusiness(CanDelete(occupied), "not_deletable"))

	withHistory := groupSlot(3)
	require.NoError(t, Join(withHistory, participant("u-1")))
	require.NoError(t, Leave(withHistory, "u-1", "", time.Now()))
	assert.True(t, httperr.IsBusiness(CanDelete(withHistory), "not_deletable"))
}

func TestEndOfWindow(t *testing.T) {
	ap := singleSlot()
	end, ok := EndOfWindow(ap)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC), end)

	ap.EndTime = ""
	_, ok = EndOfWindow(ap)
	assert.False(t, ok)

	ap.EndTime = "not-a-time"
	_, ok = EndOfWindow(ap)
	assert.False(t, ok)
}

func TestShouldAutoComplete(t *testing.T) {
	past := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)
	before := time.Date(2026, 9, 10, 10, 30, 0, 0, time.UTC)

	t.Run("occupied past its window", func(t *testing.T) {
		ap := singleSlot()
		ap.Status = string(StatusOccupied)

		assert.True(t, ShouldAutoComplete(ap, past))
		assert.False(t, ShouldAutoComplete(ap, before))
	})

	t.Run("group with confirmed members", func(t *testing.T) {
		ap := groupSlot(5)
		require.NoError(t, Join(ap, participant("u-1")))

		assert.True(t, ShouldAutoComplete(ap, past))
	})

	t.Run("empty available slot never completes", func(t *testing.T) {
		assert.False(t, ShouldAutoComplete(singleSlot(), past))
	})

	t.Run("missing window is skipped", func(t *testing.T) {
		ap := singleSlot()
		ap.Status = string(StatusOccupied)
		ap.Date = ""
		assert.False(t, ShouldAutoComplete(ap, past))
	})

	t.Run("terminal states are skipped", func(t *testing.T) {
		ap := singleSlot()
		ap.Status = string(StatusCompleted)
		assert.False(t, ShouldAutoComplete(ap, past))
	})
}

func TestShouldExpire(t *testing.T) {
	past := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)

	t.Run("stale empty slot expires", func(t *testing.T) {
		assert.True(t, ShouldExpire(singleSlot(), past))
	})

	t.Run("future slot survives", func(t *testing.T) {
		future := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
		assert.False(t, ShouldExpire(singleSlot(), future))
	})

	t.Run("any roster entry blocks expiry", func(t *testing.T) {
		ap := groupSlot(3)
		require.NoError(t, Join(ap, participant("u-1")))
		require.NoError(t, Leave(ap, "u-1", "", time.Now()))
		require.Equal(t, string(StatusAvailable), ap.Status)

		assert.False(t, ShouldExpire(ap, past))
	})

	t.Run("non available status never expires", func(t *testing.T) {
		ap := singleSlot()
		ap.Status = string(StatusPending)
		assert.False(t, ShouldExpire(ap, past))
	})
}
