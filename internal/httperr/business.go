package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Messages shown for business codes. Codes without an entry fall back to
// the code itself.
var businessMessages = map[string]string{
	"appointment_not_found":        "Appointment not found.",
	"therapy_not_found":            "Therapy not found.",
	"user_not_found":               "User not found.",
	"advice_not_found":             "Advice not found.",
	"not_available":                "Appointment is not available for booking.",
	"not_available_for_assignment": "Appointment is not available for assignment.",
	"not_group":                    "This appointment does not take group participation.",
	"group_booking":                "Group appointments are joined, not booked; use join-group.",
	"appointment_full":             "Appointment is full.",
	"already_joined":               "User already joined this appointment.",
	"not_participant":              "User is not actively joined to this appointment.",
	"not_cancellable":              "Appointment cannot be cancelled in its current state.",
	"cancellation_not_approvable":  "Only pending cancellations can be approved.",
	"has_participants":             "Appointment still has roster entries.",
	"not_deletable":                "Only available appointments with an empty roster can be deleted.",
	"user_exists":                  "A user with this email already exists.",
	"invalid_token":                "Invalid registration token.",
	"not_owner":                    "Only the appointment owner may request cancellation.",
}

var conflictCodes = map[string]bool{
	"already_joined":   true,
	"appointment_full": true,
	"has_participants": true,
	"not_deletable":    true,
	"user_exists":      true,
}

// WriteBusiness maps a business error to its HTTP response. Returns false
// when err is not a business error so the caller can fall through to 500.
func WriteBusiness(c *gin.Context, err error) bool {
	var be BusinessError
	if !errors.As(err, &be) {
		return false
	}

	msg, ok := businessMessages[be.Code]
	if !ok {
		msg = be.Code
	}

	status := http.StatusBadRequest
	switch {
	case strings.HasSuffix(be.Code, "_not_found"):
		status = http.StatusNotFound
	case conflictCodes[be.Code]:
		status = http.StatusConflict
	case be.Code == "not_owner":
		status = http.StatusForbidden
	}

	Write(c, status, be.Code, msg)
	return true
}
