package models

// Single-table key layout. Every item carries a PK/SK pair plus a Type
// attribute served by the TypeIndex.

const (
	TypeTherapy     = "Therapy"
	TypeAdvice      = "Advice"
	TypeAppointment = "Appointment"
	TypeUser        = "User"
	TypeAuditEvent  = "AuditEvent"
)

const (
	IndexType             = "TypeIndex"
	IndexEmail            = "EmailIndex"
	IndexUserAppointments = "UserAppointmentsIndex"
	IndexGSI1             = "GSI1"
)

func TherapyKey(therapyID string) string {
	return "THERAPY#" + therapyID
}

func AppointmentKey(appointmentID string) string {
	return "APPOINTMENT#" + appointmentID
}

func UserKey(userID string) string {
	return "USER#" + userID
}

func AdviceKey(adviceID string) string {
	return "ADVICE#" + adviceID
}

func DateKey(date string) string {
	return "DATE#" + date
}
