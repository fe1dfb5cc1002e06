package models

// Participant statuses. A roster entry is never removed once added;
// leaving a group flips the entry to CANCELLED.
const (
	ParticipantConfirmed = "CONFIRMED"
	ParticipantCancelled = "CANCELLED"
)

type Participant struct {
	UserID       string `dynamodbav:"userId" json:"userId"`
	UserEmail    string `dynamodbav:"userEmail" json:"userEmail"`
	UserName     string `dynamodbav:"userName" json:"userName"`
	JoinedAt     string `dynamodbav:"joinedAt" json:"joinedAt"`
	Status       string `dynamodbav:"status" json:"status"`
	CancelledAt  string `dynamodbav:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancelReason string `dynamodbav:"cancelReason,omitempty" json:"cancelReason,omitempty"`
}

type Appointment struct {
	PK   string `dynamodbav:"PK" json:"-"`
	SK   string `dynamodbav:"SK" json:"-"`
	Type string `dynamodbav:"Type" json:"-"`

	GSI1PK string `dynamodbav:"GSI1PK,omitempty" json:"-"`
	GSI1SK string `dynamodbav:"GSI1SK,omitempty" json:"-"`

	AppointmentID string `dynamodbav:"appointmentId" json:"appointmentId"`
	TherapyID     string `dynamodbav:"therapyId" json:"therapyId"`

	Date      string `dynamodbav:"date" json:"date"`
	StartTime string `dynamodbav:"startTime" json:"startTime"`
	EndTime   string `dynamodbav:"endTime" json:"endTime"`

	MaxParticipants     int           `dynamodbav:"maxParticipants" json:"maxParticipants"`
	CurrentParticipants int           `dynamodbav:"currentParticipants" json:"currentParticipants"`
	Participants        []Participant `dynamodbav:"participants" json:"participants"`

	// Single-occupant assignee. Empty for group appointments.
	UserID    string `dynamodbav:"userId,omitempty" json:"userId,omitempty"`
	UserEmail string `dynamodbav:"userEmail,omitempty" json:"userEmail,omitempty"`

	Status     string `dynamodbav:"status" json:"status"`
	Notes      string `dynamodbav:"notes,omitempty" json:"notes,omitempty"`
	AdminNotes string `dynamodbav:"adminNotes,omitempty" json:"adminNotes,omitempty"`

	RequestedAt string `dynamodbav:"requestedAt,omitempty" json:"requestedAt,omitempty"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

func NewAppointmentKeys(therapyID, appointmentID string) (pk, sk string) {
	return TherapyKey(therapyID), AppointmentKey(appointmentID)
}
