package models

const (
	RoleGuest = "GUEST"
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	PK   string `dynamodbav:"PK" json:"-"`
	SK   string `dynamodbav:"SK" json:"-"`
	Type string `dynamodbav:"Type" json:"-"`

	UserID    string `dynamodbav:"userId" json:"userId"`
	CognitoID string `dynamodbav:"cognitoId,omitempty" json:"cognitoId,omitempty"`

	Name     string `dynamodbav:"name" json:"name"`
	Email    string `dynamodbav:"email" json:"email"`
	Role     string `dynamodbav:"role" json:"role"`
	Approved bool   `dynamodbav:"approved" json:"approved"`

	// Free-text message given at sign-up, shown to the approving admin.
	Message string    `dynamodbav:"message,omitempty" json:"message,omitempty"`
	Avatar  *MediaRef `dynamodbav:"avatar,omitempty" json:"avatar,omitempty"`

	// bcrypt hash of the one-time registration token mailed on approval.
	RegistrationTokenHash string `dynamodbav:"registrationTokenHash,omitempty" json:"-"`

	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}
