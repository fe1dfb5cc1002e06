package models

type AuditEvent struct {
	PK   string `dynamodbav:"PK" json:"-"`
	SK   string `dynamodbav:"SK" json:"-"`
	Type string `dynamodbav:"Type" json:"-"`

	Action   string `dynamodbav:"action" json:"action"`
	Entity   string `dynamodbav:"entity" json:"entity"`
	EntityID string `dynamodbav:"entityId" json:"entityId"`
	ActorID  string `dynamodbav:"actorId,omitempty" json:"actorId,omitempty"`

	OccurredAt string `dynamodbav:"occurredAt" json:"occurredAt"`
}
