package models

type MediaRef struct {
	Key         string `dynamodbav:"key" json:"key"`
	URL         string `dynamodbav:"url" json:"url"`
	Size        int64  `dynamodbav:"size,omitempty" json:"size,omitempty"`
	ContentType string `dynamodbav:"contentType,omitempty" json:"contentType,omitempty"`
}

type Therapy struct {
	PK   string `dynamodbav:"PK" json:"-"`
	SK   string `dynamodbav:"SK" json:"-"`
	Type string `dynamodbav:"Type" json:"-"`

	GSI1PK string `dynamodbav:"GSI1PK,omitempty" json:"-"`
	GSI1SK string `dynamodbav:"GSI1SK,omitempty" json:"-"`

	TherapyID   string    `dynamodbav:"therapyId" json:"therapyId"`
	Title       string    `dynamodbav:"title" json:"title"`
	Description string    `dynamodbav:"description" json:"description"`
	Content     string    `dynamodbav:"content" json:"content"`
	Image       *MediaRef `dynamodbav:"image,omitempty" json:"image,omitempty"`

	IsGroup bool `dynamodbav:"isGroup" json:"isGroup"`
	// Default capacity inherited by new appointments. Zero means 1.
	MaxParticipants int `dynamodbav:"maxParticipants,omitempty" json:"maxParticipants,omitempty"`

	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}
