package models

type Advice struct {
	PK   string `dynamodbav:"PK" json:"-"`
	SK   string `dynamodbav:"SK" json:"-"`
	Type string `dynamodbav:"Type" json:"-"`

	GSI1PK string `dynamodbav:"GSI1PK,omitempty" json:"-"`
	GSI1SK string `dynamodbav:"GSI1SK,omitempty" json:"-"`

	AdviceID  string    `dynamodbav:"adviceId" json:"adviceId"`
	TherapyID string    `dynamodbav:"therapyId,omitempty" json:"therapyId,omitempty"`
	Title     string    `dynamodbav:"title" json:"title"`
	Content   string    `dynamodbav:"content" json:"content"`
	Image     *MediaRef `dynamodbav:"image,omitempty" json:"image,omitempty"`

	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}
