package models

import "time"

type Message struct {
	MatchID       string    `dynamodbav:"matchId" json:"matchId"` // PK
	SortKey       string    `dynamodbav:"sortKey" json:"-"`       // SK, createdAt#messageId
	MessageID     string    `dynamodbav:"messageId" json:"id"`
	SenderID      string    `dynamodbav:"senderId" json:"senderId"`
	Content       string    `dynamodbav:"content" json:"content"`
	AttachmentKey string    `dynamodbav:"attachmentKey,omitempty" json:"attachmentKey,omitempty"`
	Read          bool      `dynamodbav:"read" json:"read"`
	CreatedAt     time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// MessageView is the payload of the realtime message event.
type MessageView struct {
	Message
	Sender UserProfile `json:"sender"`
}
