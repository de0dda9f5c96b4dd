package models

import "time"

// Request is an explicit ask to collaborate on someone else's idea.
type Request struct {
	RequestID    string    `dynamodbav:"requestId" json:"id"`
	RequesterID  string    `dynamodbav:"requesterId" json:"requesterId"`
	IdeaOwnerID  string    `dynamodbav:"ideaOwnerId" json:"ideaOwnerId"`
	IdeaID       string    `dynamodbav:"ideaId" json:"ideaId"`
	Message      string    `dynamodbav:"message" json:"message"`
	Status       string    `dynamodbav:"status" json:"status"`
	Viewed       bool      `dynamodbav:"viewed" json:"viewed"`
	AcceptedSeen bool      `dynamodbav:"acceptedSeen" json:"acceptedSeen"`
	SortKey      string    `dynamodbav:"sortKey" json:"-"`
	CreatedAt    time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

func (r *Request) Pending() bool {
	return r.Status == RequestStatusPending
}

// RequestView is a request with its parties and idea resolved for clients.
type RequestView struct {
	Request
	Requester UserProfile `json:"requester"`
	Owner     UserProfile `json:"owner"`
	Idea      IdeaSummary `json:"idea"`
}
