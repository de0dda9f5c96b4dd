package models

import "time"

type Swipe struct {
	SwipeID   string    `dynamodbav:"swipeId" json:"id"`
	UserID    string    `dynamodbav:"userId" json:"userId"`       // PK
	IdeaID    string    `dynamodbav:"ideaId" json:"ideaId"`       // SK; PK of IdeaLikes
	Direction string    `dynamodbav:"direction" json:"direction"` // left or right
	SortKey   string    `dynamodbav:"sortKey" json:"-"`           // SK of IdeaLikes
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
}
