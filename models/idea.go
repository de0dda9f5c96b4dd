package models

// Idea is the part of an idea this service cares about; content lives elsewhere.
type Idea struct {
	IdeaID  string `dynamodbav:"ideaId" json:"id"`
	OwnerID string `dynamodbav:"ownerId" json:"ownerId"`
	Name    string `dynamodbav:"name" json:"name"`
	Active  bool   `dynamodbav:"active" json:"active"`
}

// IdeaSummary is embedded in event payloads.
type IdeaSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (i Idea) Summary() IdeaSummary {
	return IdeaSummary{ID: i.IdeaID, Name: i.Name}
}

// IdeaTally holds the aggregate swipe counters for an idea.
type IdeaTally struct {
	IdeaID string `json:"ideaId"`
	Likes  int64  `json:"likes"`
	Passes int64  `json:"passes"`
}
