package models

import "time"

// Match pairs two users over one idea. UserA is always the lexically smaller id.
type Match struct {
	MatchID   string    `dynamodbav:"matchId" json:"id"`
	UserA     string    `dynamodbav:"userA" json:"userA"`
	UserB     string    `dynamodbav:"userB" json:"userB"`
	IdeaID    string    `dynamodbav:"ideaId" json:"ideaId"`
	ReadByA   bool      `dynamodbav:"readByA" json:"readByA"`
	ReadByB   bool      `dynamodbav:"readByB" json:"readByB"`
	Source    string    `dynamodbav:"source" json:"source"`
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

func (m *Match) HasParticipant(userID string) bool {
	return m.UserA == userID || m.UserB == userID
}

// Counterpart returns the other participant.
func (m *Match) Counterpart(userID string) string {
	if m.UserA == userID {
		return m.UserB
	}
	return m.UserA
}

func (m *Match) ReadBy(userID string) bool {
	if m.UserA == userID {
		return m.ReadByA
	}
	return m.ReadByB
}

// MatchView is a fully resolved match, the payload of match_notification.
type MatchView struct {
	Match
	Users []UserProfile `json:"users"`
	Idea  IdeaSummary   `json:"idea"`
}
