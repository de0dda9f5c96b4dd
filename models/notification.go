package models

import "time"

// Notification is derived on every read from requests and messages. It is never stored.
type Notification struct {
	Type      string      `json:"type"`
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	Data      interface{} `json:"data"`
}

type NotificationFeed struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}

// MessageNotificationData is the data of a message notification.
type MessageNotificationData struct {
	MatchID   string      `json:"matchId"`
	MessageID string      `json:"messageId"`
	Content   string      `json:"content"`
	Sender    UserProfile `json:"sender"`
	Idea      IdeaSummary `json:"idea"`
}
