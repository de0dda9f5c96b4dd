package models

// Swipe directions
const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// Request statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// Match sources
const (
	MatchSourceSwipe   = "swipe"
	MatchSourceRequest = "request"
)

// Notification types
const (
	NotificationTypeRequest         = "request"
	NotificationTypeRequestAccepted = "request_accepted"
	NotificationTypeMessage         = "message"
)

// SortTimeFormat is a fixed-width timestamp so sort keys order lexically.
const SortTimeFormat = "2006-01-02T15:04:05.000000000Z"
