package socket

import (
	"context"

	"go.uber.org/zap"

	"ideaswipe_server/models"
)

// Notifier pushes domain events into personal and conversation rooms. Delivery is
// best effort; clients reconcile against the notification feed.
type Notifier struct {
	rooms Broadcaster
	log   *zap.SugaredLogger
}

func NewNotifier(rooms Broadcaster, log *zap.SugaredLogger) *Notifier {
	return &Notifier{rooms: rooms, log: log}
}

func (n *Notifier) emit(room, event string, payload interface{}) {
	if !n.rooms.BroadcastToRoom(namespace, room, event, payload) {
		n.log.Debugw("broadcast skipped", "room", room, "event", event)
	}
}

func (n *Notifier) NotifyMatch(_ context.Context, match models.MatchView) {
	n.emit(UserRoom(match.UserA), "match_notification", match)
	n.emit(UserRoom(match.UserB), "match_notification", match)
}

func (n *Notifier) NotifyNewRequest(_ context.Context, req models.RequestView) {
	n.emit(UserRoom(req.IdeaOwnerID), "new_request_notification", req)
}

func (n *Notifier) NotifyRequestAccepted(_ context.Context, req models.RequestView) {
	n.emit(UserRoom(req.RequesterID), "request_accepted_notification", req)
}

func (n *Notifier) NotifyMessage(_ context.Context, msg models.MessageView) {
	n.emit(MatchRoom(msg.MatchID), "message", msg)
}
