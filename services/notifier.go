package services

import (
	"context"

	"ideaswipe_server/models"
)

// Notifier delivers user-visible events. Delivery is fire-and-forget: implementations
// log their own failures and never block the write that produced the event.
type Notifier interface {
	NotifyMatch(ctx context.Context, match models.MatchView)
	NotifyNewRequest(ctx context.Context, req models.RequestView)
	NotifyRequestAccepted(ctx context.Context, req models.RequestView)
	NotifyMessage(ctx context.Context, msg models.MessageView)
}

// MultiNotifier fans every event out to each wrapped notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyMatch(ctx context.Context, match models.MatchView) {
	for _, n := range m {
		n.NotifyMatch(ctx, match)
	}
}

func (m MultiNotifier) NotifyNewRequest(ctx context.Context, req models.RequestView) {
	for _, n := range m {
		n.NotifyNewRequest(ctx, req)
	}
}

func (m MultiNotifier) NotifyRequestAccepted(ctx context.Context, req models.RequestView) {
	for _, n := range m {
		n.NotifyRequestAccepted(ctx, req)
	}
}

func (m MultiNotifier) NotifyMessage(ctx context.Context, msg models.MessageView) {
	for _, n := range m {
		n.NotifyMessage(ctx, msg)
	}
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) NotifyMatch(context.Context, models.MatchView)             {}
func (NopNotifier) NotifyNewRequest(context.Context, models.RequestView)      {}
func (NopNotifier) NotifyRequestAccepted(context.Context, models.RequestView) {}
func (NopNotifier) NotifyMessage(context.Context, models.MessageView)         {}
