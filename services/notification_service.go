package services

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"ideaswipe_server/apperrors"
	"ideaswipe_server/models"
	"ideaswipe_server/repositories"
)

// UnreadMessage is the newest unread message of one conversation, resolved for display.
type UnreadMessage struct {
	Message models.Message
	Sender  models.UserProfile
	Idea    models.IdeaSummary
}

// FeedSources is everything the feed is derived from for one user.
type FeedSources struct {
	Received []models.RequestView
	Sent     []models.RequestView
	Unread   []UnreadMessage
}

// BuildFeed projects request and message state onto userID's notification feed.
// It performs no I/O and keeps no state.
func BuildFeed(userID string, src FeedSources) models.NotificationFeed {
	notifications := []models.Notification{}

	for _, req := range src.Received {
		if req.IdeaOwnerID != userID || !req.Pending() || req.Viewed {
			continue
		}
		notifications = append(notifications, models.Notification{
			Type:      models.NotificationTypeRequest,
			ID:        req.RequestID,
			CreatedAt: req.CreatedAt,
			Data:      req,
		})
	}

	for _, req := range src.Sent {
		if req.RequesterID != userID || req.Status != models.RequestStatusAccepted || req.AcceptedSeen {
			continue
		}
		notifications = append(notifications, models.Notification{
			Type:      models.NotificationTypeRequestAccepted,
			ID:        req.RequestID,
			CreatedAt: req.UpdatedAt,
			Data:      req,
		})
	}

	for _, u := range src.Unread {
		if u.Message.SenderID == userID || u.Message.Read {
			continue
		}
		notifications = append(notifications, models.Notification{
			Type:      models.NotificationTypeMessage,
			ID:        u.Message.MessageID,
			CreatedAt: u.Message.CreatedAt,
			Data: models.MessageNotificationData{
				MatchID:   u.Message.MatchID,
				MessageID: u.Message.MessageID,
				Content:   u.Message.Content,
				Sender:    u.Sender,
				Idea:      u.Idea,
			},
		})
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		a, b := notifications[i], notifications[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Type < b.Type
	})

	return models.NotificationFeed{Notifications: notifications, UnreadCount: len(notifications)}
}

// NotificationService reads the feed and maps read/delete actions onto the
// underlying requests and messages.
type NotificationService struct {
	resolver
	requests   repositories.RequestRepository
	matchRepo  repositories.MatchRepository
	messages   repositories.MessageRepository
	matches    *MatchService
	requestSvc *RequestService
}

func NewNotificationService(store *repositories.Store, matches *MatchService, requests *RequestService, log *zap.SugaredLogger) *NotificationService {
	return &NotificationService{
		resolver:   resolver{ideas: store.Ideas, users: store.Users, log: log},
		requests:   store.Requests,
		matchRepo:  store.Matches,
		messages:   store.Messages,
		matches:    matches,
		requestSvc: requests,
	}
}

// sources loads the state BuildFeed needs. Requests that cannot surface are dropped
// before resolution.
func (s *NotificationService) sources(ctx context.Context, userID string) (FeedSources, error) {
	var src FeedSources

	received, err := s.requests.ListRequestsByOwner(ctx, userID)
	if err != nil {
		return src, err
	}
	sent, err := s.requests.ListRequestsByRequester(ctx, userID)
	if err != nil {
		return src, err
	}

	var pending, accepted []models.Request
	for _, r := range received {
		if r.Pending() && !r.Viewed {
			pending = append(pending, r)
		}
	}
	for _, r := range sent {
		if r.Status == models.RequestStatusAccepted && !r.AcceptedSeen {
			accepted = append(accepted, r)
		}
	}
	if src.Received, err = s.requestViews(ctx, pending); err != nil {
		return src, err
	}
	if src.Sent, err = s.requestViews(ctx, accepted); err != nil {
		return src, err
	}

	matches, err := s.matchRepo.ListMatchesByUser(ctx, userID)
	if err != nil {
		return src, err
	}
	var latest []models.Message
	var senderIDs, ideaIDs []string
	for _, m := range matches {
		msg, err := s.messages.LatestUnread(ctx, m.MatchID, userID)
		if err != nil {
			return src, err
		}
		if msg == nil {
			continue
		}
		latest = append(latest, *msg)
		senderIDs = append(senderIDs, msg.SenderID)
		ideaIDs = append(ideaIDs, m.IdeaID)
	}
	if len(latest) == 0 {
		return src, nil
	}

	profiles, err := s.profiles(ctx, senderIDs...)
	if err != nil {
		return src, err
	}
	ideas, err := s.ideaSummaries(ctx, ideaIDs...)
	if err != nil {
		return src, err
	}
	for i, msg := range latest {
		src.Unread = append(src.Unread, UnreadMessage{
			Message: msg,
			Sender:  profiles[msg.SenderID],
			Idea:    ideas[ideaIDs[i]],
		})
	}
	return src, nil
}

// List returns the user's notification feed, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) (models.NotificationFeed, error) {
	src, err := s.sources(ctx, userID)
	if err != nil {
		return models.NotificationFeed{}, s.internal("load notification sources", err, "userId", userID)
	}
	return BuildFeed(userID, src), nil
}

// receivedMessage loads a message and checks userID is its recipient.
func (s *NotificationService) receivedMessage(ctx context.Context, userID, messageID string) (*models.Message, error) {
	msg, err := s.messages.GetMessage(ctx, messageID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrMessageNotFound
	}
	if err != nil {
		return nil, s.internal("get message", err, "messageId", messageID)
	}
	match, err := s.matchRepo.GetMatch(ctx, msg.MatchID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrMatchNotFound
	}
	if err != nil {
		return nil, s.internal("get match", err, "matchId", msg.MatchID)
	}
	if !match.HasParticipant(userID) || msg.SenderID == userID {
		return nil, apperrors.ErrNotRecipient
	}
	return msg, nil
}

func (s *NotificationService) request(ctx context.Context, requestID string) (*models.Request, error) {
	req, err := s.requests.GetRequest(ctx, requestID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrRequestNotFound
	}
	if err != nil {
		return nil, s.internal("get request", err, "requestId", requestID)
	}
	return req, nil
}

func (s *NotificationService) markAcceptedSeen(ctx context.Context, userID, requestID string) error {
	req, err := s.request(ctx, requestID)
	if err != nil {
		return err
	}
	if req.RequesterID != userID {
		return apperrors.ErrNotRecipient
	}
	if req.Status != models.RequestStatusAccepted {
		return apperrors.ErrRequestNotFound
	}
	if err := s.requests.MarkAcceptedSeen(ctx, []string{requestID}); err != nil {
		return s.internal("mark accepted seen", err, "requestId", requestID)
	}
	return nil
}

// MarkRead resolves one notification without touching anything else.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id, notificationType string) error {
	switch notificationType {
	case models.NotificationTypeMessage:
		msg, err := s.receivedMessage(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := s.messages.MarkMessagesRead(ctx, []models.Message{*msg}); err != nil {
			return s.internal("mark message read", err, "messageId", id)
		}
		return nil

	case models.NotificationTypeRequest:
		req, err := s.request(ctx, id)
		if err != nil {
			return err
		}
		if req.IdeaOwnerID != userID {
			return apperrors.ErrNotRecipient
		}
		if err := s.requests.MarkRequestsViewed(ctx, []string{id}); err != nil {
			return s.internal("mark request viewed", err, "requestId", id)
		}
		return nil

	case models.NotificationTypeRequestAccepted:
		return s.markAcceptedSeen(ctx, userID, id)

	default:
		return apperrors.ErrUnknownType
	}
}

// MarkAllRead clears the whole feed: counterpart messages in every match, pending
// requests on the user's ideas and unseen acceptances of the user's requests. Each
// table is swept with one batched write.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	matches, err := s.matchRepo.ListMatchesByUser(ctx, userID)
	if err != nil {
		return 0, s.internal("list matches", err, "userId", userID)
	}
	var unread []models.Message
	for _, m := range matches {
		msgs, err := s.messages.ListUnread(ctx, m.MatchID, userID)
		if err != nil {
			return 0, s.internal("list unread", err, "matchId", m.MatchID)
		}
		unread = append(unread, msgs...)
	}

	received, err := s.requests.ListRequestsByOwner(ctx, userID)
	if err != nil {
		return 0, s.internal("list received requests", err, "userId", userID)
	}
	sent, err := s.requests.ListRequestsByRequester(ctx, userID)
	if err != nil {
		return 0, s.internal("list sent requests", err, "userId", userID)
	}
	var viewed, seen []string
	for _, r := range received {
		if r.Pending() && !r.Viewed {
			viewed = append(viewed, r.RequestID)
		}
	}
	for _, r := range sent {
		if r.Status == models.RequestStatusAccepted && !r.AcceptedSeen {
			seen = append(seen, r.RequestID)
		}
	}

	if err := s.messages.MarkMessagesRead(ctx, unread); err != nil {
		return 0, s.internal("mark messages read", err, "userId", userID)
	}
	if err := s.requests.MarkRequestsViewed(ctx, viewed); err != nil {
		return 0, s.internal("mark requests viewed", err, "userId", userID)
	}
	if err := s.requests.MarkAcceptedSeen(ctx, seen); err != nil {
		return 0, s.internal("mark accepted seen", err, "userId", userID)
	}

	for _, m := range matches {
		if m.ReadBy(userID) {
			continue
		}
		if err := s.matchRepo.UpdateReadFlag(ctx, m.MatchID, readFlagFor(&m, userID), true); err != nil {
			s.log.Warnw("set read flag failed", "matchId", m.MatchID, "error", err)
		}
	}

	total := len(unread) + len(viewed) + len(seen)
	s.log.Infow("notifications cleared", "userId", userID, "messages", len(unread), "requests", len(viewed), "accepted", len(seen))
	return total, nil
}

// Delete has no state of its own. A message notification catches up the whole
// conversation and a request notification rejects the request.
func (s *NotificationService) Delete(ctx context.Context, userID, id, notificationType string) error {
	switch notificationType {
	case models.NotificationTypeMessage:
		msg, err := s.receivedMessage(ctx, userID, id)
		if err != nil {
			return err
		}
		_, err = s.matches.MarkViewed(ctx, msg.MatchID, userID)
		return err

	case models.NotificationTypeRequest:
		return s.requestSvc.Reject(ctx, id, userID)

	case models.NotificationTypeRequestAccepted:
		return s.markAcceptedSeen(ctx, userID, id)

	default:
		return apperrors.ErrUnknownType
	}
}
