package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ideaswipe_server/apperrors"
	"ideaswipe_server/models"
	"ideaswipe_server/repositories"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200

	// MaxMessageLength caps message content in characters for every sender.
	MaxMessageLength = 4000
)

// ChatService stores and relays messages between the two users of a match.
type ChatService struct {
	resolver
	matchRepo repositories.MatchRepository
	messages  repositories.MessageRepository
	matches   *MatchService
	notifier  Notifier
	now       func() time.Time
}

func NewChatService(store *repositories.Store, matches *MatchService, notifier Notifier, log *zap.SugaredLogger) *ChatService {
	return &ChatService{
		resolver:  resolver{ideas: store.Ideas, users: store.Users, log: log},
		matchRepo: store.Matches,
		messages:  store.Messages,
		matches:   matches,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SendMessage persists a message from senderID and pushes it to the conversation.
// The counterpart's read flag is cleared so the match shows as unread for them.
func (s *ChatService) SendMessage(ctx context.Context, matchID, senderID, content, attachmentKey string) (*models.MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" && attachmentKey == "" {
		return nil, apperrors.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, apperrors.ErrMessageTooLong
	}
	match, err := s.matches.participantMatch(ctx, matchID, senderID)
	if err != nil {
		return nil, err
	}
	if attachmentKey != "" && !strings.HasPrefix(attachmentKey, AttachmentPrefix(matchID)) {
		return nil, apperrors.ErrInvalidAttachment
	}

	now := s.now()
	id := uuid.NewString()
	msg := &models.Message{
		MatchID:       matchID,
		SortKey:       sortKey(now, id),
		MessageID:     id,
		SenderID:      senderID,
		Content:       content,
		AttachmentKey: attachmentKey,
		CreatedAt:     now,
	}
	if err := s.messages.InsertMessage(ctx, msg); err != nil {
		return nil, s.internal("insert message", err, "matchId", matchID)
	}

	counterpart := match.Counterpart(senderID)
	if err := s.matchRepo.UpdateReadFlag(ctx, matchID, readFlagFor(match, counterpart), false); err != nil {
		s.log.Warnw("clear read flag failed", "matchId", matchID, "userId", counterpart, "error", err)
	}

	profiles, err := s.profiles(ctx, senderID)
	if err != nil {
		return nil, s.internal("resolve sender", err, "userId", senderID)
	}
	view := models.MessageView{Message: *msg, Sender: profiles[senderID]}
	s.notifier.NotifyMessage(ctx, view)
	return &view, nil
}

// ListMessages returns the latest messages of a conversation, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, matchID, userID string, limit int) ([]models.Message, error) {
	if _, err := s.matches.participantMatch(ctx, matchID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	msgs, err := s.messages.ListMessages(ctx, matchID, limit)
	if err != nil {
		return nil, s.internal("list messages", err, "matchId", matchID)
	}
	return msgs, nil
}

// CanJoin reports whether userID may subscribe to the match's conversation channel.
func (s *ChatService) CanJoin(ctx context.Context, matchID, userID string) error {
	_, err := s.matches.participantMatch(ctx, matchID, userID)
	return err
}
