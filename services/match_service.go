package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"ideaswipe_server/apperrors"
	"ideaswipe_server/models"
	"ideaswipe_server/repositories"
)

// MatchService is the single writer of matches. Both the swipe and the request
// pathways go through CreateIfAbsent.
type MatchService struct {
	resolver
	matches  repositories.MatchRepository
	messages repositories.MessageRepository
	now      func() time.Time
}

func NewMatchService(store *repositories.Store, log *zap.SugaredLogger) *MatchService {
	return &MatchService{
		resolver: resolver{ideas: store.Ideas, users: store.Users, log: log},
		matches:  store.Matches,
		messages: store.Messages,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateIfAbsent returns the match between userA and userB over ideaID, creating it
// when none exists. created reports whether this call wrote it. A caller that loses
// the insert race reads back the winner's row.
func (s *MatchService) CreateIfAbsent(ctx context.Context, userA, userB, ideaID, source string) (view *models.MatchView, created bool, err error) {
	if userA == userB {
		return nil, false, apperrors.InvalidRequest("a match needs two distinct users")
	}
	lo, hi := CanonicalPair(userA, userB)
	match := &models.Match{
		MatchID:   MatchIDFor(ideaID, lo, hi),
		UserA:     lo,
		UserB:     hi,
		IdeaID:    ideaID,
		Source:    source,
		CreatedAt: s.now(),
	}

	err = s.matches.InsertMatch(ctx, match)
	switch {
	case err == nil:
		created = true
		s.log.Infow("match created", "matchId", match.MatchID, "ideaId", ideaID, "source", source)
	case errors.Is(err, repositories.ErrDuplicate):
		existing, getErr := s.matches.GetMatch(ctx, match.MatchID)
		if getErr != nil {
			return nil, false, s.internal("read back existing match", getErr, "matchId", match.MatchID)
		}
		match = existing
		s.log.Debugw("match already exists", "matchId", match.MatchID, "source", source)
	default:
		return nil, false, s.internal("insert match", err, "matchId", match.MatchID)
	}

	views, err := s.matchViews(ctx, []models.Match{*match})
	if err != nil {
		return nil, false, s.internal("resolve match", err, "matchId", match.MatchID)
	}
	return &views[0], created, nil
}

// Exists reports whether userA and userB are matched over ideaID.
func (s *MatchService) Exists(ctx context.Context, userA, userB, ideaID string) (bool, error) {
	matchID := MatchIDFor(ideaID, userA, userB)
	_, err := s.matches.GetMatch(ctx, matchID)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.internal("get match", err, "matchId", matchID)
	}
	return true, nil
}

// ListForUser returns every match the user is part of, newest first.
func (s *MatchService) ListForUser(ctx context.Context, userID string) ([]models.MatchView, error) {
	matches, err := s.matches.ListMatchesByUser(ctx, userID)
	if err != nil {
		return nil, s.internal("list matches", err, "userId", userID)
	}
	views, err := s.matchViews(ctx, matches)
	if err != nil {
		return nil, s.internal("resolve matches", err, "userId", userID)
	}
	return views, nil
}

// participantMatch loads a match and checks userID belongs to it.
func (s *MatchService) participantMatch(ctx context.Context, matchID, userID string) (*models.Match, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrMatchNotFound
	}
	if err != nil {
		return nil, s.internal("get match", err, "matchId", matchID)
	}
	if !match.HasParticipant(userID) {
		return nil, apperrors.ErrNotParticipant
	}
	return match, nil
}

// GetForParticipant fetches one match, visible only to its two users.
func (s *MatchService) GetForParticipant(ctx context.Context, matchID, userID string) (*models.MatchView, error) {
	match, err := s.participantMatch(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}
	views, err := s.matchViews(ctx, []models.Match{*match})
	if err != nil {
		return nil, s.internal("resolve match", err, "matchId", matchID)
	}
	return &views[0], nil
}

// MarkViewed records that userID has caught up on the conversation: their read flag
// is set and every unread message from the counterpart is marked read.
func (s *MatchService) MarkViewed(ctx context.Context, matchID, userID string) (int, error) {
	match, err := s.participantMatch(ctx, matchID, userID)
	if err != nil {
		return 0, err
	}
	if err := s.matches.UpdateReadFlag(ctx, matchID, readFlagFor(match, userID), true); err != nil {
		return 0, s.internal("set read flag", err, "matchId", matchID)
	}

	unread, err := s.messages.ListUnread(ctx, matchID, userID)
	if err != nil {
		return 0, s.internal("list unread", err, "matchId", matchID)
	}
	if err := s.messages.MarkMessagesRead(ctx, unread); err != nil {
		return 0, s.internal("mark messages read", err, "matchId", matchID)
	}
	return len(unread), nil
}

func readFlagFor(match *models.Match, userID string) string {
	if match.UserA == userID {
		return "readByA"
	}
	return "readByB"
}
