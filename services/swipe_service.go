package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ideaswipe_server/apperrors"
	"ideaswipe_server/models"
	"ideaswipe_server/repositories"
)

// SwipeService records like/pass decisions and forms matches on mutual right swipes.
type SwipeService struct {
	resolver
	swipes   repositories.SwipeRepository
	tallies  repositories.TallyCounter
	matches  *MatchService
	notifier Notifier
	now      func() time.Time
}

func NewSwipeService(store *repositories.Store, matches *MatchService, notifier Notifier, log *zap.SugaredLogger) *SwipeService {
	return &SwipeService{
		resolver: resolver{ideas: store.Ideas, users: store.Users, log: log},
		swipes:   store.Swipes,
		tallies:  store.Tallies,
		matches:  matches,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecordSwipe stores the decision once per (user, idea). A repeated submission is a
// no-op returning nil. A right swipe that finds an earlier right swipe by another
// user on the same idea returns the resulting match.
func (s *SwipeService) RecordSwipe(ctx context.Context, userID, ideaID, direction string) (*models.MatchView, error) {
	if direction != models.DirectionLeft && direction != models.DirectionRight {
		return nil, apperrors.ErrInvalidDirection
	}

	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrIdeaNotFound
	}
	if err != nil {
		return nil, s.internal("get idea", err, "ideaId", ideaID)
	}
	if !idea.Active {
		return nil, apperrors.ErrIdeaInactive
	}
	if idea.OwnerID == userID {
		return nil, apperrors.ErrOwnIdeaSwipe
	}

	now := s.now()
	swipe := &models.Swipe{
		SwipeID:   uuid.NewString(),
		UserID:    userID,
		IdeaID:    ideaID,
		Direction: direction,
		SortKey:   sortKey(now, userID),
		CreatedAt: now,
	}
	err = s.swipes.InsertSwipe(ctx, swipe)
	if errors.Is(err, repositories.ErrDuplicate) {
		s.log.Debugw("duplicate swipe ignored", "userId", userID, "ideaId", ideaID)
		return nil, nil
	}
	if err != nil {
		return nil, s.internal("insert swipe", err, "userId", userID, "ideaId", ideaID)
	}

	if err := s.tallies.Increment(ctx, ideaID, direction); err != nil {
		s.log.Warnw("tally increment failed", "ideaId", ideaID, "error", err)
	}

	if direction != models.DirectionRight {
		return nil, nil
	}

	partner, err := s.swipes.FirstRightSwipe(ctx, ideaID, userID)
	if err != nil {
		return nil, s.internal("find partner swipe", err, "ideaId", ideaID)
	}
	if partner == nil {
		return nil, nil
	}

	view, created, err := s.matches.CreateIfAbsent(ctx, userID, partner.UserID, ideaID, models.MatchSourceSwipe)
	if err != nil {
		return nil, err
	}
	if created {
		s.notifier.NotifyMatch(ctx, *view)
	}
	return view, nil
}

// ListSwipes returns the user's swipe history.
func (s *SwipeService) ListSwipes(ctx context.Context, userID string) ([]models.Swipe, error) {
	swipes, err := s.swipes.ListSwipesByUser(ctx, userID)
	if err != nil {
		return nil, s.internal("list swipes", err, "userId", userID)
	}
	return swipes, nil
}

// GetTally returns the aggregate like/pass counters for an idea.
func (s *SwipeService) GetTally(ctx context.Context, ideaID string) (models.IdeaTally, error) {
	if _, err := s.ideas.GetIdea(ctx, ideaID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.IdeaTally{}, apperrors.ErrIdeaNotFound
		}
		return models.IdeaTally{}, s.internal("get idea", err, "ideaId", ideaID)
	}
	tally, err := s.tallies.Get(ctx, ideaID)
	if err != nil {
		return models.IdeaTally{}, s.internal("get tally", err, "ideaId", ideaID)
	}
	return tally, nil
}
