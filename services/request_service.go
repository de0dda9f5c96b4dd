package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"ideaswipe_server/apperrors"
	"ideaswipe_server/models"
	"ideaswipe_server/repositories"
)

// RequestService runs the ask-to-collaborate workflow: pending -> accepted | rejected.
type RequestService struct {
	resolver
	requests repositories.RequestRepository
	matches  *MatchService
	notifier Notifier
	now      func() time.Time
}

func NewRequestService(store *repositories.Store, matches *MatchService, notifier Notifier, log *zap.SugaredLogger) *RequestService {
	return &RequestService{
		resolver: resolver{ideas: store.Ideas, users: store.Users, log: log},
		requests: store.Requests,
		matches:  matches,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create files a pending request on someone else's idea. A user gets one request per
// idea, whatever became of it.
func (s *RequestService) Create(ctx context.Context, requesterID, ideaID, message string) (*models.RequestView, error) {
	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrIdeaNotFound
	}
	if err != nil {
		return nil, s.internal("get idea", err, "ideaId", ideaID)
	}
	if idea.OwnerID == requesterID {
		return nil, apperrors.ErrSelfRequest
	}
	if !idea.Active {
		return nil, apperrors.ErrIdeaInactive
	}

	now := s.now()
	id := RequestIDFor(requesterID, ideaID)
	req := &models.Request{
		RequestID:   id,
		RequesterID: requesterID,
		IdeaOwnerID: idea.OwnerID,
		IdeaID:      ideaID,
		Message:     strings.TrimSpace(message),
		Status:      models.RequestStatusPending,
		SortKey:     sortKey(now, id),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.requests.InsertRequest(ctx, req)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, apperrors.ErrDuplicateRequest
	}
	if err != nil {
		return nil, s.internal("insert request", err, "requesterId", requesterID, "ideaId", ideaID)
	}

	views, err := s.requestViews(ctx, []models.Request{*req})
	if err != nil {
		return nil, s.internal("resolve request", err, "requestId", id)
	}
	s.log.Infow("request created", "requestId", id, "ideaId", ideaID)
	s.notifier.NotifyNewRequest(ctx, views[0])
	return &views[0], nil
}

// ownedRequest loads a request and checks actingUserID owns the idea it targets.
func (s *RequestService) ownedRequest(ctx context.Context, requestID, actingUserID string) (*models.Request, error) {
	req, err := s.requests.GetRequest(ctx, requestID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrRequestNotFound
	}
	if err != nil {
		return nil, s.internal("get request", err, "requestId", requestID)
	}
	if req.IdeaOwnerID != actingUserID {
		return nil, apperrors.ErrNotIdeaOwner
	}
	return req, nil
}

// ownedPending is ownedRequest for a request that can still be answered.
func (s *RequestService) ownedPending(ctx context.Context, requestID, actingUserID string) (*models.Request, error) {
	req, err := s.ownedRequest(ctx, requestID, actingUserID)
	if err != nil {
		return nil, err
	}
	if !req.Pending() {
		return nil, apperrors.ErrAlreadyProcessed
	}
	return req, nil
}

func (s *RequestService) transition(ctx context.Context, requestID, to string) (*models.Request, error) {
	updated, err := s.requests.TransitionRequest(ctx, requestID, models.RequestStatusPending, to, s.now())
	if errors.Is(err, repositories.ErrConditionFailed) {
		return nil, apperrors.ErrAlreadyProcessed
	}
	if err != nil {
		return nil, s.internal("transition request", err, "requestId", requestID, "to", to)
	}
	return updated, nil
}

// Accept approves a pending request and returns the match it produced. When the pair
// already matched over the idea by swiping, that match is returned instead.
func (s *RequestService) Accept(ctx context.Context, requestID, actingUserID string) (*models.MatchView, error) {
	req, err := s.ownedRequest(ctx, requestID, actingUserID)
	if err != nil {
		return nil, err
	}

	var updated *models.Request
	switch req.Status {
	case models.RequestStatusPending:
		if updated, err = s.transition(ctx, requestID, models.RequestStatusAccepted); err != nil {
			return nil, err
		}
	case models.RequestStatusAccepted:
		// An earlier accept committed the transition but failed to write the match.
		exists, err := s.matches.Exists(ctx, req.RequesterID, req.IdeaOwnerID, req.IdeaID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrAlreadyProcessed
		}
		s.log.Warnw("completing accepted request without a match", "requestId", requestID)
		updated = req
	default:
		return nil, apperrors.ErrAlreadyProcessed
	}

	match, _, err := s.matches.CreateIfAbsent(ctx, updated.RequesterID, updated.IdeaOwnerID, updated.IdeaID, models.MatchSourceRequest)
	if err != nil {
		return nil, err
	}

	views, err := s.requestViews(ctx, []models.Request{*updated})
	if err != nil {
		return nil, s.internal("resolve request", err, "requestId", requestID)
	}
	s.log.Infow("request accepted", "requestId", requestID, "matchId", match.MatchID)
	s.notifier.NotifyRequestAccepted(ctx, views[0])
	s.notifier.NotifyMatch(ctx, *match)
	return match, nil
}

// Reject declines a pending request. The requester is not told.
func (s *RequestService) Reject(ctx context.Context, requestID, actingUserID string) error {
	if _, err := s.ownedPending(ctx, requestID, actingUserID); err != nil {
		return err
	}
	if _, err := s.transition(ctx, requestID, models.RequestStatusRejected); err != nil {
		return err
	}
	s.log.Infow("request rejected", "requestId", requestID)
	return nil
}

// ListReceived returns requests on the user's ideas, newest first.
func (s *RequestService) ListReceived(ctx context.Context, userID string) ([]models.RequestView, error) {
	reqs, err := s.requests.ListRequestsByOwner(ctx, userID)
	if err != nil {
		return nil, s.internal("list received requests", err, "userId", userID)
	}
	views, err := s.requestViews(ctx, reqs)
	if err != nil {
		return nil, s.internal("resolve requests", err, "userId", userID)
	}
	return views, nil
}

// ListSent returns requests the user filed, newest first.
func (s *RequestService) ListSent(ctx context.Context, userID string) ([]models.RequestView, error) {
	reqs, err := s.requests.ListRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, s.internal("list sent requests", err, "userId", userID)
	}
	views, err := s.requestViews(ctx, reqs)
	if err != nil {
		return nil, s.internal("resolve requests", err, "userId", userID)
	}
	return views, nil
}
