package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"ideaswipe_server/models"
)

// MemoryStore is a process-local implementation of every repository. It backs
// STORE_DRIVER=memory and the service tests, and honours the same uniqueness rules
// as the DynamoDB tables.
type MemoryStore struct {
	mu       sync.RWMutex
	ideas    map[string]models.Idea
	profiles map[string]models.UserProfile
	swipes   map[string]models.Swipe // userId|ideaId
	matches  map[string]models.Match
	requests map[string]models.Request
	messages map[string][]models.Message // matchId -> ordered by sortKey
	tallies  map[string]*models.IdeaTally
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ideas:    make(map[string]models.Idea),
		profiles: make(map[string]models.UserProfile),
		swipes:   make(map[string]models.Swipe),
		matches:  make(map[string]models.Match),
		requests: make(map[string]models.Request),
		messages: make(map[string][]models.Message),
		tallies:  make(map[string]*models.IdeaTally),
	}
}

// Store exposes the memory store through the Store bundle.
func (s *MemoryStore) Store() *Store {
	return &Store{
		Ideas:    s,
		Users:    s,
		Swipes:   s,
		Matches:  s,
		Requests: s,
		Messages: s,
		Tallies:  &memoryTally{s},
	}
}

// PutIdea seeds the idea directory.
func (s *MemoryStore) PutIdea(idea models.Idea) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ideas[idea.IdeaID] = idea
}

// PutProfile seeds the user directory.
func (s *MemoryStore) PutProfile(p models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

func (s *MemoryStore) GetIdea(_ context.Context, ideaID string) (*models.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idea, ok := s.ideas[ideaID]
	if !ok {
		return nil, ErrNotFound
	}
	return &idea, nil
}

func (s *MemoryStore) GetProfiles(_ context.Context, userIDs []string) (map[string]models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.UserProfile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// Swipes

func swipeKey(userID, ideaID string) string { return userID + "|" + ideaID }

func (s *MemoryStore) InsertSwipe(_ context.Context, swipe *models.Swipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := swipeKey(swipe.UserID, swipe.IdeaID)
	if _, ok := s.swipes[key]; ok {
		return ErrDuplicate
	}
	s.swipes[key] = *swipe
	return nil
}

func (s *MemoryStore) FirstRightSwipe(_ context.Context, ideaID, excludeUserID string) (*models.Swipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var first *models.Swipe
	for _, sw := range s.swipes {
		if sw.IdeaID != ideaID || sw.UserID == excludeUserID || sw.Direction != models.DirectionRight {
			continue
		}
		if first == nil || sw.SortKey < first.SortKey {
			candidate := sw
			first = &candidate
		}
	}
	return first, nil
}

func (s *MemoryStore) ListSwipesByUser(_ context.Context, userID string) ([]models.Swipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Swipe{}
	for _, sw := range s.swipes {
		if sw.UserID == userID {
			out = append(out, sw)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IdeaID < out[j].IdeaID })
	return out, nil
}

// Matches

func (s *MemoryStore) InsertMatch(_ context.Context, match *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[match.MatchID]; ok {
		return ErrDuplicate
	}
	s.matches[match.MatchID] = *match
	return nil
}

func (s *MemoryStore) GetMatch(_ context.Context, matchID string) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) ListMatchesByUser(_ context.Context, userID string) ([]models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Match{}
	for _, m := range s.matches {
		if m.HasParticipant(userID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) UpdateReadFlag(_ context.Context, matchID, attribute string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return ErrNotFound
	}
	switch attribute {
	case "readByA":
		m.ReadByA = value
	case "readByB":
		m.ReadByB = value
	}
	s.matches[matchID] = m
	return nil
}

// Requests

func (s *MemoryStore) InsertRequest(_ context.Context, req *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.RequestID]; ok {
		return ErrDuplicate
	}
	s.requests[req.RequestID] = *req
	return nil
}

func (s *MemoryStore) GetRequest(_ context.Context, requestID string) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) TransitionRequest(_ context.Context, requestID, from, to string, at time.Time) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok || r.Status != from {
		return nil, ErrConditionFailed
	}
	r.Status = to
	r.UpdatedAt = at
	s.requests[requestID] = r
	return &r, nil
}

func (s *MemoryStore) listRequests(match func(models.Request) bool) []models.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Request{}
	for _, r := range s.requests {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortKey > out[j].SortKey })
	return out
}

func (s *MemoryStore) ListRequestsByOwner(_ context.Context, ownerID string) ([]models.Request, error) {
	return s.listRequests(func(r models.Request) bool { return r.IdeaOwnerID == ownerID }), nil
}

func (s *MemoryStore) ListRequestsByRequester(_ context.Context, requesterID string) ([]models.Request, error) {
	return s.listRequests(func(r models.Request) bool { return r.RequesterID == requesterID }), nil
}

func (s *MemoryStore) updateRequests(ids []string, apply func(*models.Request)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.requests[id]; !ok {
			return ErrNotFound
		}
	}
	for _, id := range ids {
		r := s.requests[id]
		apply(&r)
		s.requests[id] = r
	}
	return nil
}

func (s *MemoryStore) MarkRequestsViewed(_ context.Context, requestIDs []string) error {
	return s.updateRequests(requestIDs, func(r *models.Request) { r.Viewed = true })
}

func (s *MemoryStore) MarkAcceptedSeen(_ context.Context, requestIDs []string) error {
	return s.updateRequests(requestIDs, func(r *models.Request) { r.AcceptedSeen = true })
}

// Messages

func (s *MemoryStore) InsertMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.messages[msg.MatchID], *msg)
	sort.SliceStable(list, func(i, j int) bool { return list[i].SortKey < list[j].SortKey })
	s.messages[msg.MatchID] = list
	return nil
}

func (s *MemoryStore) GetMessage(_ context.Context, messageID string) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range s.messages {
		for _, m := range list {
			if m.MessageID == messageID {
				found := m
				return &found, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListMessages(_ context.Context, matchID string, limit int) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.messages[matchID]
	start := 0
	if limit > 0 && len(list) > limit {
		start = len(list) - limit
	}
	out := make([]models.Message, len(list)-start)
	copy(out, list[start:])
	return out, nil
}

func (s *MemoryStore) ListUnread(_ context.Context, matchID, readerID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.messages[matchID]
	out := []models.Message{}
	for i := len(list) - 1; i >= 0; i-- {
		if !list[i].Read && list[i].SenderID != readerID {
			out = append(out, list[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) LatestUnread(ctx context.Context, matchID, readerID string) (*models.Message, error) {
	unread, _ := s.ListUnread(ctx, matchID, readerID)
	if len(unread) == 0 {
		return nil, nil
	}
	return &unread[0], nil
}

func (s *MemoryStore) MarkMessagesRead(_ context.Context, msgs []models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, target := range msgs {
		list := s.messages[target.MatchID]
		for i := range list {
			if list[i].MessageID == target.MessageID {
				list[i].Read = true
			}
		}
	}
	return nil
}

type memoryTally struct {
	s *MemoryStore
}

// NewMemoryTallyCounter returns a process-local counter for deployments without Redis.
func NewMemoryTallyCounter() TallyCounter {
	return &memoryTally{s: NewMemoryStore()}
}

func (t *memoryTally) Increment(_ context.Context, ideaID, direction string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tally, ok := t.s.tallies[ideaID]
	if !ok {
		tally = &models.IdeaTally{IdeaID: ideaID}
		t.s.tallies[ideaID] = tally
	}
	if direction == models.DirectionRight {
		tally.Likes++
	} else {
		tally.Passes++
	}
	return nil
}

func (t *memoryTally) Get(_ context.Context, ideaID string) (models.IdeaTally, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if tally, ok := t.s.tallies[ideaID]; ok {
		return *tally, nil
	}
	return models.IdeaTally{IdeaID: ideaID}, nil
}
