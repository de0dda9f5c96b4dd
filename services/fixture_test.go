package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"ideaswipe_server/models"
	"ideaswipe_server/repositories"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
	carol = "user-carol"
	dave  = "user-dave"

	cryptoChores = "idea-cryptochores"
	petPals      = "idea-petpals"
	retired      = "idea-retired"
)

type recordingNotifier struct {
	mu       sync.Mutex
	matches  []models.MatchView
	requests []models.RequestView
	accepted []models.RequestView
	messages []models.MessageView
}

func (n *recordingNotifier) NotifyMatch(_ context.Context, m models.MatchView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.matches = append(n.matches, m)
}

func (n *recordingNotifier) NotifyNewRequest(_ context.Context, r models.RequestView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requests = append(n.requests, r)
}

func (n *recordingNotifier) NotifyRequestAccepted(_ context.Context, r models.RequestView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accepted = append(n.accepted, r)
}

func (n *recordingNotifier) NotifyMessage(_ context.Context, m models.MessageView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, m)
}

// flakyMatches fails the next failures inserts.
type flakyMatches struct {
	repositories.MatchRepository
	failures int
}

func (m *flakyMatches) InsertMatch(ctx context.Context, match *models.Match) error {
	if m.failures > 0 {
		m.failures--
		return errors.New("provisioned throughput exceeded")
	}
	return m.MatchRepository.InsertMatch(ctx, match)
}

// hookedMessages runs beforeMark ahead of the next MarkMessagesRead.
type hookedMessages struct {
	repositories.MessageRepository
	beforeMark func()
}

func (m *hookedMessages) MarkMessagesRead(ctx context.Context, msgs []models.Message) error {
	if hook := m.beforeMark; hook != nil {
		m.beforeMark = nil
		hook()
	}
	return m.MessageRepository.MarkMessagesRead(ctx, msgs)
}

// stepClock advances one second per reading so creation order is unambiguous.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	mem           *repositories.MemoryStore
	store         *repositories.Store
	notifier      *recordingNotifier
	matches       *MatchService
	swipes        *SwipeService
	requests      *RequestService
	chat          *ChatService
	notifications *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop().Sugar()

	mem := repositories.NewMemoryStore()
	mem.PutProfile(models.UserProfile{UserID: alice, Name: "Alice"})
	mem.PutProfile(models.UserProfile{UserID: bob, Name: "Bob"})
	mem.PutProfile(models.UserProfile{UserID: carol, Name: "Carol"})
	mem.PutIdea(models.Idea{IdeaID: cryptoChores, OwnerID: alice, Name: "CryptoChores", Active: true})
	mem.PutIdea(models.Idea{IdeaID: petPals, OwnerID: dave, Name: "PetPals", Active: true})
	mem.PutIdea(models.Idea{IdeaID: retired, OwnerID: alice, Name: "Retired", Active: false})

	store := mem.Store()
	notifier := &recordingNotifier{}
	clock := &stepClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	matches := NewMatchService(store, log)
	swipes := NewSwipeService(store, matches, notifier, log)
	requests := NewRequestService(store, matches, notifier, log)
	chat := NewChatService(store, matches, notifier, log)
	matches.now = clock.Now
	swipes.now = clock.Now
	requests.now = clock.Now
	chat.now = clock.Now

	return &fixture{
		mem:           mem,
		store:         store,
		notifier:      notifier,
		matches:       matches,
		swipes:        swipes,
		requests:      requests,
		chat:          chat,
		notifications: NewNotificationService(store, matches, requests, log),
	}
}
