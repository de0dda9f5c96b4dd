package repositories

import (
	"context"
	"errors"
	"time"

	"ideaswipe_server/models"
)

var (
	// ErrNotFound is returned when a keyed lookup finds nothing.
	ErrNotFound = errors.New("item not found")
	// ErrDuplicate is returned when a conditional insert hits an existing key.
	ErrDuplicate = errors.New("item already exists")
	// ErrConditionFailed is returned when a guarded update does not apply.
	ErrConditionFailed = errors.New("condition not met")
)

// IdeaDirectory resolves ideas owned by the external idea service.
type IdeaDirectory interface {
	GetIdea(ctx context.Context, ideaID string) (*models.Idea, error)
}

// UserDirectory resolves display profiles owned by the external profile service.
// Unknown ids are simply absent from the result.
type UserDirectory interface {
	GetProfiles(ctx context.Context, userIDs []string) (map[string]models.UserProfile, error)
}

type SwipeRepository interface {
	InsertSwipe(ctx context.Context, swipe *models.Swipe) error
	// FirstRightSwipe returns the earliest right swipe on ideaID by anyone but excludeUserID, or nil.
	FirstRightSwipe(ctx context.Context, ideaID, excludeUserID string) (*models.Swipe, error)
	ListSwipesByUser(ctx context.Context, userID string) ([]models.Swipe, error)
}

type MatchRepository interface {
	InsertMatch(ctx context.Context, match *models.Match) error
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	ListMatchesByUser(ctx context.Context, userID string) ([]models.Match, error)
	// UpdateReadFlag sets readByA or readByB.
	UpdateReadFlag(ctx context.Context, matchID, attribute string, value bool) error
}

type RequestRepository interface {
	InsertRequest(ctx context.Context, req *models.Request) error
	GetRequest(ctx context.Context, requestID string) (*models.Request, error)
	// TransitionRequest moves a request from one status to another and returns the new state.
	TransitionRequest(ctx context.Context, requestID, from, to string, at time.Time) (*models.Request, error)
	ListRequestsByOwner(ctx context.Context, ownerID string) ([]models.Request, error)
	ListRequestsByRequester(ctx context.Context, requesterID string) ([]models.Request, error)
	MarkRequestsViewed(ctx context.Context, requestIDs []string) error
	MarkAcceptedSeen(ctx context.Context, requestIDs []string) error
}

type MessageRepository interface {
	InsertMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, messageID string) (*models.Message, error)
	// ListMessages returns up to limit most recent messages, oldest first.
	ListMessages(ctx context.Context, matchID string, limit int) ([]models.Message, error)
	// ListUnread returns unread messages in matchID not sent by readerID, newest first.
	ListUnread(ctx context.Context, matchID, readerID string) ([]models.Message, error)
	LatestUnread(ctx context.Context, matchID, readerID string) (*models.Message, error)
	MarkMessagesRead(ctx context.Context, msgs []models.Message) error
}

// TallyCounter keeps eventually consistent like/pass counters per idea.
type TallyCounter interface {
	Increment(ctx context.Context, ideaID, direction string) error
	Get(ctx context.Context, ideaID string) (models.IdeaTally, error)
}

// Store bundles every repository the services need.
type Store struct {
	Ideas    IdeaDirectory
	Users    UserDirectory
	Swipes   SwipeRepository
	Matches  MatchRepository
	Requests RequestRepository
	Messages MessageRepository
	Tallies  TallyCounter
}
