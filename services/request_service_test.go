package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaswipe_server/apperrors"
	"ideaswipe_server/models"
)

func TestRequestWorkflow_BobAsksAliceAccepts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.requests.Create(ctx, bob, cryptoChores, "let's build this")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, req.Status)
	assert.Equal(t, alice, req.IdeaOwnerID)
	require.Len(t, f.notifier.requests, 1)
	assert.Equal(t, "Bob", f.notifier.requests[0].Requester.Name)

	feed, err := f.notifications.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, 1, feed.UnreadCount)
	entry := feed.Notifications[0]
	assert.Equal(t, models.NotificationTypeRequest, entry.Type)
	data, ok := entry.Data.(models.RequestView)
	require.True(t, ok)
	assert.Equal(t, "Bob", data.Requester.Name)
	assert.Equal(t, "let's build this", data.Message)

	match, err := f.requests.Accept(ctx, req.RequestID, alice)
	require.NoError(t, err)
	assert.Equal(t, "CryptoChores", match.Idea.Name)
	assert.Equal(t, models.MatchSourceRequest, match.Source)

	bobFeed, err := f.notifications.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobFeed.Notifications, 1)
	assert.Equal(t, models.NotificationTypeRequestAccepted, bobFeed.Notifications[0].Type)
	assert.Equal(t, req.RequestID, bobFeed.Notifications[0].ID)

	for _, u := range []string{alice, bob} {
		matches, err := f.matches.ListForUser(ctx, u)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, match.MatchID, matches[0].MatchID)
		assert.Equal(t, "CryptoChores", matches[0].Idea.Name)
	}

	require.Len(t, f.notifier.accepted, 1)
	assert.Equal(t, bob, f.notifier.accepted[0].RequesterID)
	require.Len(t, f.notifier.matches, 1)

	aliceFeed, err := f.notifications.List(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, aliceFeed.UnreadCount)

	_, err = f.requests.Accept(ctx, req.RequestID, alice)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyProcessed)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))
}

func TestRequestCreate_SelfRequest(t *testing.T) {
	f := newFixture(t)
	_, err := f.requests.Create(context.Background(), alice, cryptoChores, "mine")
	assert.ErrorIs(t, err, apperrors.ErrSelfRequest)
	assert.Equal(t, apperrors.CodeInvalidRequest, apperrors.CodeOf(err))
	assert.Empty(t, f.notifier.requests)
}

func TestRequestCreate_OncePerIdeaWhateverTheOutcome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.requests.Create(ctx, carol, cryptoChores, "")
	require.NoError(t, err)

	_, err = f.requests.Create(ctx, carol, cryptoChores, "again")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)

	require.NoError(t, f.requests.Reject(ctx, req.RequestID, alice))
	_, err = f.requests.Create(ctx, carol, cryptoChores, "please")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestRequestCreate_UnknownOrInactiveIdea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.requests.Create(ctx, bob, "idea-missing", "")
	assert.ErrorIs(t, err, apperrors.ErrIdeaNotFound)

	_, err = f.requests.Create(ctx, bob, retired, "")
	assert.ErrorIs(t, err, apperrors.ErrIdeaInactive)
}

func TestRequestRespond_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.requests.Create(ctx, bob, cryptoChores, "hi")
	require.NoError(t, err)

	_, err = f.requests.Accept(ctx, "request-missing", alice)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)

	_, err = f.requests.Accept(ctx, req.RequestID, carol)
	assert.ErrorIs(t, err, apperrors.ErrNotIdeaOwner)

	err = f.requests.Reject(ctx, req.RequestID, bob)
	assert.ErrorIs(t, err, apperrors.ErrNotIdeaOwner)

	require.NoError(t, f.requests.Reject(ctx, req.RequestID, alice))
	assert.Empty(t, f.notifier.accepted, "rejection is silent")

	_, err = f.requests.Accept(ctx, req.RequestID, alice)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyProcessed)
	err = f.requests.Reject(ctx, req.RequestID, alice)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyProcessed)

	sent, err := f.requests.ListSent(ctx, bob)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, models.RequestStatusRejected, sent[0].Status)
}

func TestRequestAccept_ReusesExistingMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing, created, err := f.matches.CreateIfAbsent(ctx, alice, bob, cryptoChores, models.MatchSourceSwipe)
	require.NoError(t, err)
	require.True(t, created)

	req, err := f.requests.Create(ctx, bob, cryptoChores, "")
	require.NoError(t, err)
	match, err := f.requests.Accept(ctx, req.RequestID, alice)
	require.NoError(t, err)

	assert.Equal(t, existing.MatchID, match.MatchID)
	assert.Equal(t, models.MatchSourceSwipe, match.Source)

	matches, err := f.matches.ListForUser(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRequestAccept_RetryCompletesMissingMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.matches.matches = &flakyMatches{MatchRepository: f.store.Matches, failures: 1}

	req, err := f.requests.Create(ctx, bob, cryptoChores, "let's build this")
	require.NoError(t, err)

	_, err = f.requests.Accept(ctx, req.RequestID, alice)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInternal, apperrors.CodeOf(err))
	matches, err := f.matches.ListForUser(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Empty(t, f.notifier.accepted)

	match, err := f.requests.Accept(ctx, req.RequestID, alice)
	require.NoError(t, err)
	assert.Equal(t, "CryptoChores", match.Idea.Name)
	require.Len(t, f.notifier.accepted, 1)
	require.Len(t, f.notifier.matches, 1)

	matches, err = f.matches.ListForUser(ctx, bob)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, match.MatchID, matches[0].MatchID)

	_, err = f.requests.Accept(ctx, req.RequestID, alice)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyProcessed)
	_, err = f.requests.Accept(ctx, req.RequestID, carol)
	assert.ErrorIs(t, err, apperrors.ErrNotIdeaOwner)
}

func TestRequestLists_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.requests.Create(ctx, bob, cryptoChores, "first")
	require.NoError(t, err)
	_, err = f.requests.Create(ctx, carol, cryptoChores, "second")
	require.NoError(t, err)

	received, err := f.requests.ListReceived(ctx, alice)
	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.Equal(t, "second", received[0].Message)
	assert.Equal(t, "Carol", received[0].Requester.Name)
	assert.Equal(t, "Alice", received[0].Owner.Name)

	sent, err := f.requests.ListSent(ctx, bob)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "CryptoChores", sent[0].Idea.Name)
}
