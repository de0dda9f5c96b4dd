package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaswipe_server/apperrors"
	"ideaswipe_server/models"
)

func TestBuildFeed_MergesAndOrders(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	req := func(id, owner, requester, status string, at time.Time) models.RequestView {
		return models.RequestView{Request: models.Request{
			RequestID: id, IdeaOwnerID: owner, RequesterID: requester, Status: status,
			CreatedAt: at, UpdatedAt: at.Add(time.Hour),
		}}
	}

	src := FeedSources{
		Received: []models.RequestView{
			req("r-1", alice, bob, models.RequestStatusPending, base),
			req("r-2", alice, carol, models.RequestStatusPending, base.Add(2*time.Minute)),
			req("r-3", alice, dave, models.RequestStatusRejected, base.Add(3*time.Minute)),
		},
		Sent: []models.RequestView{
			req("r-4", carol, alice, models.RequestStatusAccepted, base),
		},
		Unread: []UnreadMessage{
			{Message: models.Message{MessageID: "m-1", MatchID: "match-1", SenderID: bob, CreatedAt: base.Add(2 * time.Minute)}},
			{Message: models.Message{MessageID: "m-2", MatchID: "match-2", SenderID: alice, CreatedAt: base.Add(5 * time.Minute)}},
		},
	}
	viewed := req("r-5", alice, bob, models.RequestStatusPending, base.Add(4*time.Minute))
	viewed.Viewed = true
	src.Received = append(src.Received, viewed)

	feed := BuildFeed(alice, src)

	ids := make([]string, 0, len(feed.Notifications))
	for _, n := range feed.Notifications {
		ids = append(ids, n.ID)
	}
	// r-4 surfaces at its acceptance time; m-1 and r-2 tie and order by id.
	assert.Equal(t, []string{"r-4", "m-1", "r-2", "r-1"}, ids)
	assert.Equal(t, 4, feed.UnreadCount)
	assert.Equal(t, models.NotificationTypeRequestAccepted, feed.Notifications[0].Type)
	assert.Equal(t, models.NotificationTypeMessage, feed.Notifications[1].Type)

	again := BuildFeed(alice, src)
	assert.Equal(t, feed, again)
}

func TestBuildFeed_Empty(t *testing.T) {
	feed := BuildFeed(alice, FeedSources{})
	assert.NotNil(t, feed.Notifications)
	assert.Zero(t, feed.UnreadCount)
}

// seedConversations gives alice a pending request and unread messages in two matches.
func seedConversations(t *testing.T, f *fixture) (bobMatch, carolMatch *models.MatchView) {
	t.Helper()
	ctx := context.Background()

	bobMatch, _, err := f.matches.CreateIfAbsent(ctx, alice, bob, petPals, models.MatchSourceSwipe)
	require.NoError(t, err)
	carolMatch, _, err = f.matches.CreateIfAbsent(ctx, alice, carol, petPals, models.MatchSourceSwipe)
	require.NoError(t, err)

	for _, content := range []string{"hey", "you there?", "ping"} {
		_, err := f.chat.SendMessage(ctx, bobMatch.MatchID, bob, content, "")
		require.NoError(t, err)
	}
	_, err = f.chat.SendMessage(ctx, carolMatch.MatchID, carol, "hello", "")
	require.NoError(t, err)
	_, err = f.chat.SendMessage(ctx, carolMatch.MatchID, alice, "my own words", "")
	require.NoError(t, err)

	_, err = f.requests.Create(ctx, carol, cryptoChores, "can I join?")
	require.NoError(t, err)
	return bobMatch, carolMatch
}

func TestNotificationList_OneEntryPerConversation(t *testing.T) {
	f := newFixture(t)
	seedConversations(t, f)

	feed, err := f.notifications.List(context.Background(), alice)
	require.NoError(t, err)
	require.Equal(t, 3, feed.UnreadCount)

	var contents []string
	for _, n := range feed.Notifications {
		if n.Type != models.NotificationTypeMessage {
			continue
		}
		data := n.Data.(models.MessageNotificationData)
		contents = append(contents, data.Content)
		assert.Equal(t, "PetPals", data.Idea.Name)
	}
	assert.ElementsMatch(t, []string{"ping", "hello"}, contents)
	assert.Equal(t, models.NotificationTypeRequest, feed.Notifications[0].Type)
}

func TestNotificationMarkAllRead_ClearsFeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bobMatch, _ := seedConversations(t, f)

	cleared, err := f.notifications.MarkAllRead(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 5, cleared)

	feed, err := f.notifications.List(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, feed.UnreadCount)
	assert.Empty(t, feed.Notifications)

	match, err := f.matches.GetForParticipant(ctx, bobMatch.MatchID, alice)
	require.NoError(t, err)
	assert.True(t, match.ReadBy(alice))

	bobFeed, err := f.notifications.List(ctx, bob)
	require.NoError(t, err)
	assert.Zero(t, bobFeed.UnreadCount, "alice's own messages are not bob's to clear")
}

func TestNotificationMarkAllRead_KeepsLaterMessagesUnread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bobMatch, _ := seedConversations(t, f)

	f.notifications.messages = &hookedMessages{
		MessageRepository: f.store.Messages,
		beforeMark: func() {
			_, err := f.chat.SendMessage(ctx, bobMatch.MatchID, bob, "one more thing", "")
			require.NoError(t, err)
		},
	}

	cleared, err := f.notifications.MarkAllRead(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 5, cleared)

	unread, err := f.store.Messages.ListUnread(ctx, bobMatch.MatchID, alice)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "one more thing", unread[0].Content)

	feed, err := f.notifications.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, models.NotificationTypeMessage, feed.Notifications[0].Type)
}

func TestNotificationMarkRead_Message(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bobMatch, _ := seedConversations(t, f)

	latest, err := f.store.Messages.LatestUnread(ctx, bobMatch.MatchID, alice)
	require.NoError(t, err)
	require.NotNil(t, latest)

	require.NoError(t, f.notifications.MarkRead(ctx, alice, latest.MessageID, models.NotificationTypeMessage))

	unread, err := f.store.Messages.ListUnread(ctx, bobMatch.MatchID, alice)
	require.NoError(t, err)
	assert.Len(t, unread, 2, "only the referenced message is marked")

	err = f.notifications.MarkRead(ctx, bob, latest.MessageID, models.NotificationTypeMessage)
	assert.ErrorIs(t, err, apperrors.ErrNotRecipient)

	err = f.notifications.MarkRead(ctx, alice, "message-missing", models.NotificationTypeMessage)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
}

func TestNotificationMarkRead_Request(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.requests.Create(ctx, bob, cryptoChores, "")
	require.NoError(t, err)

	err = f.notifications.MarkRead(ctx, bob, req.RequestID, models.NotificationTypeRequest)
	assert.ErrorIs(t, err, apperrors.ErrNotRecipient)

	require.NoError(t, f.notifications.MarkRead(ctx, alice, req.RequestID, models.NotificationTypeRequest))

	feed, err := f.notifications.List(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, feed.UnreadCount)

	received, err := f.requests.ListReceived(ctx, alice)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.True(t, received[0].Viewed)
	assert.True(t, received[0].Pending(), "viewing does not answer the request")

	err = f.notifications.MarkRead(ctx, alice, req.RequestID, "poke")
	assert.ErrorIs(t, err, apperrors.ErrUnknownType)
}

func TestNotificationDelete_MessageCatchesUpConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bobMatch, carolMatch := seedConversations(t, f)

	latest, err := f.store.Messages.LatestUnread(ctx, bobMatch.MatchID, alice)
	require.NoError(t, err)
	require.NotNil(t, latest)

	require.NoError(t, f.notifications.Delete(ctx, alice, latest.MessageID, models.NotificationTypeMessage))

	unread, err := f.store.Messages.ListUnread(ctx, bobMatch.MatchID, alice)
	require.NoError(t, err)
	assert.Empty(t, unread)

	other, err := f.store.Messages.ListUnread(ctx, carolMatch.MatchID, alice)
	require.NoError(t, err)
	assert.Len(t, other, 1, "other conversations are untouched")
}

func TestNotificationDelete_RequestRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.requests.Create(ctx, bob, cryptoChores, "")
	require.NoError(t, err)

	err = f.notifications.Delete(ctx, bob, req.RequestID, models.NotificationTypeRequest)
	assert.ErrorIs(t, err, apperrors.ErrNotIdeaOwner)

	require.NoError(t, f.notifications.Delete(ctx, alice, req.RequestID, models.NotificationTypeRequest))

	sent, err := f.requests.ListSent(ctx, bob)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, models.RequestStatusRejected, sent[0].Status)
	assert.Empty(t, f.notifier.accepted)
}

func TestNotificationDelete_RequestAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.requests.Create(ctx, bob, cryptoChores, "")
	require.NoError(t, err)
	_, err = f.requests.Accept(ctx, req.RequestID, alice)
	require.NoError(t, err)

	err = f.notifications.Delete(ctx, alice, req.RequestID, models.NotificationTypeRequestAccepted)
	assert.ErrorIs(t, err, apperrors.ErrNotRecipient)

	require.NoError(t, f.notifications.Delete(ctx, bob, req.RequestID, models.NotificationTypeRequestAccepted))
	feed, err := f.notifications.List(ctx, bob)
	require.NoError(t, err)
	assert.Zero(t, feed.UnreadCount)
}
