package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaswipe_server/apperrors"
	"ideaswipe_server/models"
)

func newMatch(t *testing.T, f *fixture, a, b string) *models.MatchView {
	t.Helper()
	match, _, err := f.matches.CreateIfAbsent(context.Background(), a, b, petPals, models.MatchSourceSwipe)
	require.NoError(t, err)
	return match
}

func TestSendMessage_PersistsAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	match := newMatch(t, f, bob, carol)

	_, err := f.matches.MarkViewed(ctx, match.MatchID, carol)
	require.NoError(t, err)

	msg, err := f.chat.SendMessage(ctx, match.MatchID, bob, "  hi carol  ", "")
	require.NoError(t, err)
	assert.Equal(t, "hi carol", msg.Content)
	assert.Equal(t, "Bob", msg.Sender.Name)
	assert.False(t, msg.Read)

	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, msg.MessageID, f.notifier.messages[0].MessageID)

	view, err := f.matches.GetForParticipant(ctx, match.MatchID, carol)
	require.NoError(t, err)
	assert.False(t, view.ReadBy(carol), "a new message makes the match unread for the recipient")

	msgs, err := f.chat.ListMessages(ctx, match.MatchID, carol, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, bob, msgs[0].SenderID)
}

func TestSendMessage_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	match := newMatch(t, f, bob, carol)

	_, err := f.chat.SendMessage(ctx, match.MatchID, alice, "let me in", "")
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)

	_, err = f.chat.SendMessage(ctx, "match-missing", bob, "hello?", "")
	assert.ErrorIs(t, err, apperrors.ErrMatchNotFound)

	_, err = f.chat.SendMessage(ctx, match.MatchID, bob, "   ", "")
	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)

	_, err = f.chat.SendMessage(ctx, match.MatchID, bob, "", "chat-attachments/other-match/x.png")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAttachment)

	_, err = f.chat.SendMessage(ctx, match.MatchID, bob, strings.Repeat("é", MaxMessageLength+1), "")
	assert.ErrorIs(t, err, apperrors.ErrMessageTooLong)

	msg, err := f.chat.SendMessage(ctx, match.MatchID, bob, "", AttachmentPrefix(match.MatchID)+"x.png")
	require.NoError(t, err)
	assert.Equal(t, AttachmentPrefix(match.MatchID)+"x.png", msg.AttachmentKey)

	long, err := f.chat.SendMessage(ctx, match.MatchID, bob, strings.Repeat("é", MaxMessageLength), "")
	require.NoError(t, err)
	assert.Len(t, []rune(long.Content), MaxMessageLength)

	assert.Len(t, f.notifier.messages, 2)
}

func TestListMessages_LatestOldestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	match := newMatch(t, f, bob, carol)

	for i := 0; i < 5; i++ {
		_, err := f.chat.SendMessage(ctx, match.MatchID, bob, fmt.Sprintf("m%d", i), "")
		require.NoError(t, err)
	}

	msgs, err := f.chat.ListMessages(ctx, match.MatchID, bob, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m2", msgs[0].Content)
	assert.Equal(t, "m4", msgs[2].Content)

	_, err = f.chat.ListMessages(ctx, match.MatchID, alice, 3)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
}

func TestMarkViewed_OnlyCounterpartMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	match := newMatch(t, f, bob, carol)

	for _, sender := range []string{bob, carol, bob} {
		_, err := f.chat.SendMessage(ctx, match.MatchID, sender, "hi from "+sender, "")
		require.NoError(t, err)
	}

	marked, err := f.matches.MarkViewed(ctx, match.MatchID, carol)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	bobUnread, err := f.store.Messages.ListUnread(ctx, match.MatchID, bob)
	require.NoError(t, err)
	assert.Len(t, bobUnread, 1)

	_, err = f.matches.MarkViewed(ctx, match.MatchID, alice)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
}

func TestCreateIfAbsent_CanonicalAndIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, created, err := f.matches.CreateIfAbsent(ctx, carol, bob, petPals, models.MatchSourceSwipe)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, bob, first.UserA)

	second, created, err := f.matches.CreateIfAbsent(ctx, bob, carol, petPals, models.MatchSourceRequest)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.MatchID, second.MatchID)
	assert.Equal(t, models.MatchSourceSwipe, second.Source)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	other, created, err := f.matches.CreateIfAbsent(ctx, bob, carol, cryptoChores, models.MatchSourceSwipe)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.MatchID, other.MatchID)

	_, _, err = f.matches.CreateIfAbsent(ctx, bob, bob, petPals, models.MatchSourceSwipe)
	assert.Equal(t, apperrors.CodeInvalidRequest, apperrors.CodeOf(err))

	_, err = f.matches.GetForParticipant(ctx, first.MatchID, alice)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
}

func TestMatchView_UnknownProfileFallsBackToID(t *testing.T) {
	f := newFixture(t)
	match := newMatch(t, f, bob, dave)
	require.Len(t, match.Users, 2)
	assert.Equal(t, dave, match.Users[1].UserID)
	assert.Empty(t, match.Users[1].Name)
}
