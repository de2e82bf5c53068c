package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskhub/internal/model"
)

func TestSendMessageCreatesFullLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")
	u2 := env.mustUser(t, "u2")
	u3 := env.mustUser(t, "u3")

	id, err := env.messages.Send(ctx, sender.ID, MessageInput{
		Title:        "all hands",
		Content:      "<p>meeting at noon</p>",
		RecipientIDs: []uint{u1.ID, u2.ID, u3.ID},
	})
	require.NoError(t, err)

	rows, err := env.messageRepo.LedgerRows(ctx, id)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		require.False(t, row.IsRead)
		require.Nil(t, row.ReadDate)
	}

	view, err := env.messages.Get(ctx, id, 0)
	require.NoError(t, err)
	require.Equal(t, model.MessageInfo, view.MessageType)
	require.Equal(t, model.PriorityMedium, view.Priority)
	require.Equal(t, sender.ID, view.SenderID)
	require.EqualValues(t, 3, view.TotalRecipients)
	require.EqualValues(t, 0, view.ReadCount)
	require.EqualValues(t, 3, view.UnreadCount)
}

func TestSendMessageValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")

	_, err := env.messages.Send(ctx, sender.ID, MessageInput{RecipientIDs: []uint{u1.ID}})
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = env.messages.Send(ctx, sender.ID, MessageInput{Title: "x"})
	require.ErrorIs(t, err, ErrNoRecipients)

	_, err = env.messages.Send(ctx, sender.ID, MessageInput{Title: "x", RecipientIDs: []uint{9999}})
	require.ErrorIs(t, err, ErrUnknownRecipient)

	_, err = env.messages.Send(ctx, sender.ID, MessageInput{
		Title: "x", RecipientIDs: []uint{u1.ID}, MessageType: "shout",
	})
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestMarkReadForUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")
	u2 := env.mustUser(t, "u2")

	id, err := env.messages.Send(ctx, sender.ID, MessageInput{
		Title:        "heads up",
		RecipientIDs: []uint{u1.ID, u2.ID},
	})
	require.NoError(t, err)

	require.NoError(t, env.messages.MarkReadForUser(ctx, u1.ID, id, 0))

	s1, err := env.messageRepo.ReadStatusFor(ctx, id, u1.ID)
	require.NoError(t, err)
	require.NotNil(t, s1)
	require.True(t, s1.IsRead)
	require.NotNil(t, s1.ReadDate)

	s2, err := env.messageRepo.ReadStatusFor(ctx, id, u2.ID)
	require.NoError(t, err)
	require.NotNil(t, s2)
	require.False(t, s2.IsRead)

	view, err := env.messages.Get(ctx, id, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, view.TotalRecipients)
	require.EqualValues(t, 1, view.ReadCount)
	require.EqualValues(t, 1, view.UnreadCount)
}

func TestMarkReadForNonRecipientIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")
	outsider := env.mustUser(t, "outsider")

	id, err := env.messages.Send(ctx, sender.ID, MessageInput{
		Title:        "private",
		RecipientIDs: []uint{u1.ID},
	})
	require.NoError(t, err)

	// Reports success, creates no ledger row.
	require.NoError(t, env.messages.MarkReadForUser(ctx, outsider.ID, id, 0))

	status, err := env.messageRepo.ReadStatusFor(ctx, id, outsider.ID)
	require.NoError(t, err)
	require.Nil(t, status)

	rows, err := env.messageRepo.LedgerRows(ctx, id)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")

	id, err := env.messages.Send(ctx, sender.ID, MessageInput{
		Title:        "again",
		RecipientIDs: []uint{u1.ID},
	})
	require.NoError(t, err)

	require.NoError(t, env.messages.MarkReadForUser(ctx, u1.ID, id, 0))
	require.NoError(t, env.messages.MarkReadForUser(ctx, u1.ID, id, 0))

	view, err := env.messages.Get(ctx, id, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, view.ReadCount)
	require.EqualValues(t, 0, view.UnreadCount)
}

func TestQueryUnreadOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")
	u2 := env.mustUser(t, "u2")

	id, err := env.messages.Send(ctx, sender.ID, MessageInput{
		Title:        "read me",
		RecipientIDs: []uint{u1.ID, u2.ID},
	})
	require.NoError(t, err)

	require.NoError(t, env.messages.MarkReadForUser(ctx, u1.ID, id, 0))

	// Still unread for u2.
	views, err := env.messages.Query(ctx, MessageCriteria{RecipientID: u2.ID, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, id, views[0].ID)
	require.NotNil(t, views[0].IsRead)
	require.False(t, *views[0].IsRead)

	// Read for u1, so the unread filter excludes it.
	views, err = env.messages.Query(ctx, MessageCriteria{RecipientID: u1.ID, UnreadOnly: true})
	require.NoError(t, err)
	require.Empty(t, views)

	// After u2 marks read too, nothing is unread.
	require.NoError(t, env.messages.MarkReadForUser(ctx, u2.ID, id, 0))
	views, err = env.messages.Query(ctx, MessageCriteria{RecipientID: u2.ID, UnreadOnly: true})
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestQueryPersonalReadStateAnnotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")
	u2 := env.mustUser(t, "u2")

	id, err := env.messages.Send(ctx, sender.ID, MessageInput{
		Title:        "annotated",
		RecipientIDs: []uint{u1.ID, u2.ID},
	})
	require.NoError(t, err)
	require.NoError(t, env.messages.MarkReadForUser(ctx, u1.ID, id, 0))

	views, err := env.messages.Query(ctx, MessageCriteria{RecipientID: u1.ID})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].IsRead)
	require.True(t, *views[0].IsRead)
	require.NotNil(t, views[0].ReadDate)

	views, err = env.messages.Query(ctx, MessageCriteria{RecipientID: u2.ID})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].IsRead)
	require.False(t, *views[0].IsRead)
	require.Nil(t, views[0].ReadDate)

	// Without a recipient scope there is no personal annotation.
	views, err = env.messages.Query(ctx, MessageCriteria{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Nil(t, views[0].IsRead)
}

func TestQueryActiveOnlyExcludesExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")

	expired := time.Now().UTC().Add(-time.Hour)
	live := time.Now().UTC().Add(time.Hour)

	expiredID, err := env.messages.Send(ctx, sender.ID, MessageInput{
		Title: "stale", RecipientIDs: []uint{u1.ID}, ExpiryDate: &expired,
	})
	require.NoError(t, err)
	_, err = env.messages.Send(ctx, sender.ID, MessageInput{
		Title: "fresh", RecipientIDs: []uint{u1.ID}, ExpiryDate: &live,
	})
	require.NoError(t, err)
	_, err = env.messages.Send(ctx, sender.ID, MessageInput{
		Title: "forever", RecipientIDs: []uint{u1.ID},
	})
	require.NoError(t, err)

	views, err := env.messages.Query(ctx, MessageCriteria{RecipientID: u1.ID, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		require.NotEqual(t, expiredID, v.ID)
	}

	// Without the filter the expired message is included.
	views, err = env.messages.Query(ctx, MessageCriteria{RecipientID: u1.ID})
	require.NoError(t, err)
	require.Len(t, views, 3)
}

func TestScheduledAndExpiredFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")

	future := time.Now().UTC().Add(time.Hour)
	past := time.Now().UTC().Add(-time.Hour)

	id, err := env.messages.Send(ctx, sender.ID, MessageInput{
		Title:         "later",
		RecipientIDs:  []uint{u1.ID},
		ScheduledDate: &future,
		ExpiryDate:    &future,
	})
	require.NoError(t, err)

	view, err := env.messages.Get(ctx, id, 0)
	require.NoError(t, err)
	require.True(t, view.IsScheduled)
	require.False(t, view.IsExpired)

	id, err = env.messages.Send(ctx, sender.ID, MessageInput{
		Title:         "gone",
		RecipientIDs:  []uint{u1.ID},
		ScheduledDate: &past,
		ExpiryDate:    &past,
	})
	require.NoError(t, err)

	view, err = env.messages.Get(ctx, id, 0)
	require.NoError(t, err)
	require.False(t, view.IsScheduled)
	require.True(t, view.IsExpired)
}

func TestQueryFiltersByTypePriorityUseCase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")

	_, err := env.messages.Send(ctx, sender.ID, MessageInput{
		Title: "m1", RecipientIDs: []uint{u1.ID},
		MessageType: model.MessageUrgent, Priority: model.PriorityUrgent, UseCase: "alerts",
	})
	require.NoError(t, err)
	_, err = env.messages.Send(ctx, sender.ID, MessageInput{
		Title: "m2", RecipientIDs: []uint{u1.ID},
	})
	require.NoError(t, err)

	views, err := env.messages.Query(ctx, MessageCriteria{MessageType: model.MessageUrgent})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "m1", views[0].Title)

	views, err = env.messages.Query(ctx, MessageCriteria{Priority: model.PriorityUrgent})
	require.NoError(t, err)
	require.Len(t, views, 1)

	views, err = env.messages.Query(ctx, MessageCriteria{UseCase: "alerts"})
	require.NoError(t, err)
	require.Len(t, views, 1)

	views, err = env.messages.Query(ctx, MessageCriteria{Limit: 1})
	require.NoError(t, err)
	require.Len(t, views, 1)
}

func TestSenderDefaultsToActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.mustUser(t, "boss")
	u1 := env.mustUser(t, "u1")

	id, err := env.messages.Send(ctx, actor.ID, MessageInput{
		Title: "from me", RecipientIDs: []uint{u1.ID},
	})
	require.NoError(t, err)

	view, err := env.messages.Get(ctx, id, 0)
	require.NoError(t, err)
	require.Equal(t, actor.ID, view.SenderID)
}

func TestRecipientStatsInvariant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sender := env.mustUser(t, "boss")
	users := []uint{
		env.mustUser(t, "a").ID,
		env.mustUser(t, "b").ID,
		env.mustUser(t, "c").ID,
		env.mustUser(t, "d").ID,
	}

	id, err := env.messages.Send(ctx, sender.ID, MessageInput{
		Title: "invariant", RecipientIDs: users,
	})
	require.NoError(t, err)

	for i, userID := range users {
		require.NoError(t, env.messages.MarkReadForUser(ctx, userID, id, 0))

		view, err := env.messages.Get(ctx, id, 0)
		require.NoError(t, err)
		require.EqualValues(t, len(users), view.TotalRecipients)
		require.EqualValues(t, i+1, view.ReadCount)
		require.Equal(t, view.TotalRecipients, view.ReadCount+view.UnreadCount)
	}
}
