package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecomputeOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := []struct {
		name    string
		due     *time.Time
		status  Status
		overdue bool
	}{
		{"no due date", nil, StatusPending, false},
		{"due in future", &future, StatusPending, false},
		{"due in past, open", &past, StatusPending, true},
		{"due in past, in progress", &past, StatusInProgress, true},
		{"due in past, completed", &past, StatusCompleted, false},
		{"due in past, cancelled", &past, StatusCancelled, false},
		{"due exactly now", &now, StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := Task{DueDate: tc.due, Status: tc.status}
			task.RecomputeOverdue(now)
			require.Equal(t, tc.overdue, task.IsOverdue)
		})
	}
}

func TestEnumValidity(t *testing.T) {
	require.True(t, PriorityUrgent.Valid())
	require.False(t, Priority("extreme").Valid())

	require.True(t, StatusOnHold.Valid())
	require.False(t, Status("vanished").Valid())

	require.True(t, MessageAnnouncement.Valid())
	require.False(t, MessageType("shout").Valid())

	require.True(t, StatusCompleted.Terminal())
	require.True(t, StatusCancelled.Terminal())
	require.False(t, StatusOnHold.Terminal())
}

func TestPriorityRankOrdering(t *testing.T) {
	require.Greater(t, PriorityUrgent.Rank(), PriorityHigh.Rank())
	require.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	require.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
}

func TestMessageScheduledExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	var m Message
	require.False(t, m.Scheduled(now))
	require.False(t, m.Expired(now))

	m.ScheduledDate = &future
	m.ExpiryDate = &future
	require.True(t, m.Scheduled(now))
	require.False(t, m.Expired(now))

	m.ScheduledDate = &past
	m.ExpiryDate = &past
	require.False(t, m.Scheduled(now))
	require.True(t, m.Expired(now))
}
