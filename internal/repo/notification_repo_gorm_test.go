package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridelink/internal/domain"
	"ridelink/internal/repo"
)

func TestNotificationMarkReadOwnerOnly(t *testing.T) {
	ctx := context.Background()
	r := repo.NewNotificationRepo(setupTestDB(t))

	require.NoError(t, r.Append(ctx, &domain.Notification{
		ID: "n1", UserID: "alice", Message: "hi", Type: domain.NotifyContactRequest,
	}))

	// 别人的通知翻不了
	assert.ErrorIs(t, r.MarkRead(ctx, "n1", "bob"), domain.ErrNotFound)

	require.NoError(t, r.MarkRead(ctx, "n1", "alice"))
	n, err := r.CountUnread(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestNotificationListNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := repo.NewNotificationRepo(setupTestDB(t))
	base := time.Now().UTC().Truncate(time.Second)

	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, r.Append(ctx, &domain.Notification{
			ID: id, UserID: "alice", Message: id, Type: domain.NotifyBroadcast,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, total, err := r.ListByUser(ctx, "alice", 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
}

func TestNotificationPruneOlderThan(t *testing.T) {
	ctx := context.Background()
	r := repo.NewNotificationRepo(setupTestDB(t))
	now := time.Now().UTC()

	require.NoError(t, r.Append(ctx, &domain.Notification{
		ID: "ancient", UserID: "alice", Message: "m", Type: domain.NotifyBroadcast,
		CreatedAt: now.AddDate(0, 0, -120),
	}))
	require.NoError(t, r.Append(ctx, &domain.Notification{
		ID: "fresh", UserID: "alice", Message: "m", Type: domain.NotifyBroadcast,
		CreatedAt: now,
	}))

	pruned, err := r.PruneOlderThan(ctx, now.AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	_, total, err := r.ListByUser(ctx, "alice", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
