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

func newRide(id, requester string, at time.Time) *domain.Ride {
	return &domain.Ride{
		ID:          id,
		RequesterID: requester,
		FromText:    "home",
		ToText:      "school",
		ScheduledAt: at,
		Status:      domain.RideStatusPending,
	}
}

func TestRideUpdateStatusCAS(t *testing.T) {
	ctx := context.Background()
	r := repo.NewRideRepo(setupTestDB(t))

	require.NoError(t, r.Insert(ctx, newRide("r1", "alice", time.Now().Add(time.Hour))))

	// 先到先得
	err := r.UpdateStatus(ctx, "r1", domain.RideStatusPending, domain.RideStatusAccepted,
		map[string]any{"accepter_id": "bob"})
	require.NoError(t, err)

	// 第二个从同一个 expected 状态出发的写必然落空
	err = r.UpdateStatus(ctx, "r1", domain.RideStatusPending, domain.RideStatusAccepted,
		map[string]any{"accepter_id": "carol"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := r.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusAccepted, got.Status)
	require.NotNil(t, got.AccepterID)
	assert.Equal(t, "bob", *got.AccepterID)
}

func TestRideListPendingByRequestersOrdered(t *testing.T) {
	ctx := context.Background()
	r := repo.NewRideRepo(setupTestDB(t))
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, r.Insert(ctx, newRide("late", "alice", base.Add(2*time.Hour))))
	require.NoError(t, r.Insert(ctx, newRide("soon", "bob", base.Add(30*time.Minute))))
	require.NoError(t, r.Insert(ctx, newRide("other", "dave", base)))

	// dave 不在名单里
	out, err := r.ListPendingByRequesters(ctx, []string{"alice", "bob"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "soon", out[0].ID) // 出发时间早的在前
	assert.Equal(t, "late", out[1].ID)

	out, err = r.ListPendingByRequesters(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRideCloseAllOf(t *testing.T) {
	ctx := context.Background()
	r := repo.NewRideRepo(setupTestDB(t))
	at := time.Now().Add(time.Hour)

	// bob 接了 alice 的单
	require.NoError(t, r.Insert(ctx, newRide("taken", "alice", at)))
	require.NoError(t, r.UpdateStatus(ctx, "taken", domain.RideStatusPending,
		domain.RideStatusAccepted, map[string]any{"accepter_id": "bob"}))
	// bob 自己发的单
	require.NoError(t, r.Insert(ctx, newRide("own", "bob", at)))
	// 已完成的单不动
	require.NoError(t, r.Insert(ctx, newRide("done", "bob", at)))
	require.NoError(t, r.UpdateStatus(ctx, "done", domain.RideStatusPending,
		domain.RideStatusAccepted, map[string]any{"accepter_id": "alice"}))
	require.NoError(t, r.UpdateStatus(ctx, "done", domain.RideStatusAccepted,
		domain.RideStatusCompleted, nil))

	require.NoError(t, r.CloseAllOf(ctx, "bob"))

	// 接下的单退回 pending 且清空接单方
	taken, err := r.Get(ctx, "taken")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusPending, taken.Status)
	assert.Nil(t, taken.AccepterID)

	// 自己发的未终态单取消
	own, err := r.Get(ctx, "own")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusCancelled, own.Status)

	// 终态不动
	done, err := r.Get(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusCompleted, done.Status)
}
