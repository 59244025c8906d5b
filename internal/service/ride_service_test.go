package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridelink/internal/domain"
	"ridelink/internal/service"
)

func TestRideCreateValidation(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")

	_, err := env.rideSvc.Create(ctx, "alice", service.CreateRideInput{ToText: "school"})
	assert.ErrorIs(t, err, service.ErrBadRideInput)

	ride, err := env.rideSvc.Create(ctx, "alice", service.CreateRideInput{
		FromText: "home", ToText: "school", ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusPending, ride.Status)
	assert.Nil(t, ride.AccepterID)
}

func TestRideAcceptRequiresAcceptedContact(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")
	env.mustUser(t, "mallory", "Mallory")
	env.mustRide(t, "r1", "alice", domain.RideStatusPending, nil)

	// 陌生人不能接单
	_, err := env.rideSvc.Accept(ctx, "r1", "mallory")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// pending 边也不行，必须是 accepted
	pending := domain.NewContact("e1", "mallory", "alice")
	require.NoError(t, env.contacts.Create(ctx, pending))
	_, err = env.rideSvc.Accept(ctx, "r1", "mallory")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, env.contacts.Accept(ctx, "e1"))
	ride, err := env.rideSvc.Accept(ctx, "r1", "mallory")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusAccepted, ride.Status)
}

func TestRideRequesterCannotAcceptOwn(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")
	env.mustRide(t, "r1", "alice", domain.RideStatusPending, nil)

	_, err := env.rideSvc.Accept(ctx, "r1", "alice")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRideSecondAcceptConflicts(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")
	env.mustUser(t, "bob", "Bob")
	env.mustUser(t, "carol", "Carol")
	env.mustContact(t, "alice", "bob")
	env.mustContact(t, "alice", "carol")
	env.mustRide(t, "r1", "alice", domain.RideStatusPending, nil)

	_, err := env.rideSvc.Accept(ctx, "r1", "bob")
	require.NoError(t, err)

	_, err = env.rideSvc.Accept(ctx, "r1", "carol")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// 输家没有覆盖赢家
	got, err := env.rides.Get(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got.AccepterID)
	assert.Equal(t, "bob", *got.AccepterID)
}

func TestRideLifecycle(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")
	env.mustUser(t, "bob", "Bob")
	env.mustContact(t, "alice", "bob")
	env.mustRide(t, "r1", "alice", domain.RideStatusPending, nil)

	// accept → 撤回 → 回到 pending，接单方清空
	_, err := env.rideSvc.Accept(ctx, "r1", "bob")
	require.NoError(t, err)
	ride, err := env.rideSvc.CancelOffer(ctx, "r1", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusPending, ride.Status)
	assert.Nil(t, ride.AccepterID)

	// 只有接单方能撤回
	_, err = env.rideSvc.CancelOffer(ctx, "r1", "alice")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// 再接一次 → 完成
	_, err = env.rideSvc.Accept(ctx, "r1", "bob")
	require.NoError(t, err)
	ride, err = env.rideSvc.Complete(ctx, "r1", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusCompleted, ride.Status)
	// 完成的单保留接单方
	require.NotNil(t, ride.AccepterID)
	assert.Equal(t, "bob", *ride.AccepterID)

	// 终态不可迁移
	_, err = env.rideSvc.Cancel(ctx, "r1", "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = env.rideSvc.Accept(ctx, "r1", "bob")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRideCancelClearsAccepter(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")
	env.mustUser(t, "bob", "Bob")
	env.mustContact(t, "alice", "bob")
	env.mustRide(t, "r1", "alice", domain.RideStatusPending, nil)

	_, err := env.rideSvc.Accept(ctx, "r1", "bob")
	require.NoError(t, err)

	// 接单方也可以取消整单
	ride, err := env.rideSvc.Cancel(ctx, "r1", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusCancelled, ride.Status)
	assert.Nil(t, ride.AccepterID)

	got, err := env.rides.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, got.AccepterID)
}

func TestRideGetParticipantsOnly(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")
	env.mustRide(t, "r1", "alice", domain.RideStatusPending, nil)

	_, err := env.rideSvc.Get(ctx, "r1", "snoop")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.rideSvc.Get(ctx, "missing", "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAvailableRidesVisibility(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")
	env.mustUser(t, "bob", "Bob")
	env.mustUser(t, "carol", "Carol")
	env.mustContact(t, "alice", "bob")

	env.mustRide(t, "a1", "alice", domain.RideStatusPending, nil)
	bobID := "bob"
	env.mustRide(t, "a2", "alice", domain.RideStatusAccepted, &bobID) // 已被接走
	env.mustRide(t, "b1", "bob", domain.RideStatusPending, nil)      // 自己的单
	env.mustRide(t, "c1", "carol", domain.RideStatusPending, nil)    // 圈外

	// bob 只看到 alice 的 pending 单
	out, err := env.rideSvc.AvailableRides(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a1", out[0].ID)

	// carol 没有任何联系人 → 空列表而不是报错
	out, err = env.rideSvc.AvailableRides(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, out)
}
