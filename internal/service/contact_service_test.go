package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridelink/internal/domain"
)

func TestContactRequestFlow(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	alice := env.mustUser(t, "alice", "Alice")
	bob := env.mustUser(t, "bob", "Bob")

	edge, err := env.contactSvc.Request(ctx, "alice", bob.Phone)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusPending, edge.Status)
	assert.Equal(t, "alice", edge.RequestedBy)

	// 对方收到通知
	n, err := env.notifs.CountUnread(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// 任何方向的重复请求都被拒
	_, err = env.contactSvc.Request(ctx, "bob", alice.Phone)
	assert.ErrorIs(t, err, domain.ErrDuplicateEdge)
}

func TestContactRequestSelfAndUnknown(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	alice := env.mustUser(t, "alice", "Alice")

	_, err := env.contactSvc.Request(ctx, "alice", alice.Phone)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = env.contactSvc.Request(ctx, "alice", "+15550000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContactAcceptOnlyAddressee(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")
	bob := env.mustUser(t, "bob", "Bob")

	edge, err := env.contactSvc.Request(ctx, "alice", bob.Phone)
	require.NoError(t, err)

	// 发起方自己不能 accept
	_, err = env.contactSvc.Accept(ctx, edge.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := env.contactSvc.Accept(ctx, edge.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusAccepted, got.Status)

	// 二次 accept
	_, err = env.contactSvc.Accept(ctx, edge.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestContactRemoveEitherSide(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")
	bob := env.mustUser(t, "bob", "Bob")

	edge, err := env.contactSvc.Request(ctx, "alice", bob.Phone)
	require.NoError(t, err)

	// 局外人删不了
	assert.ErrorIs(t, env.contactSvc.Remove(ctx, edge.ID, "carol"), domain.ErrForbidden)
	require.NoError(t, env.contactSvc.Remove(ctx, edge.ID, "bob"))

	// 删掉之后可以重新发起
	_, err = env.contactSvc.Request(ctx, "alice", bob.Phone)
	assert.NoError(t, err)
}

func TestContactListStatusFilter(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "alice", "Alice")
	bob := env.mustUser(t, "bob", "Bob")
	carol := env.mustUser(t, "carol", "Carol")

	e1, err := env.contactSvc.Request(ctx, "alice", bob.Phone)
	require.NoError(t, err)
	_, err = env.contactSvc.Request(ctx, "alice", carol.Phone)
	require.NoError(t, err)
	_, err = env.contactSvc.Accept(ctx, e1.ID, "bob")
	require.NoError(t, err)

	all, err := env.contactSvc.List(ctx, "alice", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	accepted, err := env.contactSvc.List(ctx, "alice", domain.ContactStatusAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, e1.ID, accepted[0].ID)
}
