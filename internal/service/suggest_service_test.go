package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridelink/internal/domain"
)

// 图：me–bob、me–carol 已接受；bob–dave、carol–dave、bob–erin 已接受。
// dave 有两个共同联系人，erin 一个。
func seedGraph(t *testing.T, env *testEnv) {
	for _, u := range [][2]string{
		{"me", "Me"}, {"bob", "Bob"}, {"carol", "Carol"}, {"dave", "Dave"}, {"erin", "Erin"},
	} {
		env.mustUser(t, u[0], u[1])
	}
	env.mustContact(t, "me", "bob")
	env.mustContact(t, "me", "carol")
	env.mustContact(t, "bob", "dave")
	env.mustContact(t, "carol", "dave")
	env.mustContact(t, "bob", "erin")
}

func TestSuggestRanking(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	seedGraph(t, env)

	out, err := env.suggestSvc.Suggest(ctx, "me")
	require.NoError(t, err)
	require.Len(t, out, 2)

	// 共同联系人数优先于共同行程数
	assert.Equal(t, "dave", out[0].UserID)
	assert.Equal(t, 2, out[0].MutualContacts)
	assert.Equal(t, "erin", out[1].UserID)
	assert.Equal(t, 1, out[1].MutualContacts)
	assert.Equal(t, "Dave", out[0].Name)
}

func TestSuggestSharedRidesBreakTies(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	seedGraph(t, env)

	// erin 和 bob 一起跑了很多单，但 dave 的两个共同联系人仍然压过行程信号
	erinID := "erin"
	for _, id := range []string{"s1", "s2", "s3", "s4", "s5"} {
		env.mustRide(t, id, "bob", domain.RideStatusCompleted, &erinID)
	}
	daveID := "dave"
	env.mustRide(t, "d1", "carol", domain.RideStatusCompleted, &daveID)

	out, err := env.suggestSvc.Suggest(ctx, "me")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "dave", out[0].UserID)
	assert.Equal(t, 1, out[0].SharedRides)
	assert.Equal(t, "erin", out[1].UserID)
	assert.Equal(t, 5, out[1].SharedRides)
}

func TestSuggestDeterministicTieBreak(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "me", "Me")
	env.mustUser(t, "bob", "Bob")
	env.mustUser(t, "xavier", "Xavier")
	env.mustUser(t, "yara", "Yara")
	env.mustContact(t, "me", "bob")
	env.mustContact(t, "bob", "xavier")
	env.mustContact(t, "bob", "yara")

	// 两个候选信号完全一样 → 按 id 升序
	out, err := env.suggestSvc.Suggest(ctx, "me")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "xavier", out[0].UserID)
	assert.Equal(t, "yara", out[1].UserID)
}

func TestSuggestExcludesSelfAndExistingContacts(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	seedGraph(t, env)

	out, err := env.suggestSvc.Suggest(ctx, "me")
	require.NoError(t, err)
	for _, s := range out {
		assert.NotEqual(t, "me", s.UserID)
		assert.NotContains(t, []string{"bob", "carol"}, s.UserID)
	}
}

func TestSuggestEmptyGraph(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.mustUser(t, "loner", "Loner")

	out, err := env.suggestSvc.Suggest(ctx, "loner")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSuggestLimit(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	env.suggestSvc.Limit = 1
	seedGraph(t, env)

	out, err := env.suggestSvc.Suggest(ctx, "me")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "dave", out[0].UserID)
}
