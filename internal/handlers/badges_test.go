package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCollection(t *testing.T) {
	env := newTestEnv(t)
	h := NewBadgeHandler(env.catalog, env.ledger, env.auth, nil)

	guest, err := h.HandleCollection(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, guest.Body.EarnedBadges)
	assert.Empty(t, guest.Body.AvailableBadges)

	entries, err := env.catalog.ByCategory(context.Background(), "math")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, err = env.ledger.Award(context.Background(), env.user.ID, entries[0].Badge.ID)
	require.NoError(t, err)

	resp, err := h.HandleCollection(env.userCtx(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Body.EarnedBadges, 1)
	assert.Equal(t, "Math Whiz", resp.Body.EarnedBadges[0].Name)
	assert.Len(t, resp.Body.AvailableBadges, 5)
}

func TestHandleEarnedAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	h := NewBadgeHandler(env.catalog, env.ledger, env.auth, nil)
	ctx := env.userCtx()

	empty, err := h.HandleEarned(ctx, &authInput)
	require.NoError(t, err)
	assert.NotNil(t, empty.Body)
	assert.Empty(t, empty.Body)

	entries, err := env.catalog.ByCategory(context.Background(), "science")
	require.NoError(t, err)
	badgeID := entries[0].Badge.ID

	update := &UpdateUserBadgeRequest{BadgeID: badgeID}
	fav := true
	order := 3
	update.Body.Favorite = &fav
	update.Body.DisplayOrder = &order

	_, err = h.HandleUpdate(ctx, update)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = env.ledger.Award(context.Background(), env.user.ID, badgeID)
	require.NoError(t, err)

	resp, err := h.HandleUpdate(ctx, update)
	require.NoError(t, err)
	assert.True(t, resp.Body.Favorite)
	assert.Equal(t, 3, resp.Body.DisplayOrder)

	earned, err := h.HandleEarned(ctx, &authInput)
	require.NoError(t, err)
	require.Len(t, earned.Body, 1)
	assert.Equal(t, "Science Explorer", earned.Body[0].Badge.Name)
	assert.True(t, earned.Body[0].Favorite)
}

func TestHandleEarned_Unauthorized(t *testing.T) {
	env := newTestEnv(t)
	h := NewBadgeHandler(env.catalog, env.ledger, env.auth, nil)

	_, err := h.HandleEarned(context.Background(), &authInput)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}
