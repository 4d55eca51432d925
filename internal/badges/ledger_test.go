package badges

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_AwardIdempotent(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return clock }

	badge := badgeByName(t, db, "Reading Star")

	first, err := ledger.Award(ctx, 1, badge.ID)
	require.NoError(t, err)
	assert.Equal(t, badge.Name, first.Badge.Name)
	assert.Equal(t, 0, first.DisplayOrder)
	assert.False(t, first.Favorite)

	clock = clock.Add(time.Hour)
	second, err := ledger.Award(ctx, 1, badge.ID)
	require.NoError(t, err)
	assert.True(t, first.EarnedAt.Equal(second.EarnedAt), "earnedAt must not change on re-award")

	var count int64
	require.NoError(t, db.Model(&models.UserBadge{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLedger_AwardConcurrent(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)
	badge := badgeByName(t, db, "Curious Mind")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Award(ctx, 7, badge.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent award failed: %v", err)
	}

	earned, err := ledger.EarnedBadges(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, earned, 1)
}

func TestLedger_EarnedBadgesJoined(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	science := badgeByName(t, db, "Science Explorer")
	maths := badgeByName(t, db, "Math Whiz")

	_, err := ledger.Award(ctx, 3, science.ID)
	require.NoError(t, err)
	_, err = ledger.Award(ctx, 3, maths.ID)
	require.NoError(t, err)
	_, err = ledger.Award(ctx, 4, maths.ID)
	require.NoError(t, err)

	earned, err := ledger.EarnedBadges(ctx, 3)
	require.NoError(t, err)
	require.Len(t, earned, 2)
	names := []string{earned[0].Badge.Name, earned[1].Badge.Name}
	assert.ElementsMatch(t, []string{"Science Explorer", "Math Whiz"}, names)

	none, err := ledger.EarnedBadges(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLedger_Update(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)
	badge := badgeByName(t, db, "Super Learner")

	awarded, err := ledger.Award(ctx, 5, badge.ID)
	require.NoError(t, err)

	order := 3
	fav := true
	updated, err := ledger.Update(ctx, 5, badge.ID, UserBadgeUpdate{DisplayOrder: &order, Favorite: &fav})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.DisplayOrder)
	assert.True(t, updated.Favorite)
	assert.True(t, awarded.EarnedAt.Equal(updated.EarnedAt))
	assert.Equal(t, "Super Learner", updated.Badge.Name)

	// Partial update leaves the other field alone.
	notFav := false
	updated, err = ledger.Update(ctx, 5, badge.ID, UserBadgeUpdate{Favorite: &notFav})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.DisplayOrder)
	assert.False(t, updated.Favorite)
}

func TestLedger_UpdateNotFound(t *testing.T) {
	db := newSeededDB(t)
	ledger := NewLedger(db)
	badge := badgeByName(t, db, "Math Whiz")

	order := 1
	_, err := ledger.Update(context.Background(), 5, badge.ID, UserBadgeUpdate{DisplayOrder: &order})
	assert.ErrorIs(t, err, ErrNotFound)
}
