package badges

import (
	"context"

	"github.com/askmebuddy/askmebuddy-api/internal/models"
)

// Collection splits the catalog into what a user holds and what is left.
type Collection struct {
	EarnedBadges    []models.Badge `json:"earnedBadges"`
	AvailableBadges []models.Badge `json:"availableBadges"`
}

// Collect builds the user's collection. Guests get empty lists.
func Collect(ctx context.Context, catalog Catalog, ledger Ledger, userID *uint) (*Collection, error) {
	out := &Collection{
		EarnedBadges:    []models.Badge{},
		AvailableBadges: []models.Badge{},
	}
	if userID == nil || *userID == 0 {
		return out, nil
	}

	earned, err := ledger.EarnedBadges(ctx, *userID)
	if err != nil {
		return nil, err
	}
	entries, err := catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	held := make(map[uint]struct{}, len(earned))
	for _, ub := range earned {
		held[ub.BadgeID] = struct{}{}
		out.EarnedBadges = append(out.EarnedBadges, ub.Badge)
	}
	for _, entry := range entries {
		if _, ok := held[entry.Badge.ID]; !ok {
			out.AvailableBadges = append(out.AvailableBadges, entry.Badge)
		}
	}
	return out, nil
}
