package badges

import "github.com/askmebuddy/askmebuddy-api/internal/models"

// Rewards is the optional block attached to an ask response.
type Rewards struct {
	BadgeEarned *models.Badge `json:"badgeEarned,omitempty"`
}

// ToPayload wraps an evaluation result; nil means no rewards block.
func ToPayload(badge *models.Badge) *Rewards {
	if badge == nil {
		return nil
	}
	return &Rewards{BadgeEarned: badge}
}
