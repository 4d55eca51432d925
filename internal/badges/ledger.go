package badges

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserBadgeUpdate holds the user-adjustable fields of a ledger entry. Nil
// fields are left unchanged.
type UserBadgeUpdate struct {
	DisplayOrder *int  `json:"displayOrder,omitempty"`
	Favorite     *bool `json:"favorite,omitempty"`
}

// Ledger records which badges each user has earned.
type Ledger interface {
	EarnedBadges(ctx context.Context, userID uint) ([]models.UserBadge, error)
	Award(ctx context.Context, userID, badgeID uint) (*models.UserBadge, error)
	Update(ctx context.Context, userID, badgeID uint, update UserBadgeUpdate) (*models.UserBadge, error)
}

// GormLedger stores ledger entries in the user_badges table, whose composite
// primary key (user_id, badge_id) backs the one-award-per-badge invariant.
type GormLedger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db, now: time.Now}
}

// EarnedBadges returns the user's entries joined with their badge, in
// display order.
func (l *GormLedger) EarnedBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var entries []models.UserBadge
	err := l.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("display_order ASC, earned_at ASC, badge_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list badges of user %d: %w", userID, err)
	}
	return entries, nil
}

// Award records badgeID for userID. If the user already holds the badge the
// existing entry is returned untouched, including when a concurrent call
// inserted it first.
func (l *GormLedger) Award(ctx context.Context, userID, badgeID uint) (*models.UserBadge, error) {
	entry := models.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: l.now(),
	}

	db := l.db.WithContext(ctx)
	err := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return nil, fmt.Errorf("award badge %d to user %d: %w", badgeID, userID, err)
	}

	return l.find(db, userID, badgeID)
}

// Update changes display order and favorite flag. It fails with ErrNotFound
// when the user has not earned the badge.
func (l *GormLedger) Update(ctx context.Context, userID, badgeID uint, update UserBadgeUpdate) (*models.UserBadge, error) {
	var updated *models.UserBadge
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := l.find(tx, userID, badgeID)
		if err != nil {
			return err
		}

		changes := map[string]any{}
		if update.DisplayOrder != nil {
			changes["display_order"] = *update.DisplayOrder
		}
		if update.Favorite != nil {
			changes["favorite"] = *update.Favorite
		}
		if len(changes) > 0 {
			err := tx.Model(&models.UserBadge{}).
				Where("user_id = ? AND badge_id = ?", userID, badgeID).
				Updates(changes).Error
			if err != nil {
				return fmt.Errorf("update badge %d of user %d: %w", badgeID, userID, err)
			}
			existing, err = l.find(tx, userID, badgeID)
			if err != nil {
				return err
			}
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (l *GormLedger) find(db *gorm.DB, userID, badgeID uint) (*models.UserBadge, error) {
	var entry models.UserBadge
	err := db.Preload("Badge").
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d has no badge %d: %w", userID, badgeID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read badge %d of user %d: %w", badgeID, userID, err)
	}
	return &entry, nil
}
