package badges

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogEntry is a badge definition with its unlock rule already parsed.
// Rule is nil when the stored criterion is malformed; RuleErr says why.
type CatalogEntry struct {
	Badge   models.Badge
	Rule    UnlockRule
	RuleErr error
}

// Catalog is the read-only set of badge definitions.
type Catalog interface {
	All(ctx context.Context) ([]CatalogEntry, error)
	ByID(ctx context.Context, id uint) (*CatalogEntry, error)
	ByCategory(ctx context.Context, category string) ([]CatalogEntry, error)
}

// GormCatalog loads badges from the database on first use and keeps the
// parsed entries in memory. Badges are immutable after seeding, so the
// cached copy stays valid until Reload.
type GormCatalog struct {
	db     *gorm.DB
	logger *zap.Logger

	mu      sync.RWMutex
	entries []CatalogEntry
	loaded  bool
}

func NewCatalog(db *gorm.DB, logger *zap.Logger) *GormCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormCatalog{db: db, logger: logger}
}

// Reload re-reads every badge and re-parses its unlock rule.
func (c *GormCatalog) Reload(ctx context.Context) error {
	var rows []models.Badge
	if err := c.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("load badge catalog: %w", err)
	}

	entries := make([]CatalogEntry, 0, len(rows))
	for _, badge := range rows {
		rule, err := ParseUnlockRule(badge.UnlockCriteria)
		if err != nil {
			c.logger.Warn("Skipping badge with malformed unlock rule",
				zap.Uint("badge_id", badge.ID),
				zap.String("badge", badge.Name),
				zap.Error(err))
		}
		entries = append(entries, CatalogEntry{Badge: badge, Rule: rule, RuleErr: err})
	}

	c.mu.Lock()
	c.entries = entries
	c.loaded = true
	c.mu.Unlock()
	return nil
}

func (c *GormCatalog) snapshot(ctx context.Context) ([]CatalogEntry, error) {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if !loaded {
		if err := c.Reload(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out, nil
}

func (c *GormCatalog) All(ctx context.Context) ([]CatalogEntry, error) {
	return c.snapshot(ctx)
}

func (c *GormCatalog) ByID(ctx context.Context, id uint) (*CatalogEntry, error) {
	entries, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Badge.ID == id {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("badge %d: %w", id, ErrNotFound)
}

func (c *GormCatalog) ByCategory(ctx context.Context, category string) ([]CatalogEntry, error) {
	entries, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var out []CatalogEntry
	for _, e := range entries {
		if e.Badge.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

// DefaultBadges is the initial catalog.
func DefaultBadges() []models.Badge {
	return []models.Badge{
		{
			Name:           "Science Explorer",
			Description:    "Asked your first science question",
			ImageURL:       "/badges/science-explorer.svg",
			Category:       string(CategoryScience),
			Rarity:         models.RarityCommon,
			UnlockCriteria: mustEncode(CategoryFirst{Category: CategoryScience}),
		},
		{
			Name:           "Math Whiz",
			Description:    "Asked your first math question",
			ImageURL:       "/badges/math-whiz.svg",
			Category:       string(CategoryMath),
			Rarity:         models.RarityCommon,
			UnlockCriteria: mustEncode(CategoryFirst{Category: CategoryMath}),
		},
		{
			Name:           "Reading Star",
			Description:    "Asked your first question about reading or books",
			ImageURL:       "/badges/reading-star.svg",
			Category:       string(CategoryReading),
			Rarity:         models.RarityCommon,
			UnlockCriteria: mustEncode(CategoryFirst{Category: CategoryReading}),
		},
		{
			Name:           "Curious Mind",
			Description:    "Asked 5 questions",
			ImageURL:       "/badges/curious-mind.svg",
			Category:       "milestone",
			Rarity:         models.RarityCommon,
			UnlockCriteria: mustEncode(QuestionCount{Count: 5}),
		},
		{
			Name:           "Knowledge Seeker",
			Description:    "Asked 10 questions",
			ImageURL:       "/badges/knowledge-seeker.svg",
			Category:       "milestone",
			Rarity:         models.RarityUncommon,
			UnlockCriteria: mustEncode(QuestionCount{Count: 10}),
		},
		{
			Name:           "Super Learner",
			Description:    "Asked questions from 3 different categories",
			ImageURL:       "/badges/super-learner.svg",
			Category:       "special",
			Rarity:         models.RarityRare,
			UnlockCriteria: mustEncode(CategoryDiversity{Count: 3}),
		},
	}
}

// Seed inserts DefaultBadges when the badge table is empty and does nothing
// otherwise. It returns the number of badges created.
func Seed(ctx context.Context, db *gorm.DB, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	seeded := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Badge{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			logger.Debug("Badge catalog already present, skipping seed", zap.Int64("badges", count))
			return nil
		}

		defaults := DefaultBadges()
		if err := tx.Create(&defaults).Error; err != nil {
			return err
		}
		seeded = len(defaults)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another process seeded concurrently; the unique name index kept
			// the catalog intact.
			logger.Info("Badge catalog seeded concurrently", zap.Error(err))
			return 0, nil
		}
		return 0, fmt.Errorf("seed badges: %w", err)
	}

	if seeded > 0 {
		logger.Info("Seeded badge catalog", zap.Int("badges", seeded))
	}
	return seeded, nil
}
