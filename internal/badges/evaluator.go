package badges

import (
	"context"
	"fmt"
	"sort"

	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"go.uber.org/zap"
)

// QuestionHistory lists a user's questions ordered by creation time,
// oldest first.
type QuestionHistory interface {
	ListForUser(ctx context.Context, userID uint) ([]models.Question, error)
}

// Evaluator decides which badge, if any, a question unlocks.
type Evaluator struct {
	questions QuestionHistory
	catalog   Catalog
	ledger    Ledger
	logger    *zap.Logger
}

func NewEvaluator(questions QuestionHistory, catalog Catalog, ledger Ledger, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		questions: questions,
		catalog:   catalog,
		ledger:    ledger,
		logger:    logger,
	}
}

type thresholdEntry struct {
	entry     CatalogEntry
	threshold int
}

// byThresholdDesc orders milestone badges so the highest reached milestone is
// awarded first. Equal thresholds fall back to badge ID.
func byThresholdDesc(entries []thresholdEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].threshold != entries[j].threshold {
			return entries[i].threshold > entries[j].threshold
		}
		return entries[i].entry.Badge.ID < entries[j].entry.Badge.ID
	})
}

// Evaluate awards and returns at most one newly unlocked badge for the user
// who just asked question. Rule tiers are checked in a fixed order:
// CategoryFirst, then QuestionCount, then CategoryDiversity; the first
// satisfied unearned badge wins and the rest wait for a later call.
//
// A nil userID is a guest and returns nil without touching storage. Storage
// failures wrap ErrStorageUnavailable.
func (e *Evaluator) Evaluate(ctx context.Context, userID *uint, question models.Question) (*models.Badge, error) {
	if userID == nil || *userID == 0 {
		return nil, nil
	}
	uid := *userID

	history, err := e.questions.ListForUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: question history: %v", ErrStorageUnavailable, err)
	}
	history = withQuestion(history, question)

	earnedEntries, err := e.ledger.EarnedBadges(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: earned badges: %v", ErrStorageUnavailable, err)
	}
	earned := make(map[uint]struct{}, len(earnedEntries))
	for _, ub := range earnedEntries {
		earned[ub.BadgeID] = struct{}{}
	}

	entries, err := e.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", ErrStorageUnavailable, err)
	}

	var (
		firsts      []CatalogEntry
		counts      []thresholdEntry
		diversities []thresholdEntry
	)
	for _, entry := range entries {
		if _, ok := earned[entry.Badge.ID]; ok {
			continue
		}
		switch rule := entry.Rule.(type) {
		case CategoryFirst:
			firsts = append(firsts, entry)
		case QuestionCount:
			counts = append(counts, thresholdEntry{entry: entry, threshold: rule.Count})
		case CategoryDiversity:
			diversities = append(diversities, thresholdEntry{entry: entry, threshold: rule.Count})
		default:
			e.logger.Debug("Badge has no usable unlock rule",
				zap.Uint("badge_id", entry.Badge.ID),
				zap.Error(entry.RuleErr))
		}
	}

	categories := make([]Category, len(history))
	for i, q := range history {
		categories[i] = Classify(q.Question)
	}

	// Tier a: first question in the just-asked question's category.
	current := Classify(question.Question)
	inCategory := 0
	for _, c := range categories {
		if c == current {
			inCategory++
		}
	}
	if inCategory == 1 {
		for _, entry := range firsts {
			if entry.Rule.(CategoryFirst).Category == current {
				return e.award(ctx, uid, entry)
			}
		}
	}

	// Tier b: total question milestones.
	byThresholdDesc(counts)
	for _, te := range counts {
		if len(history) >= te.threshold {
			return e.award(ctx, uid, te.entry)
		}
	}

	// Tier c: distinct categories.
	distinct := make(map[Category]struct{})
	for _, c := range categories {
		distinct[c] = struct{}{}
	}
	byThresholdDesc(diversities)
	for _, te := range diversities {
		if len(distinct) >= te.threshold {
			return e.award(ctx, uid, te.entry)
		}
	}

	return nil, nil
}

func (e *Evaluator) award(ctx context.Context, userID uint, entry CatalogEntry) (*models.Badge, error) {
	if _, err := e.ledger.Award(ctx, userID, entry.Badge.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	e.logger.Info("Badge awarded",
		zap.Uint("user_id", userID),
		zap.Uint("badge_id", entry.Badge.ID),
		zap.String("badge", entry.Badge.Name),
		zap.String("rule", string(entry.Rule.Type())))
	badge := entry.Badge
	return &badge, nil
}

// withQuestion makes sure q is the last item of history when the caller has
// not persisted it yet.
func withQuestion(history []models.Question, q models.Question) []models.Question {
	if q.ID != 0 {
		for _, h := range history {
			if h.ID == q.ID {
				return history
			}
		}
	}
	return append(history, q)
}
