package questions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"gorm.io/gorm"
)

// ErrEmptyQuestion is returned when a question has no text.
var ErrEmptyQuestion = errors.New("question text is required")

// Store persists question/answer interactions.
type Store struct {
	db           *gorm.DB
	historyLimit int
	now          func() time.Time
}

// NewStore creates a store. A positive historyLimit caps ListForUser to the
// most recent questions.
func NewStore(db *gorm.DB, historyLimit int) *Store {
	return &Store{db: db, historyLimit: historyLimit, now: time.Now}
}

// Create saves q, stamping CreatedAt when unset.
func (s *Store) Create(ctx context.Context, q *models.Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return ErrEmptyQuestion
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.now()
	}
	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

// ListForUser returns the user's questions oldest first.
func (s *Store) ListForUser(ctx context.Context, userID uint) ([]models.Question, error) {
	var out []models.Question
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)

	if s.historyLimit <= 0 {
		if err := query.Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
			return nil, fmt.Errorf("list questions of user %d: %w", userID, err)
		}
		return out, nil
	}

	if err := query.Order("created_at DESC, id DESC").Limit(s.historyLimit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list questions of user %d: %w", userID, err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Recent returns the newest questions across all users, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]models.Question, error) {
	var out []models.Question
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list recent questions: %w", err)
	}
	return out, nil
}
