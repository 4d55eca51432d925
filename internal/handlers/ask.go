package handlers

import (
	"context"
	"strings"

	"github.com/askmebuddy/askmebuddy-api/internal/answer"
	"github.com/askmebuddy/askmebuddy-api/internal/auth"
	"github.com/askmebuddy/askmebuddy-api/internal/badges"
	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"github.com/askmebuddy/askmebuddy-api/internal/notifier"
	"github.com/askmebuddy/askmebuddy-api/internal/questions"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BadgeEvaluator awards at most one badge for a freshly asked question.
type BadgeEvaluator interface {
	Evaluate(ctx context.Context, userID *uint, question models.Question) (*models.Badge, error)
}

type AskHandler struct {
	db        *gorm.DB
	answerer  answer.Answerer
	questions *questions.Store
	evaluator BadgeEvaluator
	notifier  notifier.Notifier
	logger    *zap.Logger
}

func NewAskHandler(db *gorm.DB, answerer answer.Answerer, store *questions.Store, evaluator BadgeEvaluator, n notifier.Notifier, logger *zap.Logger) *AskHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AskHandler{
		db:        db,
		answerer:  answerer,
		questions: store,
		evaluator: evaluator,
		notifier:  n,
		logger:    logger,
	}
}

type AskRequest struct {
	Body struct {
		Question      string `json:"question" minLength:"1" doc:"The child's question"`
		ContentFilter string `json:"contentFilter,omitempty" enum:"strict,moderate,standard" doc:"Answer filtering level, strict by default"`
		GenerateImage *bool  `json:"generateImage,omitempty" doc:"Generate an illustration, true by default"`
		GenerateAudio *bool  `json:"generateAudio,omitempty" doc:"Generate spoken audio, true by default"`
	}
}

type AskResponse struct {
	Body struct {
		Text               string          `json:"text"`
		ImageURL           string          `json:"imageUrl"`
		AudioURL           string          `json:"audioUrl,omitempty"`
		SuggestedQuestions []string        `json:"suggestedQuestions,omitempty"`
		Rewards            *badges.Rewards `json:"rewards,omitempty"`
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (h *AskHandler) HandleAsk(ctx context.Context, input *AskRequest) (*AskResponse, error) {
	question := strings.TrimSpace(input.Body.Question)
	if question == "" {
		return nil, huma.Error400BadRequest("Question is required")
	}
	filter, err := answer.ParseContentFilter(input.Body.ContentFilter)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	userID := auth.UserIDFromContext(ctx)

	ans, err := h.answerer.Answer(ctx, answer.Request{
		Question:      question,
		ContentFilter: filter,
		GenerateImage: boolOr(input.Body.GenerateImage, true),
		GenerateAudio: boolOr(input.Body.GenerateAudio, true),
	})
	if err != nil {
		h.logger.Error("Failed to generate answer", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to process your question. Please try again.")
	}

	saved := models.Question{
		UserID:   userID,
		Question: question,
		Answer:   ans.Text,
		ImageURL: ans.ImageURL,
		AudioURL: ans.AudioURL,
	}
	if err := h.questions.Create(ctx, &saved); err != nil {
		h.logger.Error("Failed to save question", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to process your question. Please try again.")
	}

	res := &AskResponse{}
	res.Body.Text = ans.Text
	res.Body.ImageURL = ans.ImageURL
	res.Body.AudioURL = ans.AudioURL
	res.Body.SuggestedQuestions = ans.SuggestedQuestions
	res.Body.Rewards = badges.ToPayload(h.earnedBadge(ctx, userID, saved))
	return res, nil
}

// earnedBadge runs badge evaluation. Failures are logged and mean no badge;
// they never fail the ask request.
func (h *AskHandler) earnedBadge(ctx context.Context, userID *uint, q models.Question) *models.Badge {
	if userID == nil || h.evaluator == nil {
		return nil
	}

	badge, err := h.evaluator.Evaluate(ctx, userID, q)
	if err != nil {
		h.logger.Warn("Badge evaluation failed",
			zap.Uint("user_id", *userID),
			zap.Uint("question_id", q.ID),
			zap.Error(err))
		return nil
	}
	if badge != nil {
		h.notify(ctx, *userID, *badge)
	}
	return badge
}

func (h *AskHandler) notify(ctx context.Context, userID uint, badge models.Badge) {
	if h.notifier == nil {
		return
	}
	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		h.logger.Warn("Badge notification skipped, user not found", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	if err := h.notifier.NotifyBadgeEarned(user, badge); err != nil {
		h.logger.Warn("Failed to send badge notification", zap.Uint("user_id", userID), zap.Error(err))
	}
}
