package handlers

import (
	"context"

	"github.com/askmebuddy/askmebuddy-api/internal/auth"
	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"github.com/askmebuddy/askmebuddy-api/internal/questions"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

const recentQuestionsLimit = 20

type QuestionHandler struct {
	store       *questions.Store
	authHandler *auth.AuthHandler
	logger      *zap.Logger
}

func NewQuestionHandler(store *questions.Store, authHandler *auth.AuthHandler, logger *zap.Logger) *QuestionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionHandler{store: store, authHandler: authHandler, logger: logger}
}

type QuestionsResponse struct {
	Body []models.Question
}

func (h *QuestionHandler) HandleRecent(ctx context.Context, _ *struct{}) (*QuestionsResponse, error) {
	recent, err := h.store.Recent(ctx, recentQuestionsLimit)
	if err != nil {
		h.logger.Error("Failed to fetch recent questions", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to fetch recent questions")
	}
	if recent == nil {
		recent = []models.Question{}
	}
	return &QuestionsResponse{Body: recent}, nil
}

func (h *QuestionHandler) HandleMine(ctx context.Context, input *auth.AuthInput) (*QuestionsResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	history, err := h.store.ListForUser(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to fetch question history", zap.Uint("user_id", userID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to fetch question history")
	}
	if history == nil {
		history = []models.Question{}
	}
	return &QuestionsResponse{Body: history}, nil
}
