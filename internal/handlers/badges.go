package handlers

import (
	"context"
	"errors"

	"github.com/askmebuddy/askmebuddy-api/internal/auth"
	"github.com/askmebuddy/askmebuddy-api/internal/badges"
	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

type BadgeHandler struct {
	catalog     badges.Catalog
	ledger      badges.Ledger
	authHandler *auth.AuthHandler
	logger      *zap.Logger
}

func NewBadgeHandler(catalog badges.Catalog, ledger badges.Ledger, authHandler *auth.AuthHandler, logger *zap.Logger) *BadgeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BadgeHandler{catalog: catalog, ledger: ledger, authHandler: authHandler, logger: logger}
}

type CollectionResponse struct {
	Body *badges.Collection
}

// HandleCollection lists earned and available badges. Guests get empty lists.
func (h *BadgeHandler) HandleCollection(ctx context.Context, _ *struct{}) (*CollectionResponse, error) {
	collection, err := badges.Collect(ctx, h.catalog, h.ledger, auth.UserIDFromContext(ctx))
	if err != nil {
		h.logger.Error("Failed to fetch badges", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to fetch badges")
	}
	return &CollectionResponse{Body: collection}, nil
}

type EarnedBadgesResponse struct {
	Body []models.UserBadge
}

func (h *BadgeHandler) HandleEarned(ctx context.Context, input *auth.AuthInput) (*EarnedBadgesResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	earned, err := h.ledger.EarnedBadges(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to fetch earned badges", zap.Uint("user_id", userID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to fetch badges")
	}
	if earned == nil {
		earned = []models.UserBadge{}
	}
	return &EarnedBadgesResponse{Body: earned}, nil
}

type UpdateUserBadgeRequest struct {
	auth.AuthInput
	BadgeID uint `path:"badgeId" doc:"ID of an earned badge"`
	Body    struct {
		DisplayOrder *int  `json:"displayOrder,omitempty" doc:"Position in the user's badge shelf"`
		Favorite     *bool `json:"favorite,omitempty" doc:"Whether the badge is pinned as a favorite"`
	}
}

type UserBadgeResponse struct {
	Body *models.UserBadge
}

func (h *BadgeHandler) HandleUpdate(ctx context.Context, input *UpdateUserBadgeRequest) (*UserBadgeResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	updated, err := h.ledger.Update(ctx, userID, input.BadgeID, badges.UserBadgeUpdate{
		DisplayOrder: input.Body.DisplayOrder,
		Favorite:     input.Body.Favorite,
	})
	if errors.Is(err, badges.ErrNotFound) {
		return nil, huma.Error404NotFound("Badge not earned")
	}
	if err != nil {
		h.logger.Error("Failed to update badge", zap.Uint("user_id", userID), zap.Uint("badge_id", input.BadgeID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to update badge")
	}
	return &UserBadgeResponse{Body: updated}, nil
}
