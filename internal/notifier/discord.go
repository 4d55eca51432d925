package notifier

import (
	"errors"
	"fmt"

	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"github.com/bwmarrin/discordgo"
)

var ErrNotConfigured = errors.New("discord notifier is not configured")

// Notifier tells parents about badges their child earned.
type Notifier interface {
	NotifyBadgeEarned(user models.User, badge models.Badge) error
}

// MessageSender is the part of *discordgo.Session the notifier uses.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   MessageSender
	channelID string
}

func NewDiscordNotifier(session MessageSender, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// NewDiscordNotifierFromToken opens a bot session for token.
func NewDiscordNotifierFromToken(token, channelID string) (*DiscordNotifier, error) {
	if token == "" || channelID == "" {
		return nil, ErrNotConfigured
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return NewDiscordNotifier(session, channelID), nil
}

var rarityIcons = map[models.Rarity]string{
	models.RarityCommon:    "🥉",
	models.RarityUncommon:  "🥈",
	models.RarityRare:      "🥇",
	models.RarityEpic:      "💎",
	models.RarityLegendary: "🏆",
}

func badgeMessage(user models.User, badge models.Badge) string {
	icon, ok := rarityIcons[badge.Rarity]
	if !ok {
		icon = "🏅"
	}
	name := user.DisplayName
	if name == "" {
		name = user.Username
	}

	mention := ""
	if user.DiscordID != "" {
		mention = fmt.Sprintf(" (<@%s>)", user.DiscordID)
	}

	return fmt.Sprintf("%s **New Badge Earned**\n**Family:** %s%s\n**Badge:** %s (%s)\n%s",
		icon,
		name,
		mention,
		badge.Name,
		badge.Rarity,
		badge.Description,
	)
}

func (n *DiscordNotifier) NotifyBadgeEarned(user models.User, badge models.Badge) error {
	if n == nil || n.session == nil || n.channelID == "" {
		return ErrNotConfigured
	}
	if _, err := n.session.ChannelMessageSend(n.channelID, badgeMessage(user, badge)); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}
