// Package channels provides chat-platform ingress for the sales
// engine. Only Discord is wired; each Discord channel maps to one
// engine session.
package channels

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dotsetgreg/leadpilot/pkg/config"
	"github.com/dotsetgreg/leadpilot/pkg/engine"
	"github.com/dotsetgreg/leadpilot/pkg/logger"
)

const turnTimeout = 120 * time.Second

type DiscordChannel struct {
	session   *discordgo.Session
	engine    *engine.Engine
	allowFrom []string
}

func NewDiscordChannel(cfg config.DiscordConfig, eng *engine.Engine) (*DiscordChannel, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordChannel{
		session:   session,
		engine:    eng,
		allowFrom: cfg.AllowFrom,
	}, nil
}

func (c *DiscordChannel) Start(ctx context.Context) error {
	logger.InfoC("discord", "Starting Discord channel")

	c.session.AddHandler(c.handleMessage)
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	botUser, err := c.session.User("@me")
	if err != nil {
		return fmt.Errorf("get bot user: %w", err)
	}
	logger.InfoCF("discord", "Discord channel connected", map[string]interface{}{
		"username": botUser.Username,
		"user_id":  botUser.ID,
	})
	return nil
}

func (c *DiscordChannel) Stop(ctx context.Context) error {
	logger.InfoC("discord", "Stopping Discord channel")
	if err := c.session.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}
	return nil
}

// IsAllowed accepts compound sender IDs like "123456|username" against
// the allow list; an empty list allows everyone.
func (c *DiscordChannel) IsAllowed(senderID string) bool {
	if len(c.allowFrom) == 0 {
		return true
	}

	idPart := senderID
	userPart := ""
	if idx := strings.Index(senderID, "|"); idx > 0 {
		idPart = senderID[:idx]
		userPart = senderID[idx+1:]
	}

	for _, allowed := range c.allowFrom {
		candidate := strings.TrimSpace(strings.TrimPrefix(allowed, "@"))
		if candidate == "" {
			continue
		}
		if candidate == senderID || candidate == idPart || (userPart != "" && candidate == userPart) {
			return true
		}
	}
	return false
}

func (c *DiscordChannel) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	senderID := m.Author.ID + "|" + m.Author.Username
	if !c.IsAllowed(senderID) {
		return
	}
	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}

	go c.processTurn(m.ChannelID, senderID, content)
}

func (c *DiscordChannel) processTurn(channelID, senderID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	resp, err := c.engine.ProcessTurn(ctx, &engine.TurnRequest{
		SessionID: "discord:" + channelID,
		Messages: []engine.IncomingMessage{
			{Role: "user", Content: content},
		},
	})
	if err != nil && resp == nil {
		logger.ErrorCF("discord", "Turn failed", map[string]interface{}{
			"channel_id": channelID,
			"sender_id":  senderID,
			"error":      err.Error(),
		})
		return
	}
	// Model failures still carry the fallback reply; send it.
	if _, err := c.session.ChannelMessageSend(channelID, resp.Reply); err != nil {
		logger.WarnCF("discord", "Failed to send reply", map[string]interface{}{
			"channel_id": channelID,
			"error":      err.Error(),
		})
	}
}
