package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slowpoke/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// MaxPageSize is the most messages Discord returns per history request.
const MaxPageSize = 100

// Client reads channel history and member data and sets the bot presence.
type Client struct {
	session session
}

func NewClient(s session) *Client {
	return &Client{session: s}
}

// FetchRecentMessages pages backwards through the channel until limit messages were read or the channel start
// was reached. Messages are returned newest first.
func (c *Client) FetchRecentMessages(ctx context.Context, channelID string, limit int) ([]domain.ChatMessage,
	error) {
	messages := make([]domain.ChatMessage, 0, max(limit, 0))

	beforeID := ""
	for len(messages) < limit {
		size := min(limit-len(messages), MaxPageSize)

		page, err := c.session.ChannelMessages(channelID, size, beforeID, "", "", discordgo.WithContext(ctx))
		if err != nil {
			if isAccessDenied(err) {
				return nil, fmt.Errorf("%w: %w", domain.ErrAccessDenied, err)
			}
			return nil, fmt.Errorf("error fetching messages of channel %s: %w", channelID, err)
		}

		for _, m := range page {
			messages = append(messages, toChatMessage(m))
		}

		if len(page) < size {
			break
		}
		beforeID = page[len(page)-1].ID
	}

	log.Debug().Str("channelId", channelID).Int("messages", len(messages)).Msg("fetched channel history")

	return messages, nil
}

func (c *Client) ResolveMemberDisplayName(ctx context.Context, guildID, userID string) (string, error) {
	member, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("error fetching member %s: %w", userID, err)
	}

	name := memberDisplayName(member)
	if name == "" {
		return "", errors.New("member has no name")
	}

	return name, nil
}

func (c *Client) FetchMessage(ctx context.Context, channelID, messageID string) (domain.ChatMessage, error) {
	m, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("error fetching message %s: %w", messageID, err)
	}

	return toChatMessage(m), nil
}

func (c *Client) SetActivity(ctx context.Context, activity domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a := &discordgo.Activity{Name: activity.Name}
	switch activity.Kind {
	case domain.Playing:
		a.Type = discordgo.ActivityTypeGame
	case domain.Watching:
		a.Type = discordgo.ActivityTypeWatching
	case domain.Listening:
		a.Type = discordgo.ActivityTypeListening
	case domain.Custom:
		a.Type = discordgo.ActivityTypeCustom
		a.Name = "Custom Status"
		a.State = activity.Name
	}

	err := c.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status:     string(discordgo.StatusOnline),
		Activities: []*discordgo.Activity{a},
	})
	if err != nil {
		return fmt.Errorf("error updating presence: %w", err)
	}

	return nil
}

func isAccessDenied(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}

	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return true
	}

	return restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeMissingAccess
}
