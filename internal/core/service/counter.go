package service

import (
	"context"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"strings"

	"github.com/rs/zerolog/log"
)

const DefaultCounterLookback = 18

// CountRun returns how many of the freshest messages satisfy match without interruption.
// messages must be ordered newest first.
func CountRun(messages []domain.ChatMessage, match func(domain.ChatMessage) bool) int {
	count := 0
	for _, m := range messages {
		if !match(m) {
			break
		}
		count++
	}

	return count
}

// SelectVariant maps a run length onto an escalation table. Counts past the end select the last, open-ended entry.
func SelectVariant(table []domain.Variant, count int) domain.Variant {
	if count >= len(table) {
		return table[len(table)-1]
	}

	return table[max(count, 0)]
}

// BotRepliesTitled matches messages sent by botID that carry an embed whose title starts with prefix.
func BotRepliesTitled(botID, prefix string) func(domain.ChatMessage) bool {
	return func(m domain.ChatMessage) bool {
		if m.AuthorID != botID {
			return false
		}

		for _, e := range m.Embeds {
			if strings.HasPrefix(e.Title, prefix) {
				return true
			}
		}

		return false
	}
}

// InvocationCounter counts the bot's consecutive earlier replies of one kind in a channel.
type InvocationCounter struct {
	history  port.History
	lookback int
}

func NewInvocationCounter(history port.History, lookback int) *InvocationCounter {
	if lookback < 1 {
		lookback = DefaultCounterLookback
	}

	return &InvocationCounter{history: history, lookback: lookback}
}

// Count never fails: when the history cannot be read the run is treated as empty.
func (c *InvocationCounter) Count(ctx context.Context, channelID string, match func(domain.ChatMessage) bool) int {
	return c.CountBefore(ctx, channelID, "", match)
}

// CountBefore is Count for channels whose history may already hold the invoking message itself, as is the case
// for prefix commands, or the bot's pending placeholder for a deferred slash command. Neither is part of the run.
func (c *InvocationCounter) CountBefore(ctx context.Context, channelID, messageID string,
	match func(domain.ChatMessage) bool) int {
	messages, err := c.history.FetchRecentMessages(ctx, channelID, c.lookback+1)
	if err != nil {
		log.Warn().Err(err).Str("channelId", channelID).Msg("could not fetch history, assuming no earlier replies")
		return 0
	}

	for len(messages) > 0 && (messages[0].Pending || messageID != "" && messages[0].ID == messageID) {
		messages = messages[1:]
	}

	return CountRun(MostRecent(messages, c.lookback), match)
}
