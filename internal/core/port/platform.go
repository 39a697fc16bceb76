package port

import (
	"context"
	"slowpoke/internal/core/domain"
)

type History interface {
	// FetchRecentMessages returns up to limit messages of a channel, newest first. Fails with
	// domain.ErrAccessDenied when the bot cannot read the channel.
	FetchRecentMessages(ctx context.Context, channelID string, limit int) ([]domain.ChatMessage, error)
}

type MemberResolver interface {
	// ResolveMemberDisplayName returns the guild-scoped display name of a member.
	ResolveMemberDisplayName(ctx context.Context, guildID, userID string) (string, error)
}

type Downloader interface {
	// Download fetches the bytes behind a URL.
	Download(ctx context.Context, url string) ([]byte, error)
}

type PresenceSetter interface {
	SetActivity(ctx context.Context, activity domain.Activity) error
}
