package port

import (
	"context"
	"slowpoke/internal/core/domain"
)

type Sender interface {
	// SendReply delivers a reply to the channel the message was received in and returns the sent message ID.
	SendReply(ctx context.Context, message *domain.Message, reply domain.Reply) (string, error)
	// EditReply replaces a reply previously returned by SendReply.
	EditReply(ctx context.Context, message *domain.Message, replyID string, reply domain.Reply) error
	// SendChatAction sends a specified chat action (e.g., typing, sending photo) to indicate activity in a channel
	// until the context is done.
	SendChatAction(ctx context.Context, channelID string, action domain.Action)
	// NotifyAndReturnError sends an error notification based on the provided message context and returns the error.
	NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error
}
