package command

import (
	"context"
	"errors"
	"fmt"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"slowpoke/internal/core/service"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultChatChunkSize is the plain message limit of Discord.
	DefaultChatChunkSize = 2000

	AccessDeniedHint = "Ah! I'm not able to see the messages in this chat. " +
		"You might need to add me to the chat or channel before I can chat with you."
)

var errEmptyResponse = errors.New("model returned an empty response")

type Chat struct {
	history       port.History
	identity      *service.IdentityResolver
	textGenerator port.TextGenerator
	sender        port.Sender
	chunker       *service.Chunker
	historyLimit  int
	command       string
	l             *zerolog.Logger
}

type ChatParams struct {
	History       port.History
	Identity      *service.IdentityResolver
	TextGenerator port.TextGenerator
	Sender        port.Sender
	HistoryLimit  int
	ChunkSize     int
	Command       string
}

func NewChat(p ChatParams) *Chat {
	if p.HistoryLimit < 1 {
		p.HistoryLimit = service.DefaultHistoryLimit
	}
	if p.ChunkSize < 1 {
		p.ChunkSize = DefaultChatChunkSize
	}

	return &Chat{
		history:       p.History,
		identity:      p.Identity,
		textGenerator: p.TextGenerator,
		sender:        p.Sender,
		chunker:       service.NewChunker(p.ChunkSize),
		historyLimit:  p.HistoryLimit,
		command:       p.Command,
		l:             newLogger(p.Command, "chat"),
	}
}

func (c *Chat) GetCommand() string {
	return c.command
}

func (c *Chat) Describe() domain.CommandSpec {
	return domain.CommandSpec{Name: strings.TrimPrefix(c.command, "/"), Description: "Chat with slowpoke"}
}

func (c *Chat) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(c.l, message, "Respond")
	l.Info().Str("username", message.Username).Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	go c.sender.SendChatAction(ctx, message.ChannelID, domain.Typing)

	history, err := c.history.FetchRecentMessages(ctx, message.ChannelID, c.historyLimit)
	if errors.Is(err, domain.ErrAccessDenied) {
		l.Info().Err(err).Msg("channel history not readable")
		_, err = c.sender.SendReply(ctx, message, domain.Reply{Text: AccessDeniedHint})
		return err
	}
	if err != nil {
		return c.sender.NotifyAndReturnError(ctx, fmt.Errorf("failed to fetch channel history: %w", err), message)
	}

	messages := service.Chronological(service.MostRecent(history, c.historyLimit))
	names := c.identity.Resolve(ctx, message.GuildID, service.AuthorIDs(messages))
	transcript := service.RenderTranscript(messages, names)

	l.Debug().Int("messages", len(messages)).Int("names", len(names)).Msg("transcript rendered")

	response, err := c.textGenerator.GenerateText(ctx, domain.Prompt{
		SystemInstruction: ChatSystemInstruction,
		Body:              transcript,
	})
	if err != nil {
		return c.sender.NotifyAndReturnError(ctx, fmt.Errorf("failed to generate response: %w", err), message)
	}

	if strings.TrimSpace(response) == "" {
		return c.sender.NotifyAndReturnError(ctx, errEmptyResponse, message)
	}

	return sendChunks(ctx, c.sender, message, c.chunker.Split(response), func(chunk domain.Chunk) domain.Reply {
		return domain.Reply{Text: chunk.Text}
	})
}

const ChatSystemInstruction = "You are a Discord bot named slowpoke. You are named after\n" +
	"the Pokémon Slowpoke. Respond to the Discord messages in the channel. You will be able to see up to\n" +
	"the last 100 messages in the channel. The messages will be in chronological order. Each message will\n" +
	"be given in the following format:\n\n" +
	"```\n[name: {author name}][time: {timestamp of when message was sent}][isBot: false]: {message_content}\n```\n\n" +
	"The following is a real world example of two messages:\n\n" +
	"```\n" +
	"[name: Soonay][time: 2025-05-30T19:15Z][isBot: false]: Hello, how are you?\n" +
	"[name: Money Money][time: 2025-05-30T19:16Z][isBot: false]: I'm good how are you?\n" +
	"```\n\n" +
	"The name and time blocks show the name the person who sent the message and the timestamp in UTC\n" +
	"that the message was sent. Sometimes, channels will include messages from bots. The isBot block\n" +
	"shows if the message was sent by a bot or not. You can also use this to determine if a message in\n" +
	"the channel was sent by you. For example, a message sent by you would look like this since your\n" +
	"name is slowpoke and you are a discord bot:\n\n" +
	"```\n[name: slowpoke][time: 2024-03-14T08:11Z][isBot: true]: Hi! I'm slowpoke, a Discord bot!\n```\n\n" +
	"Generate a response to participate in the conversation. The output of your response should just be\n" +
	"the text of the message. For example, if the message says:\n\n" +
	"```\n[name: jeph][time: 2025-01-20T16:32Z][isBot: false]: Hi slowpoke! How are you doing?\n```\n\n" +
	"Your response should be in the following format without the code block:\n\n" +
	"```\nI'm good jeph! How are you doing?\n```\n\n" +
	"You may see up to the last 100 messages in the channel, but you should only respond to the most\n" +
	"recent messages that are relevant to the conversation. For example:\n\n" +
	"```\n" +
	"[name: Soonay][time: 2024-01-20T19:15Z][isBot: false]: I like ice cream, do you like ice cream?\n" +
	"[name: Money Money][time: 2025-05-30T19:16Z][isBot: false]: How are you doing today?\n" +
	"```\n\n" +
	"You would respond to Money Money and ignore Soonay because their question was over a year ago and\n" +
	"no longer relevant to the conversation. You would say something like the following and ignore the\n" +
	"question about ice cream:\n\n" +
	"```\nI'm doing great! Thanks for asking.\n```\n\n" +
	"Aside from the examples responses above (which are meant to be used as a guide and not taken\n" +
	"literally), here are some general guidelines on how to respond:\n" +
	"- Respond in a way that you think would be appropriate for the conversation.\n" +
	"- Try to be helpful. If people are arguing, try to diffuse the situation or resolve the conflict.\n" +
	"- If people are asking questions, try to answer them.\n" +
	"- Be a bit edgy. Not every message needs to be positive, friendly, or politically correct.\n" +
	"- Find opportunities to roast and troll people.\n" +
	"- Use emojis, but don't overuse them. Not every message needs an emoji.\n"
