package command

import (
	"context"
	"fmt"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"slowpoke/internal/core/service"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	PromptColor = 0xA6E3A1

	PromptSystemInstruction = "Return your response in markdown. Give as complete of an answer as possible. " +
		"Assume whoever you're talking to will not be able to respond back so do not ask for follow-ups. " +
		"Do not hallucinate."
)

// Prompt answers a single question without channel context. Long answers are paginated over several embeds.
type Prompt struct {
	textGenerator port.TextGenerator
	sender        port.Sender
	chunker       *service.Chunker
	command       string
	l             *zerolog.Logger
}

type PromptParams struct {
	TextGenerator port.TextGenerator
	Sender        port.Sender
	ChunkSize     int
	Command       string
}

func NewPrompt(p PromptParams) *Prompt {
	return &Prompt{
		textGenerator: p.TextGenerator,
		sender:        p.Sender,
		chunker:       service.NewChunker(p.ChunkSize),
		command:       p.Command,
		l:             newLogger(p.Command, "prompt"),
	}
}

func (p *Prompt) GetCommand() string {
	return p.command
}

func (p *Prompt) Describe() domain.CommandSpec {
	return domain.CommandSpec{
		Name:        strings.TrimPrefix(p.command, "/"),
		Description: "Ask the LLM a question",
		Options: []domain.CommandOption{
			{Name: "prompt", Description: "Prompt for the LLM", Type: domain.StringOption, Required: true},
		},
	}
}

func (p *Prompt) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(p.l, message, "Respond")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := ParseCommandArgs(message.Text)
	if prompt == "" {
		return rejectInput(ctx, p.sender, domain.ErrEmptyPrompt, message)
	}

	l.Info().Str("prompt", prompt).Msg("handling request")

	go p.sender.SendChatAction(ctx, message.ChannelID, domain.Typing)

	response, err := p.textGenerator.GenerateText(ctx, domain.Prompt{
		SystemInstruction: PromptSystemInstruction,
		Body:              prompt,
	})
	if err != nil {
		return p.sender.NotifyAndReturnError(ctx, fmt.Errorf("failed to generate response: %w", err), message)
	}

	chunks := p.chunker.Split(fmt.Sprintf("***%s***\n\n%s", prompt, response))
	l.Debug().Int("parts", len(chunks)).Msg("sending response")

	return sendChunks(ctx, p.sender, message, chunks, func(chunk domain.Chunk) domain.Reply {
		embed := &domain.Embed{Description: chunk.Text, Color: PromptColor}
		if chunk.Total > 1 {
			embed.Footer = fmt.Sprintf("%d / %d", chunk.Index, chunk.Total)
		}

		return domain.Reply{Embed: embed}
	})
}
