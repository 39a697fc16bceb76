package command

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"slowpoke/internal/core/service"
	"time"

	"github.com/rs/zerolog"
)

const (
	remixMissingPrompt   = "Please provide instructions on how to remix."
	remixMissingReply    = "Please reply to a message with an image to remix it."
	remixNoImage         = "Could not extract image from the referenced message."
	remixFailed          = "Failed to generate the remixed image. Try altering the remix prompt."
	remixProcessingError = "There was an error processing the remix command."
)

// Remix edits the image of the message being replied to. It is only reachable as a prefix command.
type Remix struct {
	imageGenerator port.ImageGenerator
	extractor      *service.ImageExtractor
	sender         port.Sender
	command        string
	intn           func(int) int
	l              *zerolog.Logger
}

type RemixParams struct {
	ImageGenerator port.ImageGenerator
	Extractor      *service.ImageExtractor
	Sender         port.Sender
	Command        string
}

func NewRemix(p RemixParams) *Remix {
	return &Remix{
		imageGenerator: p.ImageGenerator,
		extractor:      p.Extractor,
		sender:         p.Sender,
		command:        p.Command,
		intn:           rand.IntN,
		l:              newLogger(p.Command, "remix"),
	}
}

func (r *Remix) GetCommand() string {
	return r.command
}

func (r *Remix) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(r.l, message, "Respond")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := ParseCommandArgs(message.Text)
	l.Info().Str("prompt", prompt).Msg("handling request")

	if prompt == "" {
		return r.fail(ctx, message, "Error", remixMissingPrompt, nil)
	}

	if message.ReplyTo == nil {
		return r.fail(ctx, message, "Error", remixMissingReply, nil)
	}

	go r.sender.SendChatAction(ctx, message.ChannelID, domain.SendingPhoto)

	source, err := r.extractor.Extract(ctx, *message.ReplyTo)
	if errors.Is(err, domain.ErrNoImageFound) {
		l.Info().Err(err).Str("replyTo", message.ReplyTo.ID).Msg("nothing to remix")
		return r.fail(ctx, message, "Error getting image", remixNoImage, nil)
	}
	if err != nil {
		return r.fail(ctx, message, "Error", remixProcessingError, fmt.Errorf("error extracting image: %w", err))
	}

	image, err := r.imageGenerator.GenerateImageFrom(ctx, prompt, source)
	if err != nil {
		return r.fail(ctx, message, "Error", remixFailed, fmt.Errorf("error generating image: %w", err))
	}

	_, err = r.sender.SendReply(ctx, message, imageReply("Remix!", prompt, pick(domain.Palette(), r.intn), image))
	if err != nil {
		return fmt.Errorf("error sending image: %w", err)
	}

	return nil
}

// fail answers with an error embed and returns cause, which is nil for plain usage errors.
func (r *Remix) fail(ctx context.Context, message *domain.Message, title, description string, cause error) error {
	if _, err := r.sender.SendReply(ctx, message, errorReply(title, description)); err != nil {
		return errors.Join(cause, err)
	}

	return cause
}
