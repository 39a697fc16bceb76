package command

import (
	"context"
	"fmt"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const ImagineColor = 0x89DCEB

type Imagine struct {
	imageGenerator port.ImageGenerator
	sender         port.Sender
	command        string
	l              *zerolog.Logger
}

func NewImagine(imageGenerator port.ImageGenerator, sender port.Sender, command string) *Imagine {
	return &Imagine{
		imageGenerator: imageGenerator,
		sender:         sender,
		command:        command,
		l:              newLogger(command, "imagine"),
	}
}

func (i *Imagine) GetCommand() string {
	return i.command
}

func (i *Imagine) Describe() domain.CommandSpec {
	return domain.CommandSpec{
		Name:        strings.TrimPrefix(i.command, "/"),
		Description: "Image generation with slowpoke",
		Options: []domain.CommandOption{
			{Name: "prompt", Description: "Prompt for image generation", Type: domain.StringOption, Required: true},
		},
	}
}

func (i *Imagine) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(i.l, message, "Respond")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := ParseCommandArgs(message.Text)
	if prompt == "" {
		return rejectInput(ctx, i.sender, domain.ErrEmptyPrompt, message)
	}

	l.Info().Str("prompt", prompt).Msg("handling request")

	go i.sender.SendChatAction(ctx, message.ChannelID, domain.SendingPhoto)

	image, err := i.imageGenerator.GenerateImage(ctx, prompt)
	if err != nil {
		return i.sender.NotifyAndReturnError(ctx, fmt.Errorf("error generating image: %w", err), message)
	}

	_, err = i.sender.SendReply(ctx, message, imageReply("Imagine", prompt, ImagineColor, image))
	if err != nil {
		return fmt.Errorf("error sending image: %w", err)
	}

	return nil
}
