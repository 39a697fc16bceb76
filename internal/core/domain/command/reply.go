package command

import (
	"context"
	"fmt"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const ImageFileName = "image.png"

func newLogger(command, handler string) *zerolog.Logger {
	l := log.With().
		Str("command", command).
		Str("handler", handler).
		Logger()

	return &l
}

// requestLogger scopes a command logger to one invocation.
func requestLogger(l *zerolog.Logger, message *domain.Message, fn string) zerolog.Logger {
	return l.With().
		Str("messageId", message.ID).
		Str("channelId", message.ChannelID).
		Str("invocation", invocationID()).
		Str("func", fn).
		Logger()
}

func invocationID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}

	return id.String()
}

// rejectInput tells the user why their input was refused. Refused input is not an error of the command, so only a
// failed notification is returned.
func rejectInput(ctx context.Context, sender port.Sender, cause error, message *domain.Message) error {
	err := sender.NotifyAndReturnError(ctx, cause, message)
	if err == nil || err == cause {
		return nil
	}

	return err
}

func errorReply(title, description string) domain.Reply {
	return domain.Reply{Embed: &domain.Embed{
		Title:       title,
		Description: description,
		Color:       domain.ErrorColor,
	}}
}

func imageReply(title, description string, color int, image []byte) domain.Reply {
	return domain.Reply{
		Embed: &domain.Embed{
			Title:       title,
			Description: description,
			Color:       color,
			ImageURL:    "attachment://" + ImageFileName,
		},
		File: &domain.File{Name: ImageFileName, ContentType: mimetype.Detect(image).String(), Data: image},
	}
}

// sendChunks delivers the chunks one after another, in order. A failed send aborts the remaining chunks.
func sendChunks(ctx context.Context, sender port.Sender, message *domain.Message, chunks []domain.Chunk,
	render func(domain.Chunk) domain.Reply) error {
	for _, chunk := range chunks {
		if _, err := sender.SendReply(ctx, message, render(chunk)); err != nil {
			return fmt.Errorf("error sending part %d / %d: %w", chunk.Index, chunk.Total, err)
		}
	}

	return nil
}

func pick[T any](table []T, intn func(int) int) T {
	return table[intn(len(table))]
}
