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

const TftiURL = "https://youtube.com/shorts/pFmq2xu8Hvw?si=ysapcGMaM6YqEcOI"

// Tfti escalates with every consecutive tfti the bot has already posted in the channel.
type Tfti struct {
	counter *service.InvocationCounter
	sender  port.Sender
	command string
	l       *zerolog.Logger
}

func NewTfti(counter *service.InvocationCounter, sender port.Sender, command string) *Tfti {
	return &Tfti{
		counter: counter,
		sender:  sender,
		command: command,
		l:       newLogger(command, "tfti"),
	}
}

func (t *Tfti) GetCommand() string {
	return t.command
}

func (t *Tfti) Describe() domain.CommandSpec {
	return domain.CommandSpec{Name: strings.TrimPrefix(t.command, "/"), Description: "Thanks for the invite"}
}

func (t *Tfti) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(t.l, message, "Respond")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	count := t.counter.CountBefore(ctx, message.ChannelID, message.ID,
		service.BotRepliesTitled(message.BotID, domain.TftiTitlePrefix))
	variant := service.SelectVariant(domain.TftiVariants(), count)

	l.Info().Int("count", count).Str("variant", variant.Title).Msg("handling request")

	_, err := t.sender.SendReply(ctx, message, domain.Reply{Embed: &domain.Embed{
		Title:       variant.Title,
		Description: variant.Description,
		URL:         TftiURL,
		Color:       variant.Color,
	}})
	if err != nil {
		return fmt.Errorf("error sending tfti: %w", err)
	}

	return nil
}
