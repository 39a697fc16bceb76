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

// DefaultPingPause keeps "Pinging..." visible before it is replaced.
const DefaultPingPause = time.Second

type Ping struct {
	sender  port.Sender
	command string
	pause   time.Duration
	now     func() time.Time
	l       *zerolog.Logger
}

func NewPing(sender port.Sender, command string) *Ping {
	return &Ping{
		sender:  sender,
		command: command,
		pause:   DefaultPingPause,
		now:     time.Now,
		l:       newLogger(command, "ping"),
	}
}

func (p *Ping) GetCommand() string {
	return p.command
}

func (p *Ping) Describe() domain.CommandSpec {
	return domain.CommandSpec{Name: strings.TrimPrefix(p.command, "/"), Description: "Test the bot's latency"}
}

func (p *Ping) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(p.l, message, "Respond")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := p.now()
	replyID, err := p.sender.SendReply(ctx, message, domain.Reply{Embed: &domain.Embed{
		Title:       "🌐 Ping!",
		Description: "Pinging...",
	}})
	if err != nil {
		return fmt.Errorf("error sending ping: %w", err)
	}
	latency := p.now().Sub(start)

	l.Info().Dur("latency", latency).Msg("handling request")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.pause):
	}

	err = p.sender.EditReply(ctx, message, replyID, domain.Reply{Embed: &domain.Embed{
		Title:       "🏓 Pong!",
		Description: fmt.Sprintf("Latency: %d ms", latency.Milliseconds()),
	}})
	if err != nil {
		return fmt.Errorf("error editing ping: %w", err)
	}

	return nil
}
