package command

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultSides = 6
	MinSides     = 2
	MaxSides     = 100
)

type Roll struct {
	sender  port.Sender
	command string
	intn    func(int) int
	l       *zerolog.Logger
}

func NewRoll(sender port.Sender, command string) *Roll {
	return &Roll{
		sender:  sender,
		command: command,
		intn:    rand.IntN,
		l:       newLogger(command, "roll"),
	}
}

func (r *Roll) GetCommand() string {
	return r.command
}

func (r *Roll) Describe() domain.CommandSpec {
	return domain.CommandSpec{
		Name:        strings.TrimPrefix(r.command, "/"),
		Description: "Roll a dice with custom sides",
		Options: []domain.CommandOption{{
			Name:        "sides",
			Description: "Number of sides on the dice (default is 6)",
			Type:        domain.IntegerOption,
			MinValue:    MinSides,
			MaxValue:    MaxSides,
		}},
	}
}

func (r *Roll) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(r.l, message, "Respond")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sides := DefaultSides
	if arg := ParseCommandArgs(message.Text); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < MinSides || n > MaxSides {
			_, err := r.sender.SendReply(ctx, message, domain.Reply{
				Text: fmt.Sprintf("Please provide a valid number of sides between %d and %d.", MinSides, MaxSides),
			})
			return err
		}
		sides = n
	}

	result := r.intn(sides) + 1
	l.Info().Int("sides", sides).Int("result", result).Msg("handling request")

	_, err := r.sender.SendReply(ctx, message, domain.Reply{Embed: &domain.Embed{
		Title:       "Dice Roll",
		Description: fmt.Sprintf("🎲 You rolled a **%d** on a D%d!", result, sides),
		Color:       pick(domain.Palette(), r.intn),
	}})
	if err != nil {
		return fmt.Errorf("error sending roll: %w", err)
	}

	return nil
}
