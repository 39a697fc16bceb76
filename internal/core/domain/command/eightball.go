package command

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	EightBallTitle = "8 Ball Has Spoken"

	// maxQuestionLength keeps the question within the embed field name limit.
	maxQuestionLength = 254
)

type EightBall struct {
	sender  port.Sender
	command string
	intn    func(int) int
	l       *zerolog.Logger
}

func NewEightBall(sender port.Sender, command string) *EightBall {
	return &EightBall{
		sender:  sender,
		command: command,
		intn:    rand.IntN,
		l:       newLogger(command, "8ball"),
	}
}

func (e *EightBall) GetCommand() string {
	return e.command
}

func (e *EightBall) Describe() domain.CommandSpec {
	return domain.CommandSpec{
		Name:        strings.TrimPrefix(e.command, "/"),
		Description: "Ask the 8 ball a question",
		Options: []domain.CommandOption{
			{Name: "question", Description: "Question for the 8 ball", Type: domain.StringOption},
		},
	}
}

func (e *EightBall) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := requestLogger(e.l, message, "Respond")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	question := ParseCommandArgs(message.Text)
	answer := pick(domain.EightBallAnswers(), e.intn)
	embed := &domain.Embed{Title: EightBallTitle, Color: pick(domain.Palette(), e.intn)}

	switch {
	case question == "":
		embed.Description = "🎱 " + answer
	case utf8.RuneCountInString(question) > maxQuestionLength:
		l.Info().Msg("question too long")
		embed.Description = "🎱 Your question is too long! Try a shorter question."
	default:
		embed.Fields = []domain.EmbedField{{Name: "❓ " + question, Value: "🎱 " + answer}}
	}

	l.Debug().Str("question", question).Str("answer", answer).Msg("answering")

	if _, err := e.sender.SendReply(ctx, message, domain.Reply{Embed: embed}); err != nil {
		return fmt.Errorf("error sending 8ball answer: %w", err)
	}

	return nil
}
