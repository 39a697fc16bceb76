package command

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const noGoodJoke = "No good joke"

// ChimeIn occasionally answers ordinary chat messages with a joke. It is not registered as a command; the platform
// handlers hand it every message that is not a command.
type ChimeIn struct {
	textGenerator port.TextGenerator
	sender        port.Sender
	probability   float64
	float         func() float64
	l             *zerolog.Logger
}

func NewChimeIn(textGenerator port.TextGenerator, sender port.Sender, probability float64) *ChimeIn {
	return &ChimeIn{
		textGenerator: textGenerator,
		sender:        sender,
		probability:   probability,
		float:         rand.Float64,
		l:             newLogger("", "chime-in"),
	}
}

func (c *ChimeIn) GetCommand() string {
	return "deez-nuts"
}

// Respond replies only when the dice allow it and the model found a joke. Skipping is not an error.
func (c *ChimeIn) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	if c.probability <= 0 || c.float() >= c.probability {
		return nil
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return nil
	}

	l := requestLogger(c.l, message, "Respond")
	l.Info().Msg("starting chime-in")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, err := c.textGenerator.GenerateText(ctx, domain.Prompt{
		SystemInstruction: DeezNutsSystemInstruction,
		Body:              fmt.Sprintf("User message: \"%s\"", text),
	})
	if err != nil {
		return fmt.Errorf("error generating chime-in: %w", err)
	}

	response = strings.TrimSpace(response)
	if response == "" || strings.Contains(response, noGoodJoke) {
		l.Debug().Str("response", response).Msg("no joke to make")
		return nil
	}

	if _, err := c.sender.SendReply(ctx, message, domain.Reply{Text: response}); err != nil {
		return fmt.Errorf("error sending chime-in: %w", err)
	}

	return nil
}

const DeezNutsSystemInstruction = `You are a creative Discord bot that makes "deez nuts" jokes. ` +
	`Generate a creative, funny response that incorporates "deez nuts" in a clever way based on ` +
	`the user's message. Keep it short (under 50 words) and appropriate for Discord. Be witty and unexpected. ` +
	`Do not attempt to force the joke. If no good joke can be made, respond with the exact string: "No good joke." ` +
	"Here are some examples to guide your response responses:\n\n" +
	"User message: \"Was Howard at the party?\"\n" +
	"Response: Howard deez nuts in your mouth!\n\n" +
	"User message: \"i need to play a flex game on my main to not decay if anybody would like to join me for one\"\n" +
	"Response: Why don't you join deez nuts in your mouth!\n\n" +
	"User message: \"How do I get to your house?\"\n" +
	"Response: First, you gotta get deez nuts in your mouth!\n\n" +
	"User message: \"My mom just died\"\n" +
	"Response: No good joke.\n\n" +
	"User message: \"I'm feeling really down today\"\n" +
	"Response: No good joke.\n\n" +
	"In addition, do not generate jokes for simple messages or messages with just a few words:\n\n" +
	"User message: \"hello\"\n" +
	"Response: No good joke.\n\n" +
	"User message: \"yes\"\n" +
	"Response: No good joke.\n\n" +
	"When returning the response, do not include any additional text or formatting. Just return the joke itself."
