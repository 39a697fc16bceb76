package discord

import (
	"context"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/domain/command"
	"slowpoke/internal/core/port"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Handler routes gateway events to commands. Slash commands are looked up as "/name"; prefix commands as "/name"
// first and as the bare name second, so that prefix-only commands can be registered without a slash.
type Handler struct {
	registry port.CommandRegistry
	chimeIn  port.Command
	client   *Client
	session  session
	prefix   string
	timeout  time.Duration
	wg       sync.WaitGroup
}

type HandlerParams struct {
	Registry port.CommandRegistry
	// ChimeIn receives every ordinary message. Optional.
	ChimeIn port.Command
	Session session
	Prefix  string
	Timeout time.Duration
}

func NewHandler(p HandlerParams) *Handler {
	if p.Prefix == "" {
		p.Prefix = "!"
	}

	return &Handler{
		registry: p.Registry,
		chimeIn:  p.ChimeIn,
		client:   NewClient(p.Session),
		session:  p.Session,
		prefix:   p.Prefix,
		timeout:  p.Timeout,
	}
}

func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	h.handleMessage(botID(s), m.Message)
}

func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.handleInteraction(botID(s), i.Interaction)
}

// Wait blocks until every running command has returned.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func (h *Handler) handleMessage(botID string, m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.Bot || m.Author.ID == botID {
		return
	}

	text := strings.TrimSpace(m.Content)

	var handler port.Command
	if rest, ok := strings.CutPrefix(text, h.prefix); ok && rest != "" {
		name := command.ParseCommand(rest)
		handler = h.lookup("/"+name, name)
		if handler != nil {
			text = rest
		}
	}

	if handler == nil {
		if h.chimeIn == nil || text == "" {
			return
		}
		handler = h.chimeIn
	}

	log.Debug().Str("messageId", m.ID).Str("command", handler.GetCommand()).Msg("received command")

	message := &domain.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		AuthorID:  m.Author.ID,
		Username:  userDisplayName(m.Author),
		BotID:     botID,
		Text:      text,
		Timestamp: m.Timestamp,
	}

	if m.Member != nil && m.Member.Nick != "" {
		message.Username = m.Member.Nick
	}

	h.run(handler, func(ctx context.Context) *domain.Message {
		message.ReplyTo = h.referencedMessage(ctx, m)
		return message
	})
}

func (h *Handler) handleInteraction(botID string, i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()

	handler, err := h.registry.Get("/" + data.Name)
	if err != nil {
		log.Debug().Str("command", data.Name).Msg("no handler for slash command")
		return
	}

	err = h.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Err(err).Str("command", data.Name).Msg("failed to defer interaction")
		return
	}

	message := &domain.Message{
		ID:          i.ID,
		ChannelID:   i.ChannelID,
		GuildID:     i.GuildID,
		BotID:       botID,
		Text:        interactionText(data),
		Timestamp:   time.Now(),
		Interaction: &domain.Interaction{ID: i.ID, AppID: i.AppID, Token: i.Token},
	}

	user := i.User
	if i.Member != nil {
		user = i.Member.User
		message.Username = memberDisplayName(i.Member)
	}
	if user != nil {
		message.AuthorID = user.ID
		if message.Username == "" {
			message.Username = userDisplayName(user)
		}
	}

	h.run(handler, func(context.Context) *domain.Message { return message })
}

func (h *Handler) run(handler port.Command, build func(context.Context) *domain.Message) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		message := build(context.Background())
		if err := handler.Respond(context.Background(), h.timeout, message); err != nil {
			log.Err(err).Str("command", handler.GetCommand()).Str("messageId", message.ID).
				Msg("failed to respond to command")
		}
	}()
}

func (h *Handler) lookup(names ...string) port.Command {
	for _, name := range names {
		if handler, err := h.registry.Get(name); err == nil {
			return handler
		}
	}

	return nil
}

// referencedMessage returns the message m replies to. The gateway does not always resolve it, so it is fetched
// when only the reference is known.
func (h *Handler) referencedMessage(ctx context.Context, m *discordgo.Message) *domain.ChatMessage {
	if m.ReferencedMessage != nil {
		ref := toChatMessage(m.ReferencedMessage)
		return &ref
	}

	if m.MessageReference == nil || m.MessageReference.MessageID == "" {
		return nil
	}

	channelID := m.MessageReference.ChannelID
	if channelID == "" {
		channelID = m.ChannelID
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	ref, err := h.client.FetchMessage(ctx, channelID, m.MessageReference.MessageID)
	if err != nil {
		log.Warn().Err(err).Str("messageId", m.ID).Msg("could not fetch referenced message")
		return nil
	}

	return &ref
}

// interactionText renders a slash command the way it would be typed, e.g. "/roll 20".
func interactionText(data discordgo.ApplicationCommandInteractionData) string {
	sb := &strings.Builder{}
	sb.WriteString("/" + data.Name)

	for _, opt := range data.Options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionString:
			sb.WriteString(" " + opt.StringValue())
		case discordgo.ApplicationCommandOptionInteger:
			sb.WriteString(" " + strconv.FormatInt(opt.IntValue(), 10))
		}
	}

	return sb.String()
}

func botID(s *discordgo.Session) string {
	if s == nil || s.State == nil || s.State.User == nil {
		return ""
	}

	return s.State.User.ID
}
