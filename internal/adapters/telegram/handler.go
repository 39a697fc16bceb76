package telegram

import (
	"context"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/domain/command"
	"slowpoke/internal/core/port"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const (
	minSize = 80000
	maxSize = 130000
)

type fileLinker interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

// Handler records every message into the backlog and routes "/" commands to the registry. Any other text goes to
// the chime-in responder.
type Handler struct {
	registry port.CommandRegistry
	chimeIn  port.Command
	backlog  *Backlog
	files    fileLinker
	self     Self
	timeout  time.Duration
	wg       sync.WaitGroup
}

type HandlerParams struct {
	Registry port.CommandRegistry
	// ChimeIn receives every ordinary message. Optional.
	ChimeIn port.Command
	Backlog *Backlog
	Files   fileLinker
	Self    Self
	Timeout time.Duration
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{
		registry: p.Registry,
		chimeIn:  p.ChimeIn,
		backlog:  p.Backlog,
		files:    p.Files,
		self:     p.Self,
		timeout:  p.Timeout,
	}
}

// Handle matches bot.HandlerFunc. The bot argument is unused; files are resolved through the injected linker.
func (h *Handler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return
	}

	m := update.Message
	chatID := strconv.FormatInt(m.Chat.ID, 10)

	if h.backlog != nil {
		h.backlog.Record(chatID, toChatMessage(m))
	}

	if m.From.IsBot || strconv.FormatInt(m.From.ID, 10) == h.self.ID {
		return
	}

	text := strings.TrimSpace(messageText(m))

	var handler port.Command
	if rest, ok := strings.CutPrefix(text, "/"); ok && rest != "" {
		name := command.ParseCommand(rest)
		handler = h.lookup("/"+name, name)
		if handler != nil {
			text = rest
		}
	}

	if handler == nil {
		if h.chimeIn == nil || text == "" || strings.HasPrefix(text, "/") {
			return
		}
		handler = h.chimeIn
	}

	log.Debug().Int("messageId", m.ID).Str("command", handler.GetCommand()).Msg("received command")

	message := &domain.Message{
		ID:        strconv.Itoa(m.ID),
		ChannelID: chatID,
		AuthorID:  strconv.FormatInt(m.From.ID, 10),
		Username:  getUserNameOrFirstName(m.From),
		BotID:     h.self.ID,
		Text:      text,
		Timestamp: time.Unix(int64(m.Date), 0),
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		message.ReplyTo = h.replyTo(ctx, m.ReplyToMessage)
		if err := handler.Respond(context.WithoutCancel(ctx), h.timeout, message); err != nil {
			log.Err(err).Str("command", handler.GetCommand()).Str("messageId", message.ID).
				Msg("failed to respond to command")
		}
	}()
}

// Wait blocks until every running command has returned.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func (h *Handler) lookup(names ...string) port.Command {
	for _, name := range names {
		if handler, err := h.registry.Get(name); err == nil {
			return handler
		}
	}

	return nil
}

// replyTo converts the replied-to message and resolves its photo into a downloadable attachment.
func (h *Handler) replyTo(ctx context.Context, m *models.Message) *domain.ChatMessage {
	if m == nil {
		return nil
	}

	ref := toChatMessage(m)
	if len(m.Photo) == 0 || h.files == nil {
		return &ref
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	f, err := h.files.GetFile(ctx, &bot.GetFileParams{FileID: findMediumSizedImage(m.Photo)})
	if err != nil {
		log.Warn().Err(err).Int("messageId", m.ID).Msg("error getting file from telegram api")
		return &ref
	}

	ref.Attachments = append(ref.Attachments, domain.Attachment{
		Filename:    f.FilePath,
		ContentType: "image/jpeg",
		URL:         h.files.FileDownloadLink(f),
	})

	return &ref
}

func toChatMessage(m *models.Message) domain.ChatMessage {
	c := domain.ChatMessage{
		ID:        strconv.Itoa(m.ID),
		Timestamp: time.Unix(int64(m.Date), 0),
		Text:      messageText(m),
	}

	if m.From != nil {
		c.AuthorID = strconv.FormatInt(m.From.ID, 10)
		c.AuthorUsername = m.From.Username
		c.AuthorGlobalName = strings.TrimSpace(m.From.FirstName + " " + m.From.LastName)
		c.IsBot = m.From.IsBot
	}

	return c
}

func messageText(m *models.Message) string {
	if m.Text == "" {
		return m.Caption
	}

	return m.Text
}

func findMediumSizedImage(photos []models.PhotoSize) string {
	for _, photo := range photos {
		if photo.FileSize > minSize && photo.FileSize < maxSize {
			return photo.FileID
		}
	}

	return photos[len(photos)-1].FileID
}

func getUserNameOrFirstName(user *models.User) string {
	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
