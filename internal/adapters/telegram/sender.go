package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/service"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const (
	// TelegramMessageLimit and TelegramCaptionLimit are counted in UTF-16 code units.
	TelegramMessageLimit = 4096
	TelegramCaptionLimit = 1024

	ChatActionRepeatSeconds = 5
)

type telegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
}

// Self identifies the bot account, so that its own replies can be recorded in the backlog.
type Self struct {
	ID       string
	Username string
	Name     string
}

type Sender struct {
	bot     telegramBot
	backlog *Backlog
	self    Self
	chunker *service.Chunker
	repeat  time.Duration
}

func NewSender(b telegramBot, backlog *Backlog, self Self) *Sender {
	return &Sender{
		bot:     b,
		backlog: backlog,
		self:    self,
		chunker: service.NewUTF16Chunker(TelegramMessageLimit),
		repeat:  ChatActionRepeatSeconds * time.Second,
	}
}

// SendReply sends a photo when the reply carries a file and text otherwise. Embeds are rendered as plain text.
// Text over the message limit is sent in several messages; the ID of the last one is returned.
func (s *Sender) SendReply(ctx context.Context, message *domain.Message, reply domain.Reply) (string, error) {
	chatID, err := strconv.ParseInt(message.ChannelID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: invalid chat id %q: %w", domain.ErrSendingReplyFailed, message.ChannelID, err)
	}

	replyParams := replyParameters(message, chatID)
	text := renderReply(reply)

	var sent *models.Message
	if reply.File != nil {
		sent, err = s.bot.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:          chatID,
			Photo:           &models.InputFileUpload{Filename: reply.File.Name, Data: bytes.NewReader(reply.File.Data)},
			Caption:         truncate(text, TelegramCaptionLimit),
			ReplyParameters: replyParams,
		})
	} else {
		for _, chunk := range s.chunker.Split(text) {
			sent, err = s.bot.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:          chatID,
				Text:            chunk.Text,
				ReplyParameters: replyParams,
			})
			if err != nil {
				break
			}
		}
	}

	if err != nil {
		log.Error().Err(err).Int64("chatId", chatID).Str("messageId", message.ID).Msg("failed to send reply")
		return "", fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	if sent == nil {
		return "", nil
	}

	id := strconv.Itoa(sent.ID)
	s.record(message.ChannelID, id, text, reply)

	return id, nil
}

func (s *Sender) EditReply(ctx context.Context, message *domain.Message, replyID string, reply domain.Reply) error {
	chatID, err := strconv.ParseInt(message.ChannelID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid chat id %q: %w", domain.ErrSendingReplyFailed, message.ChannelID, err)
	}

	id, err := strconv.Atoi(replyID)
	if err != nil {
		return fmt.Errorf("%w: invalid reply id %q: %w", domain.ErrSendingReplyFailed, replyID, err)
	}

	_, err = s.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: id,
		Text:      truncate(renderReply(reply), TelegramMessageLimit),
	})
	if err != nil {
		return fmt.Errorf("%w: error editing reply %s: %w", domain.ErrSendingReplyFailed, replyID, err)
	}

	return nil
}

func (s *Sender) SendChatAction(ctx context.Context, channelID string, action domain.Action) {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		log.Err(err).Str("channelId", channelID).Msg("invalid chat id for chat action")
		return
	}

	chatAction := models.ChatActionTyping
	if action == domain.SendingPhoto {
		chatAction = models.ChatActionUploadPhoto
	}

	log.Debug().Int64("chatId", chatID).Msg("starting action routine")
	for {
		_, err := s.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: chatAction,
		})
		if err != nil {
			if ctx.Err() == nil {
				log.Err(err).Msg("error sending chat action")
			}
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().Int64("chatId", chatID).Msg("done, stopping action routine")
			return
		case <-time.After(s.repeat):
		}
	}
}

func (s *Sender) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	log.Error().Err(err).Str("messageId", message.ID).Msg("notifying user about error")

	_, sendErr := s.SendReply(ctx, message, domain.Reply{Text: "Error: " + err.Error()})
	if sendErr != nil {
		return errors.Join(err, sendErr)
	}

	return err
}

func (s *Sender) record(chatID, id, text string, reply domain.Reply) {
	if s.backlog == nil {
		return
	}

	m := domain.ChatMessage{
		ID:               id,
		AuthorID:         s.self.ID,
		AuthorUsername:   s.self.Username,
		AuthorGlobalName: s.self.Name,
		IsBot:            true,
		Timestamp:        time.Now(),
		Text:             text,
	}
	if reply.Embed != nil {
		m.Embeds = []domain.Embed{*reply.Embed}
	}

	s.backlog.Record(chatID, m)
}

func replyParameters(message *domain.Message, chatID int64) *models.ReplyParameters {
	id, err := strconv.Atoi(message.ID)
	if err != nil {
		return nil
	}

	return &models.ReplyParameters{MessageID: id, ChatID: chatID, AllowSendingWithoutReply: true}
}

// renderReply flattens text and embed into one plain text body.
func renderReply(reply domain.Reply) string {
	var parts []string

	if reply.Text != "" {
		parts = append(parts, reply.Text)
	}

	if e := reply.Embed; e != nil {
		for _, s := range []string{e.Title, e.Description} {
			if s != "" {
				parts = append(parts, s)
			}
		}
		for _, f := range e.Fields {
			parts = append(parts, f.Name+"\n"+f.Value)
		}
		for _, s := range []string{e.URL, e.Footer} {
			if s != "" {
				parts = append(parts, s)
			}
		}
	}

	return strings.Join(parts, "\n\n")
}

// truncate cuts s to at most limit UTF-16 code units without splitting a code point.
func truncate(s string, limit int) string {
	used := 0
	for i, r := range s {
		used += utf16.RuneLen(r)
		if used > limit {
			return s[:i]
		}
	}

	return s
}
