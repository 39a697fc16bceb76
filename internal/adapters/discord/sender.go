package discord

import (
	"context"
	"errors"
	"fmt"
	"slowpoke/internal/core/domain"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// TypingInterval renews the typing indicator before Discord lets it expire after ten seconds.
const TypingInterval = 8 * time.Second

// maxErrorLength keeps error notifications inside the embed description limit.
const maxErrorLength = 4000

type Sender struct {
	session        session
	typingInterval time.Duration
}

func NewSender(s session) *Sender {
	return &Sender{session: s, typingInterval: TypingInterval}
}

// SendReply answers slash commands through the deferred interaction and prefix commands with a message reply.
func (s *Sender) SendReply(ctx context.Context, message *domain.Message, reply domain.Reply) (string, error) {
	var (
		sent *discordgo.Message
		err  error
	)

	if message.Interaction != nil {
		sent, err = s.session.FollowupMessageCreate(interaction(message), true, &discordgo.WebhookParams{
			Content: reply.Text,
			Embeds:  toEmbeds(reply.Embed),
			Files:   toFiles(reply.File),
		}, discordgo.WithContext(ctx))
	} else {
		sent, err = s.session.ChannelMessageSendComplex(message.ChannelID, &discordgo.MessageSend{
			Content: reply.Text,
			Embeds:  toEmbeds(reply.Embed),
			Files:   toFiles(reply.File),
			Reference: &discordgo.MessageReference{
				MessageID: message.ID,
				ChannelID: message.ChannelID,
				GuildID:   message.GuildID,
			},
			AllowedMentions: &discordgo.MessageAllowedMentions{RepliedUser: true},
		}, discordgo.WithContext(ctx))
	}

	if err != nil {
		log.Error().Err(err).Str("messageId", message.ID).Str("channelId", message.ChannelID).
			Msg("failed to send reply")
		return "", fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	if sent == nil {
		return "", nil
	}

	return sent.ID, nil
}

// EditReply replaces text and embed of an earlier reply. Files cannot be edited.
func (s *Sender) EditReply(ctx context.Context, message *domain.Message, replyID string, reply domain.Reply) error {
	embeds := toEmbeds(reply.Embed)
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}

	var err error
	if message.Interaction != nil {
		_, err = s.session.FollowupMessageEdit(interaction(message), replyID, &discordgo.WebhookEdit{
			Content: &reply.Text,
			Embeds:  &embeds,
		}, discordgo.WithContext(ctx))
	} else {
		edit := discordgo.NewMessageEdit(message.ChannelID, replyID).
			SetContent(reply.Text).
			SetEmbeds(embeds)
		_, err = s.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	}

	if err != nil {
		return fmt.Errorf("%w: error editing reply %s: %w", domain.ErrSendingReplyFailed, replyID, err)
	}

	return nil
}

// SendChatAction shows the typing indicator until ctx is done. Discord has no separate upload indicator.
func (s *Sender) SendChatAction(ctx context.Context, channelID string, _ domain.Action) {
	log.Debug().Str("channelId", channelID).Msg("starting action routine")

	for {
		if err := s.session.ChannelTyping(channelID, discordgo.WithContext(ctx)); err != nil {
			if ctx.Err() == nil {
				log.Err(err).Str("channelId", channelID).Msg("error sending typing indicator")
			}
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().Str("channelId", channelID).Msg("done, stopping action routine")
			return
		case <-time.After(s.typingInterval):
		}
	}
}

// NotifyAndReturnError tells the user that the command failed and returns err, joined with any delivery failure.
func (s *Sender) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	log.Error().Err(err).Str("messageId", message.ID).Msg("notifying user about error")

	description := err.Error()
	if len(description) > maxErrorLength {
		description = strings.ToValidUTF8(description[:maxErrorLength], "")
	}

	_, sendErr := s.SendReply(ctx, message, domain.Reply{Embed: &domain.Embed{
		Title:       "Error",
		Description: description,
		Color:       domain.ErrorColor,
	}})
	if sendErr != nil {
		return errors.Join(err, sendErr)
	}

	return err
}

func interaction(message *domain.Message) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:    message.Interaction.ID,
		AppID: message.Interaction.AppID,
		Token: message.Interaction.Token,
	}
}
