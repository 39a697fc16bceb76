package discord

import (
	"bytes"
	"slowpoke/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

func toChatMessage(m *discordgo.Message) domain.ChatMessage {
	cm := domain.ChatMessage{
		ID:        m.ID,
		Timestamp: m.Timestamp,
		Text:      m.Content,
		Pending:   m.Flags&discordgo.MessageFlagsLoading != 0,
	}

	if m.Author != nil {
		cm.AuthorID = m.Author.ID
		cm.AuthorUsername = m.Author.Username
		cm.AuthorGlobalName = m.Author.GlobalName
		cm.IsBot = m.Author.Bot
	}

	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		cm.Attachments = append(cm.Attachments, domain.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			URL:         a.URL,
		})
	}

	for _, e := range m.Embeds {
		if e == nil {
			continue
		}
		cm.Embeds = append(cm.Embeds, fromEmbed(e))
	}

	return cm
}

func fromEmbed(e *discordgo.MessageEmbed) domain.Embed {
	embed := domain.Embed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
		Color:       e.Color,
	}

	if e.Image != nil {
		embed.ImageURL = e.Image.URL
	}
	if e.Footer != nil {
		embed.Footer = e.Footer.Text
	}

	for _, f := range e.Fields {
		if f == nil {
			continue
		}
		embed.Fields = append(embed.Fields, domain.EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}

	return embed
}

func toEmbeds(e *domain.Embed) []*discordgo.MessageEmbed {
	if e == nil {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
		Color:       e.Color,
	}

	if e.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}

	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}

	return []*discordgo.MessageEmbed{embed}
}

func toFiles(f *domain.File) []*discordgo.File {
	if f == nil {
		return nil
	}

	return []*discordgo.File{{
		Name:        f.Name,
		ContentType: f.ContentType,
		Reader:      bytes.NewReader(f.Data),
	}}
}

// memberDisplayName follows Discord's own precedence: guild nickname, global display name, username.
func memberDisplayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}

	if member.User == nil {
		return ""
	}

	return userDisplayName(member.User)
}

func userDisplayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}

	return u.Username
}
