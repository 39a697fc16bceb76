package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string,
	_ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	args := m.Called(channelID, limit, beforeID, afterID, aroundID)
	msgs, _ := args.Get(0).([]*discordgo.Message)
	return msgs, args.Error(1)
}

func (m *MockSession) ChannelMessage(channelID, messageID string,
	_ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, messageID)
	msg, _ := args.Get(0).(*discordgo.Message)
	return msg, args.Error(1)
}

func (m *MockSession) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	args := m.Called(guildID, userID)
	member, _ := args.Get(0).(*discordgo.Member)
	return member, args.Error(1)
}

func (m *MockSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend,
	_ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, data)
	msg, _ := args.Get(0).(*discordgo.Message)
	return msg, args.Error(1)
}

func (m *MockSession) ChannelMessageEditComplex(edit *discordgo.MessageEdit,
	_ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(edit)
	msg, _ := args.Get(0).(*discordgo.Message)
	return msg, args.Error(1)
}

func (m *MockSession) FollowupMessageCreate(interaction *discordgo.Interaction, wait bool,
	data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(interaction, wait, data)
	msg, _ := args.Get(0).(*discordgo.Message)
	return msg, args.Error(1)
}

func (m *MockSession) FollowupMessageEdit(interaction *discordgo.Interaction, messageID string,
	data *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(interaction, messageID, data)
	msg, _ := args.Get(0).(*discordgo.Message)
	return msg, args.Error(1)
}

func (m *MockSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse,
	_ ...discordgo.RequestOption) error {
	args := m.Called(interaction, resp)
	return args.Error(0)
}

func (m *MockSession) ChannelTyping(channelID string, _ ...discordgo.RequestOption) error {
	args := m.Called(channelID)
	return args.Error(0)
}

func (m *MockSession) UpdateStatusComplex(usd discordgo.UpdateStatusData) error {
	args := m.Called(usd)
	return args.Error(0)
}

func (m *MockSession) ApplicationCommandBulkOverwrite(appID string, guildID string,
	commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	args := m.Called(appID, guildID, commands)
	created, _ := args.Get(0).([]*discordgo.ApplicationCommand)
	return created, args.Error(1)
}
