package telegram

import (
	"context"
	"errors"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/mock"
)

type MockBot struct {
	mock.Mock
}

func (m *MockBot) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *MockBot) SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *MockBot) SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error) {
	args := m.Called(ctx, params)
	return args.Bool(0), args.Error(1)
}

func (m *MockBot) EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

type MockFiles struct {
	mock.Mock
}

func (m *MockFiles) GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error) {
	args := m.Called(ctx, params)
	f, _ := args.Get(0).(*models.File)
	return f, args.Error(1)
}

func (m *MockFiles) FileDownloadLink(f *models.File) string {
	return "https://files.example/" + f.FilePath
}

type MockRegistry struct {
	commands map[string]port.Command
}

func (r *MockRegistry) Register(handler port.Command) {
	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}
	r.commands[handler.GetCommand()] = handler
}

func (r *MockRegistry) Get(cmd string) (port.Command, error) {
	if c, ok := r.commands[cmd]; ok {
		return c, nil
	}

	return nil, errors.New("unknown command")
}

func (r *MockRegistry) ListCommands() []string {
	return nil
}

// RecordingCommand stores every message it responds to.
type RecordingCommand struct {
	name string
	mu   sync.Mutex
	got  []*domain.Message
}

func (c *RecordingCommand) Respond(_ context.Context, _ time.Duration, message *domain.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, message)
	return nil
}

func (c *RecordingCommand) GetCommand() string {
	return c.name
}

func (c *RecordingCommand) messages() []*domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.got
}
