package command

import (
	"context"
	"errors"
	"fmt"
	"slowpoke/internal/core/domain"
	"sync"
	"time"
)

var pngBytes = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52}

type MockSender struct {
	mu       sync.Mutex
	replies  []domain.Reply
	edits    []domain.Reply
	editedID string
	err      error
	editErr  error
	Message  string
}

func (m *MockSender) SendReply(_ context.Context, _ *domain.Message, reply domain.Reply) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.replies = append(m.replies, reply)
	return fmt.Sprintf("reply-%d", len(m.replies)), m.err
}

func (m *MockSender) EditReply(_ context.Context, _ *domain.Message, replyID string, reply domain.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.editedID = replyID
	m.edits = append(m.edits, reply)
	return m.editErr
}

func (m *MockSender) SendChatAction(_ context.Context, _ string, _ domain.Action) {}

func (m *MockSender) NotifyAndReturnError(_ context.Context, err error, _ *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Message = err.Error()
	if m.err != nil {
		return m.err
	}
	return err
}

type MockTextGenerator struct {
	response string
	err      error
	prompts  []domain.Prompt
}

func (m *MockTextGenerator) GenerateText(_ context.Context, prompt domain.Prompt) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.response, m.err
}

type MockImageGenerator struct {
	image  []byte
	err    error
	prompt string
	source domain.Image
}

func (m *MockImageGenerator) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	m.prompt = prompt
	return m.image, m.err
}

func (m *MockImageGenerator) GenerateImageFrom(_ context.Context, prompt string, image domain.Image) ([]byte, error) {
	m.prompt = prompt
	m.source = image
	return m.image, m.err
}

type MockHistory struct {
	messages []domain.ChatMessage
	err      error
	limit    int
}

func (m *MockHistory) FetchRecentMessages(_ context.Context, _ string, limit int) ([]domain.ChatMessage, error) {
	m.limit = limit
	return m.messages, m.err
}

type MockMemberResolver struct {
	names map[string]string
}

func (m *MockMemberResolver) ResolveMemberDisplayName(_ context.Context, _, userID string) (string, error) {
	name, ok := m.names[userID]
	if !ok {
		return "", errors.New("unknown member")
	}
	return name, nil
}

type MockDownloader struct {
	files map[string][]byte
}

func (m *MockDownloader) Download(_ context.Context, url string) ([]byte, error) {
	data, ok := m.files[url]
	if !ok {
		return nil, errors.New("404")
	}
	return data, nil
}

type MockResponder struct {
	command string
}

func (m *MockResponder) Respond(_ context.Context, _ time.Duration, _ *domain.Message) error {
	return nil
}

func (m *MockResponder) GetCommand() string {
	return m.command
}

// fixed returns the same index for every random draw.
func fixed(i int) func(int) int {
	return func(int) int { return i }
}
