package telegram

import (
	"context"
	"slowpoke/internal/core/domain"
	"sync"
)

const DefaultBacklogSize = 200

// Backlog keeps the most recent messages of every chat in memory. The Bot API cannot read chat history, so this is
// the history source for Telegram.
type Backlog struct {
	size  int
	chats *sync.Map
}

type chatLog struct {
	mu sync.Mutex
	// messages is ordered oldest first.
	messages []domain.ChatMessage
}

func NewBacklog(size int) *Backlog {
	if size < 1 {
		size = DefaultBacklogSize
	}

	return &Backlog{size: size, chats: &sync.Map{}}
}

func (b *Backlog) Record(chatID string, message domain.ChatMessage) {
	v, _ := b.chats.LoadOrStore(chatID, &chatLog{})
	l, ok := v.(*chatLog)
	if !ok {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, message)
	if len(l.messages) > b.size {
		l.messages = append(l.messages[:0:0], l.messages[len(l.messages)-b.size:]...)
	}
}

// FetchRecentMessages returns up to limit recorded messages of a chat, newest first. Unknown chats are empty.
func (b *Backlog) FetchRecentMessages(_ context.Context, chatID string, limit int) ([]domain.ChatMessage, error) {
	v, ok := b.chats.Load(chatID)
	if !ok {
		return nil, nil
	}

	l, ok := v.(*chatLog)
	if !ok {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	n := min(max(limit, 0), len(l.messages))
	out := make([]domain.ChatMessage, 0, n)
	for i := len(l.messages) - 1; i >= len(l.messages)-n; i-- {
		out = append(out, l.messages[i])
	}

	return out, nil
}
