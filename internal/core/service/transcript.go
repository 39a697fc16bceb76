package service

import (
	"fmt"
	"slowpoke/internal/core/domain"
	"strings"
)

const (
	DefaultHistoryLimit  = 100
	TranscriptTimeLayout = "2006-01-02T15:04Z"
)

// Chronological returns a reversed copy of a newest-first history so that the oldest message comes first.
func Chronological(newestFirst []domain.ChatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(newestFirst))
	for i, m := range newestFirst {
		out[len(newestFirst)-1-i] = m
	}

	return out
}

// MostRecent keeps the n freshest messages of a newest-first history.
func MostRecent(newestFirst []domain.ChatMessage, n int) []domain.ChatMessage {
	if n < 0 || len(newestFirst) <= n {
		return newestFirst
	}

	return newestFirst[:n]
}

// RenderTranscript writes one line per message, in the given order:
//
//	[name: {name}][time: {UTC minute}][isBot: {bool}]: {text}
//
// Messages without text still produce a line.
func RenderTranscript(messages []domain.ChatMessage, names map[string]string) string {
	sb := &strings.Builder{}

	for _, m := range messages {
		fmt.Fprintf(sb, "[name: %s][time: %s][isBot: %t]: %s\n",
			DisplayName(m, names),
			m.Timestamp.UTC().Format(TranscriptTimeLayout),
			m.IsBot,
			m.Text)
	}

	return sb.String()
}
