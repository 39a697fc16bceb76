package service

import (
	"context"
	"errors"
	"fmt"
	"slowpoke/internal/core/domain"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockMemberResolver struct {
	names    map[string]string
	delay    time.Duration
	mu       sync.Mutex
	calls    []string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (m *MockMemberResolver) ResolveMemberDisplayName(_ context.Context, _, userID string) (string, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)

	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, userID)
	m.mu.Unlock()

	time.Sleep(m.delay)

	name, ok := m.names[userID]
	if !ok {
		return "", errors.New("unknown member")
	}

	return name, nil
}

func TestIdentityResolver_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		guildID string
		authors []string
		known   map[string]string
		want    map[string]string
	}{
		{
			name:    "all resolvable",
			guildID: "g",
			authors: []string{"1", "2"},
			known:   map[string]string{"1": "one", "2": "two"},
			want:    map[string]string{"1": "one", "2": "two"},
		},
		{
			name:    "failed lookups are absent",
			guildID: "g",
			authors: []string{"1", "2", "3"},
			known:   map[string]string{"2": "two"},
			want:    map[string]string{"2": "two"},
		},
		{
			name:    "no guild resolves nothing",
			guildID: "",
			authors: []string{"1"},
			known:   map[string]string{"1": "one"},
			want:    map[string]string{},
		},
		{
			name:    "no authors",
			guildID: "g",
			authors: nil,
			known:   map[string]string{},
			want:    map[string]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			members := &MockMemberResolver{names: tc.known}
			r := NewIdentityResolver(members, 10)

			got := r.Resolve(t.Context(), tc.guildID, tc.authors)
			assert.Equal(t, tc.want, got)

			for id := range got {
				assert.Contains(t, tc.authors, id)
			}
		})
	}
}

func TestIdentityResolver_ResolveLooksUpEachAuthorOnce(t *testing.T) {
	members := &MockMemberResolver{names: map[string]string{"1": "one"}}
	r := NewIdentityResolver(members, 10)

	got := r.Resolve(t.Context(), "g", []string{"1", "1", "1"})

	assert.Equal(t, map[string]string{"1": "one"}, got)
	assert.Len(t, members.calls, 1)
}

func TestIdentityResolver_ResolveBoundsConcurrency(t *testing.T) {
	authors := make([]string, 40)
	known := make(map[string]string)
	for i := range authors {
		authors[i] = fmt.Sprintf("%d", i)
		known[authors[i]] = "name"
	}

	members := &MockMemberResolver{names: known, delay: 10 * time.Millisecond}
	r := NewIdentityResolver(members, 4)

	got := r.Resolve(t.Context(), "g", authors)

	require.Len(t, got, 40)
	assert.LessOrEqual(t, members.peak.Load(), int32(4))
	assert.Greater(t, members.peak.Load(), int32(1))
}

func TestNewIdentityResolverDefaultsConcurrency(t *testing.T) {
	r := NewIdentityResolver(&MockMemberResolver{}, 0)
	assert.Equal(t, DefaultIdentityConcurrency, r.concurrency)
}

func TestAuthorIDs(t *testing.T) {
	messages := []domain.ChatMessage{{AuthorID: "b"}, {AuthorID: "a"}, {AuthorID: "b"}}
	assert.Equal(t, []string{"b", "a"}, AuthorIDs(messages))
}

func TestDisplayName(t *testing.T) {
	names := map[string]string{"1": "Nick"}

	tests := []struct {
		name    string
		message domain.ChatMessage
		want    string
	}{
		{
			name:    "room nickname wins",
			message: domain.ChatMessage{AuthorID: "1", AuthorGlobalName: "Global", AuthorUsername: "user"},
			want:    "Nick",
		},
		{
			name:    "global name when unresolved",
			message: domain.ChatMessage{AuthorID: "2", AuthorGlobalName: "Global", AuthorUsername: "user"},
			want:    "Global",
		},
		{
			name:    "username when no global name",
			message: domain.ChatMessage{AuthorID: "2", AuthorUsername: "user"},
			want:    "user",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DisplayName(tc.message, names)
			assert.Equal(t, tc.want, got)
			assert.NotEmpty(t, got)
		})
	}
}
