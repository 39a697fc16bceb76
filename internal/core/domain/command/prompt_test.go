package command

import (
	"errors"
	"fmt"
	"slowpoke/internal/core/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt_Respond(t *testing.T) {
	g := &MockTextGenerator{response: "Go is a language."}
	s := &MockSender{}

	p := NewPrompt(PromptParams{TextGenerator: g, Sender: s, Command: "/prompt"})

	err := p.Respond(t.Context(), time.Minute, &domain.Message{ID: "m", ChannelID: "c", Text: "/prompt what is go"})
	require.NoError(t, err)

	require.Len(t, g.prompts, 1)
	assert.Equal(t, domain.Prompt{SystemInstruction: PromptSystemInstruction, Body: "what is go"}, g.prompts[0])

	require.Len(t, s.replies, 1)
	require.NotNil(t, s.replies[0].Embed)
	assert.Equal(t, "***what is go***\n\nGo is a language.", s.replies[0].Embed.Description)
	assert.Equal(t, PromptColor, s.replies[0].Embed.Color)
	assert.Empty(t, s.replies[0].Embed.Footer)
}

func TestPrompt_RespondPaginated(t *testing.T) {
	response := strings.Repeat("Some sentence here. ", 10)
	s := &MockSender{}

	p := NewPrompt(PromptParams{TextGenerator: &MockTextGenerator{response: response}, Sender: s, ChunkSize: 50,
		Command: "/prompt"})

	err := p.Respond(t.Context(), time.Minute, &domain.Message{ID: "m", ChannelID: "c", Text: "/prompt q"})
	require.NoError(t, err)

	require.Greater(t, len(s.replies), 1)

	sb := &strings.Builder{}
	for i, r := range s.replies {
		require.NotNil(t, r.Embed)
		assert.Equal(t, fmt.Sprintf("%d / %d", i+1, len(s.replies)), r.Embed.Footer)
		sb.WriteString(r.Embed.Description)
	}
	assert.Equal(t, "***q***\n\n"+response, sb.String())
}

func TestPrompt_RespondEmptyPrompt(t *testing.T) {
	g := &MockTextGenerator{}
	s := &MockSender{}

	err := NewPrompt(PromptParams{TextGenerator: g, Sender: s, Command: "/prompt"}).
		Respond(t.Context(), time.Minute, &domain.Message{ID: "m", Text: "/prompt"})
	require.NoError(t, err)

	assert.Equal(t, domain.ErrEmptyPrompt.Error(), s.Message)
	assert.Empty(t, g.prompts)
}

func TestPrompt_RespondEmptyPromptNotifyFailed(t *testing.T) {
	s := &MockSender{err: errors.New("send failed")}

	err := NewPrompt(PromptParams{TextGenerator: &MockTextGenerator{}, Sender: s, Command: "/prompt"}).
		Respond(t.Context(), time.Minute, &domain.Message{ID: "m", Text: "/prompt"})

	require.EqualError(t, err, "send failed")
}

func TestPrompt_RespondGenerationFailed(t *testing.T) {
	s := &MockSender{}
	g := &MockTextGenerator{err: errors.New("mock error")}

	err := NewPrompt(PromptParams{TextGenerator: g, Sender: s, Command: "/prompt"}).
		Respond(t.Context(), time.Minute, &domain.Message{ID: "m", Text: "/prompt q"})

	require.EqualError(t, err, "failed to generate response: mock error")
	assert.Equal(t, "failed to generate response: mock error", s.Message)
	assert.Empty(t, s.replies)
}

func TestPrompt_Describe(t *testing.T) {
	spec := NewPrompt(PromptParams{Command: "/prompt"}).Describe()

	assert.Equal(t, "prompt", spec.Name)
	require.Len(t, spec.Options, 1)
	assert.True(t, spec.Options[0].Required)
	assert.Equal(t, domain.StringOption, spec.Options[0].Type)
}
