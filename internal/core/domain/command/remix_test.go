package command

import (
	"errors"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/service"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRemix(g *MockImageGenerator, s *MockSender) *Remix {
	r := NewRemix(RemixParams{
		ImageGenerator: g,
		Extractor: service.NewImageExtractor(&MockDownloader{files: map[string][]byte{
			"https://cdn.example.org/cat.png": pngBytes,
		}}),
		Sender:  s,
		Command: "remix",
	})
	r.intn = fixed(2)

	return r
}

func withImage() *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:          "src",
		Attachments: []domain.Attachment{{Filename: "cat.png", ContentType: "image/png", URL: "https://cdn.example.org/cat.png"}},
	}
}

func TestRemix_Respond(t *testing.T) {
	g := &MockImageGenerator{image: pngBytes}
	s := &MockSender{}

	err := newTestRemix(g, s).Respond(t.Context(), time.Minute,
		&domain.Message{ID: "m", ChannelID: "c", Text: "!remix make it blue", ReplyTo: withImage()})
	require.NoError(t, err)

	assert.Equal(t, "make it blue", g.prompt)
	assert.Equal(t, domain.Image{Data: pngBytes, MimeType: "image/png"}, g.source)

	require.Len(t, s.replies, 1)
	assert.Equal(t, "Remix!", s.replies[0].Embed.Title)
	assert.Equal(t, "make it blue", s.replies[0].Embed.Description)
	assert.Equal(t, domain.Palette()[2], s.replies[0].Embed.Color)
	assert.Equal(t, pngBytes, s.replies[0].File.Data)
}

func TestRemix_RespondFailures(t *testing.T) {
	tests := []struct {
		name      string
		message   *domain.Message
		generator *MockImageGenerator
		wantTitle string
		wantText  string
		wantErr   bool
	}{
		{
			name:      "missing prompt",
			message:   &domain.Message{ID: "m", Text: "!remix", ReplyTo: withImage()},
			generator: &MockImageGenerator{image: pngBytes},
			wantTitle: "Error",
			wantText:  remixMissingPrompt,
		},
		{
			name:      "not a reply",
			message:   &domain.Message{ID: "m", Text: "!remix make it blue"},
			generator: &MockImageGenerator{image: pngBytes},
			wantTitle: "Error",
			wantText:  remixMissingReply,
		},
		{
			name:      "reply without image",
			message:   &domain.Message{ID: "m", Text: "!remix make it blue", ReplyTo: &domain.ChatMessage{Text: "hi"}},
			generator: &MockImageGenerator{image: pngBytes},
			wantTitle: "Error getting image",
			wantText:  remixNoImage,
		},
		{
			name:      "generation failed",
			message:   &domain.Message{ID: "m", Text: "!remix make it blue", ReplyTo: withImage()},
			generator: &MockImageGenerator{err: domain.ErrNoImageInResponse},
			wantTitle: "Error",
			wantText:  remixFailed,
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &MockSender{}

			err := newTestRemix(tc.generator, s).Respond(t.Context(), time.Minute, tc.message)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			require.Len(t, s.replies, 1)
			assert.Equal(t, tc.wantTitle, s.replies[0].Embed.Title)
			assert.Equal(t, tc.wantText, s.replies[0].Embed.Description)
			assert.Equal(t, domain.ErrorColor, s.replies[0].Embed.Color)
			assert.Nil(t, s.replies[0].File)
		})
	}
}

func TestRemix_RespondErrorReplyFails(t *testing.T) {
	s := &MockSender{err: errors.New("mock error")}

	err := newTestRemix(&MockImageGenerator{}, s).Respond(t.Context(), time.Minute,
		&domain.Message{ID: "m", Text: "!remix"})

	require.EqualError(t, err, "mock error")
}
