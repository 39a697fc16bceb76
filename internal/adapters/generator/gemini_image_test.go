package generator

import (
	"encoding/base64"
	"net/http"
	"slowpoke/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	imageBytes  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	imageBase64 = base64.StdEncoding.EncodeToString(imageBytes)
)

func TestGemini_GenerateImage(t *testing.T) {
	tests := []struct {
		name           string
		prompt         string
		responseStatus int
		responseBody   string
		want           []byte
		wantErr        error
	}{
		{
			name:           "camel case inline data after text",
			prompt:         "a cat",
			responseStatus: http.StatusOK,
			responseBody: `{"candidates":[{"content":{"parts":[{"text":"here you go"},` +
				`{"inlineData":{"mimeType":"image/png","data":"` + imageBase64 + `"}}]}}]}`,
			want: imageBytes,
		},
		{
			name:           "snake case inline data",
			prompt:         "a cat",
			responseStatus: http.StatusOK,
			responseBody: `{"candidates":[{"content":{"parts":[` +
				`{"inline_data":{"mime_type":"image/png","data":"` + imageBase64 + `"}}]}}]}`,
			want: imageBytes,
		},
		{
			name:           "only the first candidate is considered",
			prompt:         "a cat",
			responseStatus: http.StatusOK,
			responseBody: `{"candidates":[{"content":{"parts":[{"text":"no"}]}},` +
				`{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"` + imageBase64 + `"}}]}}]}`,
			wantErr: domain.ErrNoImageInResponse,
		},
		{
			name:           "text only",
			prompt:         "a cat",
			responseStatus: http.StatusOK,
			responseBody:   `{"candidates":[{"content":{"parts":[{"text":"I can't draw that"}]}}]}`,
			wantErr:        domain.ErrNoImageInResponse,
		},
		{
			name:           "no candidates",
			prompt:         "a cat",
			responseStatus: http.StatusOK,
			responseBody:   `{}`,
			wantErr:        domain.ErrNoImageInResponse,
		},
		{
			name:           "invalid base64",
			prompt:         "a cat",
			responseStatus: http.StatusOK,
			responseBody:   `{"candidates":[{"content":{"parts":[{"inlineData":{"data":"!!!"}}]}}]}`,
			wantErr:        domain.ErrMalformedResponse,
		},
		{
			name:           "server error",
			prompt:         "a cat",
			responseStatus: http.StatusServiceUnavailable,
			responseBody:   `overloaded`,
			wantErr:        domain.ErrServiceUnavailable,
		},
		{
			name:    "empty prompt",
			prompt:  "",
			wantErr: domain.ErrEmptyPrompt,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGemini(t, tc.responseStatus, tc.responseBody, nil)

			got, err := g.GenerateImage(t.Context(), tc.prompt)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGemini_GenerateImage_Request(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"inlineData":{"data":"` + imageBase64 + `"}}]}}]}`
	g := newTestGemini(t, http.StatusOK, body, func(r *http.Request, req map[string]interface{}) {
		assert.Equal(t, "/models/image-model:generateContent", r.URL.Path)
		assert.Equal(t, map[string]interface{}{
			"response_modalities": []interface{}{"TEXT", "IMAGE"},
		}, req["generation_config"])
		assert.NotContains(t, req, "system_instruction")
	})

	_, err := g.GenerateImage(t.Context(), "a cat")
	require.NoError(t, err)
}

func TestGemini_GenerateImageFrom(t *testing.T) {
	source := domain.Image{Data: []byte("source"), MimeType: "image/jpeg"}
	body := `{"candidates":[{"content":{"parts":[{"inlineData":{"data":"` + imageBase64 + `"}}]}}]}`

	g := newTestGemini(t, http.StatusOK, body, func(_ *http.Request, req map[string]interface{}) {
		assert.Equal(t, []interface{}{
			map[string]interface{}{"parts": []interface{}{
				map[string]interface{}{"text": "make it blue"},
				map[string]interface{}{"inline_data": map[string]interface{}{
					"mime_type": "image/jpeg",
					"data":      base64.StdEncoding.EncodeToString([]byte("source")),
				}},
			}},
		}, req["contents"])
	})

	got, err := g.GenerateImageFrom(t.Context(), "make it blue", source)
	require.NoError(t, err)
	assert.Equal(t, imageBytes, got)
}

func TestGemini_GenerateImageFrom_Validation(t *testing.T) {
	g := NewGemini(GeminiParams{})

	_, err := g.GenerateImageFrom(t.Context(), "", domain.Image{Data: []byte("x")})
	require.ErrorIs(t, err, domain.ErrEmptyPrompt)

	_, err = g.GenerateImageFrom(t.Context(), "remix", domain.Image{})
	require.Error(t, err)
}
