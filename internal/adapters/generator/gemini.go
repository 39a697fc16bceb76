package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slowpoke/internal/core/domain"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	DefaultGeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiTextModel  = "gemini-2.0-flash"
	DefaultGeminiImageModel = "gemini-2.0-flash-preview-image-generation"

	// errorBodyLimit caps how much of an error response ends up in the returned error.
	errorBodyLimit = 512
)

// Gemini provides a wrapper for the Gemini generateContent API, covering text and image generation.
type Gemini struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	client     *http.Client
}

type GeminiParams struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Client     *http.Client
}

func NewGemini(p GeminiParams) *Gemini {
	g := &Gemini{
		apiKey:     p.APIKey,
		baseURL:    strings.TrimSuffix(p.BaseURL, "/"),
		textModel:  p.TextModel,
		imageModel: p.ImageModel,
		client:     p.Client,
	}

	if g.baseURL == "" {
		g.baseURL = DefaultGeminiBaseURL
	}
	if g.textModel == "" {
		g.textModel = DefaultGeminiTextModel
	}
	if g.imageModel == "" {
		g.imageModel = DefaultGeminiImageModel
	}
	if g.client == nil {
		g.client = &http.Client{}
	}

	return g
}

type part struct {
	Text       *string     `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseModalities []string `json:"response_modalities"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generation_config,omitempty"`
}

// The API answers in camelCase but accepts and sometimes echoes snake_case, so both spellings are decoded.
type responsePart struct {
	Text            *string       `json:"text"`
	InlineData      *responseBlob `json:"inlineData"`
	InlineDataSnake *responseBlob `json:"inline_data"`
}

type responseBlob struct {
	MimeType      string `json:"mimeType"`
	MimeTypeSnake string `json:"mime_type"`
	Data          string `json:"data"`
}

type responseContent struct {
	Parts []responsePart `json:"parts"`
}

type candidate struct {
	Content *responseContent `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

func (p responsePart) blob() *responseBlob {
	if p.InlineData != nil {
		return p.InlineData
	}

	return p.InlineDataSnake
}

func textPart(text string) part {
	return part{Text: &text}
}

// GenerateText concatenates the text of every part of every candidate, in response order.
func (g *Gemini) GenerateText(ctx context.Context, prompt domain.Prompt) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{textPart(prompt.Body)}}},
	}

	if prompt.SystemInstruction != "" {
		req.SystemInstruction = &content{Parts: []part{textPart(prompt.SystemInstruction)}}
	}

	resp, err := g.generate(ctx, g.textModel, req)
	if err != nil {
		return "", err
	}

	sb := &strings.Builder{}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}

		for _, p := range c.Content.Parts {
			if p.Text != nil {
				sb.WriteString(*p.Text)
			}
		}
	}

	log.Debug().Int("candidates", len(resp.Candidates)).Int("length", sb.Len()).Msg("gemini text response")

	return sb.String(), nil
}

func (g *Gemini) generate(ctx context.Context, model string, request generateRequest) (*generateResponse, error) {
	payloadBuf := new(bytes.Buffer)
	err := json.NewEncoder(payloadBuf).Encode(request)
	if err != nil {
		return nil, fmt.Errorf("error encoding gemini request: %w", err)
	}

	body, err := g.postGeminiRequest(ctx, fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, model), payloadBuf)
	if err != nil {
		return nil, err
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", domain.ErrServiceUnavailable, domain.ErrMalformedResponse, err)
	}

	return &result, nil
}

func (g *Gemini) postGeminiRequest(ctx context.Context, url string, payloadBuf *bytes.Buffer) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payloadBuf)
	if err != nil {
		log.Error().Err(err).Msg("error creating POST request for gemini")
		return nil, err
	}

	req.Header.Add("x-goog-api-key", g.apiKey)
	req.Header.Add("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: error executing gemini request: %w", domain.ErrServiceUnavailable, err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: error reading gemini response: %w", domain.ErrServiceUnavailable, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if len(body) > errorBodyLimit {
			body = body[:errorBodyLimit]
		}
		return nil, fmt.Errorf("%w: gemini returned status %d: %s", domain.ErrServiceUnavailable, res.StatusCode, body)
	}

	return body, nil
}
