package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"slowpoke/internal/core/domain"

	"github.com/rs/zerolog/log"
)

var responseModalities = []string{"TEXT", "IMAGE"}

// GenerateImage creates an image from a text prompt.
func (g *Gemini) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}

	log.Debug().Str("prompt", prompt).Msg("prompting gemini for image")

	return g.generateImage(ctx, []part{textPart(prompt)})
}

// GenerateImageFrom sends the prompt followed by the source image inline and returns the generated image.
func (g *Gemini) GenerateImageFrom(ctx context.Context, prompt string, image domain.Image) ([]byte, error) {
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}

	if len(image.Data) == 0 {
		return nil, errors.New("missing image")
	}

	log.Debug().Str("prompt", prompt).Str("mimeType", image.MimeType).Int("bytes", len(image.Data)).
		Msg("prompting gemini for image with image")

	return g.generateImage(ctx, []part{
		textPart(prompt),
		{InlineData: &inlineData{
			MimeType: image.MimeType,
			Data:     base64.StdEncoding.EncodeToString(image.Data),
		}},
	})
}

func (g *Gemini) generateImage(ctx context.Context, parts []part) ([]byte, error) {
	resp, err := g.generate(ctx, g.imageModel, generateRequest{
		Contents:         []content{{Parts: parts}},
		GenerationConfig: &generationConfig{ResponseModalities: responseModalities},
	})
	if err != nil {
		return nil, err
	}

	return firstInlineImage(resp)
}

// firstInlineImage returns the first binary part of the first candidate. Text parts are ignored.
func firstInlineImage(resp *generateResponse) ([]byte, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, domain.ErrNoImageInResponse
	}

	for _, p := range resp.Candidates[0].Content.Parts {
		blob := p.blob()
		if blob == nil || blob.Data == "" {
			continue
		}

		data, err := base64.StdEncoding.DecodeString(blob.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid image data: %w", domain.ErrMalformedResponse, err)
		}

		log.Debug().Int("bytes", len(data)).Msg("gemini image response")

		return data, nil
	}

	return nil, domain.ErrNoImageInResponse
}
