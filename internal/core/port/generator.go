package port

import (
	"context"
	"slowpoke/internal/core/domain"
)

type TextGenerator interface {
	// GenerateText sends the prompt to a text generation endpoint and returns the concatenated output.
	// An empty string is a valid result.
	GenerateText(ctx context.Context, prompt domain.Prompt) (string, error)
}

type ImageGenerator interface {
	// GenerateImage creates an image from a text prompt.
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	// GenerateImageFrom creates an image from a text prompt and one source image.
	GenerateImageFrom(ctx context.Context, prompt string, image domain.Image) ([]byte, error)
}
