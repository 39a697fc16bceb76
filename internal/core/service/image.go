package service

import (
	"context"
	"fmt"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

const imageMimePrefix = "image/"

// ImageExtractor pulls one image out of a chat message, trying attachments before embeds.
type ImageExtractor struct {
	downloader port.Downloader
}

func NewImageExtractor(downloader port.Downloader) *ImageExtractor {
	return &ImageExtractor{downloader: downloader}
}

// Extract returns the first image attachment of the message or, failing that, the first embed image whose downloaded
// bytes sniff as an image. It fails with domain.ErrNoImageFound when both strategies fail.
func (e *ImageExtractor) Extract(ctx context.Context, message domain.ChatMessage) (domain.Image, error) {
	l := log.With().Str("messageId", message.ID).Logger()

	img, err := e.fromAttachments(ctx, message)
	if err == nil {
		return img, nil
	}
	l.Debug().Err(err).Msg("no image in attachments, checking embeds")

	img, err = e.fromEmbeds(ctx, message)
	if err == nil {
		return img, nil
	}
	l.Debug().Err(err).Msg("no image in embeds")

	return domain.Image{}, domain.ErrNoImageFound
}

func (e *ImageExtractor) fromAttachments(ctx context.Context, message domain.ChatMessage) (domain.Image, error) {
	for _, a := range message.Attachments {
		if !strings.HasPrefix(a.ContentType, imageMimePrefix) {
			continue
		}

		data, err := e.downloader.Download(ctx, a.URL)
		if err != nil {
			return domain.Image{}, fmt.Errorf("failed to download attachment: %w", err)
		}

		return domain.Image{Data: data, MimeType: a.ContentType}, nil
	}

	return domain.Image{}, domain.ErrNoImageFound
}

func (e *ImageExtractor) fromEmbeds(ctx context.Context, message domain.ChatMessage) (domain.Image, error) {
	for _, embed := range message.Embeds {
		if embed.ImageURL == "" {
			continue
		}

		data, err := e.downloader.Download(ctx, embed.ImageURL)
		if err != nil {
			return domain.Image{}, fmt.Errorf("failed to download embed image: %w", err)
		}

		mime := mimetype.Detect(data).String()
		if !strings.HasPrefix(mime, imageMimePrefix) {
			return domain.Image{}, fmt.Errorf("embed image sniffed as %s", mime)
		}

		return domain.Image{Data: data, MimeType: mime}, nil
	}

	return domain.Image{}, domain.ErrNoImageFound
}
