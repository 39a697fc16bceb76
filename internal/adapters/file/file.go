package file

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// MaxDownloadBytes caps a single download. Discord attachments for regular accounts stay far below this.
const MaxDownloadBytes = 25 << 20

// Downloader fetches remote files over HTTP.
type Downloader struct {
	client *http.Client
}

func NewDownloader(client *http.Client) *Downloader {
	if client == nil {
		client = &http.Client{}
	}

	return &Downloader{client: client}
}

// Download returns the byte content of a file on a provided URL.
func (d *Downloader) Download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	res, err := d.client.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, MaxDownloadBytes+1))
	if err != nil {
		err = fmt.Errorf("error reading response %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	if len(buf) > MaxDownloadBytes {
		err = fmt.Errorf("download exceeds %d bytes", MaxDownloadBytes)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	return buf, nil
}
