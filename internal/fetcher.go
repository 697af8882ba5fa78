package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ImageFetcher retrieves a source image from a remote location.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

type HttpFetcher struct {
	client HttpClient
	logger logrus.FieldLogger
}

func NewImageFetcher(logger logrus.FieldLogger) ImageFetcher {
	return &HttpFetcher{
		client: &http.Client{},
		logger: logger,
	}
}

// IsRemote reports whether source names an http(s) URL rather than a file.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (f *HttpFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	f.logger.WithField("url", url).Info("Retrieving")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, image/*;q=0.8")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	return res.Body, nil
}
