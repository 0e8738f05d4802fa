package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxFetchBytes caps the size of a body fetched over HTTP.
const MaxFetchBytes = 64 << 20

// IsURL reports whether source should be fetched rather than opened.
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch downloads url and returns the body with its declared content type.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json, text/plain;q=0.9, */*;q=0.1")
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("failed to fetch %s: %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", url, err)
	}
	if len(body) > MaxFetchBytes {
		return nil, "", fmt.Errorf("response from %s exceeds %d bytes", url, MaxFetchBytes)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
