package ufcdata

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// maxDocumentSize bounds a single fetched document.
const maxDocumentSize = 8 << 20

// Source returns the raw bytes of a named document.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// HTTPSource fetches documents from BaseURL + "/" + name.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	endpoint := strings.TrimRight(s.BaseURL, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newError("fetch", fmt.Errorf("%w: %w", ErrUnavailable, err), "endpoint", endpoint)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, newError("fetch", fmt.Errorf("%w: %w", ErrUnavailable, err), "endpoint", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError("fetch", ErrUnavailable, "endpoint", endpoint, "status", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, newError("fetch", fmt.Errorf("%w: %w", ErrUnavailable, err), "endpoint", endpoint)
	}
	if len(body) > maxDocumentSize {
		return nil, newError("fetch", fmt.Errorf("%w: document exceeds %d bytes", ErrUnavailable, maxDocumentSize), "endpoint", endpoint)
	}
	return body, nil
}

// FSSource reads documents from a file system, such as the embedded sample
// data.
type FSSource struct {
	FS  fs.FS
	Dir string
}

func (s *FSSource) Fetch(_ context.Context, name string) ([]byte, error) {
	p := name
	if s.Dir != "" {
		p = path.Join(s.Dir, name)
	}
	b, err := fs.ReadFile(s.FS, p)
	if err != nil {
		return nil, newError("fetch", fmt.Errorf("%w: %w", ErrUnavailable, err), "path", p)
	}
	return b, nil
}
