package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	_ "golang.org/x/image/webp"
)

// maxLogoBytes bounds what a logo download may read.
const maxLogoBytes = 4 << 20

var ErrLogoFetch = errors.New("logo fetch failed")

// LogoLoader resolves a logo reference to a decoded image.
type LogoLoader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// CachingLoader loads logos from http(s) URLs, data: URLs and local paths
// and keeps decoded images in memory for the life of the process.
type CachingLoader struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]image.Image
}

func NewLogoLoader(client *http.Client) *CachingLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &CachingLoader{client: client, cache: make(map[string]image.Image)}
}

func (l *CachingLoader) Load(ctx context.Context, src string) (image.Image, error) {
	l.mu.Lock()
	img, ok := l.cache[src]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	data, err := l.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}

	l.mu.Lock()
	l.cache[src] = img
	l.mu.Unlock()
	return img, nil
}

func (l *CachingLoader) fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLogoFetch, err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLogoFetch, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", ErrLogoFetch, resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))

	case strings.HasPrefix(src, "data:"):
		_, payload, ok := strings.Cut(src, ";base64,")
		if !ok {
			return nil, fmt.Errorf("%w: only base64 data URLs are supported", ErrLogoFetch)
		}
		return base64.StdEncoding.DecodeString(payload)

	default:
		path := strings.TrimPrefix(src, "file://")
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLogoFetch, err)
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxLogoBytes))
	}
}
