package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	ioutils "github.com/handiism/avatar-customizer/internal/io"
	"golang.org/x/sync/singleflight"
)

// ErrImageLoad wraps any fetch or decode failure of a single layer.
var ErrImageLoad = errors.New("image load failed")

// ImageLoader returns the decoded image at a location.
type ImageLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// Fetcher retrieves raw bytes over HTTP.
//
// *http.Client from internal/http satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Loader is the default ImageLoader.
//
// Successful decodes are cached for the life of the Loader. Failures are
// not cached, so a later Load retries.
type Loader struct {
	fetcher Fetcher
	images  *ioutils.ImageService
	group   singleflight.Group

	cache map[string]image.Image
	mu    sync.RWMutex
}

// NewLoader creates a Loader. A nil fetcher restricts it to local files.
func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{
		fetcher: fetcher,
		images:  ioutils.NewImageService(),
		cache:   make(map[string]image.Image),
	}
}

// Load returns the decoded image at url. Errors wrap ErrImageLoad.
//
// Concurrent loads of one url share a single fetch. The shared fetch is
// not cancelled by any one caller; a caller whose ctx ends stops waiting
// and gets ctx.Err() while the others keep their result.
func (l *Loader) Load(ctx context.Context, url string) (image.Image, error) {
	if img, ok := l.cached(url); ok {
		return img, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(url, func() (any, error) {
		if img, ok := l.cached(url); ok {
			return img, nil
		}
		data, err := l.read(fetchCtx, url)
		if err != nil {
			return nil, err
		}
		img, err := l.images.Decode(fetchCtx, data)
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		l.mu.Lock()
		l.cache[url] = img
		l.mu.Unlock()
		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrImageLoad, url, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrImageLoad, url, res.Err)
		}
		return res.Val.(image.Image), nil
	}
}

// Cached reports whether url has a decoded image in the cache.
func (l *Loader) Cached(url string) bool {
	_, ok := l.cached(url)
	return ok
}

func (l *Loader) cached(url string) (image.Image, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	img, ok := l.cache[url]
	return img, ok
}

func (l *Loader) read(ctx context.Context, url string) ([]byte, error) {
	if isRemote(url) {
		if l.fetcher == nil {
			return nil, errors.New("no http transport configured")
		}
		return l.fetcher.Get(ctx, url)
	}
	return ioutils.ReadFile(ctx, url)
}

func isRemote(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
