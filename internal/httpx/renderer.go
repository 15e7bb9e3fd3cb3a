package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrSelectorTimeout means the page loaded but the element we wait for never
// showed up within the render timeout.
var ErrSelectorTimeout = errors.New("wait selector not present")

// Renderer loads a page and returns its HTML once waitSelector is present.
// On ErrSelectorTimeout the HTML received so far is still returned so the
// caller can dump it.
type Renderer interface {
	Render(ctx context.Context, url, waitSelector string) (string, error)
}

// StaticRenderer renders by plain fetch: it cannot run scripts, so a page
// that builds its content client-side ends in ErrSelectorTimeout.
type StaticRenderer struct {
	fetcher *CollyFetcher
	timeout time.Duration
}

func NewStaticRenderer(fetcher *CollyFetcher, timeout time.Duration) *StaticRenderer {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &StaticRenderer{fetcher: fetcher, timeout: timeout}
}

func (r *StaticRenderer) Render(ctx context.Context, url, waitSelector string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, _, err := r.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return "", err
	}

	if waitSelector == "" {
		return string(body), nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return string(body), fmt.Errorf("render parse failed: %w", err)
	}
	if doc.Find(waitSelector).Length() == 0 {
		return string(body), fmt.Errorf("%s: %w", waitSelector, ErrSelectorTimeout)
	}
	return string(body), nil
}
