package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	trackererr "sjsage522/pricetracker/pkg/errors"
	"sjsage522/pricetracker/services/cache"
)

var referers = []string{
	"https://www.google.com/",
	"https://www.bing.com/",
	"https://duckduckgo.com/",
}

// PageFetcher retrieves raw page markup. It fetches over plain HTTP by
// default; when a renderer address is configured, pages are loaded through
// a browserless rendering service instead, waiting for the ready selector
// so JavaScript-priced pages are fully populated before extraction.
//
// When the cache service is set, a URL that rate limited us is blocked for
// blockTime and later fetches fail fast until the block expires.
type PageFetcher struct {
	client       *http.Client
	userAgent    string
	rendererAddr string
	maxWait      time.Duration
	cacheSvc     cache.CacheService
	blockTime    time.Duration
}

// NewPageFetcher creates a page fetcher. rendererAddr and cacheSvc are
// optional; pass "" and nil to disable them.
func NewPageFetcher(userAgent, rendererAddr string, maxWait time.Duration, cacheSvc cache.CacheService, blockTime time.Duration) *PageFetcher {
	return &PageFetcher{
		client:       &http.Client{Timeout: maxWait + 10*time.Second},
		userAgent:    userAgent,
		rendererAddr: rendererAddr,
		maxWait:      maxWait,
		cacheSvc:     cacheSvc,
		blockTime:    blockTime,
	}
}

// Fetch returns the UTF-8 page markup for a URL.
func (f *PageFetcher) Fetch(ctx context.Context, url string, readySelector string) ([]byte, error) {
	blockKey := "fetch_block:" + url
	if f.cacheSvc != nil {
		if _, err := f.cacheSvc.Get(blockKey); err == nil {
			return nil, trackererr.NewRateLimit(url, f.blockTime)
		}
	}

	if f.rendererAddr != "" {
		return f.fetchRendered(ctx, url, readySelector)
	}
	return f.fetchStatic(ctx, url, blockKey)
}

// fetchStatic performs a plain HTTP GET with browser-like headers and
// converts the body to UTF-8 if needed.
func (f *PageFetcher) fetchStatic(ctx context.Context, url, blockKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, trackererr.NewNetwork(url, "failed to create request", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Referer", referers[mathrand.Intn(len(referers))])
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, trackererr.NewNetwork(url, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		if f.cacheSvc != nil {
			if setErr := f.cacheSvc.Set(blockKey, []byte(fmt.Sprintf("%d", f.blockTime/time.Second)), f.blockTime); setErr != nil {
				return nil, trackererr.NewStore(url, "failed to set fetch block", setErr)
			}
		}
		return nil, trackererr.NewRateLimit(url, f.blockTime)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, trackererr.NewNetwork(url, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, trackererr.NewNetwork(url, "failed to read response body", err)
	}

	return toUTF8(bodyBytes, resp.Header.Get("Content-Type"))
}

// fetchRendered loads the page through the rendering service, asking it to
// wait until the ready selector appears.
func (f *PageFetcher) fetchRendered(ctx context.Context, url, readySelector string) ([]byte, error) {
	payload := map[string]interface{}{
		"url": url,
		"gotoOptions": map[string]interface{}{
			"waitUntil": "networkidle2",
			"timeout":   f.maxWait.Milliseconds(),
		},
	}
	if readySelector != "" {
		payload["waitForSelector"] = map[string]interface{}{
			"selector": readySelector,
			"timeout":  f.maxWait.Milliseconds(),
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, trackererr.NewNetwork(url, "failed to marshal renderer payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.rendererAddr+"/content", bytes.NewReader(data))
	if err != nil {
		return nil, trackererr.NewNetwork(url, "failed to create renderer request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, trackererr.NewNetwork(url, "renderer request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, trackererr.NewNetwork(url, fmt.Sprintf("renderer returned status %d", resp.StatusCode), nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, trackererr.NewNetwork(url, "failed to read renderer response", err)
	}

	lower := strings.ToLower(string(bodyBytes))
	if !strings.Contains(lower, "<html") && !strings.Contains(lower, "<body") {
		return nil, trackererr.NewNetwork(url, "renderer response does not look like HTML", nil)
	}

	return bodyBytes, nil
}

// toUTF8 converts the body to UTF-8 based on the Content-Type header and
// the body content itself.
func toUTF8(body []byte, contentType string) ([]byte, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)
	if strings.EqualFold(name, "utf-8") {
		return body, nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	converted, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to convert body to UTF-8: %w", err)
	}
	return converted, nil
}
