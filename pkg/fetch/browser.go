/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: browser.go
Description: Rendered-mode script discovery using chromedp. Navigates the target
page in headless Chrome, collects script URLs both from network response events
and from the live DOM after render, so scripts injected at runtime are not missed
by the static HTML parse.
*/

package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// BrowserDiscoverer finds script URLs by rendering the page in headless
// Chrome. Requires a local Chrome/Chromium installation.
type BrowserDiscoverer struct {
	logger *logrus.Logger

	// SettleTime is how long to wait after navigation for late script
	// injection before reading the DOM.
	SettleTime time.Duration
}

// NewBrowserDiscoverer creates a rendered-mode discoverer.
func NewBrowserDiscoverer(logger *logrus.Logger) *BrowserDiscoverer {
	return &BrowserDiscoverer{
		logger:     logger,
		SettleTime: 2 * time.Second,
	}
}

// DiscoverScripts renders pageURL and returns every script URL observed,
// deduplicated, from both network events and the post-render DOM.
func (b *BrowserDiscoverer) DiscoverScripts(ctx context.Context, pageURL string) ([]string, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var mu sync.Mutex
	seen := make(map[string]struct{})
	var scripts []string
	record := func(u string) {
		if u == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		scripts = append(scripts, u)
	}

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeScript {
			record(e.Response.URL)
		}
	})

	var domScripts []string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(pageURL),
		chromedp.Sleep(b.SettleTime),
		chromedp.Evaluate(`Array.from(document.querySelectorAll('script[src]')).map(s => s.src)`, &domScripts),
	)
	if err != nil {
		return nil, err
	}
	for _, u := range domScripts {
		record(u)
	}

	b.logger.WithFields(logrus.Fields{
		"url":     pageURL,
		"scripts": len(scripts),
	}).Info("Rendered script discovery complete")

	return scripts, nil
}

// FetchDiscovered downloads a rendered discovery result through the fetcher's
// recursive download path, returning saved files and the source directory.
func (f *Fetcher) FetchDiscovered(ctx context.Context, pageURL string, scriptURLs []string) ([]string, string, error) {
	saved, dir, err := f.fetchURLs(ctx, pageURL, scriptURLs)
	return saved, dir, err
}
