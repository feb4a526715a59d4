/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fetcher.go
Description: Script download subsystem for the Akaylee Routes pipeline. Fetches a
target page, discovers its script sources with goquery, downloads each script into
a per-host directory with bounded-depth recursion into scripts referenced by
scripts, and lightly reformats minified sources so the extraction patterns see
one statement per line. Feeds the extraction stage; does not influence it.
*/

package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// FetcherConfig holds the configuration for script downloads.
type FetcherConfig struct {
	// OutputDir is the directory under which the per-host source directory
	// is created.
	OutputDir string `json:"output_dir"`

	// Workers is the number of concurrent downloads.
	Workers int `json:"workers"`

	// Timeout bounds each request.
	Timeout time.Duration `json:"timeout"`

	// Retries is how many times a failed script download is reattempted.
	Retries int `json:"retries"`

	// MaxDepth bounds recursion into scripts referenced by scripts.
	MaxDepth int `json:"max_depth"`

	// UserAgent is sent on every request.
	UserAgent string `json:"user_agent"`

	// Insecure disables certificate validation, matching the prober's trust
	// model for self-signed targets.
	Insecure bool `json:"insecure"`
}

// DefaultFetcherConfig returns the stock fetcher configuration.
func DefaultFetcherConfig() *FetcherConfig {
	return &FetcherConfig{
		OutputDir: ".",
		Workers:   20,
		Timeout:   10 * time.Second,
		Retries:   2,
		MaxDepth:  5,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		Insecure:  true,
	}
}

// nestedScriptPatterns find script URLs referenced from inside downloaded
// scripts (dynamic imports, loaders, chunk maps).
var nestedScriptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:src|href)=["']([^"']*?\.js)["']`),
	regexp.MustCompile(`import.*?["']([^"']*?\.js)["']`),
	regexp.MustCompile(`require\(["']([^"']*?\.js)["']`),
	regexp.MustCompile(`loadScript\(["']([^"']*?\.js)["']`),
}

// Fetcher downloads a target's client-side scripts to local sources.
type Fetcher struct {
	config *FetcherConfig
	client *http.Client
	logger *logrus.Logger

	mu         sync.Mutex
	downloaded map[string]struct{}
	saved      []string
}

// NewFetcher creates a fetcher.
func NewFetcher(config *FetcherConfig, logger *logrus.Logger) *Fetcher {
	if config == nil {
		config = DefaultFetcherConfig()
	}
	transport := &http.Transport{}
	if config.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Fetcher{
		config: config,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		logger:     logger,
		downloaded: make(map[string]struct{}),
	}
}

// Fetch downloads every script reachable from pageURL and returns the list of
// saved file paths. The source directory is named after the page host. A
// failed page fetch is fatal; individual script failures are logged and
// skipped.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]string, string, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid target URL: %w", err)
	}

	body, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch target page: %w", err)
	}

	scriptURLs, err := scriptURLsFromHTML(string(body), page)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse target page: %w", err)
	}

	f.logger.WithFields(logrus.Fields{
		"url":     pageURL,
		"scripts": len(scriptURLs),
	}).Info("Discovered script sources")

	return f.fetchURLs(ctx, pageURL, scriptURLs)
}

// fetchURLs downloads an already-discovered script URL list into the per-host
// source directory.
func (f *Fetcher) fetchURLs(ctx context.Context, pageURL string, scriptURLs []string) ([]string, string, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid target URL: %w", err)
	}
	saveDir := filepath.Join(f.config.OutputDir, page.Host)

	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create source directory: %w", err)
	}

	sem := make(chan struct{}, f.config.Workers)
	var wg sync.WaitGroup
	for _, scriptURL := range scriptURLs {
		wg.Add(1)
		sem <- struct{}{}
		go func(u string) {
			defer wg.Done()
			defer func() { <-sem }()
			f.downloadRecursive(ctx, u, saveDir, 1)
		}(scriptURL)
	}
	wg.Wait()

	f.mu.Lock()
	saved := make([]string, len(f.saved))
	copy(saved, f.saved)
	f.mu.Unlock()

	f.logger.WithFields(logrus.Fields{
		"saved": len(saved),
		"dir":   saveDir,
	}).Info("Script download complete")

	return saved, saveDir, nil
}

// scriptURLsFromHTML pulls <script src> values from a page and resolves them
// against the page URL.
func scriptURLsFromHTML(html string, page *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var urls []string
	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}
		resolved, err := page.Parse(src)
		if err != nil {
			return
		}
		u := resolved.String()
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	})
	return urls, nil
}

// downloadRecursive downloads one script and then the scripts it references,
// up to MaxDepth. Deduplication is global per fetch.
func (f *Fetcher) downloadRecursive(ctx context.Context, scriptURL, saveDir string, depth int) {
	if depth > f.config.MaxDepth {
		return
	}
	f.mu.Lock()
	if _, dup := f.downloaded[scriptURL]; dup {
		f.mu.Unlock()
		return
	}
	f.downloaded[scriptURL] = struct{}{}
	f.mu.Unlock()

	parsed, err := url.Parse(scriptURL)
	if err != nil || !strings.HasSuffix(strings.ToLower(parsed.Path), ".js") {
		return
	}

	var body []byte
	for attempt := 0; attempt <= f.config.Retries; attempt++ {
		body, err = f.get(ctx, scriptURL)
		if err == nil {
			break
		}
		if attempt < f.config.Retries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}
	if err != nil {
		f.logger.WithError(err).WithField("url", scriptURL).Warn("Script download failed")
		return
	}

	localPath, err := f.save(parsed, saveDir, body)
	if err != nil {
		f.logger.WithError(err).WithField("url", scriptURL).Warn("Failed to save script")
		return
	}

	f.mu.Lock()
	f.saved = append(f.saved, localPath)
	f.mu.Unlock()

	for _, nested := range nestedScriptURLs(string(body), parsed) {
		f.downloadRecursive(ctx, nested, saveDir, depth+1)
	}
}

// save writes a script under the save directory mirroring its URL path, with
// the content reformatted for the pattern scan.
func (f *Fetcher) save(script *url.URL, saveDir string, body []byte) (string, error) {
	segments := strings.Split(strings.Trim(script.Path, "/"), "/")
	if len(segments) == 0 || segments[len(segments)-1] == "" {
		segments = []string{"index.js"}
	}
	localPath := filepath.Join(append([]string{saveDir}, segments...)...)
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(localPath, []byte(ReformatScript(string(body))), 0644); err != nil {
		return "", err
	}
	return localPath, nil
}

// nestedScriptURLs finds .js URLs referenced inside a script body, resolved
// against the script's own URL.
func nestedScriptURLs(body string, script *url.URL) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, pattern := range nestedScriptPatterns {
		for _, match := range pattern.FindAllStringSubmatch(body, -1) {
			resolved, err := script.Parse(match[1])
			if err != nil {
				continue
			}
			u := resolved.String()
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}
	return urls
}

// ReformatScript breaks minified one-line bundles into one statement per
// line. This is not a pretty-printer; it only restores enough line structure
// for the extraction patterns and for humans grepping the sources.
func ReformatScript(content string) string {
	if strings.Count(content, "\n") > len(content)/200 {
		// Already line-structured.
		return content
	}
	replacer := strings.NewReplacer(
		";", ";\n",
		"{", "{\n",
		"}", "}\n",
	)
	return replacer.Replace(content)
}

// get performs one GET and returns the body, treating non-2xx as an error.
func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
