/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fetcher_test.go
Description: Tests for the script download subsystem. Covers page script
discovery, recursive chunk fetching with deduplication, the per-host source
directory layout, and the minified-source reformatter.
*/

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	config := DefaultFetcherConfig()
	config.OutputDir = t.TempDir()
	config.Retries = 0
	return NewFetcher(config, testLogger())
}

func TestFetchDownloadsPageScripts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<script src="/static/app.js"></script>
			<script src="/static/vendor.js"></script>
			<script>inline()</script>
		</head></html>`)
	})
	mux.HandleFunc("/static/app.js", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "fetch('/api/users')\n")
	})
	mux.HandleFunc("/static/vendor.js", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "// vendor\n")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := newTestFetcher(t)
	saved, dir, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	host := strings.TrimPrefix(server.URL, "http://")
	assert.Equal(t, filepath.Join(fetcher.config.OutputDir, host), dir)

	data, err := os.ReadFile(filepath.Join(dir, "static", "app.js"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "/api/users")
}

func TestFetchFollowsNestedChunks(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}
	mux := http.NewServeMux()
	count := func(r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><script src="/main.js"></script></html>`)
	})
	mux.HandleFunc("/main.js", func(w http.ResponseWriter, r *http.Request) {
		count(r)
		// Two references to the same chunk exercise deduplication.
		fmt.Fprint(w, "import('/chunks/a.js')\nloadScript('/chunks/a.js')\n")
	})
	mux.HandleFunc("/chunks/a.js", func(w http.ResponseWriter, r *http.Request) {
		count(r)
		fmt.Fprint(w, "done()\n")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	saved, _, err := newTestFetcher(t).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits["/main.js"])
	assert.Equal(t, 1, hits["/chunks/a.js"])
}

func TestFetchSkipsFailedScripts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>
			<script src="/ok.js"></script>
			<script src="/missing.js"></script>
		</html>`)
	})
	mux.HandleFunc("/ok.js", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok()\n")
	})
	mux.HandleFunc("/missing.js", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	saved, _, err := newTestFetcher(t).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, strings.HasSuffix(saved[0], "ok.js"))
}

func TestFetchFailedPageIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	_, _, err := newTestFetcher(t).Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestScriptURLsFromHTMLResolvesAndDeduplicates(t *testing.T) {
	page, err := url.Parse("https://target.test/app/index.html")
	require.NoError(t, err)

	urls, err := scriptURLsFromHTML(`<html>
		<script src="/static/a.js"></script>
		<script src="b.js"></script>
		<script src="/static/a.js"></script>
		<script src="https://cdn.test/lib.js"></script>
		<script>inline()</script>
	</html>`, page)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://target.test/static/a.js",
		"https://target.test/app/b.js",
		"https://cdn.test/lib.js",
	}, urls)
}

func TestNestedScriptURLs(t *testing.T) {
	script, err := url.Parse("https://target.test/static/main.js")
	require.NoError(t, err)

	body := `import {x} from './chunk-1.js';
		require('/vendor/lib.js');
		var s = "src='./chunk-1.js'";`
	urls := nestedScriptURLs(body, script)
	assert.Contains(t, urls, "https://target.test/static/chunk-1.js")
	assert.Contains(t, urls, "https://target.test/vendor/lib.js")
}

func TestReformatScriptBreaksMinifiedBundles(t *testing.T) {
	minified := "function a(){return 1;}function b(){return 2;}" + strings.Repeat("var x=1;", 50)
	formatted := ReformatScript(minified)
	assert.Greater(t, strings.Count(formatted, "\n"), 50)
}

func TestReformatScriptLeavesStructuredSourcesAlone(t *testing.T) {
	source := "function a() {\n  return 1;\n}\n"
	assert.Equal(t, source, ReformatScript(source))
}
