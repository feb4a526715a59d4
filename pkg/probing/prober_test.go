/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: prober_test.go
Description: Tests for the concurrent route prober. Covers URL joining,
single-probe semantics including the transport-failure contract, length
header preference, run totality, and reporter notification.
*/

package probing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

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

func newTestProber(t *testing.T) *Prober {
	t.Helper()
	prober, err := NewProber(DefaultProberConfig(), testLogger())
	require.NoError(t, err)
	return prober
}

func TestJoinURL(t *testing.T) {
	cases := []struct {
		origin, path, want string
	}{
		{"https://target.test", "/login", "https://target.test/login"},
		{"https://target.test/", "/login", "https://target.test/login"},
		{"https://target.test/", "login", "https://target.test/login"},
		{"https://target.test", "login", "https://target.test/login"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, JoinURL(c.origin, c.path))
	}
}

func TestProberConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultProberConfig().Validate())

	bad := DefaultProberConfig()
	bad.Workers = 0
	assert.Error(t, bad.Validate())

	bad = DefaultProberConfig()
	bad.Timeout = 0
	assert.Error(t, bad.Validate())

	_, err := NewProber(bad, testLogger())
	assert.Error(t, err)
}

func TestProbeOneRecordsStatusAndLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "akaylee-routes/1.0", r.UserAgent())
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "hello world")
	}))
	defer server.Close()

	result := newTestProber(t).ProbeOne(context.Background(), server.URL, "/greet")
	assert.Equal(t, server.URL+"/greet", result.URL)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, len("hello world"), result.ContentLength)
	assert.False(t, result.Failed())
	assert.Greater(t, result.ResponseTime, 0.0)
}

func TestProbeOnePrefersContentLengthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := newTestProber(t).ProbeOne(context.Background(), server.URL, "/big")
	assert.Equal(t, 4096, result.ContentLength)
	// The declared length wins, but the truncated body still marks the read.
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestProbeOneTransportFailureIsStatusZero(t *testing.T) {
	// A closed server guarantees a refused connection.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	origin := server.URL
	server.Close()

	result := newTestProber(t).ProbeOne(context.Background(), origin, "/login")
	assert.Equal(t, 0, result.StatusCode)
	assert.Equal(t, 0, result.ContentLength)
	assert.True(t, result.Failed())
	assert.NotEmpty(t, result.Error)
}

func TestProbeOneKeepsErrorStatusCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	result := newTestProber(t).ProbeOne(context.Background(), server.URL, "/missing")
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.False(t, result.Failed())
}

func TestRunYieldsOneResultPerPath(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	paths := []string{"/a", "/b", "/c", "/d", "/e"}
	results := newTestProber(t).Run(context.Background(), server.URL, paths)
	require.Len(t, results, len(paths))

	var got []string
	for _, result := range results {
		got = append(got, result.URL)
	}
	sort.Strings(got)
	for i, path := range paths {
		assert.Equal(t, server.URL+path, got[i])
	}

	mu.Lock()
	defer mu.Unlock()
	for _, path := range paths {
		assert.Equal(t, 1, hits[path], "path %s probed exactly once", path)
	}
}

func TestRunEmptyPathListIsANoOp(t *testing.T) {
	results := newTestProber(t).Run(context.Background(), "https://target.test", nil)
	assert.Empty(t, results)
}

func TestRunCancelledContextStillYieldsAllResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths := []string{"/a", "/b", "/c"}
	results := newTestProber(t).Run(ctx, server.URL, paths)
	require.Len(t, results, len(paths))
	for _, result := range results {
		assert.True(t, result.Failed())
	}
}

func TestRunNotifiesReporter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	prober := newTestProber(t)
	counter := NewCountingReporter()
	prober.SetReporter(counter)

	prober.Run(context.Background(), server.URL, []string{"/a", "/b"})
	assert.Equal(t, int64(2), counter.Completed())
	assert.Equal(t, int64(0), counter.Failed())
}

func TestRunRespectsWorkerBound(t *testing.T) {
	var mu sync.Mutex
	active, peak := 0, 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	config := DefaultProberConfig()
	config.Workers = 2
	prober, err := NewProber(config, testLogger())
	require.NoError(t, err)

	var paths []string
	for i := 0; i < 10; i++ {
		paths = append(paths, fmt.Sprintf("/p%d", i))
	}
	results := prober.Run(context.Background(), server.URL, paths)
	require.Len(t, results, 10)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 2)
}
