/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: prober.go
Description: Concurrent route prober for the Akaylee Routes pipeline. Issues one
single-attempt GET per inventoried path through a bounded worker pool, with
certificate validation disabled for untrusted origins. Transport failures are
terminal results rather than errors, so every input path yields exactly one
ProbeResult.
*/

package probing

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

// ProberConfig holds the configuration for a probe run.
type ProberConfig struct {
	// Workers is the maximum number of concurrent probes.
	Workers int `json:"workers"`

	// Timeout bounds each individual request.
	Timeout time.Duration `json:"timeout"`

	// MaxBodyBytes caps how much of a response body is read when the server
	// sends no Content-Length header.
	MaxBodyBytes int64 `json:"max_body_bytes"`

	// UserAgent is sent on every probe request.
	UserAgent string `json:"user_agent"`
}

// Validate checks the ProberConfig for invalid values.
func (c *ProberConfig) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}

// DefaultProberConfig returns the stock probe configuration.
func DefaultProberConfig() *ProberConfig {
	return &ProberConfig{
		Workers:      10,
		Timeout:      10 * time.Second,
		MaxBodyBytes: 10 * 1024 * 1024,
		UserAgent:    "akaylee-routes/1.0",
	}
}

// Prober probes inventory paths against a base origin.
type Prober struct {
	config   *ProberConfig
	client   *http.Client
	logger   *logrus.Logger
	reporter interfaces.ProbeReporter

	// RunID identifies one probe run in artifacts and logs.
	RunID string
}

// NewProber creates a prober. The HTTP client skips certificate validation:
// target origins are assumed self-signed, and a TLS failure must surface as a
// transport-failure result, never as a panic or an aborted run.
func NewProber(config *ProberConfig, logger *logrus.Logger) (*Prober, error) {
	if config == nil {
		config = DefaultProberConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prober config: %w", err)
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	return &Prober{
		config: config,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		logger: logger,
		RunID:  uuid.New().String(),
	}, nil
}

// SetReporter installs a progress reporter notified per completed probe.
func (p *Prober) SetReporter(reporter interfaces.ProbeReporter) {
	p.reporter = reporter
}

// JoinURL joins a base origin and a path with exactly one separator between
// them, regardless of leading or trailing separators on either side.
func JoinURL(baseOrigin, path string) string {
	return strings.TrimRight(baseOrigin, "/") + "/" + strings.TrimLeft(path, "/")
}

// ProbeOne performs a single GET for one path. Every transport-level failure
// (timeout, refused connection, DNS, TLS) is encoded as a result with status
// code 0 and a populated error description; probing never raises out of this
// operation.
func (p *Prober) ProbeOne(ctx context.Context, baseOrigin, path string) interfaces.ProbeResult {
	url := JoinURL(baseOrigin, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failureResult(url, err)
	}
	req.Header.Set("User-Agent", p.config.UserAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return failureResult(url, err)
	}
	defer resp.Body.Close()

	// Drain the body so the measured size is exact when no length header is
	// present; the read is capped to keep huge responses bounded.
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, p.config.MaxBodyBytes))
	elapsed := time.Since(start)

	length := len(body)
	if header := resp.Header.Get("Content-Length"); header != "" {
		if parsed, err := strconv.Atoi(header); err == nil && parsed >= 0 {
			length = parsed
		}
	}

	result := interfaces.ProbeResult{
		URL:           url,
		StatusCode:    resp.StatusCode,
		ContentLength: length,
		ResponseTime:  elapsed.Seconds(),
	}
	if readErr != nil {
		// Partial body after valid headers: keep the status, note the read.
		result.Error = readErr.Error()
	}
	return result
}

// Run probes every path through the worker pool and returns one result per
// path in completion order. Workers consume a shared task channel and append
// to a mutex-guarded sink; a cancelled context stops dispatch between tasks,
// with the remaining paths reported as failed results so that N paths always
// yield N results.
func (p *Prober) Run(ctx context.Context, baseOrigin string, paths []string) []interfaces.ProbeResult {
	p.logger.WithFields(logrus.Fields{
		"run_id":  p.RunID,
		"origin":  baseOrigin,
		"paths":   len(paths),
		"workers": p.config.Workers,
	}).Info("Starting probe run")

	tasks := make(chan string)
	results := make([]interfaces.ProbeResult, 0, len(paths))
	var sinkMu sync.Mutex
	var wg sync.WaitGroup

	workers := p.config.Workers
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range tasks {
				result := p.probeTask(ctx, baseOrigin, path)
				sinkMu.Lock()
				results = append(results, result)
				sinkMu.Unlock()
				if p.reporter != nil {
					p.reporter.OnProbeCompleted(&result)
				}
			}
		}()
	}

	for _, path := range paths {
		tasks <- path
	}
	close(tasks)
	wg.Wait()

	p.logger.WithFields(logrus.Fields{
		"run_id":  p.RunID,
		"results": len(results),
	}).Info("Probe run complete")

	return results
}

// probeTask wraps ProbeOne with cancellation awareness so an interrupted run
// still produces a terminal result for every dispatched path.
func (p *Prober) probeTask(ctx context.Context, baseOrigin, path string) interfaces.ProbeResult {
	select {
	case <-ctx.Done():
		return failureResult(JoinURL(baseOrigin, path), ctx.Err())
	default:
	}
	return p.ProbeOne(ctx, baseOrigin, path)
}

func failureResult(url string, err error) interfaces.ProbeResult {
	return interfaces.ProbeResult{
		URL:           url,
		StatusCode:    0,
		ContentLength: 0,
		ResponseTime:  0,
		Error:         err.Error(),
	}
}
