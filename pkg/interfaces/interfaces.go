/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared types and interfaces for the Akaylee Routes pipeline. Defines
the route candidate, canonical route record, and probe result structures exchanged
between the extraction, inventory, probing, and analysis packages, plus the
component interfaces that let each stage be swapped or mocked independently.
*/

package interfaces

import (
	"context"
)

// RouteKind identifies the extraction dialect that produced a candidate.
type RouteKind string

const (
	// KindVue marks routes matched by Vue Router style patterns.
	KindVue RouteKind = "vue-route"
	// KindReact marks routes matched by React Router style patterns.
	KindReact RouteKind = "react-route"
	// KindGeneric marks bare path literals and API call arguments.
	KindGeneric RouteKind = "generic-route"
)

// RouteCandidate is a single raw match from one pattern rule against one
// source file. Candidates are immutable once emitted; they are consumed and
// discarded by the canonicalization step.
type RouteCandidate struct {
	Kind      RouteKind `json:"type"`
	Name      string    `json:"name,omitempty"`
	Path      string    `json:"path"`
	SourceRef string    `json:"source_file"`
}

// RouteRecord is the canonical, deduplicated form of one route path. Exactly
// one record exists per normalized path; Sources is the sorted union of every
// SourceRef that contributed a candidate for that path.
type RouteRecord struct {
	Kind    RouteKind `json:"type"`
	Name    string    `json:"name,omitempty"`
	Path    string    `json:"path"`
	Sources []string  `json:"-"`
}

// ProbeResult captures the outcome of probing one inventoried path against a
// live origin. Transport failures are terminal results, not errors: they
// carry StatusCode 0 and a populated Error description.
type ProbeResult struct {
	URL           string  `json:"url"`
	StatusCode    int     `json:"status_code"`
	ContentLength int     `json:"content_length"`
	ResponseTime  float64 `json:"response_time"`
	Error         string  `json:"error,omitempty"`
}

// Failed reports whether the probe never produced an HTTP response.
func (r *ProbeResult) Failed() bool {
	return r.StatusCode == 0
}

// Extractor scans a single text source for route candidates.
type Extractor interface {
	// Extract applies every catalog rule to the source text and returns the
	// candidates that survive the validity filter. It never fails; a source
	// that yields nothing returns an empty slice.
	Extract(sourceText, sourceRef string) []RouteCandidate
}

// Prober issues probe requests for inventory paths against a base origin.
type Prober interface {
	// ProbeOne performs a single GET for one path. It always returns a
	// result; transport failures are encoded in the result itself.
	ProbeOne(ctx context.Context, baseOrigin, path string) ProbeResult

	// Run probes every path through the worker pool and returns exactly
	// len(paths) results in completion order.
	Run(ctx context.Context, baseOrigin string, paths []string) []ProbeResult
}

// Analyzer clusters probe results to surface differential endpoints.
type Analyzer interface {
	Analyze(results []ProbeResult) *Analysis
}

// Analysis holds both views the analyzer derives from one probe run. A result
// may appear in both views.
type Analysis struct {
	// UniquePages are results whose content length fell in an interesting
	// histogram bucket, sorted ascending by content length.
	UniquePages []ProbeResult

	// NonErrorPages groups every non-404 result by status code, preserving
	// discovery order within each group.
	NonErrorPages map[int][]ProbeResult
}

// ProbeReporter receives progress notifications during a probe run.
type ProbeReporter interface {
	// OnProbeCompleted is called once per finished probe, from worker
	// goroutines; implementations must be safe for concurrent use.
	OnProbeCompleted(result *ProbeResult)
}
