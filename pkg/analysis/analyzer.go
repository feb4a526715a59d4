/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analyzer.go
Description: Differential response analyzer for the Akaylee Routes pipeline. Builds
a content-length histogram over a probe run, flags the lengths rare enough to be
interesting, and separates non-404 responses by status code. Lengths shared by many
results are treated as a generic catch-all template and suppressed.
*/

package analysis

import (
	"sort"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

// DefaultClusterThreshold is the inclusive upper bound on how many results
// may share a content length before that length stops being interesting. The
// bound is a heuristic carried over from field use; it is configurable
// because no stronger justification for the value exists.
const DefaultClusterThreshold = 5

// ResponseAnalyzer clusters probe results by content length.
type ResponseAnalyzer struct {
	// ClusterThreshold is the inclusive upper occurrence bound for an
	// interesting length. A length is interesting iff its occurrence count
	// lies in [1, ClusterThreshold].
	ClusterThreshold int
}

// NewResponseAnalyzer creates an analyzer with the default threshold.
func NewResponseAnalyzer() *ResponseAnalyzer {
	return &ResponseAnalyzer{ClusterThreshold: DefaultClusterThreshold}
}

// Histogram returns the content-length occurrence counts for a result set.
func (a *ResponseAnalyzer) Histogram(results []interfaces.ProbeResult) map[int]int {
	counts := make(map[int]int)
	for _, result := range results {
		counts[result.ContentLength]++
	}
	return counts
}

// Analyze derives both views over one probe run. The unique-page view holds
// every result whose content length falls in an interesting bucket, sorted
// ascending by length with encounter order as the tiebreak. The non-error
// view groups everything that did not answer 404 by status code, preserving
// discovery order. Both are views over the same results; a result may appear
// in both.
func (a *ResponseAnalyzer) Analyze(results []interfaces.ProbeResult) *interfaces.Analysis {
	threshold := a.ClusterThreshold
	if threshold < 1 {
		threshold = DefaultClusterThreshold
	}

	counts := a.Histogram(results)
	interesting := make(map[int]bool, len(counts))
	for length, count := range counts {
		if count >= 1 && count <= threshold {
			interesting[length] = true
		}
	}

	analysis := &interfaces.Analysis{
		NonErrorPages: make(map[int][]interfaces.ProbeResult),
	}

	for _, result := range results {
		if interesting[result.ContentLength] {
			analysis.UniquePages = append(analysis.UniquePages, result)
		}
		if result.StatusCode != 404 {
			analysis.NonErrorPages[result.StatusCode] = append(analysis.NonErrorPages[result.StatusCode], result)
		}
	}

	sort.SliceStable(analysis.UniquePages, func(i, j int) bool {
		return analysis.UniquePages[i].ContentLength < analysis.UniquePages[j].ContentLength
	})

	return analysis
}

// StatusHistogram counts results per status code, for the summary.
func StatusHistogram(results []interfaces.ProbeResult) map[int]int {
	counts := make(map[int]int)
	for _, result := range results {
		counts[result.StatusCode]++
	}
	return counts
}

// SortedStatusCodes returns the status codes of a grouped view in ascending
// order, so summaries print deterministically.
func SortedStatusCodes(groups map[int][]interfaces.ProbeResult) []int {
	codes := make([]int, 0, len(groups))
	for code := range groups {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
