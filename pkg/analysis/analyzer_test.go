/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analyzer_test.go
Description: Tests for the differential response analyzer. Covers the length
histogram, cluster suppression, threshold configuration, non-404 grouping,
and the ordering guarantees of both views.
*/

package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

func resultsWithLengths(lengths ...int) []interfaces.ProbeResult {
	results := make([]interfaces.ProbeResult, 0, len(lengths))
	for i, length := range lengths {
		results = append(results, interfaces.ProbeResult{
			URL:           fmt.Sprintf("https://target.test/p%d", i),
			StatusCode:    200,
			ContentLength: length,
		})
	}
	return results
}

func TestHistogram(t *testing.T) {
	analyzer := NewResponseAnalyzer()
	counts := analyzer.Histogram(resultsWithLengths(100, 100, 42, 7))
	assert.Equal(t, 2, counts[100])
	assert.Equal(t, 1, counts[42])
	assert.Equal(t, 1, counts[7])
}

func TestAnalyzeSuppressesClusteredLengths(t *testing.T) {
	// Six responses at 100 exceed the threshold of five; 42 and 7 survive.
	results := resultsWithLengths(100, 100, 100, 100, 100, 100, 42, 42, 7)
	report := NewResponseAnalyzer().Analyze(results)

	require.Len(t, report.UniquePages, 3)
	for _, page := range report.UniquePages {
		assert.NotEqual(t, 100, page.ContentLength)
	}
}

func TestAnalyzeUniquePagesSortedByLength(t *testing.T) {
	report := NewResponseAnalyzer().Analyze(resultsWithLengths(42, 7, 42))
	require.Len(t, report.UniquePages, 3)
	assert.Equal(t, 7, report.UniquePages[0].ContentLength)
	assert.Equal(t, 42, report.UniquePages[1].ContentLength)
	assert.Equal(t, 42, report.UniquePages[2].ContentLength)
	// Stable sort keeps equal lengths in encounter order.
	assert.Equal(t, "https://target.test/p0", report.UniquePages[1].URL)
	assert.Equal(t, "https://target.test/p2", report.UniquePages[2].URL)
}

func TestAnalyzeThresholdIsConfigurable(t *testing.T) {
	results := resultsWithLengths(100, 100, 100)

	strict := &ResponseAnalyzer{ClusterThreshold: 2}
	assert.Empty(t, strict.Analyze(results).UniquePages)

	loose := &ResponseAnalyzer{ClusterThreshold: 3}
	assert.Len(t, loose.Analyze(results).UniquePages, 3)
}

func TestAnalyzeInvalidThresholdFallsBack(t *testing.T) {
	analyzer := &ResponseAnalyzer{ClusterThreshold: 0}
	report := analyzer.Analyze(resultsWithLengths(42))
	assert.Len(t, report.UniquePages, 1)
}

func TestAnalyzeGroupsNonErrorPagesByStatus(t *testing.T) {
	results := []interfaces.ProbeResult{
		{URL: "https://target.test/a", StatusCode: 200, ContentLength: 10},
		{URL: "https://target.test/b", StatusCode: 404, ContentLength: 20},
		{URL: "https://target.test/c", StatusCode: 403, ContentLength: 30},
		{URL: "https://target.test/d", StatusCode: 200, ContentLength: 40},
		{URL: "https://target.test/e", StatusCode: 0, ContentLength: 0, Error: "connection refused"},
	}
	report := NewResponseAnalyzer().Analyze(results)

	require.Len(t, report.NonErrorPages[200], 2)
	assert.Equal(t, "https://target.test/a", report.NonErrorPages[200][0].URL)
	assert.Equal(t, "https://target.test/d", report.NonErrorPages[200][1].URL)
	require.Len(t, report.NonErrorPages[403], 1)
	// Transport failures are grouped under code 0, not dropped.
	require.Len(t, report.NonErrorPages[0], 1)
	_, has404 := report.NonErrorPages[404]
	assert.False(t, has404)

	assert.Equal(t, []int{0, 200, 403}, SortedStatusCodes(report.NonErrorPages))
}

func TestAnalyzeEmptyResults(t *testing.T) {
	report := NewResponseAnalyzer().Analyze(nil)
	assert.Empty(t, report.UniquePages)
	assert.Empty(t, report.NonErrorPages)
}

func TestStatusHistogram(t *testing.T) {
	results := []interfaces.ProbeResult{
		{StatusCode: 200}, {StatusCode: 200}, {StatusCode: 404}, {StatusCode: 0},
	}
	counts := StatusHistogram(results)
	assert.Equal(t, 2, counts[200])
	assert.Equal(t, 1, counts[404])
	assert.Equal(t, 1, counts[0])
}
