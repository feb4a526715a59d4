/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: summary.go
Description: Run summary assembly and text rendering for the Akaylee Routes
pipeline. Collects counts by route dialect, the top differential pages, and the
status-code histogram into one structure any presentation layer can format, and
provides the reference plain-text rendering used by the CLI.
*/

package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kleascm/akaylee-routes/pkg/analysis"
	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

// TopPageLimit bounds how many differential pages the rendered summary shows.
const TopPageLimit = 10

// RunSummary is the structured result of one pipeline or probe run. Every
// operation returns one of these even on partial failure; counts of zero are
// a valid summary, not an error.
type RunSummary struct {
	RunID       string    `json:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	BaseOrigin  string    `json:"base_origin,omitempty"`

	FilesProcessed int `json:"files_processed"`
	FilesSkipped   int `json:"files_skipped"`
	Candidates     int `json:"candidates"`
	Routes         int `json:"routes"`

	KindCounts map[string]int `json:"kind_counts,omitempty"`

	Probed          int `json:"probed"`
	ProbeFailures   int `json:"probe_failures"`
	UniquePages     int `json:"unique_pages"`
	StatusHistogram map[int]int `json:"status_histogram,omitempty"`

	TopUniquePages []interfaces.ProbeResult `json:"top_unique_pages,omitempty"`
}

// BuildProbeSummary fills the probe-side fields of a summary from a finished
// run and its analysis.
func BuildProbeSummary(summary *RunSummary, results []interfaces.ProbeResult, an *interfaces.Analysis) *RunSummary {
	if summary == nil {
		summary = &RunSummary{}
	}
	summary.GeneratedAt = time.Now()
	summary.Probed = len(results)
	summary.StatusHistogram = analysis.StatusHistogram(results)
	for _, result := range results {
		if result.Failed() {
			summary.ProbeFailures++
		}
	}
	if an != nil {
		summary.UniquePages = len(an.UniquePages)
		limit := TopPageLimit
		if limit > len(an.UniquePages) {
			limit = len(an.UniquePages)
		}
		summary.TopUniquePages = an.UniquePages[:limit]
	}
	return summary
}

// RenderText renders the human-readable summary. The differential signal
// compares content length only; response time and body contents are recorded
// but do not feed the clustering.
func (s *RunSummary) RenderText() string {
	var sb strings.Builder

	if s.Routes > 0 || s.Candidates > 0 {
		sb.WriteString("📊 Extraction summary:\n")
		fmt.Fprintf(&sb, "Files processed: %d", s.FilesProcessed)
		if s.FilesSkipped > 0 {
			fmt.Fprintf(&sb, " (%d skipped)", s.FilesSkipped)
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "Candidates found: %d\n", s.Candidates)
		fmt.Fprintf(&sb, "Distinct routes: %d\n", s.Routes)
		if len(s.KindCounts) > 0 {
			sb.WriteString("\nRoute type distribution:\n")
			for _, kind := range sortedKeys(s.KindCounts) {
				fmt.Fprintf(&sb, "• %s: %d\n", kind, s.KindCounts[kind])
			}
		}
	}

	if s.Probed > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "🔎 Probe summary (run %s):\n", s.RunID)
		fmt.Fprintf(&sb, "Paths probed: %d\n", s.Probed)
		fmt.Fprintf(&sb, "Transport failures: %d\n", s.ProbeFailures)
		fmt.Fprintf(&sb, "Differential pages: %d\n", s.UniquePages)

		if len(s.TopUniquePages) > 0 {
			sb.WriteString("\nTop differential pages (unique response lengths):\n")
			fmt.Fprintf(&sb, "%-70s %-8s %-15s\n", "URL", "Status", "Length (bytes)")
			sb.WriteString(strings.Repeat("-", 95) + "\n")
			for _, page := range s.TopUniquePages {
				fmt.Fprintf(&sb, "%-70s %-8d %-15d\n", page.URL, page.StatusCode, page.ContentLength)
			}
			if s.UniquePages > len(s.TopUniquePages) {
				fmt.Fprintf(&sb, "... %d more ...\n", s.UniquePages-len(s.TopUniquePages))
			}
		}

		if len(s.StatusHistogram) > 0 {
			sb.WriteString("\nStatus code histogram:\n")
			codes := make([]int, 0, len(s.StatusHistogram))
			for code := range s.StatusHistogram {
				codes = append(codes, code)
			}
			sort.Ints(codes)
			for _, code := range codes {
				label := fmt.Sprintf("%d", code)
				if code == 0 {
					label = "0 (transport failure)"
				}
				fmt.Fprintf(&sb, "• %s: %d\n", label, s.StatusHistogram[code])
			}
		}
	}

	if sb.Len() == 0 {
		sb.WriteString("⚠️ Nothing to report: no candidates extracted and no paths probed\n")
	}

	return sb.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
