/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inventory.go
Description: Canonical route inventory for the Akaylee Routes pipeline. Normalizes
extracted candidate paths, merges duplicates across source files into one record
per path, and emits the deterministic sorted inventory that the probe stage and
the serialized artifact both consume.
*/

package inventory

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

var separatorRunRe = regexp.MustCompile(`/+`)

// NormalizePath collapses runs of consecutive separators and strips a single
// trailing separator unless the path is exactly the root. Normalization is
// idempotent: NormalizePath(NormalizePath(p)) == NormalizePath(p).
func NormalizePath(path string) string {
	path = separatorRunRe.ReplaceAllString(path, "/")
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Inventory owns the path-keyed route record map for one pipeline run. It is
// mutated only by the single-threaded merge step; there is no process-wide
// state.
type Inventory struct {
	records map[string]*interfaces.RouteRecord
}

// New creates an empty inventory.
func New() *Inventory {
	return &Inventory{
		records: make(map[string]*interfaces.RouteRecord),
	}
}

// Canonicalize merges a candidate batch into a fresh inventory.
func Canonicalize(candidates []interfaces.RouteCandidate) *Inventory {
	inv := New()
	for _, candidate := range candidates {
		inv.Add(candidate)
	}
	return inv
}

// Add merges one candidate. The first candidate for a normalized path creates
// the record and fixes its kind; later candidates union their source into the
// record and may supply a name only if none is set yet. Names are
// first-writer-wins and never cleared or replaced.
func (inv *Inventory) Add(candidate interfaces.RouteCandidate) {
	path := NormalizePath(candidate.Path)

	record, ok := inv.records[path]
	if !ok {
		inv.records[path] = &interfaces.RouteRecord{
			Kind:    candidate.Kind,
			Name:    candidate.Name,
			Path:    path,
			Sources: []string{candidate.SourceRef},
		}
		return
	}

	if record.Name == "" && candidate.Name != "" {
		record.Name = candidate.Name
	}
	if !containsString(record.Sources, candidate.SourceRef) {
		record.Sources = append(record.Sources, candidate.SourceRef)
		sort.Strings(record.Sources)
	}
}

// Len returns the number of distinct routes.
func (inv *Inventory) Len() int {
	return len(inv.records)
}

// Get returns the record for an already-normalized path.
func (inv *Inventory) Get(path string) (*interfaces.RouteRecord, bool) {
	record, ok := inv.records[path]
	return record, ok
}

// Records returns the inventory sorted lexicographically by path. The
// ordering is a persisted contract of the serialized artifact, not an
// implementation detail.
func (inv *Inventory) Records() []*interfaces.RouteRecord {
	records := make([]*interfaces.RouteRecord, 0, len(inv.records))
	for _, record := range inv.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
	return records
}

// Paths returns the sorted normalized paths, the probe stage's task list.
func (inv *Inventory) Paths() []string {
	paths := make([]string, 0, len(inv.records))
	for path := range inv.records {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// KindCounts returns the number of routes per dialect, for the summary.
func (inv *Inventory) KindCounts() map[interfaces.RouteKind]int {
	counts := make(map[interfaces.RouteKind]int)
	for _, record := range inv.records {
		counts[record.Kind]++
	}
	return counts
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
