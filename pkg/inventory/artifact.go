/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: artifact.go
Description: Serialization for the route inventory artifact. Writes the sorted
inventory as an indented JSON array with alphabetical key order and joins
multi-source records into a comma-separated sorted source list, matching the
reproducible-diff contract consumers rely on.
*/

package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

// ArtifactRecord is the on-disk shape of one route. Field order follows
// alphabetical key order, the reference serialization behavior.
type ArtifactRecord struct {
	Name       string `json:"name,omitempty"`
	Path       string `json:"path"`
	SourceFile string `json:"source_file"`
	Type       string `json:"type"`
}

// Artifact returns the serializable record list, sorted by path.
func (inv *Inventory) Artifact() []ArtifactRecord {
	records := inv.Records()
	artifact := make([]ArtifactRecord, 0, len(records))
	for _, record := range records {
		artifact = append(artifact, ArtifactRecord{
			Name:       record.Name,
			Path:       record.Path,
			SourceFile: strings.Join(record.Sources, ", "),
			Type:       string(record.Kind),
		})
	}
	return artifact
}

// Save writes the inventory artifact to path, creating parent directories as
// needed.
func (inv *Inventory) Save(path string) error {
	data, err := json.MarshalIndent(inv.Artifact(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write inventory artifact: %w", err)
	}
	return nil
}

// Load reads a previously written inventory artifact. A missing or unreadable
// file is fatal for the calling operation.
func Load(path string) ([]ArtifactRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("routes artifact not found: %w", err)
	}
	var records []ArtifactRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse routes artifact: %w", err)
	}
	return records, nil
}

// PathsFromArtifact extracts the distinct path set from loaded records,
// preserving first-seen order.
func PathsFromArtifact(records []ArtifactRecord) []string {
	seen := make(map[string]struct{}, len(records))
	var paths []string
	for _, record := range records {
		if record.Path == "" {
			continue
		}
		if _, ok := seen[record.Path]; ok {
			continue
		}
		seen[record.Path] = struct{}{}
		paths = append(paths, record.Path)
	}
	return paths
}

// FromArtifact rebuilds an inventory from loaded records, used when a later
// stage needs kind counts from a stored artifact.
func FromArtifact(records []ArtifactRecord) *Inventory {
	inv := New()
	for _, record := range records {
		for _, source := range strings.Split(record.SourceFile, ", ") {
			inv.Add(interfaces.RouteCandidate{
				Kind:      interfaces.RouteKind(record.Type),
				Name:      record.Name,
				Path:      record.Path,
				SourceRef: source,
			})
		}
	}
	return inv
}
