/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: artifact.go
Description: Serialization for the probe results artifact. Writes the result set
in completion order as an indented JSON array, stamped with the run identifier,
alongside a loader used by reporting and tooling.
*/

package probing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

// SaveResults writes the probe results artifact to path in completion order.
func SaveResults(path string, results []interfaces.ProbeResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal probe results: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write probe results artifact: %w", err)
	}
	return nil
}

// LoadResults reads a probe results artifact back.
func LoadResults(path string) ([]interfaces.ProbeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("probe results artifact not found: %w", err)
	}
	var results []interfaces.ProbeResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse probe results artifact: %w", err)
	}
	return results, nil
}
