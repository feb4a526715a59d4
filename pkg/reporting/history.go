/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: history.go
Description: Persists one run summary per pipeline invocation into a history
directory. Files are timestamped and stamped with the run identifier so
successive runs against the same target can be diffed.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SaveRunHistory writes a summary JSON into dir/history. The filename carries
// the generation timestamp and the run identifier, for example
// 2026-08-30_14-05-11_run-1.json. Returns the written path.
func SaveRunHistory(dir string, summary *RunSummary) (string, error) {
	historyDir := filepath.Join(dir, "history")
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}

	stamp := summary.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	name := stamp.Format("2006-01-02_15-04-05")
	if summary.RunID != "" {
		name = fmt.Sprintf("%s_%s", name, summary.RunID)
	}
	path := filepath.Join(historyDir, name+".json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run history: %w", err)
	}
	return path, nil
}

// LoadRunHistory reads every summary under dir/history, oldest first. Missing
// history is an empty result, not an error.
func LoadRunHistory(dir string) ([]*RunSummary, error) {
	historyDir := filepath.Join(dir, "history")
	entries, err := os.ReadDir(historyDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var summaries []*RunSummary
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(historyDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read history entry: %w", err)
		}
		var summary RunSummary
		if err := json.Unmarshal(data, &summary); err != nil {
			return nil, fmt.Errorf("failed to parse history entry %s: %w", entry.Name(), err)
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}
