/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extract.go
Description: Extract command implementation for Akaylee Routes. Scans a source
directory with the pattern catalog, canonicalizes the candidates into the route
inventory, writes the sorted routes.json artifact, and prints the extraction
summary with the route type distribution.
*/

package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/akaylee-routes/pkg/extraction"
	"github.com/kleascm/akaylee-routes/pkg/inventory"
	"github.com/kleascm/akaylee-routes/pkg/logging"
	"github.com/kleascm/akaylee-routes/pkg/reporting"
)

// RunExtract executes the extraction stage against a source directory
func RunExtract(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Akaylee Routes - Extracting Routes")
	fmt.Println("=====================================")
	fmt.Println()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	dir := args[0]
	summary, inv, err := extractDirectory(logger, dir)
	if err != nil {
		return err
	}

	if inv.Len() == 0 {
		fmt.Println(summary.RenderText())
		return nil
	}

	output := viper.GetString("routes_output")
	if output == "" {
		output = filepath.Join(dir, "routes.json")
	}
	if err := inv.Save(output); err != nil {
		return err
	}

	fmt.Printf("✅ Route inventory saved to: %s\n\n", output)
	fmt.Println(summary.RenderText())
	return nil
}

// extractDirectory runs the extraction and canonicalization stages and builds
// the extraction side of the run summary. Shared with the run command.
func extractDirectory(logger *logging.Logger, dir string) (*reporting.RunSummary, *inventory.Inventory, error) {
	extractor := extraction.NewDirExtractor(logger.GetLogger())
	if parallel := viper.GetInt("extract_parallel"); parallel > 0 {
		extractor.Parallel = parallel
	}

	candidates, stats, err := extractor.ExtractDir(dir)
	if err != nil {
		return nil, nil, err
	}

	inv := inventory.Canonicalize(candidates)

	summary := &reporting.RunSummary{
		FilesProcessed: stats.FilesProcessed,
		FilesSkipped:   stats.FilesSkipped,
		Candidates:     stats.Candidates,
		Routes:         inv.Len(),
		KindCounts:     make(map[string]int),
	}
	for kind, count := range inv.KindCounts() {
		summary.KindCounts[string(kind)] = count
	}
	return summary, inv, nil
}
