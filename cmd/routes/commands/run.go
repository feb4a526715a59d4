/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: run.go
Description: Run command implementation for Akaylee Routes. Chains the fetch,
extract, and probe stages into one pipeline against a single target: scripts are
downloaded, the inventory is built and saved, every route is probed against the
same origin, and the combined summary is printed.
*/

package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kleascm/akaylee-routes/pkg/reporting"
)

// RunPipeline executes the full fetch, extract, and probe pipeline
func RunPipeline(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Akaylee Routes - Full Pipeline")
	fmt.Println("=================================")
	fmt.Println()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	pageURL := args[0]
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid target URL %q: scheme and host are required", pageURL)
	}
	baseOrigin := parsed.Scheme + "://" + parsed.Host

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stage 1: download the target's scripts.
	saved, sourceDir, err := fetchScripts(ctx, logger, pageURL)
	if err != nil {
		return err
	}
	fmt.Printf("📥 Downloaded %d scripts to %s\n", len(saved), sourceDir)

	// Stage 2: extract and canonicalize the inventory.
	summary, inv, err := extractDirectory(logger, sourceDir)
	if err != nil {
		return err
	}
	if inv.Len() == 0 {
		fmt.Println(summary.RenderText())
		return nil
	}

	routesPath := filepath.Join(sourceDir, "routes.json")
	if err := inv.Save(routesPath); err != nil {
		return err
	}
	fmt.Printf("🗂  Route inventory saved to: %s\n", routesPath)

	// Stage 3: probe the inventory against the origin.
	resultsPath := filepath.Join(sourceDir, "route_test_results.json")
	probeSummary, err := probePaths(logger, baseOrigin, inv.Paths(), resultsPath)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Probe results saved to: %s\n\n", resultsPath)

	// Merge both stage summaries for the final report.
	merged := &reporting.RunSummary{
		RunID:           probeSummary.RunID,
		GeneratedAt:     probeSummary.GeneratedAt,
		BaseOrigin:      baseOrigin,
		FilesProcessed:  summary.FilesProcessed,
		FilesSkipped:    summary.FilesSkipped,
		Candidates:      summary.Candidates,
		Routes:          summary.Routes,
		KindCounts:      summary.KindCounts,
		Probed:          probeSummary.Probed,
		ProbeFailures:   probeSummary.ProbeFailures,
		UniquePages:     probeSummary.UniquePages,
		StatusHistogram: probeSummary.StatusHistogram,
		TopUniquePages:  probeSummary.TopUniquePages,
	}
	fmt.Println(merged.RenderText())

	fmt.Println("✨ Pipeline completed!")
	return nil
}
