/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: probe.go
Description: Probe command implementation for Akaylee Routes. Loads a route
inventory artifact, probes every path against the base origin through the worker
pool, clusters the responses, writes the probe results artifact, and prints the
differential and status-code summary.
*/

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/akaylee-routes/pkg/analysis"
	"github.com/kleascm/akaylee-routes/pkg/inventory"
	"github.com/kleascm/akaylee-routes/pkg/logging"
	"github.com/kleascm/akaylee-routes/pkg/probing"
	"github.com/kleascm/akaylee-routes/pkg/reporting"
)

// RunProbe executes the probe and analysis stages against a stored inventory
func RunProbe(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Akaylee Routes - Probing Routes")
	fmt.Println("==================================")
	fmt.Println()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	baseOrigin, routesFile := args[0], args[1]

	records, err := inventory.Load(routesFile)
	if err != nil {
		return err
	}
	paths := inventory.PathsFromArtifact(records)
	if len(paths) == 0 {
		fmt.Println("⚠️ No valid paths found in the routes file")
		return nil
	}

	resultsPath := viper.GetString("results_output")
	if resultsPath == "" {
		resultsPath = filepath.Join(filepath.Dir(routesFile), "route_test_results.json")
	}

	summary, err := probePaths(logger, baseOrigin, paths, resultsPath)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Probe results saved to: %s\n\n", resultsPath)
	fmt.Println(summary.RenderText())
	return nil
}

// probePaths runs the probe pool and the analyzer, persists the results
// artifact, optionally renders the HTML report, and returns the summary.
// Shared with the run command.
func probePaths(logger *logging.Logger, baseOrigin string, paths []string, resultsPath string) (*reporting.RunSummary, error) {
	config := probing.DefaultProberConfig()
	if workers := viper.GetInt("workers"); workers > 0 {
		config.Workers = workers
	}
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		config.Timeout = timeout
	}
	if maxBody := viper.GetInt64("max_body_bytes"); maxBody > 0 {
		config.MaxBodyBytes = maxBody
	}
	if ua := viper.GetString("user_agent"); ua != "" {
		config.UserAgent = ua
	}

	prober, err := probing.NewProber(config, logger.GetLogger())
	if err != nil {
		return nil, err
	}
	prober.SetReporter(probing.NewLoggerReporter(logger.GetLogger()))

	// Allow the run to be interrupted between tasks.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := prober.Run(ctx, baseOrigin, paths)

	if err := probing.SaveResults(resultsPath, results); err != nil {
		return nil, err
	}

	analyzer := analysis.NewResponseAnalyzer()
	if threshold := viper.GetInt("cluster_threshold"); threshold > 0 {
		analyzer.ClusterThreshold = threshold
	}
	an := analyzer.Analyze(results)

	summary := reporting.BuildProbeSummary(&reporting.RunSummary{
		RunID:      prober.RunID,
		BaseOrigin: baseOrigin,
	}, results, an)

	if path, err := reporting.SaveRunHistory(filepath.Dir(resultsPath), summary); err != nil {
		logger.WithFields(map[string]interface{}{"error": err}).Warn("Failed to write run history")
	} else {
		logger.WithFields(map[string]interface{}{"path": path}).Info("Run history saved")
	}

	if reportDir := viper.GetString("report_dir"); reportDir != "" {
		generator := reporting.NewReportGenerator(reportDir, logger.GetLogger())
		if path, err := generator.Generate(&reporting.ReportData{
			Summary:     summary,
			UniquePages: an.UniquePages,
			Results:     results,
		}); err != nil {
			logger.WithFields(map[string]interface{}{"error": err}).Warn("Failed to write HTML report")
		} else {
			fmt.Printf("📄 HTML report: %s\n", path)
		}
	}

	return summary, nil
}
