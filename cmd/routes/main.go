/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for Akaylee Routes. Wires the fetch,
extract, probe, and run commands with comprehensive flag and configuration
management, binding every option to viper so config files and environment
variables work the same as flags.
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/akaylee-routes/cmd/routes/commands"
)

var (
	// Configuration
	configFile string
	logLevel   string
	logFormat  string
	logDir     string

	// Fetch configuration
	fetchOutput string
	fetchRetry  int
	fetchDepth  int
	renderMode  bool

	// Extract configuration
	routesOutput string
	parallelSrc  int

	// Probe configuration
	workers          int
	probeTimeout     time.Duration
	maxBodyBytes     int64
	clusterThreshold int
	userAgent        string
	resultsOutput    string
	reportDir        string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "akaylee-routes",
		Short: "Akaylee Routes - Client-side route discovery and differential probing",
		Long: `Akaylee Routes discovers web application routes hidden in client-side scripts
and verifies them against the live origin. It downloads a target's scripts, extracts
route candidates with declarative pattern rules, deduplicates them into a canonical
inventory, then probes every path concurrently and clusters responses by content
length to surface the endpoints worth a human's attention.`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))

	// Fetch command: download a target's scripts into a local source directory.
	fetchCmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download a target's client-side scripts",
		Long: `Download every script reachable from the target page into a directory named
after the target host, lightly reformatted so routes are greppable. With --render the
page is loaded in headless Chrome first, catching scripts injected at runtime.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.RunFetch,
	}
	fetchCmd.Flags().StringVar(&fetchOutput, "output", ".", "Directory under which the per-host source directory is created")
	fetchCmd.Flags().IntVar(&fetchRetry, "retry", 2, "Download retry attempts per script")
	fetchCmd.Flags().IntVar(&fetchDepth, "depth", 5, "Maximum recursion depth into scripts referenced by scripts")
	fetchCmd.Flags().BoolVar(&renderMode, "render", false, "Discover scripts by rendering the page in headless Chrome")
	fetchCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		viper.BindPFlag("fetch_output", cmd.Flags().Lookup("output"))
		viper.BindPFlag("fetch_retry", cmd.Flags().Lookup("retry"))
		viper.BindPFlag("fetch_depth", cmd.Flags().Lookup("depth"))
		viper.BindPFlag("render", cmd.Flags().Lookup("render"))
		return nil
	}

	// Extract command: scan downloaded sources into the route inventory.
	extractCmd := &cobra.Command{
		Use:   "extract <directory>",
		Short: "Extract route candidates from downloaded scripts",
		Long: `Scan every script source under the directory with the pattern catalog,
deduplicate the candidates into a canonical route inventory, and write the sorted
routes.json artifact.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.RunExtract,
	}
	extractCmd.Flags().StringVar(&routesOutput, "output", "", "Inventory output path (default <directory>/routes.json)")
	extractCmd.Flags().IntVar(&parallelSrc, "parallel", 4, "Number of source files scanned concurrently")
	viper.BindPFlag("routes_output", extractCmd.Flags().Lookup("output"))
	viper.BindPFlag("extract_parallel", extractCmd.Flags().Lookup("parallel"))

	// Probe command: verify inventoried routes against the live origin.
	probeCmd := &cobra.Command{
		Use:   "probe <base-url> <routes-file>",
		Short: "Probe inventoried routes against a live origin",
		Long: `Issue one GET per inventoried path through a bounded worker pool, record
status and content length, and cluster the responses by length to separate real
endpoints from the catch-all template. Certificate validation is disabled; a TLS
failure is just another transport failure.`,
		Args: cobra.ExactArgs(2),
		RunE: commands.RunProbe,
	}
	addProbeFlags(probeCmd)

	// Run command: the full pipeline in one invocation.
	runCmd := &cobra.Command{
		Use:   "run <url>",
		Short: "Fetch, extract, and probe in one pass",
		Long: `Run the whole pipeline against a target: download its scripts, extract and
canonicalize the route inventory, then probe every route against the same origin and
report the differential pages.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.RunPipeline,
	}
	runCmd.Flags().StringVar(&fetchOutput, "output", ".", "Directory under which sources and artifacts are written")
	runCmd.Flags().BoolVar(&renderMode, "render", false, "Discover scripts by rendering the page in headless Chrome")
	addProbeFlags(runCmd)
	probeBindings := runCmd.PreRunE
	runCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		viper.BindPFlag("fetch_output", cmd.Flags().Lookup("output"))
		viper.BindPFlag("render", cmd.Flags().Lookup("render"))
		return probeBindings(cmd, args)
	}

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}

// addProbeFlags registers the probe-stage flags shared by probe and run. The
// viper bindings happen in PreRunE so the invoked command's flag set wins
// when both commands declare the same keys.
func addProbeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&workers, "workers", 10, "Maximum concurrent probes")
	cmd.Flags().DurationVar(&probeTimeout, "timeout", 10*time.Second, "Per-request timeout")
	cmd.Flags().Int64Var(&maxBodyBytes, "max-body", 10*1024*1024, "Maximum response body bytes read per probe")
	cmd.Flags().IntVar(&clusterThreshold, "cluster-threshold", 5, "Maximum occurrences for a content length to stay interesting")
	cmd.Flags().StringVar(&userAgent, "user-agent", "akaylee-routes/1.0", "User-Agent header for probes")
	cmd.Flags().StringVar(&resultsOutput, "results", "", "Probe results output path (default next to the routes file)")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Directory for the HTML report (disabled when empty)")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
		viper.BindPFlag("timeout", cmd.Flags().Lookup("timeout"))
		viper.BindPFlag("max_body_bytes", cmd.Flags().Lookup("max-body"))
		viper.BindPFlag("cluster_threshold", cmd.Flags().Lookup("cluster-threshold"))
		viper.BindPFlag("user_agent", cmd.Flags().Lookup("user-agent"))
		viper.BindPFlag("results_output", cmd.Flags().Lookup("results"))
		viper.BindPFlag("report_dir", cmd.Flags().Lookup("report-dir"))
		return nil
	}
}
