/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fetch.go
Description: Fetch command implementation for Akaylee Routes. Downloads every
script reachable from a target page into a per-host source directory, optionally
discovering scripts through headless Chrome for pages that inject them at runtime.
*/

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/akaylee-routes/pkg/fetch"
	"github.com/kleascm/akaylee-routes/pkg/logging"
)

// RunFetch executes the script download stage
func RunFetch(cmd *cobra.Command, args []string) error {
	fmt.Println("📥 Akaylee Routes - Downloading Scripts")
	fmt.Println("=======================================")
	fmt.Println()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	saved, dir, err := fetchScripts(ctx, logger, args[0])
	if err != nil {
		return err
	}

	if len(saved) == 0 {
		fmt.Println("⚠️ No scripts found or downloaded")
		return nil
	}

	fmt.Printf("✅ Downloaded %d scripts to %s\n\n", len(saved), dir)
	fmt.Println("Downloaded files:")
	for _, file := range saved {
		fmt.Printf("* %s\n", file)
	}
	return nil
}

// fetchScripts downloads a target's scripts, using rendered discovery when
// enabled. Shared with the run command.
func fetchScripts(ctx context.Context, logger *logging.Logger, pageURL string) ([]string, string, error) {
	config := fetch.DefaultFetcherConfig()
	if output := viper.GetString("fetch_output"); output != "" {
		config.OutputDir = output
	}
	if retry := viper.GetInt("fetch_retry"); retry > 0 {
		config.Retries = retry
	}
	if depth := viper.GetInt("fetch_depth"); depth > 0 {
		config.MaxDepth = depth
	}

	fetcher := fetch.NewFetcher(config, logger.GetLogger())

	if viper.GetBool("render") {
		discoverer := fetch.NewBrowserDiscoverer(logger.GetLogger())
		scripts, err := discoverer.DiscoverScripts(ctx, pageURL)
		if err != nil {
			return nil, "", fmt.Errorf("rendered script discovery failed: %w", err)
		}
		return fetcher.FetchDiscovered(ctx, pageURL, scripts)
	}

	return fetcher.Fetch(ctx, pageURL)
}
