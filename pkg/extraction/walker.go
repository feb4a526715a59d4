/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: walker.go
Description: Directory walker for the extraction stage. Scans every script source
under a directory in parallel, pulls inline script bodies out of HTML files with
goquery, and merges per-file candidates into one batch. A file that cannot be
read is logged, counted, and skipped; a single bad source never aborts the run.
*/

package extraction

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

// DirStats summarizes one directory extraction pass.
type DirStats struct {
	FilesProcessed int `json:"files_processed"`
	FilesSkipped   int `json:"files_skipped"`
	Candidates     int `json:"candidates"`
}

// DirExtractor walks a source directory and extracts candidates from every
// script file it finds.
type DirExtractor struct {
	extractor *Extractor
	logger    *logrus.Logger

	// Parallel is the number of files scanned concurrently. Values below 1
	// fall back to serial scanning.
	Parallel int
}

// NewDirExtractor creates a directory extractor.
func NewDirExtractor(logger *logrus.Logger) *DirExtractor {
	return &DirExtractor{
		extractor: NewExtractor(),
		logger:    logger,
		Parallel:  4,
	}
}

// ExtractDir scans every .js and .html file under dir and returns the merged
// candidate batch. Source references are recorded relative to dir's parent,
// forward-slash separated, so the artifact keys include the directory name
// itself. A missing directory is the only fatal condition.
func (d *DirExtractor) ExtractDir(dir string) ([]interfaces.RouteCandidate, *DirStats, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, fmt.Errorf("source directory not found: %w", err)
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, keep walking.
			d.logger.WithError(err).WithField("path", path).Warn("Skipping unreadable path")
			return nil
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".js", ".html":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk source directory: %w", err)
	}

	base := filepath.Dir(filepath.Clean(dir))
	stats := &DirStats{}

	type fileResult struct {
		candidates []interfaces.RouteCandidate
		skipped    bool
	}
	results := make([]fileResult, len(files))

	workers := d.Parallel
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, file string) {
			defer wg.Done()
			defer func() { <-sem }()
			candidates, err := d.extractFile(file, base)
			if err != nil {
				d.logger.WithError(err).WithField("file", file).Warn("Failed to process source file")
				results[i] = fileResult{skipped: true}
				return
			}
			results[i] = fileResult{candidates: candidates}
		}(i, file)
	}
	wg.Wait()

	var all []interfaces.RouteCandidate
	for _, res := range results {
		if res.skipped {
			stats.FilesSkipped++
			continue
		}
		stats.FilesProcessed++
		all = append(all, res.candidates...)
	}
	stats.Candidates = len(all)

	d.logger.WithFields(logrus.Fields{
		"dir":        dir,
		"processed":  stats.FilesProcessed,
		"skipped":    stats.FilesSkipped,
		"candidates": stats.Candidates,
	}).Info("Directory extraction complete")

	return all, stats, nil
}

// extractFile reads one source file and extracts candidates from it. HTML
// sources contribute their inline <script> bodies; everything else is
// scanned as raw text.
func (d *DirExtractor) extractFile(path, base string) ([]interfaces.RouteCandidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	sourceRef := sourceRefFor(path, base)

	if strings.EqualFold(filepath.Ext(path), ".html") {
		text, err := inlineScripts(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML source: %w", err)
		}
		return d.extractor.Extract(text, sourceRef), nil
	}

	return d.extractor.Extract(string(data), sourceRef), nil
}

// inlineScripts concatenates the bodies of every inline <script> element in
// an HTML document. Script tags with a src attribute carry no inline text and
// contribute nothing.
func inlineScripts(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		if _, external := sel.Attr("src"); external {
			return
		}
		sb.WriteString(sel.Text())
		sb.WriteString("\n")
	})
	return sb.String(), nil
}

// sourceRefFor builds the forward-slash relative identifier recorded on each
// candidate, independent of the host path separator.
func sourceRefFor(path, base string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}
