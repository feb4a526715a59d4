/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: HTML report generator for the Akaylee Routes pipeline. Renders one
probe run into a self-contained status-colored HTML page so findings can be
reviewed and shared outside the terminal.
*/

package reporting

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

// ReportGenerator writes HTML probe reports.
type ReportGenerator struct {
	outputDir string
	logger    *logrus.Logger
	templates *template.Template
}

// ReportData is everything the HTML template consumes.
type ReportData struct {
	Summary     *RunSummary
	UniquePages []interfaces.ProbeResult
	Results     []interfaces.ProbeResult
}

// NewReportGenerator creates a report generator writing into outputDir.
func NewReportGenerator(outputDir string, logger *logrus.Logger) *ReportGenerator {
	return &ReportGenerator{
		outputDir: outputDir,
		logger:    logger,
		templates: template.Must(template.New("report").Funcs(template.FuncMap{
			"rowClass": rowClass,
		}).Parse(reportTemplate)),
	}
}

// Generate renders the report and returns the written file path.
func (rg *ReportGenerator) Generate(data *ReportData) (string, error) {
	if err := os.MkdirAll(rg.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := "route_report.html"
	if data.Summary != nil && data.Summary.RunID != "" {
		name = fmt.Sprintf("route_report_%s.html", data.Summary.RunID)
	}
	path := filepath.Join(rg.outputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := rg.templates.Execute(file, data); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}

	rg.logger.WithField("path", path).Info("HTML report written")
	return path, nil
}

// rowClass maps a probe result onto a template row class.
func rowClass(result interfaces.ProbeResult) string {
	switch {
	case result.StatusCode == 0:
		return "failed"
	case result.StatusCode == 404:
		return "notfound"
	case result.StatusCode >= 200 && result.StatusCode < 300:
		return "ok"
	default:
		return "other"
	}
}
