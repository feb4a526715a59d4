/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Progress reporters for probe runs. Provides a logging reporter that
emits one structured line per completed probe and a counting reporter used by the
CLI to print periodic progress without coupling the prober to any output format.
*/

package probing

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

// LoggerReporter logs each completed probe through the standard logger.
type LoggerReporter struct {
	logger *logrus.Logger
}

// NewLoggerReporter creates a new LoggerReporter.
func NewLoggerReporter(logger *logrus.Logger) *LoggerReporter {
	return &LoggerReporter{logger: logger}
}

// OnProbeCompleted logs one probe outcome. Failures log at warn level.
func (r *LoggerReporter) OnProbeCompleted(result *interfaces.ProbeResult) {
	fields := logrus.Fields{
		"url":    result.URL,
		"status": result.StatusCode,
		"length": result.ContentLength,
	}
	if result.Failed() {
		r.logger.WithFields(fields).WithField("error", result.Error).Warn("Probe failed")
		return
	}
	r.logger.WithFields(fields).Debug("Probe completed")
}

// CountingReporter tracks completion counts for progress display. Safe for
// concurrent use from worker goroutines.
type CountingReporter struct {
	completed atomic.Int64
	failed    atomic.Int64
}

// NewCountingReporter creates a new CountingReporter.
func NewCountingReporter() *CountingReporter {
	return &CountingReporter{}
}

// OnProbeCompleted records one finished probe.
func (r *CountingReporter) OnProbeCompleted(result *interfaces.ProbeResult) {
	r.completed.Add(1)
	if result.Failed() {
		r.failed.Add(1)
	}
}

// Completed returns the number of finished probes.
func (r *CountingReporter) Completed() int64 {
	return r.completed.Load()
}

// Failed returns the number of transport failures so far.
func (r *CountingReporter) Failed() int64 {
	return r.failed.Load()
}

// MultiReporter fans notifications out to several reporters.
type MultiReporter struct {
	reporters []interfaces.ProbeReporter
}

// NewMultiReporter creates a reporter that notifies all given reporters.
func NewMultiReporter(reporters ...interfaces.ProbeReporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

// OnProbeCompleted forwards the result to every registered reporter.
func (m *MultiReporter) OnProbeCompleted(result *interfaces.ProbeResult) {
	for _, reporter := range m.reporters {
		reporter.OnProbeCompleted(result)
	}
}
