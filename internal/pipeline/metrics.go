// SPDX-License-Identifier: MIT

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	processesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sublate_processes_total",
		Help: "Video processing requests by terminal status.",
	}, []string{"status"})

	stageFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sublate_stage_failures_total",
		Help: "Pipeline stage failures by stage name.",
	}, []string{"stage"})

	translationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sublate_translations_total",
		Help: "Per-language translation outcomes.",
	}, []string{"status"})

	processDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sublate_process_duration_seconds",
		Help:    "End-to-end video processing latencies in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})
)
