// Package metrics exposes prometheus collectors for the editor backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CMARequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "image_editor_cma_requests_total",
		Help: "Content management API requests by operation and status class.",
	}, []string{"operation", "status"})

	CMADuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "image_editor_cma_request_duration_seconds",
		Help:    "Content management API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	DialogSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "image_editor_dialog_saves_total",
		Help: "Save-back attempts by outcome (updated, skipped, failed).",
	}, []string{"outcome"})

	DialogsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "image_editor_dialogs_opened_total",
		Help: "Dialogs opened by initial outcome (ready, no_image).",
	}, []string{"outcome"})

	MountedWidgets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "image_editor_mounted_widgets",
		Help: "Field widgets currently mounted.",
	})
)

func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "error"
	}
}
