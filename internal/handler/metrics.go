package handler

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/pawmart/pawmart/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "pawmart_auth_success_total %d\n", snap.AuthSuccesses)
	writeLabelled(w, "pawmart_auth_failures_total", "reason", snap.AuthFailures)

	writeLabelled(w, "pawmart_documents_created_total", "collection", snap.DocumentsCreated)
	writeLabelled(w, "pawmart_documents_updated_total", "collection", snap.DocumentsUpdated)
	writeLabelled(w, "pawmart_documents_deleted_total", "collection", snap.DocumentsDeleted)

	writeLabelled(w, "pawmart_store_errors_total", "op", snap.StoreErrors)
}

// writeLabelled writes one sample per label value, in label order.
func writeLabelled(w http.ResponseWriter, name, label string, values map[string]uint64) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		writeMetric(w, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
