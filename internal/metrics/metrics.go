// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Authentication metrics
	IncAuthSuccess()
	IncAuthFailure(reason string) // reason: "missing_header", "malformed_header", "invalid_token"

	// Document metrics, labelled by collection
	IncDocumentCreated(collection string)
	IncDocumentUpdated(collection string)
	IncDocumentDeleted(collection string)

	// Store metrics
	IncStoreError(op string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
