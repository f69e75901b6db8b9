package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncAuthSuccess is a no-op.
func (n *NoopRecorder) IncAuthSuccess() {}

// IncAuthFailure is a no-op.
func (n *NoopRecorder) IncAuthFailure(reason string) {}

// IncDocumentCreated is a no-op.
func (n *NoopRecorder) IncDocumentCreated(collection string) {}

// IncDocumentUpdated is a no-op.
func (n *NoopRecorder) IncDocumentUpdated(collection string) {}

// IncDocumentDeleted is a no-op.
func (n *NoopRecorder) IncDocumentDeleted(collection string) {}

// IncStoreError is a no-op.
func (n *NoopRecorder) IncStoreError(op string) {}
