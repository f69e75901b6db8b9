package metrics

import (
	"maps"
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
// Labelled counters are keyed by their label value.
type Snapshot struct {
	AuthSuccesses    uint64
	AuthFailures     map[string]uint64
	DocumentsCreated map[string]uint64
	DocumentsUpdated map[string]uint64
	DocumentsDeleted map[string]uint64
	StoreErrors      map[string]uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	authSuccesses uint64

	mu               sync.Mutex
	authFailures     map[string]uint64
	documentsCreated map[string]uint64
	documentsUpdated map[string]uint64
	documentsDeleted map[string]uint64
	storeErrors      map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		authFailures:     map[string]uint64{},
		documentsCreated: map[string]uint64{},
		documentsUpdated: map[string]uint64{},
		documentsDeleted: map[string]uint64{},
		storeErrors:      map[string]uint64{},
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		AuthSuccesses:    atomic.LoadUint64(&m.authSuccesses),
		AuthFailures:     maps.Clone(m.authFailures),
		DocumentsCreated: maps.Clone(m.documentsCreated),
		DocumentsUpdated: maps.Clone(m.documentsUpdated),
		DocumentsDeleted: maps.Clone(m.documentsDeleted),
		StoreErrors:      maps.Clone(m.storeErrors),
	}
}

// IncAuthSuccess increments the verified request counter.
func (m *InMemoryRecorder) IncAuthSuccess() {
	atomic.AddUint64(&m.authSuccesses, 1)
}

// IncAuthFailure increments the rejected request counter for reason.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	m.inc(m.authFailures, reason)
}

// IncDocumentCreated increments the created counter for collection.
func (m *InMemoryRecorder) IncDocumentCreated(collection string) {
	m.inc(m.documentsCreated, collection)
}

// IncDocumentUpdated increments the updated counter for collection.
func (m *InMemoryRecorder) IncDocumentUpdated(collection string) {
	m.inc(m.documentsUpdated, collection)
}

// IncDocumentDeleted increments the deleted counter for collection.
func (m *InMemoryRecorder) IncDocumentDeleted(collection string) {
	m.inc(m.documentsDeleted, collection)
}

// IncStoreError increments the store failure counter for op.
func (m *InMemoryRecorder) IncStoreError(op string) {
	m.inc(m.storeErrors, op)
}

func (m *InMemoryRecorder) inc(counter map[string]uint64, label string) {
	m.mu.Lock()
	counter[label]++
	m.mu.Unlock()
}
