package cookiejar

import (
	"errors"
	"sync"
)

// MemoryBackend is an in-process Backend shared by all "tabs" of one
// simulated browser. Used by tests and by the session orchestrator tests.
type MemoryBackend struct {
	mu      sync.Mutex
	stored  map[string]string
	pending map[string]*pendingWrite

	// NotReady simulates a backend that cannot yet serve the jar.
	NotReady bool
	// FailCommit simulates a flush failure.
	FailCommit bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		stored:  make(map[string]string),
		pending: make(map[string]*pendingWrite),
	}
}

// Get returns the cookie value, preferring uncommitted writes.
func (b *MemoryBackend) Get(name string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.pending[name]; ok {
		if p.deleted {
			return "", false
		}
		return p.value, true
	}
	v, ok := b.stored[name]
	return v, ok && v != ""
}

// Set buffers a write.
func (b *MemoryBackend) Set(name, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[name] = &pendingWrite{value: value}
}

// Delete buffers a removal.
func (b *MemoryBackend) Delete(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[name] = &pendingWrite{deleted: true}
}

// Commit applies buffered mutations to the durable map.
func (b *MemoryBackend) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailCommit {
		return errors.New("commit failed")
	}
	for name, p := range b.pending {
		if p.deleted {
			delete(b.stored, name)
		} else {
			b.stored[name] = p.value
		}
	}
	b.pending = make(map[string]*pendingWrite)
	return nil
}

// Ready reports readiness; tests flip NotReady to exercise the halt path.
func (b *MemoryBackend) Ready() bool {
	return !b.NotReady
}

// Stored returns the committed value for a cookie name. Test helper.
func (b *MemoryBackend) StoredValue(name string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.stored[name]
	return v, ok
}
