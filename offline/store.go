// ABOUTME: Bucketed response storage for the offline agent
// ABOUTME: Entries carry timestamps; buckets are dropped wholesale on version change
package offline

import (
	"net/http"
	"sync"
	"time"
)

// Entry is one cached response.
type Entry struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	StoredAt   time.Time
}

// BucketStore persists cached responses grouped into named buckets.
type BucketStore interface {
	Get(bucket, key string) (Entry, bool)
	Put(bucket, key string, entry Entry)
	DropBucket(bucket string)
	Buckets() []string
}

// MemoryStore is an in-process BucketStore.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string]Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]map[string]Entry)}
}

func (m *MemoryStore) Get(bucket, key string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.buckets[bucket][key]
	return entry, ok
}

func (m *MemoryStore) Put(bucket, key string, entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.buckets[bucket] == nil {
		m.buckets[bucket] = make(map[string]Entry)
	}
	m.buckets[bucket][key] = entry
}

func (m *MemoryStore) DropBucket(bucket string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.buckets, bucket)
}

func (m *MemoryStore) Buckets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.buckets))
	for name := range m.buckets {
		names = append(names, name)
	}
	return names
}
