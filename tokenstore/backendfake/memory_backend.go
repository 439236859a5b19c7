package backendfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/neuroguard/tokenstore"
)

var _ tokenstore.Backend = (*MemoryBackend)(nil)

// MemoryBackend is an in-memory Backend. Building a second Store over the same
// MemoryBackend simulates a process reload.
type MemoryBackend struct {
	lock    sync.Mutex
	token   string
	saves   int
	deletes int

	// Err, when set, is returned from every call.
	Err error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// NewMemoryBackendWithToken returns a backend that already holds a credential.
func NewMemoryBackendWithToken(token string) *MemoryBackend {
	return &MemoryBackend{token: token}
}

func (b *MemoryBackend) Load(_ context.Context) (string, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.Err != nil {
		return "", b.Err
	}
	return b.token, nil
}

func (b *MemoryBackend) Save(_ context.Context, token string) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.token = token
	b.saves++
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.token = ""
	b.deletes++
	return nil
}

// Persisted returns what a fresh process would load.
func (b *MemoryBackend) Persisted() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.token
}

// Deletes counts Delete calls.
func (b *MemoryBackend) Deletes() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.deletes
}
