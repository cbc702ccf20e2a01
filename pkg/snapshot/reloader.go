package snapshot

import (
	"sync"
	"time"

	"github.com/bastiangx/typeahead/pkg/store"
	"github.com/charmbracelet/log"
)

// Reloader holds the store built from a snapshot file and swaps in a fresh
// one on Reload. Stores handed out earlier stay valid.
type Reloader struct {
	path string

	mu       sync.RWMutex
	current  *store.Store
	loadedAt time.Time
}

// NewReloader loads the snapshot at path.
func NewReloader(path string) (*Reloader, error) {
	r := &Reloader{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Store returns the most recently loaded store.
func (r *Reloader) Store() *store.Store {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// LoadedAt returns when the current store was loaded.
func (r *Reloader) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

// Path returns the snapshot file being served.
func (r *Reloader) Path() string {
	return r.path
}

// Reload reads the snapshot file again. On failure the current store is
// kept.
func (r *Reloader) Reload() error {
	s, err := Load(r.path)
	if err != nil {
		log.Errorf("Failed to reload snapshot %s: %v", r.path, err)
		return err
	}

	r.mu.Lock()
	r.current = s
	r.loadedAt = time.Now()
	r.mu.Unlock()
	return nil
}
