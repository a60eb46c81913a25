package memory

import (
	"context"
	"sync"

	"github.com/GetStream/engagement-backend/engagement"
)

// Directory is an in-memory engagement.Directory.
type Directory struct {
	mu      sync.RWMutex
	authors map[string]engagement.Author
}

var _ engagement.Directory = (*Directory)(nil)

// NewDirectory returns an empty Directory.
func NewDirectory() *Directory {
	return &Directory{authors: make(map[string]engagement.Author)}
}

// Put adds or replaces an actor.
func (d *Directory) Put(id string, a engagement.Author) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.authors[id] = a
}

// Lookup implements engagement.Directory.
func (d *Directory) Lookup(_ context.Context, id string) (engagement.Author, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.authors[id]
	if !ok {
		return engagement.Author{}, engagement.ErrNoRecord
	}
	return a, nil
}
