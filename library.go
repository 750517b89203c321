package folio

import (
	"io/fs"
	"sync"
)

// Library holds the current catalog behind a read lock so request handlers
// can keep serving while a rebuild swaps in a fresh one. Rebuilds replace
// the catalog wholesale; a failed rebuild keeps the previous catalog live.
type Library struct {
	mu   sync.RWMutex
	fsys fs.FS
	opts CatalogOptions
	cat  *Catalog
}

// NewLibrary creates a Library over the given content filesystem. Call
// Reload before first use.
func NewLibrary(fsys fs.FS, opts CatalogOptions) *Library {
	return &Library{fsys: fsys, opts: opts}
}

// Reload rebuilds the catalog and swaps it in. Per-file validation errors
// are returned as skipped and do not fail the reload; a slug collision does,
// leaving the previous catalog in place.
func (l *Library) Reload() (skipped []error, err error) {
	cat, skipped, err := BuildCatalog(l.fsys, l.opts)
	if err != nil {
		return skipped, err
	}
	l.mu.Lock()
	l.cat = cat
	l.mu.Unlock()
	return skipped, nil
}

// Catalog returns the currently live catalog, or an empty one before the
// first successful Reload.
func (l *Library) Catalog() *Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.cat == nil {
		return &Catalog{bySlug: map[string]int{}}
	}
	return l.cat
}
