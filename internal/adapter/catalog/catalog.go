// Package catalog tracks which documents have been ingested, keyed by
// absolute path, so later runs can skip unchanged files.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"docrag/internal/domain"
)

// Decision is the outcome of the staleness check for one document.
type Decision int

const (
	// DecisionProcess means the document is new or has changed since the
	// recorded ingestion and must be (re)processed.
	DecisionProcess Decision = iota
	// DecisionSkip means the cataloged state is still current.
	DecisionSkip
)

// Decide reports whether a document needs processing. found and
// lastProcessed come from the catalog, modTime from the filesystem, both
// as Unix seconds. A document modified after its recorded ingestion time
// is stale.
func Decide(found bool, lastProcessed, modTime int64) Decision {
	if !found {
		return DecisionProcess
	}
	if modTime > lastProcessed {
		return DecisionProcess
	}
	return DecisionSkip
}

// FileCatalog is a JSON-file-backed Catalog. Mutations are in-memory;
// Save rewrites the whole file atomically.
type FileCatalog struct {
	path     string
	entries  map[string]domain.CatalogEntry
	warnings []string
}

// Open loads the catalog at path, starting empty if the file does not
// exist. An unreadable or undecodable file also starts empty, with the
// condition reported through Warnings.
func Open(path string) (*FileCatalog, error) {
	c := &FileCatalog{
		path:    path,
		entries: make(map[string]domain.CatalogEntry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]domain.CatalogEntry)
		c.warnings = append(c.warnings,
			fmt.Sprintf("document catalog is unreadable (%v); starting with an empty catalog", err))
	}
	return c, nil
}

// Warnings returns non-fatal conditions observed at load time.
func (c *FileCatalog) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

func (c *FileCatalog) Get(path string) (domain.CatalogEntry, bool) {
	entry, ok := c.entries[path]
	return entry, ok
}

func (c *FileCatalog) Put(path string, entry domain.CatalogEntry) {
	c.entries[path] = entry
}

func (c *FileCatalog) Delete(path string) {
	delete(c.entries, path)
}

// Paths returns all cataloged document paths in sorted order.
func (c *FileCatalog) Paths() []string {
	paths := make([]string, 0, len(c.entries))
	for path := range c.entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (c *FileCatalog) Len() int {
	return len(c.entries)
}

// Save writes the catalog atomically via temp file and rename.
func (c *FileCatalog) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}
