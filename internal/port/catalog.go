package port

import "docrag/internal/domain"

// Catalog is the durable record of which documents have been ingested and
// at what version. Mutations are in-memory; Save persists the whole catalog.
type Catalog interface {
	Get(path string) (domain.CatalogEntry, bool)

	Put(path string, entry domain.CatalogEntry)

	Delete(path string)

	// Paths returns all cataloged document paths in sorted order.
	Paths() []string

	Len() int

	Save() error
}
