// Package ports defines the interfaces (contracts) that adapters must implement,
// plus the value types shared across the domain. These are the boundaries of the
// hexagonal architecture. Domain logic depends only on these interfaces, never
// on concrete implementations.
package ports

// Storage persists imported references and committed mappings to durable
// storage. The backing store (bbolt) lives under the project's .refmap
// directory. Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: all Save methods must be transactional. A crash mid-write
// must not corrupt previously committed data.
type Storage interface {
	// SaveReferences persists an imported reference list, replacing any
	// prior list wholesale. References are keyed by ID.
	SaveReferences(refs []Reference) error

	// LoadReferences retrieves the stored reference list in import order.
	// Returns nil, nil if nothing was imported yet.
	LoadReferences() ([]Reference, error)

	// SaveMapping commits one reference-to-path mapping. Overwrites any
	// prior mapping for the same reference ID.
	SaveMapping(m Mapping) error

	// LoadMappings retrieves all committed mappings sorted by reference ID.
	// Returns nil, nil if no mappings exist.
	LoadMappings() ([]Mapping, error)

	// DeleteMapping removes the mapping for a reference ID.
	// Idempotent: deleting a nonexistent mapping is not an error.
	DeleteMapping(referenceID string) error

	// UsedPaths returns the set of paths claimed by committed mappings.
	// Search and automatch treat these paths as non-existent candidates.
	UsedPaths() (map[string]bool, error)

	// Wipe removes all references and mappings. Idempotent.
	Wipe() error
}

// Mapping is a committed reference-to-path pairing. Once committed, the
// path is ineligible for further suggestion until the mapping is removed.
type Mapping struct {
	ReferenceID string  `json:"reference_id"`
	Path        string  `json:"path"`
	Score       float64 `json:"score"`
	CreatedAt   int64   `json:"created_at"` // unix seconds
}
