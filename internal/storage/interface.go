package storage

import "context"

// Storage defines the interface for passage corpus persistence.
//
// Room and roster state is deliberately absent: rooms live only in process
// memory for their lifetime and are never written to durable storage.
type Storage interface {
	// SavePassages replaces the stored passage corpus
	SavePassages(ctx context.Context, passages []string) error

	// GetPassages returns the stored passage corpus
	GetPassages(ctx context.Context) ([]string, error)
}
