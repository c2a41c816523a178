package ports

import (
	"context"

	"ontologykg/domain/events"
)

// EventPublisher ships domain events to the out-of-scope external
// collaborators (HTTP surface, FUSE mount, CLI) that subscribe to them —
// spec.md §1/§6's "we specify only the contracts they consume".
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// BlobStore persists the raw bytes of ingested sources — image chunks and
// any other binary payload the graph itself doesn't hold inline
// (spec.md §4.4 "Image chunks").
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
