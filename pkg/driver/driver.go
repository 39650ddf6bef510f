// Package driver defines the graph store contract the ingestion pipeline
// writes through, and its Neo4j implementation.
package driver

import (
	"context"
	"time"

	"github.com/soundprediction/grafity/pkg/types"
)

// Match is one raw hit from the store's search operation, before the
// retrieval facade normalizes it for callers.
type Match struct {
	UUID           string
	Fact           string
	ValidAt        *time.Time
	InvalidAt      *time.Time
	SourceNodeUUID string
}

// GraphDriver defines the operations the ingestion pipeline and search
// facade need from a graph store. All write operations have merge semantics:
// re-issuing an identical write never creates duplicates.
type GraphDriver interface {
	// AddEpisode records an episode node with its body and metadata. The
	// episode node must exist before any provenance edges reference it.
	AddEpisode(ctx context.Context, name, body string, source types.SourceType, description string, reference time.Time) error

	// MergeEntity creates an entity node keyed by name, or no-ops if it
	// already exists.
	MergeEntity(ctx context.Context, name string) error

	// MergeProvenance links an episode to an entity it mentions.
	MergeProvenance(ctx context.Context, episodeName, entityName string) error

	// MergeEdge creates a typed relationship between two existing
	// entities. If either endpoint is absent the write fails; it must not
	// create the endpoints implicitly.
	MergeEdge(ctx context.Context, sourceName, targetName, relationType string) error

	// Search returns matches for a free-text query.
	Search(ctx context.Context, query string, limit int) ([]Match, error)

	// ClearAll wipes every node and edge in the graph. Irreversible.
	ClearAll(ctx context.Context) error

	// CreateIndices creates constraints and indices. Safe to call on
	// every startup.
	CreateIndices(ctx context.Context) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
