// Package ledger keeps a local record of per-episode ingestion outcomes in a
// Badger key-value store. It lets batch re-runs skip episodes that already
// succeeded and gives operators a local audit trail independent of the graph.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/soundprediction/grafity/pkg/types"
)

// ErrNotFound is returned when no entry exists for an episode name.
var ErrNotFound = errors.New("ledger: episode not recorded")

// Status is the terminal state recorded for an episode.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Entry is the stored outcome of one episode ingestion.
type Entry struct {
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Message    string    `json:"message,omitempty"`
	Error      string    `json:"error,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Ledger persists episode outcomes.
type Ledger struct {
	db *badger.DB
}

// Open opens (or creates) a ledger at path. An empty path opens an
// in-memory ledger, used by tests and by deployments that only want
// intra-process dedup.
func Open(path string) (*Ledger, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Record stores the outcome of one episode, overwriting any prior entry for
// the same name.
func (l *Ledger) Record(result types.EpisodeResult) error {
	if result.Name == "" {
		return fmt.Errorf("ledger: cannot record result without episode name")
	}

	entry := Entry{
		Name:       result.Name,
		Status:     StatusSucceeded,
		Message:    result.Message,
		RecordedAt: time.Now().UTC(),
	}
	if !result.Succeeded() {
		entry.Status = StatusFailed
		entry.Error = result.Error
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(result.Name), value)
	})
}

// Get returns the recorded entry for an episode name, or ErrNotFound.
func (l *Ledger) Get(name string) (*Entry, error) {
	var entry Entry
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Succeeded reports whether an episode was already recorded as succeeded.
func (l *Ledger) Succeeded(name string) bool {
	entry, err := l.Get(name)
	return err == nil && entry.Status == StatusSucceeded
}

// Close closes the underlying store.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func key(name string) []byte {
	return []byte("episode/" + name)
}
