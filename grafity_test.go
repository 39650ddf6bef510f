package grafity_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/soundprediction/grafity"
	"github.com/soundprediction/grafity/pkg/driver"
	"github.com/soundprediction/grafity/pkg/types"
)

// mockGraphDriver records every write so tests can assert on what actually
// reached the store.
type mockGraphDriver struct {
	mu sync.Mutex

	episodes   []string
	entities   []string
	provenance [][2]string // episode, entity
	edges      [][3]string // source, target, type
	references map[string]time.Time
	searchHits []driver.Match
	cleared    bool
	failEntity map[string]error
	failEdge   map[string]error
	episodeErr error
	searchErr  error
	clearErr   error
}

func newMockGraphDriver() *mockGraphDriver {
	return &mockGraphDriver{
		references: make(map[string]time.Time),
		failEntity: make(map[string]error),
		failEdge:   make(map[string]error),
	}
}

func (m *mockGraphDriver) AddEpisode(ctx context.Context, name, body string, source types.SourceType, description string, reference time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.episodeErr != nil {
		return m.episodeErr
	}
	m.episodes = append(m.episodes, name)
	m.references[name] = reference
	return nil
}

func (m *mockGraphDriver) MergeEntity(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failEntity[name]; ok {
		return err
	}
	m.entities = append(m.entities, name)
	return nil
}

func (m *mockGraphDriver) MergeProvenance(ctx context.Context, episodeName, entityName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provenance = append(m.provenance, [2]string{episodeName, entityName})
	return nil
}

func (m *mockGraphDriver) MergeEdge(ctx context.Context, sourceName, targetName, relationType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failEdge[relationType]; ok {
		return err
	}
	m.edges = append(m.edges, [3]string{sourceName, targetName, relationType})
	return nil
}

func (m *mockGraphDriver) Search(ctx context.Context, query string, limit int) ([]driver.Match, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchHits, nil
}

func (m *mockGraphDriver) ClearAll(ctx context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	return nil
}

func (m *mockGraphDriver) CreateIndices(ctx context.Context) error { return nil }

func (m *mockGraphDriver) Close(ctx context.Context) error { return nil }

// mockLLM returns canned responses in sequence, then repeats the last one.
type mockLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
}

func (m *mockLLM) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++
	if idx < 0 {
		return nil, fmt.Errorf("no response configured")
	}
	return &types.Response{Content: m.responses[idx]}, nil
}

func (m *mockLLM) Close() error { return nil }

func newTestClient(d *mockGraphDriver, l *mockLLM) *grafity.Client {
	return grafity.NewClient(d, l, nil, nil, grafity.Config{}, nil)
}
