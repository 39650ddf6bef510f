package grafity

import (
	"context"
	"log/slog"

	"github.com/soundprediction/grafity/pkg/driver"
	"github.com/soundprediction/grafity/pkg/ledger"
	"github.com/soundprediction/grafity/pkg/llm"
	"github.com/soundprediction/grafity/pkg/relations"
	"github.com/soundprediction/grafity/pkg/types"
)

// Grafity is the main interface for the episode ingestion pipeline and the
// search facade over the resulting knowledge graph.
type Grafity interface {
	// AddEpisode runs the full ingestion pipeline for a single episode
	// and returns its terminal result. The result carries an error detail
	// instead of the method failing, so batch callers can aggregate.
	AddEpisode(ctx context.Context, episode EpisodeRequest) types.EpisodeResult

	// AddEpisodes processes a batch sequentially. One episode's failure
	// never prevents processing of subsequent episodes; results are
	// returned in input order, one per request.
	AddEpisodes(ctx context.Context, episodes []EpisodeRequest) []types.EpisodeResult

	// Search performs semantic search over the knowledge graph.
	Search(ctx context.Context, query string) ([]types.SearchResult, error)

	// Clear wipes all graph data. Irreversible.
	Clear(ctx context.Context) error

	// Close releases the graph connection and the LLM client.
	Close(ctx context.Context) error
}

// EpisodeRequest is one episode as submitted by a caller, before validation.
type EpisodeRequest struct {
	Name        string `json:"name"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	// ReferenceTime is an optional RFC 3339 timestamp. Absent means "now".
	ReferenceTime string `json:"reference_time,omitempty"`
	// Source is an optional source-type tag, "text" (default) or "json".
	Source string `json:"source,omitempty"`
}

// Config holds tunables for the Client.
type Config struct {
	// SearchLimit caps the number of matches Search returns. Zero means 10.
	SearchLimit int
	// SkipProcessed skips episodes the ledger recorded as succeeded.
	// Only effective when a ledger is configured.
	SkipProcessed bool
}

// Client implements Grafity. Its dependencies are constructed once at
// startup and injected; the client itself holds no mutable state, so
// concurrent requests may share it.
type Client struct {
	driver driver.GraphDriver
	llm    llm.Client
	vocab  *relations.Vocabulary
	ledger *ledger.Ledger // optional
	config Config
	logger *slog.Logger
}

// NewClient creates a new Grafity client. ledger may be nil; logger falls
// back to slog.Default().
func NewClient(graphDriver driver.GraphDriver, llmClient llm.Client, vocab *relations.Vocabulary, led *ledger.Ledger, cfg Config, logger *slog.Logger) *Client {
	if vocab == nil {
		vocab = relations.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 10
	}

	return &Client{
		driver: graphDriver,
		llm:    llmClient,
		vocab:  vocab,
		ledger: led,
		config: cfg,
		logger: logger,
	}
}

// Clear implements Grafity.
func (c *Client) Clear(ctx context.Context) error {
	c.logger.Warn("clearing all graph data")
	return c.driver.ClearAll(ctx)
}

// Close implements Grafity.
func (c *Client) Close(ctx context.Context) error {
	if c.ledger != nil {
		if err := c.ledger.Close(); err != nil {
			c.logger.Error("failed to close ledger", "error", err)
		}
	}
	if err := c.llm.Close(); err != nil {
		c.logger.Error("failed to close llm client", "error", err)
	}
	return c.driver.Close(ctx)
}
