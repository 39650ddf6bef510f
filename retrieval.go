package grafity

import (
	"context"
	"fmt"
	"time"

	"github.com/soundprediction/grafity/pkg/types"
)

// Search implements Grafity. It delegates to the store's semantic search
// and normalizes each match into the stable result schema. Any failure of
// the underlying call fails the whole operation; callers map it to a generic
// user-facing error without leaking store internals.
func (c *Client) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	c.logger.Info("performing search", "query", query)

	matches, err := c.driver.Search(ctx, query, c.config.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSearch, err)
	}

	c.logger.Info("search returned results", "count", len(matches))

	results := make([]types.SearchResult, 0, len(matches))
	for _, m := range matches {
		result := types.SearchResult{
			UUID: m.UUID,
			Fact: m.Fact,
		}
		if m.ValidAt != nil {
			result.ValidAt = timeString(*m.ValidAt)
		}
		if m.InvalidAt != nil {
			result.InvalidAt = timeString(*m.InvalidAt)
		}
		if m.SourceNodeUUID != "" {
			uuid := m.SourceNodeUUID
			result.SourceNodeUUID = &uuid
		}
		results = append(results, result)
	}
	return results, nil
}

func timeString(t time.Time) *string {
	s := t.UTC().Format(time.RFC3339)
	return &s
}
