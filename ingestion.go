package grafity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soundprediction/grafity/pkg/types"
)

// successMessage is the per-episode message for a fully ingested episode.
const successMessage = "Episode added successfully"

// AddEpisodes implements Grafity. Episodes are processed sequentially so
// results line up with inputs; there is no concurrent mutation of the same
// episode within one batch, so no locking is needed here.
func (c *Client) AddEpisodes(ctx context.Context, episodes []EpisodeRequest) []types.EpisodeResult {
	results := make([]types.EpisodeResult, 0, len(episodes))
	for _, ep := range episodes {
		results = append(results, c.AddEpisode(ctx, ep))
	}
	return results
}

// AddEpisode implements Grafity. Per-episode pipeline:
// validate -> resolve reference time -> write episode -> extract -> upsert.
// Terminal states are Succeeded and Failed; a failure at any step is
// captured in the result and never propagates past this episode.
func (c *Client) AddEpisode(ctx context.Context, req EpisodeRequest) types.EpisodeResult {
	episode, err := c.resolveEpisode(req)
	if err != nil {
		c.logger.Warn("episode rejected", "name", req.Name, "error", err)
		return c.record(types.EpisodeResult{Name: req.Name, Error: err.Error()})
	}

	if c.ledger != nil && c.config.SkipProcessed && c.ledger.Succeeded(episode.Name) {
		c.logger.Info("skipping already processed episode", "name", episode.Name)
		return types.EpisodeResult{Name: episode.Name, Message: "Episode already processed"}
	}

	// The episode node must exist before any provenance edge references it.
	if err := c.driver.AddEpisode(ctx, episode.Name, episode.Content, episode.Source, episode.Description, episode.Reference); err != nil {
		c.logger.Error("episode write failed", "name", episode.Name, "error", err)
		return c.record(types.EpisodeResult{Name: episode.Name, Error: err.Error()})
	}

	graph, err := c.extractStructuredGraph(ctx, episode.Content)
	if err != nil {
		if errors.Is(err, types.ErrParse) {
			// Degraded extraction: the episode itself is already
			// recorded, so it still succeeds with an empty graph.
			c.logger.Error("failed to parse LLM output", "name", episode.Name, "error", err)
		} else {
			c.logger.Error("extraction failed", "name", episode.Name, "error", err)
			return c.record(types.EpisodeResult{Name: episode.Name, Error: err.Error()})
		}
	}

	summary := c.upsertStructuredGraph(ctx, graph, episode.Name)
	if len(summary.Failures) > 0 {
		detail := fmt.Errorf("%w: %s", types.ErrUpsert, strings.Join(summary.Failures, "; "))
		c.logger.Error("graph upsert incomplete",
			"name", episode.Name,
			"entities", summary.EntitiesMerged,
			"edges", summary.EdgesMerged,
			"failures", len(summary.Failures))
		return c.record(types.EpisodeResult{Name: episode.Name, Error: detail.Error(), Structured: graph})
	}

	c.logger.Info("episode ingested",
		"name", episode.Name,
		"entities", summary.EntitiesMerged,
		"edges", summary.EdgesMerged)

	return c.record(types.EpisodeResult{
		Name:       episode.Name,
		Message:    successMessage,
		Structured: graph,
	})
}

// resolveEpisode validates a request and resolves its defaults into a typed
// Episode. Extraction is never invoked for an invalid request.
func (c *Client) resolveEpisode(req EpisodeRequest) (*types.Episode, error) {
	episode := &types.Episode{
		Name:        req.Name,
		Content:     req.Content,
		Description: req.Description,
	}
	if err := episode.Validate(); err != nil {
		return nil, err
	}

	source, err := types.ParseSourceType(req.Source)
	if err != nil {
		return nil, err
	}
	episode.Source = source

	episode.Reference = time.Now().UTC()
	if req.ReferenceTime != "" {
		ref, err := time.Parse(time.RFC3339, req.ReferenceTime)
		if err != nil {
			return nil, types.Validationf("invalid reference_time for episode: %s", req.Name)
		}
		episode.Reference = ref.UTC()
	}

	return episode, nil
}

// record writes the result to the ledger when one is configured.
func (c *Client) record(result types.EpisodeResult) types.EpisodeResult {
	if c.ledger == nil || result.Name == "" {
		return result
	}
	if err := c.ledger.Record(result); err != nil {
		c.logger.Error("failed to record episode in ledger", "name", result.Name, "error", err)
	}
	return result
}
