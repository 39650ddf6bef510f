package grafity

import (
	"context"
	"encoding/json"
	"fmt"

	jsonrepair "github.com/kaptinlin/jsonrepair"
	"github.com/soundprediction/grafity/pkg/prompts"
	"github.com/soundprediction/grafity/pkg/types"
)

// extractStructuredGraph asks the LLM for a structured node/edge graph of
// the episode content and filters the edges against the relation vocabulary.
//
// A response that is not valid JSON (even after repair) yields an empty
// graph together with an error wrapping types.ErrParse; callers log the
// error and continue with the degraded result rather than failing the
// episode. LLM transport failures are returned as-is.
func (c *Client) extractStructuredGraph(ctx context.Context, text string) (*types.StructuredGraph, error) {
	messages := prompts.ExtractGraph(text, c.vocab.Types())

	resp, err := c.llm.Chat(ctx, messages)
	if err != nil {
		return &types.StructuredGraph{}, fmt.Errorf("llm call failed: %w", err)
	}

	graph, err := parseStructuredGraph(resp.Content)
	if err != nil {
		return &types.StructuredGraph{}, err
	}

	graph.Edges = c.vocab.FilterEdges(graph.Edges)
	c.normalizeGraph(graph)

	return graph, nil
}

// parseStructuredGraph parses LLM output strictly into a StructuredGraph.
// The raw content first goes through jsonrepair, which strips code fences
// and fixes the small syntax slips models make; anything still invalid is a
// parse error and the graph stays empty.
func parseStructuredGraph(content string) (*types.StructuredGraph, error) {
	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return &types.StructuredGraph{}, fmt.Errorf("%w: %v", types.ErrParse, err)
	}

	graph := &types.StructuredGraph{}
	if err := json.Unmarshal([]byte(repaired), graph); err != nil {
		return &types.StructuredGraph{}, fmt.Errorf("%w: %v", types.ErrParse, err)
	}
	return graph, nil
}

// normalizeGraph applies the configured entity-name policy to node names and
// edge endpoints so merge keys are consistent. Identity unless
// normalize_entities is set.
func (c *Client) normalizeGraph(graph *types.StructuredGraph) {
	for i := range graph.Nodes {
		graph.Nodes[i].Name = c.vocab.NormalizeEntity(graph.Nodes[i].Name)
	}
	for i := range graph.Edges {
		graph.Edges[i].Source = c.vocab.NormalizeEntity(graph.Edges[i].Source)
		graph.Edges[i].Target = c.vocab.NormalizeEntity(graph.Edges[i].Target)
	}
}
