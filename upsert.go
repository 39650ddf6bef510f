package grafity

import (
	"context"
	"fmt"
	"strings"

	"github.com/soundprediction/grafity/pkg/types"
)

// upsertStructuredGraph merges an extracted graph into the store under the
// given episode. Writes are issued sequentially and are not wrapped in one
// transaction: a single failed write is recorded in the summary and does not
// abort sibling writes, so partial application is possible and is surfaced,
// never hidden.
//
// Every write uses merge semantics, so re-running with identical input
// produces no duplicate entities, provenance edges, or relationship edges.
func (c *Client) upsertStructuredGraph(ctx context.Context, graph *types.StructuredGraph, episodeName string) *types.UpsertSummary {
	summary := &types.UpsertSummary{}
	if graph.Empty() {
		return summary
	}

	for _, node := range graph.Nodes {
		if strings.TrimSpace(node.Name) == "" {
			continue
		}

		if err := c.driver.MergeEntity(ctx, node.Name); err != nil {
			c.logger.Error("entity merge failed", "entity", node.Name, "episode", episodeName, "error", err)
			summary.Failures = append(summary.Failures, fmt.Sprintf("entity %q: %v", node.Name, err))
			continue
		}
		summary.EntitiesMerged++

		if err := c.driver.MergeProvenance(ctx, episodeName, node.Name); err != nil {
			c.logger.Error("provenance merge failed", "entity", node.Name, "episode", episodeName, "error", err)
			summary.Failures = append(summary.Failures, fmt.Sprintf("provenance %q: %v", node.Name, err))
			continue
		}
		summary.ProvenanceMerged++
	}

	for _, edge := range graph.Edges {
		// Defense in depth: the extractor already filtered, but nothing
		// out of vocabulary may reach the store through this path either.
		if !c.vocab.IsAllowed(edge.Type) {
			continue
		}

		if err := c.driver.MergeEdge(ctx, edge.Source, edge.Target, edge.Type); err != nil {
			c.logger.Error("edge merge failed",
				"source", edge.Source, "target", edge.Target, "type", edge.Type, "error", err)
			summary.Failures = append(summary.Failures,
				fmt.Sprintf("edge %s-[%s]->%s: %v", edge.Source, edge.Type, edge.Target, err))
			continue
		}
		summary.EdgesMerged++
	}

	return summary
}
