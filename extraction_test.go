package grafity

import (
	"errors"
	"testing"

	"github.com/soundprediction/grafity/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructuredGraphValid(t *testing.T) {
	graph, err := parseStructuredGraph(`{
		"nodes": [{"name": "Alice"}],
		"edges": [{"source": "Alice", "target": "Yoga", "type": "practices"}]
	}`)
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 1)
	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "Alice", graph.Nodes[0].Name)
	assert.Equal(t, "practices", graph.Edges[0].Type)
}

func TestParseStructuredGraphRepairsFencedOutput(t *testing.T) {
	// Models frequently wrap the JSON in a markdown code fence or leave a
	// trailing comma; both must be repaired rather than rejected.
	fenced := "```json\n{\"nodes\": [{\"name\": \"Alice\"},], \"edges\": []}\n```"

	graph, err := parseStructuredGraph(fenced)
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, "Alice", graph.Nodes[0].Name)
}

func TestParseStructuredGraphRejectsNonJSON(t *testing.T) {
	graph, err := parseStructuredGraph("There are no entities in this text.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrParse))
	assert.True(t, graph.Empty())
}

func TestParseStructuredGraphEmptyObject(t *testing.T) {
	graph, err := parseStructuredGraph(`{}`)
	require.NoError(t, err)
	assert.True(t, graph.Empty())
}
