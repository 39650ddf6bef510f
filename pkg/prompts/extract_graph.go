// Package prompts holds the instruction prompts sent to the language model
// and the typed models its JSON responses are parsed into.
package prompts

import (
	"fmt"
	"strings"

	"github.com/soundprediction/grafity/pkg/types"
)

const extractGraphSystemPrompt = `You are an expert at extracting structured data for knowledge graph generation.`

// ExtractGraph builds the structured-extraction prompt for one episode body.
// The prompt embeds the closed relation vocabulary and explicitly forbids
// generic relation labels; the model must answer with a single JSON object
// of shape {"nodes": [{"name"}], "edges": [{"source", "target", "type"}]}.
func ExtractGraph(text string, relationTypes []string) []types.Message {
	var b strings.Builder

	b.WriteString(`Given a short paragraph, extract:
- Specific entities (people, activities, days, exercises)
- Clear, action-based relationships between them

DO NOT use generic relationships like "mentions", "related_to", or "associates_with".
You MUST use only the following relationships:
`)
	for _, t := range relationTypes {
		fmt.Fprintf(&b, "  - %q\n", t)
	}
	b.WriteString(`
If no valid relationship can be formed, do NOT include that edge.

Respond with JSON only, no prose, using this structure:
{
  "nodes": [{ "name": "<entity>" }],
  "edges": [{ "source": "<entity>", "target": "<entity>", "type": "<relationship>" }]
}

Now extract from the following paragraph:

`)
	b.WriteString(text)

	return []types.Message{
		{Role: "system", Content: extractGraphSystemPrompt},
		{Role: "user", Content: b.String()},
	}
}
