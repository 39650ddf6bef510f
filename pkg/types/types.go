package types

import (
	"strings"
	"time"
)

// SourceType tags how an episode body should be interpreted by the graph
// engine.
type SourceType string

const (
	// SourceText is free-form natural language text.
	SourceText SourceType = "text"
	// SourceJSON is a JSON document serialized into the episode body.
	SourceJSON SourceType = "json"
)

// ParseSourceType maps a request-supplied source tag onto a SourceType.
// An empty tag defaults to text, matching the batch ingestion path.
func ParseSourceType(s string) (SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SourceText):
		return SourceText, nil
	case string(SourceJSON):
		return SourceJSON, nil
	default:
		return "", Validationf("invalid source type %q: must be one of [text json]", s)
	}
}

// Episode is one unit of ingested content plus metadata. Episodes are
// immutable once stored; the graph only ever removes them in bulk via clear.
type Episode struct {
	Name        string
	Content     string
	Description string
	Source      SourceType
	// Reference is the point in time the episode content is about,
	// not when it was ingested.
	Reference time.Time
}

// Validate checks the fields ingestion requires before any extraction runs.
func (e *Episode) Validate() error {
	if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Content) == "" {
		return Validationf("missing name or content")
	}
	return nil
}

// EntityNode is a named node in a structured extraction result.
type EntityNode struct {
	Name string `json:"name"`
}

// RelationEdge is a directed, typed edge between two named entities.
type RelationEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// StructuredGraph is the transient, in-memory result of LLM extraction:
// a set of entity names and a set of (source, target, type) triples.
type StructuredGraph struct {
	Nodes []EntityNode   `json:"nodes"`
	Edges []RelationEdge `json:"edges"`
}

// Empty reports whether the graph carries no nodes and no edges.
func (g *StructuredGraph) Empty() bool {
	return g == nil || (len(g.Nodes) == 0 && len(g.Edges) == 0)
}

// UpsertSummary reports what a graph upsert actually wrote. Writes for one
// episode are not atomic, so a summary can record partial application.
type UpsertSummary struct {
	EntitiesMerged   int      `json:"entities_merged"`
	ProvenanceMerged int      `json:"provenance_merged"`
	EdgesMerged      int      `json:"edges_merged"`
	Failures         []string `json:"failures,omitempty"`
}

// Partial reports whether some writes failed while others succeeded.
func (s *UpsertSummary) Partial() bool {
	return s != nil && len(s.Failures) > 0 &&
		(s.EntitiesMerged > 0 || s.ProvenanceMerged > 0 || s.EdgesMerged > 0)
}

// EpisodeResult is the per-episode outcome of an ingestion run.
type EpisodeResult struct {
	Name       string           `json:"name,omitempty"`
	Message    string           `json:"message,omitempty"`
	Error      string           `json:"error,omitempty"`
	Structured *StructuredGraph `json:"structured,omitempty"`
}

// Succeeded reports whether the episode reached its terminal success state.
func (r *EpisodeResult) Succeeded() bool {
	return r.Error == ""
}

// SearchResult is one normalized match from semantic search over the graph.
// Optional fields are pointers so missing values serialize as null, not "".
type SearchResult struct {
	UUID           string  `json:"uuid"`
	Fact           string  `json:"fact"`
	ValidAt        *string `json:"valid_at"`
	InvalidAt      *string `json:"invalid_at"`
	SourceNodeUUID *string `json:"source_node_uuid"`
}

// Role identifies the author of a chat message.
type Role string

// Message is a single chat message exchanged with a language model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Response is a language model completion.
type Response struct {
	Content          string `json:"content"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
}
