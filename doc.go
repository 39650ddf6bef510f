// Package grafity ingests free-text episodes into a temporal knowledge
// graph. Each episode is recorded verbatim, run through LLM-based structured
// extraction, and its entities and relationships are merged into the graph
// with provenance edges back to the episode. A search facade exposes
// semantic search over the stored facts.
package grafity
