// Package relations holds the closed vocabulary of relationship labels the
// extraction pipeline is permitted to write. The vocabulary is fixed at
// process start; an edge with an out-of-vocabulary type never reaches storage.
package relations

import (
	"sort"
	"strings"

	"github.com/soundprediction/grafity/pkg/types"
)

// DefaultTypes is the fixed set of permitted relationship labels.
var DefaultTypes = []string{
	"does",
	"performs",
	"includes",
	"happens_on",
	"focuses_on",
	"practices",
}

// Vocabulary validates relationship types against a closed set. It also
// owns the entity-name normalization policy, so the extractor and the
// upsert engine agree on merge keys.
type Vocabulary struct {
	allowed           map[string]struct{}
	normalizeEntities bool
}

// New builds a vocabulary from the given relation types. When
// normalizeEntities is set, entity names are lowercased and trimmed before
// they are used as merge keys.
func New(relationTypes []string, normalizeEntities bool) *Vocabulary {
	allowed := make(map[string]struct{}, len(relationTypes))
	for _, t := range relationTypes {
		allowed[t] = struct{}{}
	}
	return &Vocabulary{allowed: allowed, normalizeEntities: normalizeEntities}
}

// Default returns the vocabulary with the fixed default relation set and
// exact (case-sensitive) entity matching.
func Default() *Vocabulary {
	return New(DefaultTypes, false)
}

// IsAllowed reports whether a relationship type belongs to the vocabulary.
func (v *Vocabulary) IsAllowed(relationType string) bool {
	_, ok := v.allowed[relationType]
	return ok
}

// Types returns the permitted relation types in stable order, for embedding
// into extraction prompts.
func (v *Vocabulary) Types() []string {
	out := make([]string, 0, len(v.allowed))
	for t := range v.allowed {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// NormalizeEntity applies the configured entity-name policy. The default is
// the identity: "Yoga" and "yoga" are distinct entities.
func (v *Vocabulary) NormalizeEntity(name string) string {
	if !v.normalizeEntities {
		return name
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// FilterEdges returns the edges whose type is in the vocabulary. Dropped
// edges are discarded silently; filtering is not an error.
func (v *Vocabulary) FilterEdges(edges []types.RelationEdge) []types.RelationEdge {
	if len(edges) == 0 {
		return nil
	}
	kept := make([]types.RelationEdge, 0, len(edges))
	for _, e := range edges {
		if v.IsAllowed(e.Type) {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
