package relations

import (
	"reflect"
	"testing"

	"github.com/soundprediction/grafity/pkg/types"
)

func TestIsAllowed(t *testing.T) {
	vocab := Default()

	for _, allowed := range DefaultTypes {
		if !vocab.IsAllowed(allowed) {
			t.Errorf("IsAllowed(%q) = false, want true", allowed)
		}
	}

	disallowed := []string{"mentions_on", "related_to", "PRACTICES", "practices ", ""}
	for _, d := range disallowed {
		if vocab.IsAllowed(d) {
			t.Errorf("IsAllowed(%q) = true, want false", d)
		}
	}
}

func TestTypesStableOrder(t *testing.T) {
	vocab := Default()

	first := vocab.Types()
	second := vocab.Types()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Types() order is not stable: %v vs %v", first, second)
	}

	want := []string{"does", "focuses_on", "happens_on", "includes", "performs", "practices"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("Types() = %v, want %v", first, want)
	}
}

func TestNormalizeEntity(t *testing.T) {
	tests := []struct {
		name      string
		normalize bool
		in        string
		want      string
	}{
		{"identity by default", false, " Yoga ", " Yoga "},
		{"case preserved by default", false, "Yoga", "Yoga"},
		{"lowercased when enabled", true, "Yoga", "yoga"},
		{"trimmed when enabled", true, "  Alice Smith  ", "alice smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vocab := New(DefaultTypes, tt.normalize)
			if got := vocab.NormalizeEntity(tt.in); got != tt.want {
				t.Errorf("NormalizeEntity(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilterEdges(t *testing.T) {
	vocab := Default()

	edges := []types.RelationEdge{
		{Source: "Alice", Target: "Yoga", Type: "practices"},
		{Source: "Alice", Target: "Monday", Type: "mentions_on"},
		{Source: "Yoga", Target: "Monday", Type: "happens_on"},
	}

	kept := vocab.FilterEdges(edges)
	if len(kept) != 2 {
		t.Fatalf("FilterEdges kept %d edges, want 2", len(kept))
	}
	for _, e := range kept {
		if !vocab.IsAllowed(e.Type) {
			t.Errorf("FilterEdges kept out-of-vocabulary edge type %q", e.Type)
		}
	}
}

func TestFilterEdgesAllDropped(t *testing.T) {
	vocab := Default()

	kept := vocab.FilterEdges([]types.RelationEdge{
		{Source: "a", Target: "b", Type: "unknown"},
	})
	if kept != nil {
		t.Errorf("FilterEdges = %v, want nil when nothing survives", kept)
	}

	if got := vocab.FilterEdges(nil); got != nil {
		t.Errorf("FilterEdges(nil) = %v, want nil", got)
	}
}
