package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseSourceType(t *testing.T) {
	tests := []struct {
		in      string
		want    SourceType
		wantErr bool
	}{
		{"", SourceText, false},
		{"text", SourceText, false},
		{"json", SourceJSON, false},
		{"TEXT", SourceText, false},
		{" json ", SourceJSON, false},
		{"xml", "", true},
		{"message", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSourceType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSourceType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("ParseSourceType(%q) error does not wrap ErrValidation: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSourceType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEpisodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		episode Episode
		wantErr bool
	}{
		{"valid", Episode{Name: "ep", Content: "body"}, false},
		{"missing name", Episode{Content: "body"}, true},
		{"missing content", Episode{Name: "ep"}, true},
		{"whitespace name", Episode{Name: "   ", Content: "body"}, true},
		{"whitespace content", Episode{Name: "ep", Content: "\n\t"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.episode.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error does not wrap ErrValidation: %v", err)
			}
		})
	}
}

func TestStructuredGraphEmpty(t *testing.T) {
	var nilGraph *StructuredGraph
	if !nilGraph.Empty() {
		t.Error("nil graph should be empty")
	}
	if !(&StructuredGraph{}).Empty() {
		t.Error("zero graph should be empty")
	}
	if (&StructuredGraph{Nodes: []EntityNode{{Name: "a"}}}).Empty() {
		t.Error("graph with a node should not be empty")
	}
	if (&StructuredGraph{Edges: []RelationEdge{{Source: "a", Target: "b", Type: "does"}}}).Empty() {
		t.Error("graph with an edge should not be empty")
	}
}

func TestEpisodeResultSucceeded(t *testing.T) {
	ok := EpisodeResult{Name: "ep", Message: "Episode added successfully"}
	if !ok.Succeeded() {
		t.Error("result without error should be succeeded")
	}

	failed := EpisodeResult{Name: "ep", Error: "boom"}
	if failed.Succeeded() {
		t.Error("result with error should not be succeeded")
	}
}

func TestUpsertSummaryPartial(t *testing.T) {
	tests := []struct {
		name    string
		summary *UpsertSummary
		want    bool
	}{
		{"nil", nil, false},
		{"all succeeded", &UpsertSummary{EntitiesMerged: 2}, false},
		{"all failed", &UpsertSummary{Failures: []string{"x"}}, false},
		{"mixed", &UpsertSummary{EntitiesMerged: 1, Failures: []string{"x"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.Partial(); got != tt.want {
				t.Errorf("Partial() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchResultNullSerialization(t *testing.T) {
	data, err := json.Marshal(SearchResult{UUID: "u", Fact: "f"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, field := range []string{"valid_at", "invalid_at", "source_node_uuid"} {
		v, present := raw[field]
		if !present {
			t.Errorf("field %q missing from serialized result", field)
		}
		if v != nil {
			t.Errorf("field %q = %v, want null", field, v)
		}
	}
}
