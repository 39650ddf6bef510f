//go:build integration
// +build integration

package grafity_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/soundprediction/grafity"
	"github.com/soundprediction/grafity/pkg/driver"
	"github.com/soundprediction/grafity/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests require a running Neo4j instance and an OpenAI-compatible
// endpoint. Run with: go test -tags=integration
//
// Required environment:
//   NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD, OPENAI_API_KEY
// Optional: OPENAI_BASE_URL, MODEL_CHOICE

func TestGrafityIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	uri := os.Getenv("NEO4J_URI")
	apiKey := os.Getenv("OPENAI_API_KEY")
	if uri == "" || apiKey == "" {
		t.Skip("NEO4J_URI and OPENAI_API_KEY must be set for integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	graphDriver, err := driver.NewNeo4jDriver(uri, os.Getenv("NEO4J_USER"), os.Getenv("NEO4J_PASSWORD"), "", 0)
	require.NoError(t, err)
	require.NoError(t, graphDriver.VerifyConnectivity(ctx))
	require.NoError(t, graphDriver.CreateIndices(ctx))

	llmClient, err := llm.NewOpenAIClient(llm.Config{
		APIKey:  apiKey,
		Model:   os.Getenv("MODEL_CHOICE"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	})
	require.NoError(t, err)

	client := grafity.NewClient(graphDriver, llmClient, nil, nil, grafity.Config{}, nil)
	defer client.Close(ctx)

	require.NoError(t, client.Clear(ctx))

	results := client.AddEpisodes(ctx, []grafity.EpisodeRequest{
		{
			Name:        "alice-yoga",
			Content:     "Alice practices yoga every Monday morning and focuses on breathing exercises.",
			Description: "weekly schedule",
		},
	})
	require.Len(t, results, 1)
	require.True(t, results[0].Succeeded(), "ingestion failed: %s", results[0].Error)

	// Re-running the same episode must not duplicate anything.
	replay := client.AddEpisode(ctx, grafity.EpisodeRequest{
		Name:    "alice-yoga",
		Content: "Alice practices yoga every Monday morning and focuses on breathing exercises.",
	})
	require.True(t, replay.Succeeded())

	matches, err := client.Search(ctx, "yoga")
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
}
