package grafity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soundprediction/grafity/pkg/driver"
	"github.com/soundprediction/grafity/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchNormalizesMatches(t *testing.T) {
	validAt := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	d := newMockGraphDriver()
	d.searchHits = []driver.Match{
		{
			UUID:           "uuid-1",
			Fact:           "Alice practices Yoga",
			ValidAt:        &validAt,
			SourceNodeUUID: "node-1",
		},
		{
			UUID: "uuid-2",
			Fact: "Yoga happens_on Monday",
		},
	}
	client := newTestClient(d, &mockLLM{})

	results, err := client.Search(context.Background(), "yoga")
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "uuid-1", first.UUID)
	assert.Equal(t, "Alice practices Yoga", first.Fact)
	require.NotNil(t, first.ValidAt)
	assert.Equal(t, "2024-03-15T10:30:00Z", *first.ValidAt)
	assert.Nil(t, first.InvalidAt)
	require.NotNil(t, first.SourceNodeUUID)
	assert.Equal(t, "node-1", *first.SourceNodeUUID)

	// Absent optionals stay nil so they serialize as JSON null.
	second := results[1]
	assert.Nil(t, second.ValidAt)
	assert.Nil(t, second.InvalidAt)
	assert.Nil(t, second.SourceNodeUUID)
}

func TestSearchEmptyResult(t *testing.T) {
	d := newMockGraphDriver()
	client := newTestClient(d, &mockLLM{})

	results, err := client.Search(context.Background(), "nothing matches")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results, "empty result must serialize as [], not null")
}

func TestSearchWrapsStoreErrors(t *testing.T) {
	d := newMockGraphDriver()
	d.searchErr = assert.AnError
	client := newTestClient(d, &mockLLM{})

	results, err := client.Search(context.Background(), "yoga")
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, types.ErrSearch))
}
