package ledger

import (
	"errors"
	"testing"

	"github.com/soundprediction/grafity/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	led, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { led.Close() })
	return led
}

func TestRecordAndGet(t *testing.T) {
	led := newTestLedger(t)

	require.NoError(t, led.Record(types.EpisodeResult{
		Name:    "ep-1",
		Message: "Episode added successfully",
	}))

	entry, err := led.Get("ep-1")
	require.NoError(t, err)
	assert.Equal(t, "ep-1", entry.Name)
	assert.Equal(t, StatusSucceeded, entry.Status)
	assert.Equal(t, "Episode added successfully", entry.Message)
	assert.Empty(t, entry.Error)
	assert.False(t, entry.RecordedAt.IsZero())
}

func TestRecordFailure(t *testing.T) {
	led := newTestLedger(t)

	require.NoError(t, led.Record(types.EpisodeResult{
		Name:  "ep-2",
		Error: "upsert failed",
	}))

	entry, err := led.Get("ep-2")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, entry.Status)
	assert.Equal(t, "upsert failed", entry.Error)
	assert.False(t, led.Succeeded("ep-2"))
}

func TestRecordOverwritesPriorEntry(t *testing.T) {
	led := newTestLedger(t)

	require.NoError(t, led.Record(types.EpisodeResult{Name: "ep-3", Error: "transient"}))
	assert.False(t, led.Succeeded("ep-3"))

	require.NoError(t, led.Record(types.EpisodeResult{Name: "ep-3", Message: "ok"}))
	assert.True(t, led.Succeeded("ep-3"))
}

func TestGetNotFound(t *testing.T) {
	led := newTestLedger(t)

	entry, err := led.Get("missing")
	assert.Nil(t, entry)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, led.Succeeded("missing"))
}

func TestRecordRequiresName(t *testing.T) {
	led := newTestLedger(t)

	err := led.Record(types.EpisodeResult{Message: "anonymous"})
	assert.Error(t, err)
}
