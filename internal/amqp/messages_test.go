package amqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryEventMessageRoundTrip(t *testing.T) {
	msg := NewEntryEventMessage(42, ActionCreated)

	data, err := msg.ToJSON()
	require.NoError(t, err)

	decoded, err := EntryEventMessageFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, int64(42), decoded.ID)
	assert.Equal(t, ActionCreated, decoded.Action)
	assert.False(t, decoded.Timestamp.IsZero())
}

func TestEntryEventMessageFromJSONInvalid(t *testing.T) {
	// Malformed payloads get rejected before reaching a handler.
	_, err := EntryEventMessageFromJSON([]byte("not json"))
	assert.Error(t, err)
}
