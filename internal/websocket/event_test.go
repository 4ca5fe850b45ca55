package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventType(t *testing.T) {
	event := NewEvent(EventTypeUpdated, EntityTypeSavingGoal, nil)
	assert.Equal(t, "saving_goal.updated", event.Type)
	assert.Equal(t, EntityTypeSavingGoal, event.Entity)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEventToJSON(t *testing.T) {
	event := NotificationCreated(map[string]string{
		"title":    "Balance updated",
		"severity": "success",
	})

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "notification.created", decoded["type"])
	assert.Equal(t, "notification", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Balance updated", payload["title"])
}
