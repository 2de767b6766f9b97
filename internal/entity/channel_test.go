package entity

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reload/os2display-middleware/internal/domain"
)

func TestChannel_Save(t *testing.T) {
	st := newMemoryStore()
	d := newRecordingDispatcher()
	ctx := context.Background()

	c := NewChannel(st, d, "chan-1")
	c.SetContent(json.RawMessage(`{"slides":[{"title":"sale"}]}`))
	c.SetGroups([]string{"g1", "g2"})
	require.NoError(t, c.Save(ctx))

	record, err := st.GetChannel(ctx, "chan-1")
	require.NoError(t, err)
	assert.Equal(t, "chan-1", record.ChannelID)
	assert.JSONEq(t, `{"slides":[{"title":"sale"}]}`, string(record.Content))
	assert.Equal(t, []string{"g1", "g2"}, record.Groups)
}

func TestChannel_PushFansOutPerGroup(t *testing.T) {
	st := newMemoryStore()
	d := newRecordingDispatcher()

	c := NewChannel(st, d, "chan-1")
	c.SetContent(json.RawMessage(`{"slides":[]}`))
	c.SetGroups([]string{"g1", "g2"})

	c.Push()

	require.Len(t, d.broadcasts, 2)
	targets := []string{d.broadcasts[0].target, d.broadcasts[1].target}
	assert.ElementsMatch(t, []string{"g1", "g2"}, targets)

	for _, b := range d.broadcasts {
		assert.Equal(t, domain.EventChannelPush, b.event)
		payload, ok := b.payload.(domain.ChannelPushPayload)
		require.True(t, ok)
		assert.Equal(t, "chan-1", payload.ChannelID)
	}
}

func TestChannel_PushNoGroups(t *testing.T) {
	st := newMemoryStore()
	d := newRecordingDispatcher()

	c := NewChannel(st, d, "chan-1")
	c.Push()

	assert.Empty(t, d.broadcasts)
}
