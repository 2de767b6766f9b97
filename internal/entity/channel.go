package entity

import (
	"context"
	"encoding/json"

	"github.com/reload/os2display-middleware/internal/domain"
	"github.com/reload/os2display-middleware/internal/store"
)

// Channel is the in-memory working copy of one unit of pushable content.
// It has no lifecycle beyond the command that constructs it.
type Channel struct {
	store    store.Store
	dispatch Dispatcher

	channelID string
	content   json.RawMessage
	groups    []string
}

func NewChannel(st store.Store, d Dispatcher, channelID string) *Channel {
	return &Channel{store: st, dispatch: d, channelID: channelID}
}

func (c *Channel) ChannelID() string { return c.channelID }

// SetContent mutates the in-memory content payload. The payload is
// provider-defined and passed through opaquely.
func (c *Channel) SetContent(content json.RawMessage) { c.content = content }

// SetGroups mutates the in-memory target group set.
func (c *Channel) SetGroups(groups []string) { c.groups = groups }

// Save persists {content, groups} under the channel identifier.
func (c *Channel) Save(ctx context.Context) error {
	record := &domain.ChannelRecord{
		ChannelID: c.channelID,
		Content:   c.content,
		Groups:    c.groups,
	}
	return c.store.SetChannel(ctx, record, 0)
}

// Push broadcasts the channel's current content to every live session in
// each target group. Fire-and-forget: a session mid-disconnect may miss the
// push and catches up on its next load.
func (c *Channel) Push() {
	payload := domain.ChannelPushPayload{
		ChannelID: c.channelID,
		Content:   c.content,
	}
	for _, groupID := range c.groups {
		c.dispatch.Broadcast(groupID, domain.EventChannelPush, payload)
	}
}
