// Package domain holds the persisted record shapes and error sentinels shared
// by the store, entity, and dispatch layers.
package domain

import "encoding/json"

// ScreenRecord is the durable state of one physical display. The store is the
// owner of this record; in-memory Screen entities are per-command working
// copies of it.
type ScreenRecord struct {
	ScreenID     string   `json:"screenID"`
	Name         string   `json:"name"`
	ScreenGroups []string `json:"screenGroups"`
}

// ChannelRecord is a unit of pushable content targeted at one or more groups.
// Content is provider-defined and passed through opaquely.
type ChannelRecord struct {
	ChannelID string          `json:"channelID"`
	Content   json.RawMessage `json:"content"`
	Groups    []string        `json:"groups"`
}

// Wire event names emitted to live screen sessions.
const (
	EventReload      = "reload"
	EventChannelPush = "channelPush"
	EventRemoved     = "removed"
)

// ChannelPushPayload is the payload carried by an EventChannelPush event.
type ChannelPushPayload struct {
	ChannelID string          `json:"channelID"`
	Content   json.RawMessage `json:"content"`
}
