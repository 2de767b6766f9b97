// Package store defines the entity store adapter: get/set/expire access to
// persisted Screen and Channel records keyed by stable identifiers.
package store

import (
	"context"
	"time"

	"github.com/reload/os2display-middleware/internal/domain"
)

// Store is implemented by the redis adapter and the in-memory single-instance
// store. Absence of a record is reported via the domain sentinel errors; any
// other error means the backend was unavailable or the write failed. The
// adapter never retries; retry policy belongs to the caller.
type Store interface {
	// ResolveToken maps an opaque screen credential to its screen identity.
	// Token bindings are written by the token-issuance flow (external to this
	// process) and by BindToken.
	ResolveToken(ctx context.Context, token string) (string, error)
	BindToken(ctx context.Context, token, screenID string) error
	DeleteToken(ctx context.Context, token string) error

	GetScreen(ctx context.Context, screenID string) (*domain.ScreenRecord, error)
	SetScreen(ctx context.Context, record *domain.ScreenRecord, ttl time.Duration) error
	DeleteScreen(ctx context.Context, screenID string) error

	// SyncGroupBindings updates the per-group screen index after a screen's
	// group set changed: the screen is removed from groups it left and added
	// to groups it joined.
	SyncGroupBindings(ctx context.Context, screenID string, oldGroups, newGroups []string) error
	GroupScreens(ctx context.Context, groupID string) ([]string, error)

	GetChannel(ctx context.Context, channelID string) (*domain.ChannelRecord, error)
	SetChannel(ctx context.Context, record *domain.ChannelRecord, ttl time.Duration) error

	Ping(ctx context.Context) error
}

// GroupDiff splits a group membership change into the groups left and joined.
// Shared by the store implementations.
func GroupDiff(oldGroups, newGroups []string) (removed, added []string) {
	oldSet := make(map[string]struct{}, len(oldGroups))
	for _, g := range oldGroups {
		oldSet[g] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(newGroups))
	for _, g := range newGroups {
		newSet[g] = struct{}{}
	}

	for g := range oldSet {
		if _, ok := newSet[g]; !ok {
			removed = append(removed, g)
		}
	}
	for g := range newSet {
		if _, ok := oldSet[g]; !ok {
			added = append(added, g)
		}
	}
	return removed, added
}
