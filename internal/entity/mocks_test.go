package entity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/reload/os2display-middleware/internal/domain"
	"github.com/reload/os2display-middleware/internal/store"
)

// recordingDispatcher captures dispatcher calls for assertions.
type recordingDispatcher struct {
	mu            sync.Mutex
	sends         []dispatchedEvent
	broadcasts    []dispatchedEvent
	groupUpdates  map[string][]string
	disconnected  []string
	connectedSet  map[string]bool
}

type dispatchedEvent struct {
	target  string // screenID for sends, groupID for broadcasts
	event   string
	payload any
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{
		groupUpdates: make(map[string][]string),
		connectedSet: make(map[string]bool),
	}
}

func (d *recordingDispatcher) Send(screenID, event string, payload any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sends = append(d.sends, dispatchedEvent{target: screenID, event: event, payload: payload})
}

func (d *recordingDispatcher) Broadcast(groupID, event string, payload any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.broadcasts = append(d.broadcasts, dispatchedEvent{target: groupID, event: event, payload: payload})
}

func (d *recordingDispatcher) UpdateGroups(screenID string, groups []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.groupUpdates[screenID] = groups
}

func (d *recordingDispatcher) Disconnect(screenID, _ string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disconnected = append(d.disconnected, screenID)
	d.connectedSet[screenID] = false
}

func (d *recordingDispatcher) Connected(screenID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connectedSet[screenID]
}

var errStoreDown = errors.New("store unavailable")

// failingStore wraps a Store and fails selected operations.
type failingStore struct {
	store.Store
	failSetScreen bool
	failSync      bool
}

func (f *failingStore) SetScreen(ctx context.Context, record *domain.ScreenRecord, ttl time.Duration) error {
	if f.failSetScreen {
		return errStoreDown
	}
	return f.Store.SetScreen(ctx, record, ttl)
}

func (f *failingStore) SyncGroupBindings(ctx context.Context, screenID string, oldGroups, newGroups []string) error {
	if f.failSync {
		return errStoreDown
	}
	return f.Store.SyncGroupBindings(ctx, screenID, oldGroups, newGroups)
}

func newMemoryStore() *store.InMemoryStore {
	return store.NewInMemoryStore(clockwork.NewFakeClock())
}
