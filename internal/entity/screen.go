package entity

import (
	"context"
	"fmt"

	"github.com/reload/os2display-middleware/internal/domain"
	"github.com/reload/os2display-middleware/internal/store"
)

// Screen is the in-memory working copy of one physical display. It is
// constructed either from an opaque session token (backend path) or directly
// from a known screen identifier (admin path).
type Screen struct {
	store    store.Store
	dispatch Dispatcher

	token    string
	screenID string
	name     string
	groups   []string

	// Group set as loaded, kept so Save can diff the group index.
	loadedGroups []string
}

// NewScreenFromToken constructs a screen whose identity is resolved from a
// session token on Load.
func NewScreenFromToken(st store.Store, d Dispatcher, token string) *Screen {
	return &Screen{store: st, dispatch: d, token: token}
}

// NewScreenFromID constructs a screen from an already-known identifier.
func NewScreenFromID(st store.Store, d Dispatcher, screenID string) *Screen {
	return &Screen{store: st, dispatch: d, screenID: screenID}
}

// ScreenID is the stable identity, immutable once loaded.
func (s *Screen) ScreenID() string { return s.screenID }

// Name is the mutable display label.
func (s *Screen) Name() string { return s.name }

// Groups is the mutable set of group identifiers this screen belongs to.
func (s *Screen) Groups() []string { return s.groups }

// Connected reports whether a live session is currently bound for this
// screen. Absence means "offline", not an error.
func (s *Screen) Connected() bool {
	return s.screenID != "" && s.dispatch.Connected(s.screenID)
}

// Load resolves identity and state from the store. One Load per command
// instance; the orchestrating handler must not call it twice.
func (s *Screen) Load(ctx context.Context) error {
	if s.screenID == "" {
		screenID, err := s.store.ResolveToken(ctx, s.token)
		if err != nil {
			return err
		}
		s.screenID = screenID
	}

	record, err := s.store.GetScreen(ctx, s.screenID)
	if err != nil {
		return err
	}

	s.name = record.Name
	s.groups = record.ScreenGroups
	s.loadedGroups = record.ScreenGroups
	return nil
}

// SetName mutates the in-memory display label.
func (s *Screen) SetName(name string) { s.name = name }

// SetGroups mutates the in-memory group set.
func (s *Screen) SetGroups(groups []string) { s.groups = groups }

// Save persists the full current in-memory state, then refreshes the
// dependent group bindings. If the record write succeeds but the group index
// refresh fails, the returned error wraps domain.ErrPartialSync: the durable
// write stands, but the caller must treat the operation as failed.
func (s *Screen) Save(ctx context.Context) error {
	record := &domain.ScreenRecord{
		ScreenID:     s.screenID,
		Name:         s.name,
		ScreenGroups: s.groups,
	}
	if err := s.store.SetScreen(ctx, record, 0); err != nil {
		return err
	}

	if err := s.store.SyncGroupBindings(ctx, s.screenID, s.loadedGroups, s.groups); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPartialSync, err)
	}
	s.loadedGroups = s.groups

	// Live binding refresh is a no-op when the screen is offline; the record
	// and the live connection state may legitimately diverge.
	s.dispatch.UpdateGroups(s.screenID, s.groups)
	return nil
}

// Reload instructs this screen's own live session to refresh its state
// immediately. Point-to-point, not a group broadcast; a no-op if offline.
func (s *Screen) Reload() {
	s.dispatch.Send(s.screenID, domain.EventReload, nil)
}

// Remove deletes the persisted record, its token binding and group index
// entries, and tears down the live session if one is bound. Removing an
// already-absent record is success.
func (s *Screen) Remove(ctx context.Context) error {
	if err := s.store.DeleteScreen(ctx, s.screenID); err != nil {
		return err
	}
	if s.token != "" {
		if err := s.store.DeleteToken(ctx, s.token); err != nil {
			return err
		}
	}
	if err := s.store.SyncGroupBindings(ctx, s.screenID, s.loadedGroups, nil); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPartialSync, err)
	}
	s.loadedGroups = nil

	s.dispatch.Send(s.screenID, domain.EventRemoved, nil)
	s.dispatch.Disconnect(s.screenID, "screen removed")
	return nil
}
