package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/reload/os2display-middleware/internal/domain"
	"github.com/reload/os2display-middleware/internal/store"
)

// countingStore wraps another store and counts every operation that reaches
// it. Used to prove that rejected requests never touch the store.
type countingStore struct {
	inner store.Store
	ops   atomic.Int64

	// failErr, when set, is returned by every read and write.
	failErr error
}

func (s *countingStore) observe() error {
	s.ops.Add(1)
	return s.failErr
}

func (s *countingStore) ResolveToken(ctx context.Context, token string) (string, error) {
	if err := s.observe(); err != nil {
		return "", err
	}
	return s.inner.ResolveToken(ctx, token)
}

func (s *countingStore) BindToken(ctx context.Context, token, screenID string) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.inner.BindToken(ctx, token, screenID)
}

func (s *countingStore) DeleteToken(ctx context.Context, token string) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.inner.DeleteToken(ctx, token)
}

func (s *countingStore) GetScreen(ctx context.Context, screenID string) (*domain.ScreenRecord, error) {
	if err := s.observe(); err != nil {
		return nil, err
	}
	return s.inner.GetScreen(ctx, screenID)
}

func (s *countingStore) SetScreen(ctx context.Context, record *domain.ScreenRecord, ttl time.Duration) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.inner.SetScreen(ctx, record, ttl)
}

func (s *countingStore) DeleteScreen(ctx context.Context, screenID string) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.inner.DeleteScreen(ctx, screenID)
}

func (s *countingStore) SyncGroupBindings(ctx context.Context, screenID string, oldGroups, newGroups []string) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.inner.SyncGroupBindings(ctx, screenID, oldGroups, newGroups)
}

func (s *countingStore) GroupScreens(ctx context.Context, groupID string) ([]string, error) {
	if err := s.observe(); err != nil {
		return nil, err
	}
	return s.inner.GroupScreens(ctx, groupID)
}

func (s *countingStore) GetChannel(ctx context.Context, channelID string) (*domain.ChannelRecord, error) {
	if err := s.observe(); err != nil {
		return nil, err
	}
	return s.inner.GetChannel(ctx, channelID)
}

func (s *countingStore) SetChannel(ctx context.Context, record *domain.ChannelRecord, ttl time.Duration) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.inner.SetChannel(ctx, record, ttl)
}

func (s *countingStore) Ping(ctx context.Context) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.inner.Ping(ctx)
}
