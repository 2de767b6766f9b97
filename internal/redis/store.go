package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/reload/os2display-middleware/internal/domain"
	"github.com/reload/os2display-middleware/internal/store"
)

// Store is the redis-backed entity store. Screen and Channel records are JSON
// strings under their identifier keys; token bindings are plain string keys;
// the per-group screen index is a redis set per group.
type Store struct {
	rdb *goredis.Client
}

func NewStore(rdb *goredis.Client) *Store {
	return &Store{rdb: rdb}
}

// --- Token bindings ---

func (s *Store) ResolveToken(ctx context.Context, token string) (string, error) {
	screenID, err := s.rdb.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", domain.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve token: %w", err)
	}
	return screenID, nil
}

func (s *Store) BindToken(ctx context.Context, token, screenID string) error {
	return s.rdb.Set(ctx, tokenKey(token), screenID, 0).Err()
}

func (s *Store) DeleteToken(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, tokenKey(token)).Err()
}

// --- Screen records ---

func (s *Store) GetScreen(ctx context.Context, screenID string) (*domain.ScreenRecord, error) {
	data, err := s.rdb.Get(ctx, screenKey(screenID)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrScreenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get screen: %w", err)
	}

	var record domain.ScreenRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal screen record: %w", err)
	}
	return &record, nil
}

func (s *Store) SetScreen(ctx context.Context, record *domain.ScreenRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal screen record: %w", err)
	}
	return s.rdb.Set(ctx, screenKey(record.ScreenID), data, ttl).Err()
}

func (s *Store) DeleteScreen(ctx context.Context, screenID string) error {
	// Del of an absent key is a no-op in redis, which gives us the
	// idempotent-delete contract for free.
	return s.rdb.Del(ctx, screenKey(screenID)).Err()
}

// --- Group index ---

func (s *Store) SyncGroupBindings(ctx context.Context, screenID string, oldGroups, newGroups []string) error {
	removed, added := store.GroupDiff(oldGroups, newGroups)
	if len(removed) == 0 && len(added) == 0 {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, g := range removed {
		pipe.SRem(ctx, groupKey(g), screenID)
	}
	for _, g := range added {
		pipe.SAdd(ctx, groupKey(g), screenID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to sync group bindings: %w", err)
	}
	return nil
}

func (s *Store) GroupScreens(ctx context.Context, groupID string) ([]string, error) {
	members, err := s.rdb.SMembers(ctx, groupKey(groupID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list group screens: %w", err)
	}
	return members, nil
}

// --- Channel records ---

func (s *Store) GetChannel(ctx context.Context, channelID string) (*domain.ChannelRecord, error) {
	data, err := s.rdb.Get(ctx, channelKey(channelID)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrChannelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	var record domain.ChannelRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel record: %w", err)
	}
	return &record, nil
}

func (s *Store) SetChannel(ctx context.Context, record *domain.ChannelRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal channel record: %w", err)
	}
	return s.rdb.Set(ctx, channelKey(record.ChannelID), data, ttl).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// --- Key helpers ---

func tokenKey(token string) string {
	return "token:" + token
}

func screenKey(screenID string) string {
	return "screen:" + screenID
}

func channelKey(channelID string) string {
	return "channel:" + channelID
}

func groupKey(groupID string) string {
	return "group:" + groupID
}
