package store

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/reload/os2display-middleware/internal/domain"
)

type memoryEntry[T any] struct {
	record    T
	expiresAt time.Time
}

func (e memoryEntry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryStore keeps records in process memory for single-instance mode
// (no REDIS_URL configured). State is lost on restart; the backend re-pushes
// on demand, so that is acceptable for development setups.
type InMemoryStore struct {
	clock    clockwork.Clock
	mu       sync.Mutex
	tokens   map[string]string
	screens  map[string]memoryEntry[domain.ScreenRecord]
	channels map[string]memoryEntry[domain.ChannelRecord]
	groups   map[string]map[string]struct{}
}

func NewInMemoryStore(clock clockwork.Clock) *InMemoryStore {
	return &InMemoryStore{
		clock:    clock,
		tokens:   make(map[string]string),
		screens:  make(map[string]memoryEntry[domain.ScreenRecord]),
		channels: make(map[string]memoryEntry[domain.ChannelRecord]),
		groups:   make(map[string]map[string]struct{}),
	}
}

func (s *InMemoryStore) ResolveToken(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	screenID, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	return screenID, nil
}

func (s *InMemoryStore) BindToken(_ context.Context, token, screenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token] = screenID
	return nil
}

func (s *InMemoryStore) DeleteToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
	return nil
}

func (s *InMemoryStore) GetScreen(_ context.Context, screenID string) (*domain.ScreenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.screens[screenID]
	if !ok || entry.expired(s.clock.Now()) {
		delete(s.screens, screenID)
		return nil, domain.ErrScreenNotFound
	}
	record := entry.record
	return &record, nil
}

func (s *InMemoryStore) SetScreen(_ context.Context, record *domain.ScreenRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screens[record.ScreenID] = memoryEntry[domain.ScreenRecord]{
		record:    *record,
		expiresAt: s.expiry(ttl),
	}
	return nil
}

func (s *InMemoryStore) DeleteScreen(_ context.Context, screenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.screens, screenID)
	for _, members := range s.groups {
		delete(members, screenID)
	}
	return nil
}

func (s *InMemoryStore) SyncGroupBindings(_ context.Context, screenID string, oldGroups, newGroups []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, added := GroupDiff(oldGroups, newGroups)
	for _, g := range removed {
		if members, ok := s.groups[g]; ok {
			delete(members, screenID)
			if len(members) == 0 {
				delete(s.groups, g)
			}
		}
	}
	for _, g := range added {
		members, ok := s.groups[g]
		if !ok {
			members = make(map[string]struct{})
			s.groups[g] = members
		}
		members[screenID] = struct{}{}
	}
	return nil
}

func (s *InMemoryStore) GroupScreens(_ context.Context, groupID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := s.groups[groupID]
	screens := make([]string, 0, len(members))
	for screenID := range members {
		screens = append(screens, screenID)
	}
	return screens, nil
}

func (s *InMemoryStore) GetChannel(_ context.Context, channelID string) (*domain.ChannelRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.channels[channelID]
	if !ok || entry.expired(s.clock.Now()) {
		delete(s.channels, channelID)
		return nil, domain.ErrChannelNotFound
	}
	record := entry.record
	return &record, nil
}

func (s *InMemoryStore) SetChannel(_ context.Context, record *domain.ChannelRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.channels[record.ChannelID] = memoryEntry[domain.ChannelRecord]{
		record:    *record,
		expiresAt: s.expiry(ttl),
	}
	return nil
}

func (s *InMemoryStore) Ping(_ context.Context) error {
	return nil
}

func (s *InMemoryStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.clock.Now().Add(ttl)
}
