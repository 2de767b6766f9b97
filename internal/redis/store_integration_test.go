package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reload/os2display-middleware/internal/domain"
)

func TestStore_ScreenRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	record := &domain.ScreenRecord{
		ScreenID:     "screen-1",
		Name:         "Lobby",
		ScreenGroups: []string{"lobby", "announcements"},
	}
	require.NoError(t, s.SetScreen(ctx, record, 0))

	got, err := s.GetScreen(ctx, "screen-1")
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestStore_AbsentScreen(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetScreen(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrScreenNotFound)
}

func TestStore_ScreenTTL(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	record := &domain.ScreenRecord{ScreenID: "screen-1", Name: "Lobby"}
	require.NoError(t, s.SetScreen(ctx, record, 100*time.Millisecond))

	_, err := s.GetScreen(ctx, "screen-1")
	require.NoError(t, err)

	time.Sleep(200 * time.Millisecond)
	_, err = s.GetScreen(ctx, "screen-1")
	assert.ErrorIs(t, err, domain.ErrScreenNotFound)
}

func TestStore_DeleteScreenIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetScreen(ctx, &domain.ScreenRecord{ScreenID: "screen-1"}, 0))
	require.NoError(t, s.DeleteScreen(ctx, "screen-1"))

	_, err := s.GetScreen(ctx, "screen-1")
	assert.ErrorIs(t, err, domain.ErrScreenNotFound)

	// Second delete of the same (now absent) record is still success.
	assert.NoError(t, s.DeleteScreen(ctx, "screen-1"))
}

func TestStore_TokenBinding(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.ResolveToken(ctx, "tok-1")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)

	require.NoError(t, s.BindToken(ctx, "tok-1", "screen-1"))

	screenID, err := s.ResolveToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "screen-1", screenID)

	require.NoError(t, s.DeleteToken(ctx, "tok-1"))
	_, err = s.ResolveToken(ctx, "tok-1")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestStore_SyncGroupBindings(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SyncGroupBindings(ctx, "screen-1", nil, []string{"g1", "g2"}))
	require.NoError(t, s.SyncGroupBindings(ctx, "screen-2", nil, []string{"g2"}))

	g1, err := s.GroupScreens(ctx, "g1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"screen-1"}, g1)

	g2, err := s.GroupScreens(ctx, "g2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"screen-1", "screen-2"}, g2)

	// screen-1 leaves g1, joins g3
	require.NoError(t, s.SyncGroupBindings(ctx, "screen-1", []string{"g1", "g2"}, []string{"g2", "g3"}))

	g1, err = s.GroupScreens(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, g1)

	g3, err := s.GroupScreens(ctx, "g3")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"screen-1"}, g3)
}

func TestStore_ChannelRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	record := &domain.ChannelRecord{
		ChannelID: "chan-1",
		Content:   json.RawMessage(`{"slides":[{"title":"hello"}]}`),
		Groups:    []string{"g1", "g2"},
	}
	require.NoError(t, s.SetChannel(ctx, record, 0))

	got, err := s.GetChannel(ctx, "chan-1")
	require.NoError(t, err)
	assert.Equal(t, record.ChannelID, got.ChannelID)
	assert.JSONEq(t, string(record.Content), string(got.Content))
	assert.Equal(t, record.Groups, got.Groups)

	_, err = s.GetChannel(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
}
