package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	s := New(3, 10, 20, 1000, WithSeed(5))
	require.NoError(t, s.startHand(0))
	require.NoError(t, s.Call())
	require.NoError(t, s.Raise(40))

	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, s.Save(path))

	restored := New(3, 10, 20, 1000, WithSeed(99))
	require.NoError(t, restored.Restore(path))

	assert.Equal(t, s.Snapshot(), restored.Snapshot())
}

func TestRestoredSessionKeepsPlaying(t *testing.T) {
	t.Parallel()

	s := New(3, 10, 20, 1000, WithSeed(5))
	require.NoError(t, s.startHand(0))
	require.NoError(t, s.Call())

	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, s.Save(path))

	restored := New(3, 10, 20, 1000, WithSeed(99))
	require.NoError(t, restored.Restore(path))

	driveHand(t, restored)
	assert.Equal(t, PhaseShowdown, restored.Phase())
	assert.Equal(t, 3000, chipTotal(restored))
}

func TestRestoreRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := New(3, 10, 20, 1000, WithSeed(5))
	require.NoError(t, s.startHand(0))
	before := s.Snapshot()

	err := s.Restore(path)
	var parseErr *SnapshotParseError
	require.ErrorAs(t, err, &parseErr)

	assert.Equal(t, before, s.Snapshot(), "a rejected restore must not touch state")
}

func TestRestoreValidatesFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown phase",
			body: `{"players":[{"id":0},{"id":1}],"game_phase":"intermission","current_player_index":0}`,
		},
		{
			name: "too few players",
			body: `{"players":[{"id":0}],"game_phase":"flop","current_player_index":0}`,
		},
		{
			name: "current player out of range",
			body: `{"players":[{"id":0},{"id":1}],"game_phase":"flop","current_player_index":7}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "save.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			s := New(3, 10, 20, 1000, WithSeed(5))
			var parseErr *SnapshotParseError
			assert.ErrorAs(t, s.Restore(path), &parseErr)
		})
	}
}

func TestRestoreMissingFile(t *testing.T) {
	t.Parallel()

	s := New(3, 10, 20, 1000, WithSeed(5))
	err := s.Restore(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var parseErr *SnapshotParseError
	assert.False(t, errors.As(err, &parseErr), "a missing file is an I/O error, not a parse error")
}

func TestSnapshotIncludesRemainingDeck(t *testing.T) {
	t.Parallel()

	s := New(3, 10, 20, 1000, WithSeed(5))
	require.NoError(t, s.startHand(0))

	snap := s.Snapshot()
	// 52 minus six hole cards.
	assert.Len(t, snap.Deck, 46)
	assert.Equal(t, "pre-flop", snap.GamePhase)
	assert.Equal(t, 30, snap.Pot)
	assert.Len(t, snap.Players, 3)
}
