package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baduk/internal/domain/game"
	errs "baduk/internal/errors"
	"baduk/internal/testsuite"
)

func newGame(t *testing.T, id string) *game.Game {
	t.Helper()
	// mongo keeps milliseconds
	now := time.Now().UTC().Truncate(time.Millisecond)
	play, err := game.New(id, "p1", "p2", 5, now)
	require.NoError(t, err)
	play.BlackName, play.WhiteName = "alice", "bob"
	return play
}

func TestGameRepository_CreateAndGet(t *testing.T) {
	ctx, st := testsuite.New(t)
	repo := NewGameRepository(st.Logger, st.Redis, st.Mongo)

	// Given: a fresh game
	play := newGame(t, "g-1")

	// When: it is stored and read back
	id, err := repo.CreateGame(ctx, play)
	require.NoError(t, err)
	got, err := repo.GetGame(ctx, id)

	// Then: the record survives unchanged
	require.NoError(t, err)
	assert.Equal(t, "g-1", got.ID)
	assert.True(t, play.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, play.Board.Equal(got.Board))
	assert.Empty(t, got.Moves)
	assert.Equal(t, "alice", got.BlackName)
	assert.Equal(t, game.StateActive, got.State)
	assert.Equal(t, game.Black, got.Turn)
}

func TestGameRepository_GetGame_NotFound(t *testing.T) {
	ctx, st := testsuite.New(t)
	repo := NewGameRepository(st.Logger, st.Redis, st.Mongo)

	_, err := repo.GetGame(ctx, "missing")

	assert.ErrorIs(t, err, errs.ErrGameNotFound)
}

func TestGameRepository_AppendAndUpdate(t *testing.T) {
	ctx, st := testsuite.New(t)
	repo := NewGameRepository(st.Logger, st.Redis, st.Mongo)
	play := newGame(t, "g-2")
	_, err := repo.CreateGame(ctx, play)
	require.NoError(t, err)

	// Given: two moves played on the in-memory game
	moves := []game.Move{game.Place(game.Black, 2, 2), game.PassMove(game.White)}
	for _, m := range moves {
		m.PlayedAt = time.Now().UTC().Truncate(time.Millisecond)
		if !m.Pass {
			require.NoError(t, play.Board.Set(m.X, m.Y, m.Color))
		}
		play.Moves = append(play.Moves, m)
		play.Turn = play.Turn.Opponent()

		// When: each is appended and the board updated
		require.NoError(t, repo.AppendMove(ctx, play.ID, m))
		require.NoError(t, repo.UpdateGame(ctx, play.ID, play))
	}

	// Then: the stored game matches
	got, err := repo.GetGame(ctx, play.ID)
	require.NoError(t, err)
	require.Len(t, got.Moves, 2)
	assert.Equal(t, play.Moves[0].Point(), got.Moves[0].Point())
	assert.True(t, got.Moves[1].Pass)
	assert.True(t, play.Board.Equal(got.Board))
	assert.Equal(t, game.Black, got.Turn)

	t.Run("Finished game keeps its result", func(t *testing.T) {
		ended := time.Now().UTC().Truncate(time.Millisecond)
		play.State = game.StateDone
		play.EndedAt = &ended
		play.AddCaptures(game.Black, 1)
		require.NoError(t, repo.UpdateGame(ctx, play.ID, play))

		got, err := repo.GetGame(ctx, play.ID)

		require.NoError(t, err)
		assert.True(t, got.IsDone())
		require.NotNil(t, got.EndedAt)
		assert.True(t, ended.Equal(*got.EndedAt))
		assert.Equal(t, "B+1", got.Result())
		assert.Len(t, got.Moves, 2)
	})

	t.Run("Unknown ids are reported", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdateGame(ctx, "missing", play), errs.ErrGameNotFound)
		assert.ErrorIs(t, repo.AppendMove(ctx, "missing", moves[0]), errs.ErrGameNotFound)
	})
}

func TestGameRepository_SGFCache(t *testing.T) {
	ctx, st := testsuite.New(t)
	repo := NewGameRepository(st.Logger, st.Redis, st.Mongo)

	t.Run("Miss", func(t *testing.T) {
		_, err := repo.LoadSGF(ctx, "sgf:none")
		assert.Error(t, err)
	})

	t.Run("Hit", func(t *testing.T) {
		require.NoError(t, repo.SaveSGF(ctx, "sgf:g", "(;FF[4])"))

		got, err := repo.LoadSGF(ctx, "sgf:g")

		require.NoError(t, err)
		assert.Equal(t, "(;FF[4])", got)
	})
}
