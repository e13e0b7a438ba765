package game

import (
	"fmt"
	"time"
)

type State string

const (
	StateActive State = "ACTIVE"
	StateDone   State = "DONE"
)

// Game is a single match. It is only changed through the game use case;
// once State is StateDone neither Board nor Moves change again.
type Game struct {
	ID            string
	CreatedAt     time.Time
	EndedAt       *time.Time
	Size          int
	Board         *Board
	Moves         []Move
	PlayerBlack   string
	PlayerWhite   string
	BlackName     string
	WhiteName     string
	BlackCaptures int
	WhiteCaptures int
	State         State

	// Turn flips on every accepted move, whoever played it. It is not
	// enforced, so it only names the side to move when players alternate.
	Turn Color
}

// New builds an active game on an empty board with Black to play.
func New(id, playerBlack, playerWhite string, size int, now time.Time) (*Game, error) {
	board, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:          id,
		CreatedAt:   now,
		Size:        size,
		Board:       board,
		Moves:       []Move{},
		PlayerBlack: playerBlack,
		PlayerWhite: playerWhite,
		State:       StateActive,
		Turn:        Black,
	}, nil
}

func (g *Game) IsDone() bool {
	return g.State == StateDone
}

// LastMove returns the most recent move of the game, if any.
func (g *Game) LastMove() (Move, bool) {
	if len(g.Moves) == 0 {
		return Move{}, false
	}
	return g.Moves[len(g.Moves)-1], true
}

// AddCaptures credits n stones to c. Negative n is ignored.
func (g *Game) AddCaptures(c Color, n int) {
	if n <= 0 {
		return
	}
	switch c {
	case Black:
		g.BlackCaptures += n
	case White:
		g.WhiteCaptures += n
	}
}

// Tally counts the stones left on the board per color (area scoring).
func (g *Game) Tally() (black, white int) {
	return g.Board.Count(Black), g.Board.Count(White)
}

// Result summarizes a finished game as "B+n", "W+n" or "Draw". It is empty
// while the game is active.
func (g *Game) Result() string {
	if !g.IsDone() {
		return ""
	}
	switch diff := g.BlackCaptures - g.WhiteCaptures; {
	case diff > 0:
		return fmt.Sprintf("B+%d", diff)
	case diff < 0:
		return fmt.Sprintf("W+%d", -diff)
	default:
		return "Draw"
	}
}
