package game

import (
	"fmt"
	"time"

	errs "baduk/internal/errors"
)

// Record is the persisted and transmitted shape of a Game.
type Record struct {
	ID            string        `json:"id" bson:"_id"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	EndedAt       *time.Time    `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	BoardSize     int           `json:"board_size" bson:"board_size"`
	Board         []string      `json:"board" bson:"board"`
	Moves         []MoveRequest `json:"moves" bson:"moves"`
	PlayerBlack   string        `json:"player_black" bson:"player_black"`
	PlayerWhite   string        `json:"player_white" bson:"player_white"`
	BlackName     string        `json:"black_name" bson:"black_name"`
	WhiteName     string        `json:"white_name" bson:"white_name"`
	BlackCaptures int           `json:"black_captures" bson:"black_captures"`
	WhiteCaptures int           `json:"white_captures" bson:"white_captures"`
	State         State         `json:"state" bson:"state"`
	Turn          string        `json:"turn" bson:"turn"`
	Result        string        `json:"result,omitempty" bson:"result,omitempty"`
}

func (g *Game) Record() Record {
	moves := make([]MoveRequest, 0, len(g.Moves))
	for _, m := range g.Moves {
		moves = append(moves, m.Request())
	}
	return Record{
		ID:            g.ID,
		CreatedAt:     g.CreatedAt,
		EndedAt:       g.EndedAt,
		BoardSize:     g.Size,
		Board:         g.Board.Rows(),
		Moves:         moves,
		PlayerBlack:   g.PlayerBlack,
		PlayerWhite:   g.PlayerWhite,
		BlackName:     g.BlackName,
		WhiteName:     g.WhiteName,
		BlackCaptures: g.BlackCaptures,
		WhiteCaptures: g.WhiteCaptures,
		State:         g.State,
		Turn:          g.Turn.String(),
		Result:        g.Result(),
	}
}

// FromRecord rebuilds a Game and rejects records that break its invariants.
func FromRecord(r Record) (*Game, error) {
	board, err := BoardFromRows(r.Board)
	if err != nil {
		return nil, err
	}
	if board.Size() != r.BoardSize {
		return nil, fmt.Errorf("%w: board has %d rows, size is %d", errs.ErrMalformedRecord, board.Size(), r.BoardSize)
	}
	if r.State != StateActive && r.State != StateDone {
		return nil, fmt.Errorf("%w: unknown state %q", errs.ErrMalformedRecord, r.State)
	}
	if r.BlackCaptures < 0 || r.WhiteCaptures < 0 {
		return nil, fmt.Errorf("%w: negative capture count", errs.ErrMalformedRecord)
	}
	turn, err := ParseColor(r.Turn)
	if err != nil {
		return nil, fmt.Errorf("%w: turn: %v", errs.ErrMalformedRecord, err)
	}

	moves := make([]Move, 0, len(r.Moves))
	for i, mr := range r.Moves {
		m, err := mr.Move()
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %v", errs.ErrMalformedRecord, i, err)
		}
		moves = append(moves, m)
	}

	return &Game{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		EndedAt:       r.EndedAt,
		Size:          r.BoardSize,
		Board:         board,
		Moves:         moves,
		PlayerBlack:   r.PlayerBlack,
		PlayerWhite:   r.PlayerWhite,
		BlackName:     r.BlackName,
		WhiteName:     r.WhiteName,
		BlackCaptures: r.BlackCaptures,
		WhiteCaptures: r.WhiteCaptures,
		State:         r.State,
		Turn:          turn,
	}, nil
}
