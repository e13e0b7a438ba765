package game

import (
	"fmt"
	"time"

	errs "baduk/internal/errors"
)

// Move is either a placement at (X,Y) or a pass. A pass ignores X and Y.
type Move struct {
	Color    Color
	Pass     bool
	X        int
	Y        int
	PlayedAt time.Time
}

func Place(c Color, x, y int) Move {
	return Move{Color: c, X: x, Y: y}
}

func PassMove(c Color) Move {
	return Move{Color: c, Pass: true}
}

func (m Move) Point() Point {
	return Point{X: m.X, Y: m.Y}
}

func (m Move) String() string {
	if m.Pass {
		return fmt.Sprintf("%s pass", m.Color)
	}
	return fmt.Sprintf("%s (%d,%d)", m.Color, m.X, m.Y)
}

// MoveRequest is the loosely typed shape a move arrives in from a client or
// a store. Move converts it into a checked Move.
type MoveRequest struct {
	Color    string    `json:"color" bson:"color"`
	Pass     bool      `json:"pass,omitempty" bson:"pass,omitempty"`
	X        *int      `json:"x,omitempty" bson:"x,omitempty"`
	Y        *int      `json:"y,omitempty" bson:"y,omitempty"`
	PlayedAt time.Time `json:"played_at,omitempty" bson:"played_at,omitempty"`
}

func (r MoveRequest) Move() (Move, error) {
	color, err := ParseColor(r.Color)
	if err != nil {
		return Move{}, err
	}
	if r.Pass {
		return Move{Color: color, Pass: true, PlayedAt: r.PlayedAt}, nil
	}
	if r.X == nil || r.Y == nil {
		return Move{}, fmt.Errorf("%w: placement without coordinates", errs.ErrMalformedMove)
	}
	return Move{Color: color, X: *r.X, Y: *r.Y, PlayedAt: r.PlayedAt}, nil
}

// Request is the inverse of MoveRequest.Move.
func (m Move) Request() MoveRequest {
	r := MoveRequest{
		Color:    m.Color.String(),
		Pass:     m.Pass,
		PlayedAt: m.PlayedAt,
	}
	if !m.Pass {
		x, y := m.X, m.Y
		r.X, r.Y = &x, &y
	}
	return r
}
