package game

import (
	"fmt"
	"strings"

	errs "baduk/internal/errors"
)

// Color is the content of a board cell and the side a move is played for.
type Color uint8

const (
	Empty Color = iota
	Black
	White
)

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return ""
	}
}

// IsStone reports whether c is Black or White.
func (c Color) IsStone() bool {
	return c == Black || c == White
}

// Opponent returns the other stone color. Empty stays Empty.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// ParseColor accepts "black"/"b" and "white"/"w" in any case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	}
	return Empty, fmt.Errorf("%w: unknown color %q", errs.ErrMalformedMove, s)
}

func (c Color) symbol() byte {
	switch c {
	case Black:
		return 'B'
	case White:
		return 'W'
	default:
		return '.'
	}
}

func colorFromSymbol(b byte) (Color, bool) {
	switch b {
	case '.':
		return Empty, true
	case 'B':
		return Black, true
	case 'W':
		return White, true
	}
	return Empty, false
}
