package game

import (
	"fmt"

	errs "baduk/internal/errors"
)

// Violation names the rule an illegal move breaks. Violations are normal
// outcomes of play, not errors.
type Violation int

const (
	ViolationNone Violation = iota
	ViolationOutOfBounds
	ViolationOccupied
	ViolationKo
	ViolationSuicide
)

func (v Violation) String() string {
	switch v {
	case ViolationNone:
		return "none"
	case ViolationOutOfBounds:
		return "out of bounds"
	case ViolationOccupied:
		return "occupied"
	case ViolationKo:
		return "ko"
	case ViolationSuicide:
		return "suicide"
	}
	return fmt.Sprintf("violation(%d)", int(v))
}

// IsLegal reports whether move may be played in g.
func IsLegal(move Move, g *Game) (bool, error) {
	v, err := Validate(move, g)
	if err != nil {
		return false, err
	}
	return v == ViolationNone, nil
}

// Validate checks bounds, occupancy, ko and suicide in that order and
// returns the first rule broken. It never changes g.
func Validate(move Move, g *Game) (Violation, error) {
	if g == nil || g.Board == nil {
		return ViolationNone, fmt.Errorf("%w: no game to validate against", errs.ErrMalformedMove)
	}
	if !move.Color.IsStone() {
		return ViolationNone, fmt.Errorf("%w: move without a color", errs.ErrMalformedMove)
	}
	if move.Pass {
		return ViolationNone, nil
	}

	b := g.Board
	if !b.InBounds(move.X, move.Y) {
		return ViolationOutOfBounds, nil
	}
	if b.at(move.Point()) != Empty {
		return ViolationOccupied, nil
	}
	if repeatsOwnLastMove(move, g.Moves) {
		return ViolationKo, nil
	}

	// captures are resolved before own liberties are counted
	scratch := b.Clone()
	scratch.cells[move.X*scratch.size+move.Y] = move.Color
	captured, err := ApplyCapture(scratch, move.Color, move.X, move.Y)
	if err != nil {
		return ViolationNone, err
	}
	if captured.Count > 0 {
		return ViolationNone, nil
	}
	own, err := GroupLiberties(scratch, move.X, move.Y)
	if err != nil {
		return ViolationNone, err
	}
	if own.Liberties == 0 {
		return ViolationSuicide, nil
	}
	return ViolationNone, nil
}

// repeatsOwnLastMove walks history backwards to the latest move by the same
// color and reports whether it was a placement on the same point. A
// placement by the opponent found first ends the search. Only a capture by
// an opponent placement empties a point, so in play recorded through
// NewMove this never fires; it catches edited or imported histories.
func repeatsOwnLastMove(move Move, history []Move) bool {
	for i := len(history) - 1; i >= 0; i-- {
		prev := history[i]
		if prev.Color != move.Color {
			if !prev.Pass {
				return false
			}
			continue
		}
		return !prev.Pass && prev.X == move.X && prev.Y == move.Y
	}
	return false
}
