package game

import (
	"fmt"

	errs "baduk/internal/errors"
)

// Capture lists the stones removed by a single placement.
type Capture struct {
	Count  int
	Points []Point
}

// ApplyCapture removes every opposing group adjacent to (x,y) that has no
// liberties left after a stone of color placed was put there. Each
// direction is checked on its own, so one move can take several groups.
func ApplyCapture(b *Board, placed Color, x, y int) (Capture, error) {
	if !placed.IsStone() {
		return Capture{}, fmt.Errorf("%w: cannot capture for color %d", errs.ErrMalformedMove, placed)
	}
	if !b.InBounds(x, y) {
		return Capture{}, fmt.Errorf("%w: (%d,%d)", errs.ErrOutOfBounds, x, y)
	}

	enemy := placed.Opponent()
	var res Capture
	for _, n := range b.Neighbors(x, y) {
		// a group removed through an earlier direction leaves Empty behind
		if b.at(n) != enemy {
			continue
		}
		group, err := GroupLiberties(b, n.X, n.Y)
		if err != nil {
			return res, err
		}
		if group.Liberties > 0 {
			continue
		}
		for _, p := range group.Stones {
			b.cells[p.X*b.size+p.Y] = Empty
		}
		res.Count += len(group.Stones)
		res.Points = append(res.Points, group.Stones...)
	}
	return res, nil
}
