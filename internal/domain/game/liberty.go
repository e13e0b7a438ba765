package game

import (
	"fmt"
	"sort"

	errs "baduk/internal/errors"
)

// Group is a maximal set of connected same-colored stones.
type Group struct {
	Color     Color
	Stones    []Point
	Liberties int
}

// GroupLiberties flood-fills the group containing (x,y) and counts its
// distinct liberties. The board is only read.
func GroupLiberties(b *Board, x, y int) (Group, error) {
	color, err := b.Get(x, y)
	if err != nil {
		return Group{}, err
	}
	if color == Empty {
		return Group{}, fmt.Errorf("%w: (%d,%d)", errs.ErrEmptyCell, x, y)
	}

	start := Point{X: x, Y: y}
	visited := map[Point]struct{}{start: {}}
	liberties := map[Point]struct{}{}
	stones := make([]Point, 0, 4)
	stack := []Point{start}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stones = append(stones, curr)

		for _, n := range b.Neighbors(curr.X, curr.Y) {
			switch b.at(n) {
			case Empty:
				liberties[n] = struct{}{}
			case color:
				if _, seen := visited[n]; !seen {
					visited[n] = struct{}{}
					stack = append(stack, n)
				}
			}
		}
	}

	sort.Slice(stones, func(i, j int) bool {
		if stones[i].X != stones[j].X {
			return stones[i].X < stones[j].X
		}
		return stones[i].Y < stones[j].Y
	})

	return Group{
		Color:     color,
		Stones:    stones,
		Liberties: len(liberties),
	}, nil
}
