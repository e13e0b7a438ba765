package game

import (
	"fmt"

	errs "baduk/internal/errors"
)

// Point is a board coordinate. X selects the row, Y the column.
type Point struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Board is a square grid whose size never changes after NewBoard.
type Board struct {
	size  int
	cells []Color
}

// MaxBoardSize is the largest board SGF can address (a-z then A-Z).
const MaxBoardSize = 52

func NewBoard(size int) (*Board, error) {
	if size <= 0 || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %d, want 1..%d", errs.ErrInvalidSize, size, MaxBoardSize)
	}
	return &Board{
		size:  size,
		cells: make([]Color, size*size),
	}, nil
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

func (b *Board) Get(x, y int) (Color, error) {
	if !b.InBounds(x, y) {
		return Empty, fmt.Errorf("%w: (%d,%d) on %dx%d", errs.ErrOutOfBounds, x, y, b.size, b.size)
	}
	return b.cells[x*b.size+y], nil
}

func (b *Board) Set(x, y int, c Color) error {
	if !b.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d", errs.ErrOutOfBounds, x, y, b.size, b.size)
	}
	if c != Empty && !c.IsStone() {
		return fmt.Errorf("%w: invalid cell value %d", errs.ErrMalformedMove, c)
	}
	b.cells[x*b.size+y] = c
	return nil
}

// at skips the bounds check; callers must have checked InBounds.
func (b *Board) at(p Point) Color {
	return b.cells[p.X*b.size+p.Y]
}

// Neighbors returns the orthogonal neighbors of (x,y) that lie on the board.
func (b *Board) Neighbors(x, y int) []Point {
	candidates := [4]Point{
		{X: x - 1, Y: y},
		{X: x + 1, Y: y},
		{X: x, Y: y - 1},
		{X: x, Y: y + 1},
	}
	res := make([]Point, 0, len(candidates))
	for _, p := range candidates {
		if b.InBounds(p.X, p.Y) {
			res = append(res, p)
		}
	}
	return res
}

// Count returns the number of cells holding c.
func (b *Board) Count(c Color) int {
	n := 0
	for _, cell := range b.cells {
		if cell == c {
			n++
		}
	}
	return n
}

func (b *Board) Clone() *Board {
	cells := make([]Color, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells}
}

// Equal reports whether both boards have the same size and contents.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows renders the board as one string per row using '.', 'B' and 'W'.
func (b *Board) Rows() []string {
	rows := make([]string, b.size)
	buf := make([]byte, b.size)
	for x := 0; x < b.size; x++ {
		for y := 0; y < b.size; y++ {
			buf[y] = b.cells[x*b.size+y].symbol()
		}
		rows[x] = string(buf)
	}
	return rows
}

// BoardFromRows is the inverse of Rows.
func BoardFromRows(rows []string) (*Board, error) {
	b, err := NewBoard(len(rows))
	if err != nil {
		return nil, err
	}
	for x, row := range rows {
		if len(row) != b.size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", errs.ErrMalformedRecord, x, len(row), b.size)
		}
		for y := 0; y < len(row); y++ {
			c, ok := colorFromSymbol(row[y])
			if !ok {
				return nil, fmt.Errorf("%w: bad cell %q at (%d,%d)", errs.ErrMalformedRecord, row[y], x, y)
			}
			b.cells[x*b.size+y] = c
		}
	}
	return b, nil
}
