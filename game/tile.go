package game

import "fmt"

// Point addresses a tile by column and row
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func (board *Board) contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < board.Width() && p.Y < board.Height()
}

// index translates a position into its tile index, failing with
// ErrOutOfBounds when the position is off the grid
func (board *Board) index(p Point) (int, error) {
	if !board.contains(p) {
		return 0, fmt.Errorf("%w: %v on %dx%d board", ErrOutOfBounds, p, board.Width(), board.Height())
	}
	return p.Y*board.Width() + p.X, nil
}

func (board *Board) point(idx int) Point {
	return Point{X: idx % board.Width(), Y: idx / board.Width()}
}

// neighbors appends the in-bounds indexes of the up to 8 tiles surrounding idx
func (board *Board) neighbors(idx int, out []int) []int {
	width, height := board.Width(), board.Height()
	x, y := idx%width, idx/width

	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= height {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if nx < 0 || nx >= width || (dx == 0 && dy == 0) {
				continue
			}
			out = append(out, ny*width+nx)
		}
	}
	return out
}

// Neighbors returns the positions surrounding p, in row-major order
func (board *Board) Neighbors(p Point) ([]Point, error) {
	idx, err := board.index(p)
	if err != nil {
		return nil, err
	}
	var buf [8]int
	neighbors := board.neighbors(idx, buf[:0])
	points := make([]Point, len(neighbors))
	for i, n := range neighbors {
		points[i] = board.point(n)
	}
	return points, nil
}
