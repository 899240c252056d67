package game

import (
	"github.com/gammazero/deque"
)

type Visitor func(idx int)

// NeighborGetter appends the tiles reachable in one step from idx
type NeighborGetter func(idx int, out []int) []int

// flood performs a breadth-first traversal from start, visiting each tile at
// most once. Traversal continues past a visited tile only when expand
// reports true for it.
func flood(start int, visit Visitor, expand func(idx int) bool, getNeighbors NeighborGetter) {
	visited := map[int]struct{}{start: {}}
	visitQueue := deque.New[int]()
	visitQueue.PushBack(start)

	var buf [8]int
	for visitQueue.Len() > 0 {
		idx := visitQueue.PopFront()
		visit(idx)

		if !expand(idx) {
			continue
		}
		for _, neighbor := range getNeighbors(idx, buf[:0]) {
			if _, alreadyVisited := visited[neighbor]; alreadyVisited {
				continue
			}
			visited[neighbor] = struct{}{}
			visitQueue.PushBack(neighbor)
		}
	}
}

// zeroRegion returns the connected region of zero-adjacency tiles containing
// start, stepping through the 8-neighbourhood. Flags do not stop the region;
// the caller leaves flagged tiles covered.
func (board *Board) zeroRegion(start int) []int {
	var region []int
	isZero := func(idx int) bool {
		return board.adjacent[idx] == 0
	}
	flood(
		start,
		func(idx int) {
			if isZero(idx) {
				region = append(region, idx)
			}
		},
		isZero,
		board.neighbors,
	)
	return region
}
