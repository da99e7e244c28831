package state

// Unreachable is returned by EscapeDistance when the cat cannot reach any edge cell.
const Unreachable = NumCells

// EscapeDistance returns the minimum number of steps the cat needs to reach an edge cell
// of the board, moving only through open cells, or Unreachable if it is enclosed.
//
// It is 0 if the cat is already on the edge. When there are several shortest paths, CatMove
// picks which one the cat follows.
//
// It doesn't allocate: it's called for every state generated by the searchers.
func EscapeDistance(b Board) int {
	var (
		visited Bitmap
		queue   [NumCells]Pos
	)
	queue[0] = b.cat
	visited.Set(b.cat.Index())
	head, tail := 0, 1
	for distance := 0; head < tail; distance++ {
		// Positions in queue[head:layerEnd] are at the current distance.
		layerEnd := tail
		for ; head < layerEnd; head++ {
			pos := queue[head]
			if pos.IsEdge() {
				return distance
			}
			for _, neighbour := range neighbourTable[pos.Index()] {
				idx := neighbour.Index()
				if b.obstacles.Has(idx) || visited.Has(idx) {
					continue
				}
				visited.Set(idx)
				queue[tail] = neighbour
				tail++
			}
		}
	}
	return Unreachable
}
