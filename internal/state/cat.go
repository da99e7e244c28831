package state

// RouteField is the result of the layered labelling used by the cat to decide its move.
//
// The labelling starts from every open edge cell, each with one route, and moves inwards one
// layer at a time. Each newly reached cell accumulates the routes of all the cells of the previous
// layer that reach it. It stops at the layer where the cat is found, or when there are no more
// cells to reach.
type RouteField struct {
	// Routes per cell, indexed by Pos.Index. Zero for cells not reached by the labelling.
	Routes [NumCells]int

	// Labelled marks the cells reached by the labelling.
	Labelled Bitmap

	// CatLayer holds the cells of the layer where the cat was found. Empty if the cat was never reached.
	CatLayer Bitmap

	// CatReached is true if the labelling reached the cat. If false the cat is enclosed.
	CatReached bool

	// Depth is the index of the layer where the cat was found (0 is the layer of the edge cells).
	// Only meaningful if CatReached.
	Depth int
}

// RouteCounts runs the layered labelling from the given edge cells (usually EdgeCells()) up to
// the layer where the cat is found. Obstructed edge cells are not used as sources.
func RouteCounts(b Board, edges []Pos) *RouteField {
	f := &RouteField{}
	var layer, nextLayer []Pos
	for _, pos := range edges {
		if b.IsObstructed(pos) {
			continue
		}
		idx := pos.Index()
		f.Routes[idx] = 1
		f.Labelled.Set(idx)
		layer = append(layer, pos)
	}

	catIdx := b.cat.Index()
	for depth := 0; len(layer) > 0; depth++ {
		var inLayer Bitmap
		for _, pos := range layer {
			inLayer.Set(pos.Index())
		}
		if inLayer.Has(catIdx) {
			f.CatLayer = inLayer
			f.CatReached = true
			f.Depth = depth
			return f
		}

		// Expand the next layer: a cell receives routes from every cell of the current
		// layer that touches it, as long as it's new to the labelling or was already
		// reached by this same expansion.
		nextLayer = nextLayer[:0]
		var inNextLayer Bitmap
		for _, pos := range layer {
			routes := f.Routes[pos.Index()]
			for _, neighbour := range neighbourTable[pos.Index()] {
				idx := neighbour.Index()
				if b.obstacles.Has(idx) {
					continue
				}
				if inNextLayer.Has(idx) {
					f.Routes[idx] += routes
					continue
				}
				if !f.Labelled.Has(idx) {
					f.Routes[idx] += routes
					f.Labelled.Set(idx)
					inNextLayer.Set(idx)
					nextLayer = append(nextLayer, neighbour)
				}
			}
		}
		layer, nextLayer = nextLayer, layer
	}
	return f
}

// BestMove returns the cat's move given the labelling: the neighbour of the cat, outside the
// layer where the cat was found, with the most routes. Ties go to the first one in the
// Pos.Neighbours order. It returns false if the cat is trapped.
func (f *RouteField) BestMove(cat Pos) (Pos, bool) {
	if !f.CatReached {
		return cat, false
	}
	var (
		best      Pos
		bestCount int
	)
	for _, neighbour := range neighbourTable[cat.Index()] {
		idx := neighbour.Index()
		if f.CatLayer.Has(idx) {
			continue
		}
		if f.Routes[idx] > bestCount {
			best, bestCount = neighbour, f.Routes[idx]
		}
	}
	if bestCount == 0 {
		return cat, false
	}
	return best, true
}

// CatMove returns where the cat moves to on the given board, or false if the cat is trapped.
// edges is the list of edge cells, usually EdgeCells().
//
// The cat doesn't look ahead: it is only reached by the labelling (see RouteField) at the
// layer of its escape distance, and it steps into the neighbour of the previous layer that is
// connected to the edge by the most routes. So it always moves along a shortest path to the edge,
// preferring the "widest" one.
//
// It must not be called when the cat is already on the edge: the game is over then.
func CatMove(b Board, edges []Pos) (Pos, bool) {
	return RouteCounts(b, edges).BestMove(b.cat)
}
