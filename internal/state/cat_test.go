package state_test

import (
	"math/rand/v2"
	"testing"

	. "github.com/melyshu/trapthecat/internal/state"
	. "github.com/melyshu/trapthecat/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomBoard with the cat in a random non-edge cell and up to maxObstacles random obstacles.
func randomBoard(rng *rand.Rand, maxObstacles int) Board {
	var cat Pos
	for {
		cat = PosFromIndex(rng.IntN(NumCells))
		if !cat.IsEdge() {
			break
		}
	}
	b := NewBoard(cat)
	for range rng.IntN(maxObstacles + 1) {
		b.PlaceObstacle(PosFromIndex(rng.IntN(NumCells)))
	}
	return b
}

func TestEscapeDistance(t *testing.T) {
	empty := NewBoard(CenterPos)
	assert.Equal(t, 4, EscapeDistance(empty))

	for col, want := range []int{0, 1, 2, 3, 4, 4, 3, 2, 1, 0} {
		b := NewBoard(Pos{5, int8(col)})
		assert.Equalf(t, want, EscapeDistance(b), "cat at %s", b.CatPosition())
	}

	// Through the single gap of AlmostTrapped.
	b := MustParse(AlmostTrapped)
	assert.Equal(t, 5, EscapeDistance(b))
	b.PlaceObstacle(Pos{4, 5})
	assert.Equal(t, Unreachable, EscapeDistance(b))

	// Enclosed region larger than one cell is still unreachable.
	b = BuildBoard(Pos{5, 4},
		Pos{3, 3}, Pos{3, 4}, Pos{3, 5}, Pos{4, 3}, Pos{4, 6}, Pos{5, 2},
		Pos{5, 6}, Pos{6, 3}, Pos{6, 6}, Pos{7, 3}, Pos{7, 4}, Pos{7, 5})
	assert.Equal(t, Unreachable, EscapeDistance(b))
}

func TestEscapeDistanceProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		b := randomBoard(rng, 40)
		distance := EscapeDistance(b)
		assert.Equal(t, distance == 0, b.CatEscaped())

		// Unreachable iff the labelling from the edges never reaches the cat.
		field := RouteCounts(b, EdgeCells())
		assert.Equal(t, distance == Unreachable, !field.CatReached)
		if field.CatReached {
			// Layers of the labelling are exactly the distance to the edges.
			assert.Equal(t, distance, field.Depth)
		}
	}

	// Cat on the edge.
	assert.Equal(t, 0, EscapeDistance(NewBoard(Pos{0, 4})))
	assert.Equal(t, 0, EscapeDistance(BuildBoard(Pos{10, 9}, Pos{10, 8}, Pos{9, 8}, Pos{9, 9})))
}

func TestRouteCounts(t *testing.T) {
	b := NewBoard(CenterPos)
	field := RouteCounts(b, EdgeCells())
	require.True(t, field.CatReached)
	assert.Equal(t, 4, field.Depth)
	for _, pos := range EdgeCells() {
		assert.Equal(t, 1, field.Routes[pos.Index()])
	}
	assert.Equal(t, 3, field.Routes[Pos{1, 1}.Index()])
	assert.Equal(t, 4, field.Routes[Pos{1, 8}.Index()])
	assert.Equal(t, 25, field.Routes[Pos{4, 4}.Index()])
	assert.Equal(t, 1, field.Routes[Pos{5, 3}.Index()])

	var catLayer []Pos
	for pos := range AllPositions() {
		if field.CatLayer.Has(pos.Index()) {
			catLayer = append(catLayer, pos)
		}
	}
	assert.Equal(t, []Pos{{4, 4}, {4, 5}, {5, 4}, {5, 5}, {6, 4}, {6, 5}}, catLayer)

	// Obstructed edge cells are not sources.
	b = BuildBoard(Pos{1, 1}, Pos{0, 1}, Pos{0, 2})
	field = RouteCounts(b, EdgeCells())
	assert.Equal(t, 0, field.Routes[Pos{0, 1}.Index()])
	assert.Equal(t, 1, field.Routes[Pos{1, 0}.Index()])
}

func TestCatMove(t *testing.T) {
	// Empty board: the cat runs straight to the left edge.
	b := NewBoard(CenterPos)
	var path []Pos
	for !b.CatEscaped() {
		next, ok := b.MoveCatGreedily()
		require.True(t, ok)
		path = append(path, next)
	}
	assert.Equal(t, []Pos{{5, 3}, {5, 2}, {5, 1}, {5, 0}}, path)

	// The only way out is the gap at (4, 5).
	b = MustParse(AlmostTrapped)
	next, ok := CatMove(b, EdgeCells())
	require.True(t, ok)
	assert.Equal(t, Pos{4, 5}, next)

	// Closing the gap traps it.
	b.PlaceObstacle(Pos{4, 5})
	next, ok = b.MoveCatGreedily()
	assert.False(t, ok)
	assert.Equal(t, CenterPos, next)
	assert.Equal(t, CenterPos, b.CatPosition())

	// Fully surrounded cat.
	b = BuildBoard(CenterPos, CenterPos.Neighbours()...)
	_, ok = CatMove(b, EdgeCells())
	assert.False(t, ok)
}

func TestCatMoveProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	edges := EdgeCells()
	for range 1000 {
		b := randomBoard(rng, 50)
		cat := b.CatPosition()
		next, ok := CatMove(b, edges)
		if !ok {
			// Trapped only if enclosed.
			assert.Equal(t, Unreachable, EscapeDistance(b))
			continue
		}
		require.True(t, next.IsValid())
		require.False(t, b.IsObstructed(next))
		require.Contains(t, cat.Neighbours(), next)

		// The cat always moves along a shortest path to the edge.
		distance := EscapeDistance(b)
		require.True(t, b.MoveCat(next))
		assert.Equal(t, distance-1, EscapeDistance(b))
	}
}

func TestCatMoveMirror(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	edges := EdgeCells()
	numUnique := 0
	for range 1000 {
		b := randomBoard(rng, 30)
		mirrored := Mirror(b)
		require.Equal(t, EscapeDistance(b), EscapeDistance(mirrored))

		field := RouteCounts(b, edges)
		mirroredField := RouteCounts(mirrored, edges)
		require.Equal(t, field.CatReached, mirroredField.CatReached)
		for pos := range AllPositions() {
			require.Equalf(t, field.Routes[pos.Index()], mirroredField.Routes[MirrorPos(pos).Index()],
				"routes differ for %s and its mirror %s", pos, MirrorPos(pos))
		}

		next, ok := field.BestMove(b.CatPosition())
		mirroredNext, mirroredOk := mirroredField.BestMove(mirrored.CatPosition())
		require.Equal(t, ok, mirroredOk)
		if !ok {
			continue
		}

		// The order of the neighbours is mirrored too (upper-left becomes lower-left), so
		// the moves are only guaranteed to mirror each other if there is no tie.
		best := field.Routes[next.Index()]
		numBest := 0
		for _, neighbour := range b.CatPosition().Neighbours() {
			if !field.CatLayer.Has(neighbour.Index()) && field.Routes[neighbour.Index()] == best {
				numBest++
			}
		}
		if numBest == 1 {
			numUnique++
			assert.Equal(t, MirrorPos(next), mirroredNext)
		}
	}
	assert.Greater(t, numUnique, 100)
}
