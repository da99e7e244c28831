package state

import (
	"cmp"
	"fmt"
	"iter"
	"sort"

	"github.com/melyshu/trapthecat/internal/generics"
)

const (
	// NumRows of the board.
	NumRows = 11

	// NumColumns of the board.
	NumColumns = 10

	// NumCells is the total number of cells on the board.
	NumCells = NumRows * NumColumns

	// NumNeighbors of each position: the board is hexagonal.
	NumNeighbors = 6
)

// Pos packages the row, column of a cell.
//
// Odd rows are shifted half a cell to the right with respect to even rows, which
// is how the board is displayed.
type Pos [2]int8

// Row of the position.
func (pos Pos) Row() int8 {
	return pos[0]
}

// Col (column) of the position.
func (pos Pos) Col() int8 {
	return pos[1]
}

// PosFromIndex is the inverse of Pos.Index.
func PosFromIndex(idx int) Pos {
	return Pos{int8(idx / NumColumns), int8(idx % NumColumns)}
}

// Index returns the linear index of the position, row-major. Only meaningful for valid positions.
func (pos Pos) Index() int {
	return int(pos[0])*NumColumns + int(pos[1])
}

// Compare orders positions by their linear index.
func (pos Pos) Compare(pos2 Pos) int {
	return cmp.Compare(pos.Index(), pos2.Index())
}

// IsValid returns whether the position is within the board.
func (pos Pos) IsValid() bool {
	return pos[0] >= 0 && pos[0] < NumRows && pos[1] >= 0 && pos[1] < NumColumns
}

// IsEdge returns whether the position is on the outer boundary of the board.
// Reaching one of these is how the cat escapes.
func (pos Pos) IsEdge() bool {
	return pos[0] == 0 || pos[0] == NumRows-1 || pos[1] == 0 || pos[1] == NumColumns-1
}

// String returns a text representation of Pos.
func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos[0], pos[1])
}

// rawNeighbours returns the 6 candidate neighbours, valid or not, in canonical order:
// left, upper-left, upper-right, right, lower-right, lower-left.
func (pos Pos) rawNeighbours() [NumNeighbors]Pos {
	r, c := pos[0], pos[1]
	offset := (r + 1) & 1
	return [NumNeighbors]Pos{
		{r, c - 1},
		{r - 1, c - offset}, {r - 1, c - offset + 1},
		{r, c + 1},
		{r + 1, c - offset + 1}, {r + 1, c - offset},
	}
}

// neighbourTable holds the valid neighbours of every cell, indexed by Pos.Index.
var neighbourTable [NumCells][]Pos

func init() {
	for idx := range NumCells {
		pos := PosFromIndex(idx)
		list := make([]Pos, 0, NumNeighbors)
		for _, neighbour := range pos.rawNeighbours() {
			if neighbour.IsValid() {
				list = append(list, neighbour)
			}
		}
		neighbourTable[idx] = list
	}
}

// Neighbours returns the valid neighbour positions (up to 6) of the reference position.
// It returns a newly allocated slice.
//
// The order is fixed, and it is used to break ties when the cat chooses where to go:
// left, upper-left, upper-right, right, lower-right and lower-left.
func (pos Pos) Neighbours() []Pos {
	if !pos.IsValid() {
		var positions []Pos
		for _, neighbour := range pos.rawNeighbours() {
			if neighbour.IsValid() {
				positions = append(positions, neighbour)
			}
		}
		return positions
	}
	return append([]Pos(nil), neighbourTable[pos.Index()]...)
}

// AllPositions iterates over every cell of the board, in linear index order.
func AllPositions() iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for idx := range NumCells {
			if !yield(PosFromIndex(idx)) {
				return
			}
		}
	}
}

// edgeCells lists the edge positions in linear index order. Built once, never modified.
var edgeCells = func() []Pos {
	var edges []Pos
	for pos := range AllPositions() {
		if pos.IsEdge() {
			edges = append(edges, pos)
		}
	}
	return edges
}()

// EdgeCells returns a copy of the list of edge positions, in linear index order.
func EdgeCells() []Pos {
	return append([]Pos(nil), edgeCells...)
}

// SortPositions sorts by linear index.
func SortPositions(positions []Pos) {
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Index() < positions[j].Index()
	})
}

// PosStrings converts positions to their text representation.
func PosStrings(poss []Pos) []string {
	return generics.SliceMap(poss, Pos.String)
}
