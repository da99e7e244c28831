// Package state holds the game state of "Trap the Cat": the hexagonal grid geometry,
// the Board, and the two pure functions the players' decisions are built on: the escape
// distance of the cat and the cat's own move policy.
package state

import (
	"math/bits"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

var (
	// ErrIllegalPlacement is returned (wrapped) by players when a placement is out of the board,
	// on an obstacle or on the cat.
	ErrIllegalPlacement = errors.New("illegal obstacle placement")

	// ErrMalformedBoard is returned (wrapped) when parsing a board text representation fails.
	ErrMalformedBoard = errors.New("malformed board")
)

// Bitmap has one bit per cell of the board, indexed by Pos.Index.
type Bitmap [2]uint64

// Has returns whether the bit for the cell with the given index is set.
func (bm *Bitmap) Has(idx int) bool {
	return bm[idx>>6]&(1<<(idx&63)) != 0
}

// Set the bit for the cell with the given index.
func (bm *Bitmap) Set(idx int) {
	bm[idx>>6] |= 1 << (idx & 63)
}

// Count returns the number of bits set.
func (bm *Bitmap) Count() int {
	return bits.OnesCount64(bm[0]) + bits.OnesCount64(bm[1])
}

// Board is the game state: the obstacles and the position of the cat.
//
// It is a plain comparable value: assigning it makes an independent copy, and two boards
// are equal (==) if they have the same obstacles and the cat in the same cell.
// The cat's cell is never obstructed.
type Board struct {
	obstacles Bitmap
	cat       Pos
}

// NewBoard creates an empty board with the cat at the given position.
// It panics if the position is not on the board.
func NewBoard(cat Pos) Board {
	if !cat.IsValid() {
		exceptions.Panicf("state.NewBoard(): cat position %s is not on the board", cat)
	}
	return Board{cat: cat}
}

// CenterPos is the geometric center of the board, where the cat traditionally starts.
// Odd rows are shifted half a cell, so (5, 4) lies exactly in the middle of the 10 columns.
var CenterPos = Pos{NumRows / 2, NumColumns/2 - 1}

// Clone returns an independent copy of the board. Since Board is a value, this is the
// same as an assignment, and it's provided for readability.
func (b Board) Clone() Board {
	return b
}

// CatPosition returns the current position of the cat.
func (b Board) CatPosition() Pos {
	return b.cat
}

// IsObstructed returns whether there is an obstacle on the given position. Positions outside
// the board are not obstructed (they are not reachable either).
func (b Board) IsObstructed(pos Pos) bool {
	if !pos.IsValid() {
		return false
	}
	return b.obstacles.Has(pos.Index())
}

// IsOpen returns whether pos is on the board and not obstructed. The cat's cell is open.
func (b Board) IsOpen(pos Pos) bool {
	return pos.IsValid() && !b.obstacles.Has(pos.Index())
}

// CanPlaceObstacle returns whether PlaceObstacle(pos) would succeed.
func (b Board) CanPlaceObstacle(pos Pos) bool {
	return b.IsOpen(pos) && pos != b.cat
}

// PlaceObstacle puts an obstacle on pos. It returns false and leaves the board unchanged if pos
// is not on the board, is already obstructed or is where the cat is.
func (b *Board) PlaceObstacle(pos Pos) bool {
	if !b.CanPlaceObstacle(pos) {
		return false
	}
	b.obstacles.Set(pos.Index())
	return true
}

// WithObstacle returns a copy of the board with an obstacle on pos. It is like PlaceObstacle,
// but it panics if the placement is illegal.
func (b Board) WithObstacle(pos Pos) Board {
	if !b.PlaceObstacle(pos) {
		exceptions.Panicf("Board.WithObstacle(%s): illegal placement", pos)
	}
	return b
}

// MoveCat moves the cat to pos. It returns false and leaves the board unchanged if pos is not
// on the board or is obstructed.
//
// It doesn't check that pos is a neighbour of the current cat position: the Cat policy is
// given by CatMove.
func (b *Board) MoveCat(pos Pos) bool {
	if !b.IsOpen(pos) {
		return false
	}
	b.cat = pos
	return true
}

// NumObstacles returns the number of obstructed cells.
func (b Board) NumObstacles() int {
	return b.obstacles.Count()
}

// CatEscaped returns whether the cat reached the edge of the board.
func (b Board) CatEscaped() bool {
	return b.cat.IsEdge()
}

// LegalPlacements returns all positions where an obstacle can be placed, in linear index order.
func (b Board) LegalPlacements() []Pos {
	positions := make([]Pos, 0, NumCells-b.NumObstacles())
	for pos := range AllPositions() {
		if b.CanPlaceObstacle(pos) {
			positions = append(positions, pos)
		}
	}
	return positions
}

// MoveCatGreedily applies the cat's policy (see CatMove) to the board.
// It returns the new cat position and true if the cat moved, or false if the cat is trapped.
func (b *Board) MoveCatGreedily() (Pos, bool) {
	next, ok := CatMove(*b, edgeCells)
	if !ok {
		return b.cat, false
	}
	b.cat = next
	return next, true
}
