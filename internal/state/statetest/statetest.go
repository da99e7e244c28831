// Package statetest provides helper functions to create tests using the board state.
package statetest

import (
	"fmt"

	"github.com/gomlx/exceptions"
	. "github.com/melyshu/trapthecat/internal/state"
)

// BuildBoard with the cat at the given position and the given obstacles.
// It panics if any of the obstacles is illegal.
func BuildBoard(cat Pos, obstacles ...Pos) Board {
	b := NewBoard(cat)
	for _, pos := range obstacles {
		if !b.PlaceObstacle(pos) {
			exceptions.Panicf("statetest.BuildBoard(): can't place obstacle on %s", pos)
		}
	}
	return b
}

// MustParse parses the text representation of a board, and panics if it fails.
func MustParse(layout string) Board {
	b, err := ParseBoardString(layout)
	if err != nil {
		exceptions.Panicf("statetest.MustParse(): %+v", err)
	}
	return b
}

// PrintBoard prints the board to the standard output, with the cat position.
func PrintBoard(b Board) {
	fmt.Printf("Cat at %s:\n%s\n", b.CatPosition(), b)
}

// MirrorPos returns the position mirrored top to bottom. Rows keep their parity
// (there is an odd number of rows), so this is an exact symmetry of the grid.
func MirrorPos(pos Pos) Pos {
	return Pos{NumRows - 1 - pos.Row(), pos.Col()}
}

// Mirror returns the board mirrored top to bottom, see MirrorPos.
func Mirror(b Board) Board {
	mirrored := NewBoard(MirrorPos(b.CatPosition()))
	for pos := range AllPositions() {
		if b.IsObstructed(pos) {
			mirrored.PlaceObstacle(MirrorPos(pos))
		}
	}
	return mirrored
}

// WinnableBoards are classic openings (cat in the center, 15 random obstacles) for which
// there is a sequence of placements that traps the cat.
var WinnableBoards = []string{
	`- - - - - - - - # -
 - - - - - # - # - -
- - - - - - # - - -
 - - # - - - - - - -
- - - - - - - - # -
 - - - - C - - - # -
- # - - # - - - - -
 - - - # - - - - - -
- - - - # - - - - -
 - - - - - - - - # -
- # - # - - - - - #
`,
	`- - - - - - - - - -
 - - # - - # - - - -
- - - # # - - - - -
 - - - - - - - # # -
- - # - - - - - - -
 - - - - C # - - - -
- - - - - # - - - -
 - - - - - - - - - -
- # - - - - # - - -
 - - # # - - # - - -
- - - - - - - # - -
`,
}

// AlmostTrapped is a board where the cat at (5, 4) is enclosed except for a single gap at (4, 5),
// through which it can still escape.
const AlmostTrapped = `- - - - - - - - - -
 - - - - - - - - - -
- - - - - - - - - -
 - - - - # - - - - -
- - - # # - - - - -
 - - - # C # - - - -
- - - - # # - - - -
 - - - - # - - - - -
- - - - - - - - - -
 - - - - - - - - - -
- - - - - - - - - -
`
