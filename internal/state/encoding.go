package state

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Symbols used in the text representation of a board.
const (
	SymbolCat      = 'C'
	SymbolObstacle = '#'
	SymbolEmpty    = '-'
)

// ParseBoard reads a board in its text representation: NumRows non-blank lines, each with
// NumColumns symbols out of 'C' (the cat), '#' (an obstacle) or '-' (empty).
// Whitespace is ignored (odd rows are usually indented by one space), and so are blank lines.
//
// Errors wrap ErrMalformedBoard.
func ParseBoard(r io.Reader) (Board, error) {
	var b Board
	scanner := bufio.NewScanner(r)
	row, lineNum := 0, 0
	catFound := false
	for scanner.Scan() {
		lineNum++
		symbols := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, scanner.Text())
		if symbols == "" {
			continue
		}
		if row >= NumRows {
			return Board{}, errors.Wrapf(ErrMalformedBoard, "line %d: more than %d rows", lineNum, NumRows)
		}
		if len(symbols) != NumColumns {
			return Board{}, errors.Wrapf(ErrMalformedBoard, "line %d (row %d): %d columns found, wanted %d",
				lineNum, row, len(symbols), NumColumns)
		}
		for col, s := range []byte(symbols) {
			pos := Pos{int8(row), int8(col)}
			switch s {
			case SymbolCat:
				if catFound {
					return Board{}, errors.Wrapf(ErrMalformedBoard, "line %d: second cat found at %s, previous at %s",
						lineNum, pos, b.cat)
				}
				catFound = true
				b.cat = pos
			case SymbolObstacle:
				b.obstacles.Set(pos.Index())
			case SymbolEmpty:
				// Nothing to do.
			default:
				return Board{}, errors.Wrapf(ErrMalformedBoard, "line %d: unexpected symbol %q at %s",
					lineNum, s, pos)
			}
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return Board{}, errors.Wrapf(err, "failed to read board")
	}
	if row != NumRows {
		return Board{}, errors.Wrapf(ErrMalformedBoard, "%d rows found, wanted %d", row, NumRows)
	}
	if !catFound {
		return Board{}, errors.Wrapf(ErrMalformedBoard, "no cat ('%c') found", SymbolCat)
	}
	return b, nil
}

// ParseBoardString is like ParseBoard, but reading from a string.
func ParseBoardString(s string) (Board, error) {
	return ParseBoard(strings.NewReader(s))
}

// Symbol returns the symbol used to represent the given position of the board.
func (b Board) Symbol(pos Pos) byte {
	switch {
	case pos == b.cat:
		return SymbolCat
	case b.IsObstructed(pos):
		return SymbolObstacle
	default:
		return SymbolEmpty
	}
}

// String returns the text representation of the board, in the format read by ParseBoard:
// symbols separated by one space, odd rows indented by one space, and a new line after each row.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(NumRows * (2*NumColumns + 1))
	for row := range int8(NumRows) {
		if row%2 == 1 {
			sb.WriteByte(' ')
		}
		for col := range int8(NumColumns) {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(b.Symbol(Pos{row, col}))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
