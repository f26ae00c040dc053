package t2048

import (
	"fmt"
	"strings"
)

// Side is the edge of the board that tiles slide toward.
type Side int

const (
	Up Side = iota
	Down
	Left
	Right
)

// Sides lists every direction in a stable order.
var Sides = []Side{Up, Down, Left, Right}

// String returns the lowercase name of the side.
func (s Side) String() string {
	switch s {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Letter returns the single-letter form used in move scripts.
func (s Side) Letter() byte {
	return "UDLR"[s]
}

// ParseSide parses a side name or its first letter, ignoring case.
func ParseSide(name string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return Up, fmt.Errorf("t2048: unknown side %q", name)
}

// ParseMoves parses a move script such as "LLUD" into sides. Spaces and
// commas are ignored.
func ParseMoves(script string) ([]Side, error) {
	var sides []Side
	for i, r := range script {
		if r == ' ' || r == ',' {
			continue
		}
		side, err := ParseSide(string(r))
		if err != nil {
			return nil, fmt.Errorf("t2048: move %d: %w", i, err)
		}
		sides = append(sides, side)
	}
	return sides, nil
}

// ToBoard maps view coordinates to board coordinates on a board of the
// given size. In view space the side s is at the top, so sliding toward s
// means sliding toward increasing view row.
func (s Side) ToBoard(vcol, vrow, size int) (col, row int) {
	last := size - 1
	switch s {
	case Down:
		return last - vcol, last - vrow
	case Left:
		return last - vrow, vcol
	case Right:
		return vrow, last - vcol
	default:
		return vcol, vrow
	}
}

// ToView is the inverse of ToBoard.
func (s Side) ToView(col, row, size int) (vcol, vrow int) {
	last := size - 1
	switch s {
	case Down:
		return last - col, last - row
	case Left:
		return row, last - col
	case Right:
		return last - row, col
	default:
		return col, row
	}
}
