package t2048

import (
	"fmt"
	"strconv"
	"strings"
)

// Tile is a single numbered piece on the board.
// Tiles are immutable: moving or merging produces a new Tile.
type Tile struct {
	value int
	col   int
	row   int
}

// NewTile creates a tile with the given value at (col, row).
func NewTile(value, col, row int) *Tile {
	return &Tile{value: value, col: col, row: row}
}

// Moved returns a copy of the tile placed at (col, row).
func (t *Tile) Moved(col, row int) *Tile {
	return &Tile{value: t.value, col: col, row: row}
}

// Merged returns the tile formed by combining t with other at (col, row).
func (t *Tile) Merged(col, row int, other *Tile) *Tile {
	return &Tile{value: t.value + other.value, col: col, row: row}
}

// Value returns the tile's number.
func (t *Tile) Value() int {
	return t.value
}

// Col returns the tile's column (0 is the left edge).
func (t *Tile) Col() int {
	return t.col
}

// Row returns the tile's row (0 is the bottom edge).
func (t *Tile) Row() int {
	return t.row
}

func (t *Tile) String() string {
	return fmt.Sprintf("%d@(%d,%d)", t.value, t.col, t.row)
}

// ParseTile parses "value@col,row", for example "2@0,1". The
// "value@(col,row)" form printed by String is accepted too.
func ParseTile(s string) (*Tile, error) {
	value, pos, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return nil, fmt.Errorf("t2048: tile %q: want value@col,row", s)
	}
	pos = strings.TrimSuffix(strings.TrimPrefix(pos, "("), ")")
	colStr, rowStr, ok := strings.Cut(pos, ",")
	if !ok {
		return nil, fmt.Errorf("t2048: tile %q: want value@col,row", s)
	}

	v, err := strconv.Atoi(value)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("t2048: tile %q: bad value", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return nil, fmt.Errorf("t2048: tile %q: bad column", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return nil, fmt.Errorf("t2048: tile %q: bad row", s)
	}
	return NewTile(v, col, row), nil
}
