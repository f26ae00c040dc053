package t2048

import (
	"fmt"
	"strings"
)

// WinValue is the tile value that ends the game with a win.
const WinValue = 2048

// Coordinate system: column c, row r of the board, where (0, 0) is the
// lower-left corner, is stored at cells[c][r]. This is (x, y) order, not the
// usual matrix order.

// Board is the state of one game: an N×N grid of tiles, the score, the best
// score seen so far and the game-over flag.
//
// A Board is not safe for concurrent use. Observers are called synchronously
// from the mutating method and must not call Clear, AddTile or Tilt.
type Board struct {
	cells     [][]*Tile
	score     int
	maxScore  int
	gameOver  bool
	observers []func()
}

// Cell is a board position.
type Cell struct {
	Col, Row int
}

// Option configures a Board at construction.
type Option func(*Board)

// WithObserver registers fn to be called after every change to the board
// contents or score. Observers run synchronously and must not call Clear,
// AddTile or Tilt.
func WithObserver(fn func()) Option {
	return func(b *Board) {
		b.observers = append(b.observers, fn)
	}
}

// WithMaxScore starts the board with a previously recorded best score.
func WithMaxScore(score int) Option {
	return func(b *Board) {
		if score > 0 {
			b.maxScore = score
		}
	}
}

// NewBoard creates an empty size×size board with score 0.
func NewBoard(size int, opts ...Option) *Board {
	if size < 1 {
		panic(fmt.Sprintf("t2048: invalid board size %d", size))
	}
	b := &Board{cells: make([][]*Tile, size)}
	for c := range b.cells {
		b.cells[c] = make([]*Tile, size)
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Observe registers an additional change observer.
func (b *Board) Observe(fn func()) {
	b.observers = append(b.observers, fn)
}

// Size returns the number of cells on one side of the board.
func (b *Board) Size() int {
	return len(b.cells)
}

// Tile returns the tile at (col, row), or nil if the cell is empty.
func (b *Board) Tile(col, row int) *Tile {
	return b.cells[col][row]
}

// Score returns the current score.
func (b *Board) Score() int {
	return b.score
}

// MaxScore returns the best score, updated when a game ends with no moves.
func (b *Board) MaxScore() int {
	return b.maxScore
}

// GameOver reports whether the game has ended.
func (b *Board) GameOver() bool {
	return b.gameOver
}

// Won reports whether a tile with WinValue is on the board.
func (b *Board) Won() bool {
	for _, column := range b.cells {
		for _, t := range column {
			if t != nil && t.value == WinValue {
				return true
			}
		}
	}
	return false
}

// Clear empties the board and resets the score. MaxScore is kept.
func (b *Board) Clear() {
	b.score = 0
	b.gameOver = false
	for _, column := range b.cells {
		clear(column)
	}
	b.notify()
}

// AddTile places t on the board. The target cell must be on the board and
// empty; anything else is a caller bug and panics.
func (b *Board) AddTile(t *Tile) {
	if !b.inBounds(t.col, t.row) {
		panic(fmt.Sprintf("t2048: tile %v is off a %dx%d board", t, b.Size(), b.Size()))
	}
	if prev := b.cells[t.col][t.row]; prev != nil {
		panic(fmt.Sprintf("t2048: cannot add %v, cell holds %v", t, prev))
	}
	b.cells[t.col][t.row] = t
	b.checkGameOver()
	b.notify()
}

// Tilt slides every tile toward side, merging equal neighbours at most once
// per tile. It returns true iff any cell changed.
func (b *Board) Tilt(side Side) bool {
	changed := false
	for c := 0; c < b.Size(); c++ {
		colChanged, gained := b.tiltColumn(side, c)
		b.score += gained
		changed = changed || colChanged
	}
	b.checkGameOver()
	if changed {
		b.notify()
	}
	return changed
}

// tiltColumn processes one view column. It returns whether the column changed
// and the score gained by its merges.
func (b *Board) tiltColumn(side Side, vcol int) (changed bool, gained int) {
	changed = b.compact(side, vcol)
	for r := b.Size() - 1; r >= 1; r-- {
		upper := b.vtile(side, vcol, r)
		lower := b.vtile(side, vcol, r-1)
		if upper == nil || lower == nil {
			break
		}
		if upper.value != lower.value {
			continue
		}
		merged := b.mergeInto(side, vcol, r, lower)
		gained += merged.value
		b.compact(side, vcol)
		changed = true
	}
	return changed, gained
}

// compact pulls every tile of a view column toward the top, keeping order.
func (b *Board) compact(side Side, vcol int) bool {
	moved := false
	dst := b.Size() - 1
	for src := b.Size() - 1; src >= 0; src-- {
		t := b.vtile(side, vcol, src)
		if t == nil {
			continue
		}
		if src != dst {
			b.moveTo(side, vcol, dst, t)
			moved = true
		}
		dst--
	}
	return moved
}

// vtile returns the tile at view position (vcol, vrow) for side.
func (b *Board) vtile(side Side, vcol, vrow int) *Tile {
	col, row := side.ToBoard(vcol, vrow, b.Size())
	return b.cells[col][row]
}

// moveTo takes t out of its cell and places a moved copy at the empty view
// position (vcol, vrow).
func (b *Board) moveTo(side Side, vcol, vrow int, t *Tile) {
	col, row := side.ToBoard(vcol, vrow, b.Size())
	b.cells[t.col][t.row] = nil
	b.cells[col][row] = t.Moved(col, row)
}

// mergeInto takes t out of its cell and replaces the tile at view position
// (vcol, vrow) with their merge.
func (b *Board) mergeInto(side Side, vcol, vrow int, t *Tile) *Tile {
	col, row := side.ToBoard(vcol, vrow, b.Size())
	target := b.cells[col][row]
	b.cells[t.col][t.row] = nil
	merged := target.Merged(col, row, t)
	b.cells[col][row] = merged
	return merged
}

// checkGameOver recomputes the game-over flag.
//
// MaxScore only moves on the "board full, no moves" path. A game that ends by
// reaching WinValue leaves it untouched, which looks inconsistent but matches
// the established scoring behaviour.
func (b *Board) checkGameOver() {
	if b.Won() {
		b.gameOver = true
	}

	full := true
	mergeable := false
	size := b.Size()
	for col := 0; col < size; col++ {
		for row := 0; row < size; row++ {
			t := b.cells[col][row]
			if t == nil {
				full = false
				continue
			}
			if col < size-1 {
				if right := b.cells[col+1][row]; right != nil && right.value == t.value {
					mergeable = true
				}
			}
			if row < size-1 {
				if above := b.cells[col][row+1]; above != nil && above.value == t.value {
					mergeable = true
				}
			}
		}
	}

	if full && !mergeable {
		b.gameOver = true
		if b.score > b.maxScore {
			b.maxScore = b.score
		}
	}
}

func (b *Board) notify() {
	for _, fn := range b.observers {
		fn()
	}
}

func (b *Board) inBounds(col, row int) bool {
	return col >= 0 && col < b.Size() && row >= 0 && row < b.Size()
}

// EmptyCells returns the empty positions, column by column.
func (b *Board) EmptyCells() []Cell {
	var cells []Cell
	for col, column := range b.cells {
		for row, t := range column {
			if t == nil {
				cells = append(cells, Cell{Col: col, Row: row})
			}
		}
	}
	return cells
}

// MaxTile returns the highest tile value on the board, or 0 if it is empty.
func (b *Board) MaxTile() int {
	maxVal := 0
	for _, column := range b.cells {
		for _, t := range column {
			if t != nil && t.value > maxVal {
				maxVal = t.value
			}
		}
	}
	return maxVal
}

// Cells returns the tile values row by row, top row first. Empty cells are 0.
func (b *Board) Cells() [][]int {
	size := b.Size()
	out := make([][]int, size)
	for i := range out {
		out[i] = make([]int, size)
		row := size - 1 - i
		for col := 0; col < size; col++ {
			if t := b.cells[col][row]; t != nil {
				out[i][col] = t.value
			}
		}
	}
	return out
}

// Clone returns a deep copy of the board without its observers.
func (b *Board) Clone() *Board {
	cp := NewBoard(b.Size())
	for col, column := range b.cells {
		copy(cp.cells[col], column)
	}
	cp.score = b.score
	cp.maxScore = b.maxScore
	cp.gameOver = b.gameOver
	return cp
}

// CanMove reports whether tilting toward side would change the board.
func (b *Board) CanMove(side Side) bool {
	return b.Clone().Tilt(side)
}

// String renders the board top row first, followed by the score line.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("[\n")
	for row := b.Size() - 1; row >= 0; row-- {
		for col := 0; col < b.Size(); col++ {
			if t := b.cells[col][row]; t == nil {
				sb.WriteString("|    ")
			} else {
				fmt.Fprintf(&sb, "|%4d", t.value)
			}
		}
		sb.WriteString("|\n")
	}
	fmt.Fprintf(&sb, "] %d (max: %d)", b.score, b.maxScore)
	return sb.String()
}
