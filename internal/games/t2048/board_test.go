package t2048

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

// boardFromRows builds a board from rows listed top row first; 0 is empty.
func boardFromRows(t *testing.T, rows [][]int) *Board {
	t.Helper()
	size := len(rows)
	b := NewBoard(size)
	for i, values := range rows {
		if len(values) != size {
			t.Fatalf("row %d has %d cells, want %d", i, len(values), size)
		}
		row := size - 1 - i
		for col, v := range values {
			if v != 0 {
				b.AddTile(NewTile(v, col, row))
			}
		}
	}
	return b
}

func sumAndCount(b *Board) (sum, count int) {
	for _, row := range b.Cells() {
		for _, v := range row {
			if v != 0 {
				sum += v
				count++
			}
		}
	}
	return sum, count
}

// checkPositions verifies every tile knows the cell it sits in.
func checkPositions(t *testing.T, b *Board) {
	t.Helper()
	for col := 0; col < b.Size(); col++ {
		for row := 0; row < b.Size(); row++ {
			if tile := b.Tile(col, row); tile != nil && (tile.Col() != col || tile.Row() != row) {
				t.Fatalf("tile %v stored at (%d, %d)", tile, col, row)
			}
		}
	}
}

func randomBoard(rng *rand.Rand, size int) *Board {
	b := NewBoard(size)
	for col := 0; col < size; col++ {
		for row := 0; row < size; row++ {
			if rng.Intn(3) == 0 {
				continue
			}
			b.AddTile(NewTile(1<<(1+rng.Intn(4)), col, row))
		}
	}
	return b
}

func TestTiltSingleRow(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		expected []int
		score    int
	}{
		{
			name:     "simple merge",
			input:    []int{2, 2, 0, 0},
			expected: []int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "merge with trailing tile",
			input:    []int{2, 2, 2, 0},
			expected: []int{4, 2, 0, 0},
			score:    4,
		},
		{
			name:     "double merge",
			input:    []int{2, 2, 2, 2},
			expected: []int{4, 4, 0, 0},
			score:    8,
		},
		{
			name:     "no merge possible",
			input:    []int{2, 4, 8, 16},
			expected: []int{2, 4, 8, 16},
			score:    0,
		},
		{
			name:     "slide with gap",
			input:    []int{0, 0, 2, 2},
			expected: []int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "slide with multiple gaps",
			input:    []int{2, 0, 0, 2},
			expected: []int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "merged tile does not merge again",
			input:    []int{4, 4, 8, 0},
			expected: []int{8, 8, 0, 0},
			score:    8,
		},
		{
			name:     "no cascade after merge",
			input:    []int{2, 2, 4, 8},
			expected: []int{4, 4, 8, 0},
			score:    4,
		},
		{
			name:     "leading tile merges with the nearest equal",
			input:    []int{2, 2, 2, 4},
			expected: []int{4, 2, 4, 0},
			score:    4,
		},
		{
			name:     "no change needed",
			input:    []int{4, 2, 0, 0},
			expected: []int{4, 2, 0, 0},
			score:    0,
		},
		{
			name:     "empty row",
			input:    []int{0, 0, 0, 0},
			expected: []int{0, 0, 0, 0},
			score:    0,
		},
		{
			name:     "single tile",
			input:    []int{0, 4, 0, 0},
			expected: []int{4, 0, 0, 0},
			score:    0,
		},
	}

	empty := []int{0, 0, 0, 0}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromRows(t, [][]int{empty, empty, tt.input, empty})
			changed := b.Tilt(Left)

			got := b.Cells()[2]
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tilt(Left) row %v = %v, want %v", tt.input, got, tt.expected)
			}
			if b.Score() != tt.score {
				t.Errorf("Tilt(Left) row %v score = %d, want %d", tt.input, b.Score(), tt.score)
			}
			if wantChanged := !reflect.DeepEqual(tt.input, tt.expected); changed != wantChanged {
				t.Errorf("Tilt(Left) changed = %v, want %v", changed, wantChanged)
			}
			checkPositions(t, b)
		})
	}
}

func TestTiltAllSides(t *testing.T) {
	tests := []struct {
		side     Side
		input    [][]int
		expected [][]int
		score    int
	}{
		{
			side: Left,
			input: [][]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			expected: [][]int{
				{4, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 4, 0, 0},
				{2, 0, 0, 0},
			},
			score: 4 + 8 + 4 + 4,
		},
		{
			side: Right,
			input: [][]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			expected: [][]int{
				{0, 0, 0, 4},
				{0, 0, 0, 8},
				{0, 0, 4, 4},
				{0, 0, 0, 2},
			},
			score: 4 + 8 + 4 + 4,
		},
		{
			side: Up,
			input: [][]int{
				{2, 4, 2, 0},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 2},
			},
			expected: [][]int{
				{4, 8, 4, 2},
				{0, 0, 4, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			score: 4 + 8 + 4 + 4,
		},
		{
			side: Down,
			input: [][]int{
				{2, 4, 2, 2},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 0},
			},
			expected: [][]int{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 4, 0},
				{4, 8, 4, 2},
			},
			score: 4 + 8 + 4 + 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			b := boardFromRows(t, tt.input)
			if !b.Tilt(tt.side) {
				t.Errorf("Tilt(%v) should report a change", tt.side)
			}
			if got := b.Cells(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tilt(%v): got\n%v\nwant\n%v", tt.side, got, tt.expected)
			}
			if b.Score() != tt.score {
				t.Errorf("Tilt(%v) score = %d, want %d", tt.side, b.Score(), tt.score)
			}
			checkPositions(t, b)
		})
	}
}

func TestTiltMergeToLeftCorner(t *testing.T) {
	b := NewBoard(4)
	b.AddTile(NewTile(2, 0, 0))
	b.AddTile(NewTile(2, 1, 0))

	if !b.Tilt(Left) {
		t.Fatal("Tilt(Left) should report a change")
	}

	tile := b.Tile(0, 0)
	if tile == nil || tile.Value() != 4 {
		t.Fatalf("Tile(0, 0) = %v, want a 4", tile)
	}
	if _, count := sumAndCount(b); count != 1 {
		t.Errorf("board holds %d tiles, want 1", count)
	}
	if b.Score() != 4 {
		t.Errorf("Score() = %d, want 4", b.Score())
	}
}

func TestTiltDownMergesEachColumn(t *testing.T) {
	b := NewBoard(2)
	b.AddTile(NewTile(2, 0, 0))
	b.AddTile(NewTile(2, 0, 1))
	b.AddTile(NewTile(4, 1, 0))
	b.AddTile(NewTile(4, 1, 1))

	b.Tilt(Down)

	if got := b.Tile(0, 0); got == nil || got.Value() != 4 {
		t.Errorf("Tile(0, 0) = %v, want a 4", got)
	}
	if got := b.Tile(1, 0); got == nil || got.Value() != 8 {
		t.Errorf("Tile(1, 0) = %v, want an 8", got)
	}
	if b.Tile(0, 1) != nil || b.Tile(1, 1) != nil {
		t.Error("top row should be empty")
	}
	if b.Score() != 12 {
		t.Errorf("Score() = %d, want 12", b.Score())
	}
}

func TestTiltNoChange(t *testing.T) {
	b := boardFromRows(t, [][]int{
		{4, 2, 0, 0},
		{8, 0, 0, 0},
		{2, 4, 8, 0},
		{0, 0, 0, 0},
	})
	before := b.Cells()

	notified := 0
	b.Observe(func() { notified++ })

	if b.Tilt(Left) {
		t.Error("Tilt(Left) on a left-packed board should report no change")
	}
	if !reflect.DeepEqual(b.Cells(), before) {
		t.Errorf("board changed:\n%v\nwant\n%v", b.Cells(), before)
	}
	if b.Score() != 0 {
		t.Errorf("Score() = %d, want 0", b.Score())
	}
	if notified != 0 {
		t.Errorf("observer called %d times for an unchanged tilt", notified)
	}
}

func TestTiltIdempotentWithoutMerges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	checked := 0
	for i := 0; i < 400; i++ {
		size := 2 + i%4
		for _, side := range Sides {
			b := randomBoard(rng, size)
			b.Tilt(side)
			if b.Score() != 0 {
				// A merge can leave a new equal pair behind; see below.
				continue
			}
			checked++
			after := b.Cells()

			if b.Tilt(side) {
				t.Fatalf("second Tilt(%v) reported a change on\n%v", side, b)
			}
			if !reflect.DeepEqual(b.Cells(), after) || b.Score() != 0 {
				t.Fatalf("second Tilt(%v) modified the board", side)
			}
		}
	}
	if checked == 0 {
		t.Fatal("no merge-free boards were generated")
	}
}

func TestSecondTiltMergesNewPair(t *testing.T) {
	b := boardFromRows(t, [][]int{
		{0, 0, 0},
		{0, 0, 0},
		{2, 2, 4},
	})

	b.Tilt(Left)
	if got := b.Cells()[2]; !reflect.DeepEqual(got, []int{4, 4, 0}) {
		t.Fatalf("first Tilt(Left) = %v, want [4 4 0]", got)
	}
	if !b.Tilt(Left) {
		t.Fatal("second Tilt(Left) should merge the new pair")
	}
	if got := b.Cells()[2]; !reflect.DeepEqual(got, []int{8, 0, 0}) {
		t.Errorf("second Tilt(Left) = %v, want [8 0 0]", got)
	}
	if b.Score() != 12 {
		t.Errorf("Score() = %d, want 12", b.Score())
	}
}

func TestTiltConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		b := randomBoard(rng, 4)
		side := Sides[rng.Intn(len(Sides))]

		sumBefore, countBefore := sumAndCount(b)
		scoreBefore := b.Score()
		b.Tilt(side)
		sumAfter, countAfter := sumAndCount(b)

		if sumAfter != sumBefore {
			t.Fatalf("Tilt(%v) changed the tile sum from %d to %d", side, sumBefore, sumAfter)
		}
		merges := countBefore - countAfter
		if merges < 0 {
			t.Fatalf("Tilt(%v) created tiles", side)
		}
		gained := b.Score() - scoreBefore
		if (merges == 0) != (gained == 0) {
			t.Fatalf("Tilt(%v): %d merges but score gained %d", side, merges, gained)
		}
		// Every merge produces at least a 4.
		if gained < 4*merges {
			t.Fatalf("Tilt(%v): %d merges gained only %d", side, merges, gained)
		}
		checkPositions(t, b)
	}
}

func TestScoreMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b := NewBoard(4)
	prevScore, prevMax := 0, 0

	for i := 0; i < 2000; i++ {
		if i%400 == 399 {
			b.Clear()
			prevScore = 0
		}
		if empty := b.EmptyCells(); len(empty) > 0 {
			c := empty[rng.Intn(len(empty))]
			b.AddTile(NewTile(2, c.Col, c.Row))
		}
		b.Tilt(Sides[rng.Intn(len(Sides))])

		if b.Score() < prevScore {
			t.Fatalf("score decreased from %d to %d", prevScore, b.Score())
		}
		if b.MaxScore() < prevMax {
			t.Fatalf("max score decreased from %d to %d", prevMax, b.MaxScore())
		}
		prevScore, prevMax = b.Score(), b.MaxScore()
		checkPositions(t, b)
	}
}

func TestGameOverFullBoardNoMoves(t *testing.T) {
	b := NewBoard(2)
	b.AddTile(NewTile(2, 0, 0))
	b.AddTile(NewTile(2, 1, 0))
	b.Tilt(Left)

	b.AddTile(NewTile(2, 1, 0))
	b.AddTile(NewTile(2, 0, 1))
	if b.GameOver() {
		t.Fatal("board with an empty cell should not be game over")
	}

	b.AddTile(NewTile(4, 1, 1))
	if !b.GameOver() {
		t.Fatalf("full board with no moves should be game over:\n%v", b)
	}
	if b.MaxScore() != 4 {
		t.Errorf("MaxScore() = %d, want 4", b.MaxScore())
	}
}

func TestGameOverChecks(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int
		want bool
	}{
		{
			name: "full without moves",
			rows: [][]int{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{4, 2, 4, 2},
			},
			want: true,
		},
		{
			name: "full with horizontal merge",
			rows: [][]int{
				{2, 2, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 4, 8},
				{8, 16, 32, 64},
			},
			want: false,
		},
		{
			name: "full with vertical merge",
			rows: [][]int{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{2, 8, 16, 32},
			},
			want: false,
		},
		{
			name: "one empty cell",
			rows: [][]int{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 0, 4},
				{4, 2, 4, 2},
			},
			want: false,
		},
		{
			name: "winning tile on a sparse board",
			rows: [][]int{
				{0, 0, 0, 0},
				{0, 2048, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 2},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromRows(t, tt.rows)
			if b.GameOver() != tt.want {
				t.Errorf("GameOver() = %v, want %v for\n%v", b.GameOver(), tt.want, b)
			}
		})
	}
}

func TestWinDoesNotUpdateMaxScore(t *testing.T) {
	b := NewBoard(4)
	b.AddTile(NewTile(1024, 0, 0))
	b.AddTile(NewTile(1024, 1, 0))
	b.Tilt(Left)

	if !b.GameOver() || !b.Won() {
		t.Fatal("reaching the winning tile should end the game")
	}
	if b.Score() != 2048 {
		t.Errorf("Score() = %d, want 2048", b.Score())
	}
	if b.MaxScore() != 0 {
		t.Errorf("MaxScore() = %d, want 0: only a stuck board records the max", b.MaxScore())
	}
}

func TestClearKeepsMaxScore(t *testing.T) {
	b := boardFromRows(t, [][]int{
		{0, 0},
		{2, 2},
	})
	b.Tilt(Left)
	b.AddTile(NewTile(2, 1, 0))
	b.AddTile(NewTile(2, 0, 1))
	b.AddTile(NewTile(4, 1, 1))
	if !b.GameOver() {
		t.Fatal("expected game over")
	}

	notified := 0
	b.Observe(func() { notified++ })
	b.Clear()

	if b.Score() != 0 || b.GameOver() {
		t.Errorf("Clear() left score %d, game over %v", b.Score(), b.GameOver())
	}
	if b.MaxScore() != 4 {
		t.Errorf("MaxScore() = %d after Clear, want 4", b.MaxScore())
	}
	if len(b.EmptyCells()) != 4 {
		t.Error("Clear() should empty every cell")
	}
	if notified != 1 {
		t.Errorf("observer called %d times, want 1", notified)
	}
}

func TestWithMaxScore(t *testing.T) {
	b := NewBoard(4, WithMaxScore(1000))
	if b.MaxScore() != 1000 {
		t.Errorf("MaxScore() = %d, want 1000", b.MaxScore())
	}
	b.Clear()
	if b.MaxScore() != 1000 {
		t.Errorf("MaxScore() = %d after Clear, want 1000", b.MaxScore())
	}
}

func TestAddTilePanics(t *testing.T) {
	tests := []struct {
		name string
		tile *Tile
	}{
		{"occupied", NewTile(4, 1, 1)},
		{"column off board", NewTile(2, 4, 0)},
		{"negative row", NewTile(2, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(4)
			b.AddTile(NewTile(2, 1, 1))

			defer func() {
				if recover() == nil {
					t.Errorf("AddTile(%v) should panic", tt.tile)
				}
				if got := b.Tile(1, 1); got == nil || got.Value() != 2 {
					t.Errorf("existing tile was modified: %v", got)
				}
			}()
			b.AddTile(tt.tile)
		})
	}
}

func TestObserverNotifications(t *testing.T) {
	notified := 0
	b := NewBoard(4, WithObserver(func() { notified++ }))

	b.AddTile(NewTile(2, 0, 0))
	b.AddTile(NewTile(2, 3, 0))
	if notified != 2 {
		t.Fatalf("observer called %d times after two AddTile, want 2", notified)
	}

	b.Tilt(Left)
	if notified != 3 {
		t.Errorf("observer called %d times after a changing tilt, want 3", notified)
	}

	b.Tilt(Left)
	if notified != 3 {
		t.Errorf("observer called after a tilt that changed nothing")
	}
}

func TestCanMoveDoesNotMutate(t *testing.T) {
	b := boardFromRows(t, [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{2, 2, 0, 0},
	})
	before := b.Cells()

	if b.CanMove(Down) {
		t.Error("CanMove(Down) should be false for tiles on the bottom row")
	}
	if !b.CanMove(Left) || !b.CanMove(Up) || !b.CanMove(Right) {
		t.Error("CanMove should be true for Left, Up and Right")
	}
	if !reflect.DeepEqual(b.Cells(), before) || b.Score() != 0 {
		t.Error("CanMove modified the board")
	}
}

func TestMaxTileAndEmptyCells(t *testing.T) {
	b := boardFromRows(t, [][]int{
		{2, 0, 8, 0},
		{0, 64, 0, 256},
		{512, 0, 1024, 0},
		{0, 16, 0, 64},
	})

	if got := b.MaxTile(); got != 1024 {
		t.Errorf("MaxTile() = %d, want 1024", got)
	}
	if got := len(b.EmptyCells()); got != 8 {
		t.Errorf("EmptyCells count = %d, want 8", got)
	}
	for _, c := range b.EmptyCells() {
		if b.Tile(c.Col, c.Row) != nil {
			t.Errorf("EmptyCells returned occupied cell %v", c)
		}
	}
}

func TestBoardString(t *testing.T) {
	b := NewBoard(2)
	b.AddTile(NewTile(2, 0, 0))
	b.AddTile(NewTile(2048, 1, 1))

	want := strings.Join([]string{
		"[",
		"|    |2048|",
		"|   2|    |",
		"] 0 (max: 0)",
	}, "\n")
	if got := b.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}
