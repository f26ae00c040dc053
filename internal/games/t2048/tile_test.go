package t2048

import (
	"strings"
	"testing"
)

func TestTileMoved(t *testing.T) {
	orig := NewTile(8, 1, 2)
	moved := orig.Moved(3, 0)

	if moved.Value() != 8 || moved.Col() != 3 || moved.Row() != 0 {
		t.Errorf("Moved(3, 0) = %v, want 8@(3,0)", moved)
	}
	if orig.Col() != 1 || orig.Row() != 2 {
		t.Errorf("Moved should not modify the original tile, got %v", orig)
	}
}

func TestTileMerged(t *testing.T) {
	a := NewTile(4, 0, 1)
	b := NewTile(4, 0, 0)
	merged := a.Merged(0, 3, b)

	if merged.Value() != 8 || merged.Col() != 0 || merged.Row() != 3 {
		t.Errorf("Merged = %v, want 8@(0,3)", merged)
	}
	if a.Value() != 4 || b.Value() != 4 {
		t.Error("Merged should not modify its inputs")
	}
}

func TestTileString(t *testing.T) {
	if got := NewTile(16, 2, 3).String(); got != "16@(2,3)" {
		t.Errorf("String() = %q, want 16@(2,3)", got)
	}
}

func TestParseTile(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr string
	}{
		{input: "2@0,1", want: "2@(0,1)"},
		{input: " 16@(2,3) ", want: "16@(2,3)"},
		{input: "1024@3, 0", want: "1024@(3,0)"},
		{input: "2", wantErr: "want value@col,row"},
		{input: "2@1", wantErr: "want value@col,row"},
		{input: "x@1,1", wantErr: "bad value"},
		{input: "0@1,1", wantErr: "bad value"},
		{input: "2@a,1", wantErr: "bad column"},
		{input: "2@1,", wantErr: "bad row"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tile, err := ParseTile(tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseTile(%q) error = %v, want %q", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTile(%q) failed: %v", tt.input, err)
			}
			if tile.String() != tt.want {
				t.Errorf("ParseTile(%q) = %v, want %s", tt.input, tile, tt.want)
			}
		})
	}
}
